// Package survey holds the in-memory reductions over fetched survey data:
// per-question result aggregation and side-by-side response comparison.
package survey

import (
	"math"

	"github.com/mverdi/surveyor/model"
)

type OptionCount struct {
	Option  string `json:"option"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

type QuestionResult struct {
	QuestionID int                `json:"question_id"`
	Prompt     string             `json:"prompt"`
	Type       model.QuestionType `json:"type"`

	// Total counts answers to this question, not selections: a
	// multiple-choice answer contributes once however many options it ticks.
	Total   int           `json:"total"`
	Options []OptionCount `json:"options,omitempty"`
	Texts   []string      `json:"texts,omitempty"`
}

// Aggregate tallies the full answer set of a survey per question, in the
// questions' display order. Choice questions report a count and percentage
// share for every declared option, zero-count options included; selections
// not matching any declared option are skipped. Free-text questions report
// the submitted values in arrival order, so answers must be passed in the
// order they were collected.
func Aggregate(questions []model.Question, answers []model.Answer) []QuestionResult {
	byQuestion := make(map[int][]model.Answer)
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}

	results := make([]QuestionResult, 0, len(questions))
	for _, q := range questions {
		qa := byQuestion[q.ID]

		result := QuestionResult{
			QuestionID: q.ID,
			Prompt:     q.Prompt,
			Type:       q.Type,
			Total:      len(qa),
		}

		switch q.Type {
		case model.SingleChoice, model.MultipleChoice:
			result.Options = tallyOptions(q, qa)
		case model.FreeText:
			result.Texts = collectTexts(qa)
		}

		results = append(results, result)
	}
	return results
}

// tallyOptions seeds counters from the question's declared options, so
// zero-count options still show up and shares stay comparable across the
// whole authored option set.
func tallyOptions(q model.Question, answers []model.Answer) []OptionCount {
	counts := make(map[string]int, len(q.Options))
	for _, opt := range q.Options {
		counts[opt] = 0
	}

	for _, a := range answers {
		for _, selected := range a.Selections() {
			if _, declared := counts[selected]; declared {
				counts[selected]++
			}
			// selections referencing no declared option are dropped
		}
	}

	tallied := make([]OptionCount, len(q.Options))
	for i, opt := range q.Options {
		tallied[i] = OptionCount{
			Option:  opt,
			Count:   counts[opt],
			Percent: percent(counts[opt], len(answers)),
		}
	}
	return tallied
}

func collectTexts(answers []model.Answer) []string {
	texts := make([]string, 0, len(answers))
	for _, a := range answers {
		texts = append(texts, a.Text())
	}
	return texts
}

// percent is the rounded share of count over total; a question with no
// answers yet reads 0%, never a division error.
func percent(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

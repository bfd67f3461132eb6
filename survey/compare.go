package survey

import "github.com/mverdi/surveyor/model"

// MaxCompared caps how many responses can sit side by side in one view.
const MaxCompared = 3

type ComparisonCell struct {
	ResponseID int  `json:"response_id"`
	Answered   bool `json:"answered"`
	Value      any  `json:"value,omitempty"`
}

type ComparisonRow struct {
	QuestionID int              `json:"question_id"`
	Prompt     string           `json:"prompt"`
	Cells      []ComparisonCell `json:"answers"`
}

type Comparison struct {
	// false when fewer than two responses are selected; the view shows
	// a "nothing to compare" state rather than an error
	Comparable  bool            `json:"comparable"`
	ResponseIDs []int           `json:"response_ids"`
	Rows        []ComparisonRow `json:"rows"`
}

// DefaultSelection picks which responses to compare when the caller did not
// choose: the two most recent if there are two or more, the single one if
// there is one, nothing otherwise. History must be ordered newest-first.
func DefaultSelection(history []model.Response) []int {
	n := len(history)
	if n > 2 {
		n = 2
	}

	selected := make([]int, 0, n)
	for _, r := range history[:n] {
		selected = append(selected, r.ID)
	}
	return selected
}

// Compare aligns the selected responses' answers by question, in the
// questions' display order. A question one response never answered shows
// an explicit unanswered cell so columns stay in step.
func Compare(questions []model.Question, responses []model.Response) Comparison {
	comparison := Comparison{
		Comparable:  len(responses) >= 2,
		ResponseIDs: make([]int, 0, len(responses)),
		Rows:        make([]ComparisonRow, 0, len(questions)),
	}

	answersByResponse := make([]map[int]model.Answer, len(responses))
	for i, r := range responses {
		comparison.ResponseIDs = append(comparison.ResponseIDs, r.ID)

		answersByResponse[i] = make(map[int]model.Answer, len(r.Answers))
		for _, a := range r.Answers {
			answersByResponse[i][a.QuestionID] = a
		}
	}

	for _, q := range questions {
		row := ComparisonRow{
			QuestionID: q.ID,
			Prompt:     q.Prompt,
			Cells:      make([]ComparisonCell, len(responses)),
		}

		for i, r := range responses {
			cell := ComparisonCell{ResponseID: r.ID}
			if a, ok := answersByResponse[i][q.ID]; ok && !a.Empty() {
				cell.Answered = true
				cell.Value = a.Value
			}
			row.Cells[i] = cell
		}

		comparison.Rows = append(comparison.Rows, row)
	}

	return comparison
}

package survey

import (
	"testing"

	"github.com/mverdi/surveyor/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleChoice(id int, prompt string, options ...string) model.Question {
	return model.Question{ID: id, Type: model.SingleChoice, Prompt: prompt, Options: options}
}

func TestAggregateSingleChoice(t *testing.T) {
	questions := []model.Question{singleChoice(1, "Favorite letter?", "A", "B")}
	answers := []model.Answer{
		{QuestionID: 1, Value: "A"},
		{QuestionID: 1, Value: "A"},
		{QuestionID: 1, Value: "B"},
	}

	results := Aggregate(questions, answers)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, []OptionCount{
		{Option: "A", Count: 2, Percent: 67},
		{Option: "B", Count: 1, Percent: 33},
	}, result.Options)
}

func TestAggregateReportsEveryDeclaredOption(t *testing.T) {
	questions := []model.Question{singleChoice(1, "Pick one", "red", "green", "blue")}
	answers := []model.Answer{
		{QuestionID: 1, Value: "red"},
		{QuestionID: 1, Value: "red"},
	}

	results := Aggregate(questions, answers)
	require.Len(t, results, 1)
	require.Len(t, results[0].Options, 3, "zero-count options must still be reported")

	assert.Equal(t, OptionCount{Option: "green", Count: 0, Percent: 0}, results[0].Options[1])
	assert.Equal(t, OptionCount{Option: "blue", Count: 0, Percent: 0}, results[0].Options[2])
}

func TestAggregateSingleChoiceCountsSumToTotal(t *testing.T) {
	questions := []model.Question{singleChoice(1, "Pick one", "a", "b", "c")}
	answers := []model.Answer{
		{QuestionID: 1, Value: "a"},
		{QuestionID: 1, Value: "c"},
		{QuestionID: 1, Value: "c"},
		{QuestionID: 1, Value: "b"},
	}

	results := Aggregate(questions, answers)

	sum := 0
	for _, opt := range results[0].Options {
		sum += opt.Count
	}
	assert.Equal(t, results[0].Total, sum)
}

func TestAggregateMultipleChoiceCountsEverySelection(t *testing.T) {
	questions := []model.Question{{
		ID: 1, Type: model.MultipleChoice, Prompt: "Pick any",
		Options: []string{"a", "b", "c"},
	}}
	answers := []model.Answer{
		{QuestionID: 1, Value: []string{"a", "b"}},
		{QuestionID: 1, Value: []string{"a", "c"}},
	}

	results := Aggregate(questions, answers)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, 2, result.Total, "total counts answers, not selections")

	sum := 0
	for _, opt := range result.Options {
		sum += opt.Count
	}
	assert.Equal(t, 4, sum, "selection sum may exceed the answer count")
	assert.Equal(t, OptionCount{Option: "a", Count: 2, Percent: 100}, result.Options[0])
	assert.Equal(t, OptionCount{Option: "b", Count: 1, Percent: 50}, result.Options[1])
}

func TestAggregateNoAnswersYieldsZeroPercent(t *testing.T) {
	questions := []model.Question{singleChoice(1, "Anyone?", "yes", "no")}

	results := Aggregate(questions, nil)
	require.Len(t, results, 1)

	assert.Equal(t, 0, results[0].Total)
	for _, opt := range results[0].Options {
		assert.Equal(t, 0, opt.Count)
		assert.Equal(t, 0, opt.Percent)
	}
}

func TestAggregateIgnoresUndeclaredSelections(t *testing.T) {
	questions := []model.Question{singleChoice(1, "Pick one", "a", "b")}
	answers := []model.Answer{
		{QuestionID: 1, Value: "a"},
		{QuestionID: 1, Value: "z"}, // no such option
	}

	results := Aggregate(questions, answers)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, OptionCount{Option: "a", Count: 1, Percent: 50}, result.Options[0])
	assert.Equal(t, OptionCount{Option: "b", Count: 0, Percent: 0}, result.Options[1])
}

func TestAggregateFreeTextKeepsArrivalOrder(t *testing.T) {
	questions := []model.Question{{ID: 1, Type: model.FreeText, Prompt: "Thoughts?"}}
	answers := []model.Answer{
		{QuestionID: 1, Value: "first"},
		{QuestionID: 1, Value: "second"},
		{QuestionID: 1, Value: "third"},
	}

	results := Aggregate(questions, answers)
	require.Len(t, results, 1)

	assert.Equal(t, 3, results[0].Total)
	assert.Equal(t, []string{"first", "second", "third"}, results[0].Texts)
	assert.Empty(t, results[0].Options)
}

func TestAggregateKeepsQuestionOrder(t *testing.T) {
	questions := []model.Question{
		singleChoice(2, "Second", "a", "b"),
		singleChoice(1, "First", "a", "b"),
	}

	results := Aggregate(questions, nil)
	require.Len(t, results, 2)
	assert.Equal(t, "Second", results[0].Prompt)
	assert.Equal(t, "First", results[1].Prompt)
}

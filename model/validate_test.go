package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSurvey() Survey {
	return Survey{
		Title: "Team lunch",
		Questions: []Question{
			{Type: SingleChoice, Prompt: "Where to?", Options: []string{"sushi", "pizza"}},
			{Type: FreeText, Prompt: "Anything else?"},
		},
	}
}

func TestValidateAcceptsWellFormedSurvey(t *testing.T) {
	assert.NoError(t, validSurvey().Validate())
}

func TestValidateSurvey(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Survey)
		field   string
		message string
	}{
		{
			name:   "empty title",
			mutate: func(s *Survey) { s.Title = "  " },
			field:  "title",
		},
		{
			name:   "no questions",
			mutate: func(s *Survey) { s.Questions = nil },
			field:  "questions",
		},
		{
			name:   "blank question text",
			mutate: func(s *Survey) { s.Questions[1].Prompt = "" },
			field:  "questions[1].prompt",
		},
		{
			name:   "single choice with one option",
			mutate: func(s *Survey) { s.Questions[0].Options = []string{"sushi"} },
			field:  "questions[0].options",
		},
		{
			name: "multiple choice with no options",
			mutate: func(s *Survey) {
				s.Questions[0].Type = MultipleChoice
				s.Questions[0].Options = nil
			},
			field: "questions[0].options",
		},
		{
			name:   "unknown question type",
			mutate: func(s *Survey) { s.Questions[0].Type = "ranking" },
			field:  "questions[0].type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSurvey()
			tt.mutate(&s)

			err := s.Validate()
			require.Error(t, err)

			fe, ok := FirstFieldError(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, fe.Field)
			assert.NotEmpty(t, fe.Message)
		})
	}
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	s := Survey{}

	err := s.Validate()
	require.Error(t, err)

	// first failure is the one reported to the caller
	fe, ok := FirstFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "title", fe.Field)
}

func TestValidateAnswersRequired(t *testing.T) {
	questions := []Question{
		{ID: 1, Type: FreeText, Prompt: "Your name", Required: true},
		{ID: 2, Type: SingleChoice, Prompt: "Pick one", Options: []string{"a", "b"}},
	}

	tests := []struct {
		name    string
		answers []Answer
		ok      bool
	}{
		{"all answered", []Answer{{QuestionID: 1, Value: "Ada"}}, true},
		{"required missing", []Answer{{QuestionID: 2, Value: "a"}}, false},
		{"required blank", []Answer{{QuestionID: 1, Value: "   "}}, false},
		{"required nil", []Answer{{QuestionID: 1, Value: nil}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAnswers(questions, tt.answers)
			if tt.ok {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			fe, ok := FirstFieldError(err)
			require.True(t, ok)
			assert.Equal(t, "Your name", fe.Field, "failure is reported by question text")
			assert.Contains(t, fe.Message, "Your name")
		})
	}
}

func TestValidateAnswersRequiredMultiSelect(t *testing.T) {
	questions := []Question{
		{ID: 1, Type: MultipleChoice, Prompt: "Pick any", Required: true, Options: []string{"a", "b"}},
	}

	err := ValidateAnswers(questions, []Answer{{QuestionID: 1, Value: []any{}}})
	require.Error(t, err)

	err = ValidateAnswers(questions, []Answer{{QuestionID: 1, Value: []any{"a"}}})
	assert.NoError(t, err)
}

func TestValidateAnswersRejectsUnknownQuestion(t *testing.T) {
	questions := []Question{{ID: 1, Type: FreeText, Prompt: "Your name"}}

	err := ValidateAnswers(questions, []Answer{{QuestionID: 99, Value: "stray"}})
	require.Error(t, err)
}

func TestValidateAnswersRejectsMismatchedShape(t *testing.T) {
	questions := []Question{
		{ID: 1, Type: SingleChoice, Prompt: "Pick one", Options: []string{"a", "b"}},
		{ID: 2, Type: MultipleChoice, Prompt: "Pick any", Options: []string{"a", "b"}},
	}

	err := ValidateAnswers(questions, []Answer{{QuestionID: 1, Value: []any{"a"}}})
	require.Error(t, err)

	err = ValidateAnswers(questions, []Answer{{QuestionID: 2, Value: "a"}})
	require.Error(t, err)
}

func TestValidateAnswersRejectsDuplicateAnswer(t *testing.T) {
	questions := []Question{{ID: 1, Type: FreeText, Prompt: "Your name"}}

	err := ValidateAnswers(questions, []Answer{
		{QuestionID: 1, Value: "Ada"},
		{QuestionID: 1, Value: "Grace"},
	})
	require.Error(t, err)
}

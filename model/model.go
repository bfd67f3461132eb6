package model

import "time"

type QuestionType string

const (
	SingleChoice   QuestionType = "single_choice"
	MultipleChoice QuestionType = "multiple_choice"
	FreeText       QuestionType = "text"
)

type Survey struct {
	ID          int        `json:"id,omitempty"`
	Owner       string     `json:"owner,omitempty"`
	OwnerID     int        `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Active      bool       `json:"active"`
	CreatedAt   time.Time  `json:"created_at,omitempty"`
	Questions   []Question `json:"questions,omitempty"`

	// true when the current user already has a response on file
	Submitted bool `json:"submitted,omitempty"`
}

type Question struct {
	ID       int          `json:"id,omitempty"`
	Type     QuestionType `json:"type"`
	Prompt   string       `json:"prompt"`
	Required bool         `json:"required"`
	Options  []string     `json:"options,omitempty"`
	Position int          `json:"position"`
}

type Response struct {
	ID           int       `json:"id,omitempty"`
	SurveyID     int       `json:"survey_id,omitempty"`
	RespondentID int       `json:"-"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Answers      []Answer  `json:"answers,omitempty"`
}

// Answer holds one respondent's value for one question: a string for
// single-choice and free-text questions, a list of strings for
// multiple-choice. Values travel as JSON both on the wire and in the db.
type Answer struct {
	ID         int `json:"id,omitempty"`
	QuestionID int `json:"question_id"`
	Value      any `json:"value"`
}

// Selections normalizes an answer value to the list of selected options:
// one element for a single string, the string elements of a list for a
// multi-select. Anything else yields nil.
func (a Answer) Selections() []string {
	switch v := a.Value.(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		selected := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				selected = append(selected, s)
			}
		}
		return selected
	}
	return nil
}

// Text returns the answer value as free text, or "" when it is not a string.
func (a Answer) Text() string {
	if s, ok := a.Value.(string); ok {
		return s
	}
	return ""
}

// Empty reports whether the answer carries no usable value: nil, a blank
// string, or an empty list.
func (a Answer) Empty() bool {
	switch v := a.Value.(type) {
	case nil:
		return true
	case string:
		return isBlank(v)
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

package model

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// FieldError ties a validation message to the offending field, so the
// client can keep the form editable and point at what to fix.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FirstFieldError unwraps the first FieldError out of a validation result.
// Validation accumulates every problem, but the API reports one at a time.
func FirstFieldError(err error) (FieldError, bool) {
	var merr *multierror.Error
	switch e := err.(type) {
	case FieldError:
		return e, true
	case *multierror.Error:
		merr = e
	default:
		return FieldError{}, false
	}

	for _, e := range merr.Errors {
		if fe, ok := e.(FieldError); ok {
			return fe, true
		}
	}
	return FieldError{}, false
}

// Validate checks a survey before anything is written: non-empty title,
// at least one question, and per question a non-empty prompt, a known type
// and at least two options on choice questions.
func (s Survey) Validate() error {
	var errs *multierror.Error

	if isBlank(s.Title) {
		errs = multierror.Append(errs, FieldError{"title", "title must not be empty"})
	}
	if len(s.Questions) == 0 {
		errs = multierror.Append(errs, FieldError{"questions", "a survey needs at least one question"})
	}

	for i, q := range s.Questions {
		field := fmt.Sprintf("questions[%d]", i)

		if isBlank(q.Prompt) {
			errs = multierror.Append(errs, FieldError{field + ".prompt", "question text must not be empty"})
		}

		switch q.Type {
		case SingleChoice, MultipleChoice:
			if len(q.Options) < 2 {
				errs = multierror.Append(errs, FieldError{field + ".options", "choice questions need at least two options"})
			}
		case FreeText:
			// no options to check
		default:
			errs = multierror.Append(errs, FieldError{field + ".type", fmt.Sprintf("unknown question type %q", q.Type)})
		}
	}

	return errs.ErrorOrNil()
}

// ValidateAnswers checks a submission against the survey's questions.
// Answers to unknown questions are rejected; value shapes must match the
// question type; every required question must carry a non-empty value.
// The first unmet requirement is reported by question text.
func ValidateAnswers(questions []Question, answers []Answer) error {
	byQuestion := make(map[int]Answer, len(answers))
	known := make(map[int]Question, len(questions))
	for _, q := range questions {
		known[q.ID] = q
	}

	for _, a := range answers {
		q, ok := known[a.QuestionID]
		if !ok {
			return FieldError{
				Field:   fmt.Sprintf("answers[%d]", a.QuestionID),
				Message: "answer does not match any question of this survey",
			}
		}
		if _, dup := byQuestion[a.QuestionID]; dup {
			return FieldError{
				Field:   q.Prompt,
				Message: fmt.Sprintf("question %q was answered more than once", q.Prompt),
			}
		}
		if err := checkShape(q, a); err != nil {
			return err
		}
		byQuestion[a.QuestionID] = a
	}

	for _, q := range questions {
		if !q.Required {
			continue
		}
		a, ok := byQuestion[q.ID]
		if !ok || a.Empty() {
			return FieldError{
				Field:   q.Prompt,
				Message: fmt.Sprintf("question %q requires an answer", q.Prompt),
			}
		}
	}

	return nil
}

func checkShape(q Question, a Answer) error {
	if a.Value == nil {
		return nil
	}

	switch q.Type {
	case SingleChoice, FreeText:
		if _, ok := a.Value.(string); !ok {
			return FieldError{
				Field:   q.Prompt,
				Message: fmt.Sprintf("question %q expects a single value", q.Prompt),
			}
		}
	case MultipleChoice:
		switch a.Value.(type) {
		case []string, []any:
		default:
			return FieldError{
				Field:   q.Prompt,
				Message: fmt.Sprintf("question %q expects a list of values", q.Prompt),
			}
		}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

package routes

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mverdi/surveyor/model"
)

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// surveyOwner resolves a survey's owner and active flag; sql.ErrNoRows
// doubles as the not-found signal.
func surveyOwner(ctx context.Context, db queryer, surveyId int) (ownerId int, active bool, err error) {
	err = db.
		QueryRowContext(ctx, "SELECT owner_id, active FROM survey WHERE id = ?", surveyId).
		Scan(&ownerId, &active)
	return
}

func loadQuestions(ctx context.Context, db queryer, surveyId int) ([]model.Question, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT q.id, q.type, q.prompt, q.required, COALESCE(q.options, ''), q.position
		FROM question q
		WHERE q.survey_id = ?
		ORDER BY q.position`,
		surveyId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		q := model.Question{}
		var opts string
		err = rows.Scan(&q.ID, &q.Type, &q.Prompt, &q.Required, &opts, &q.Position)
		if err != nil {
			return nil, err
		}

		if opts != "" {
			err = json.Unmarshal([]byte(opts), &q.Options)
			if err != nil {
				return nil, err
			}
		}

		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// loadSurveyAnswers fetches every answer submitted against a survey, in
// arrival order (responses first, then answers within each response).
func loadSurveyAnswers(ctx context.Context, db queryer, surveyId int) ([]model.Answer, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT a.id, a.question_id, COALESCE(a.value, '')
		FROM answer a
		INNER JOIN response r ON (r.id = a.response_id)
		WHERE r.survey_id = ?
		ORDER BY r.id, a.id`,
		surveyId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnswers(rows)
}

func loadResponseAnswers(ctx context.Context, db queryer, responseId int) ([]model.Answer, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT a.id, a.question_id, COALESCE(a.value, '')
		FROM answer a
		WHERE a.response_id = ?
		ORDER BY a.id`,
		responseId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAnswers(rows)
}

func scanAnswers(rows *sql.Rows) ([]model.Answer, error) {
	answers := []model.Answer{}
	for rows.Next() {
		a := model.Answer{}
		var value string
		err := rows.Scan(&a.ID, &a.QuestionID, &value)
		if err != nil {
			return nil, err
		}

		if value != "" {
			err = json.Unmarshal([]byte(value), &a.Value)
			if err != nil {
				return nil, err
			}
		}

		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// loadResponseHistory lists a respondent's responses to a survey,
// newest-first, without their answers.
func loadResponseHistory(ctx context.Context, db queryer, surveyId, respondentId int) ([]model.Response, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, submitted_at
		FROM response
		WHERE survey_id = ?
			AND respondent_id = ?
		ORDER BY submitted_at DESC, id DESC`,
		surveyId,
		respondentId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := []model.Response{}
	for rows.Next() {
		resp := model.Response{SurveyID: surveyId, RespondentID: respondentId}
		err = rows.Scan(&resp.ID, &resp.SubmittedAt)
		if err != nil {
			return nil, err
		}
		history = append(history, resp)
	}
	return history, rows.Err()
}

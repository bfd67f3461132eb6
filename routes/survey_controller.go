package routes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mverdi/surveyor/app"
	"github.com/mverdi/surveyor/httpx"
	"github.com/mverdi/surveyor/log"
	"github.com/mverdi/surveyor/model"
	"github.com/mverdi/surveyor/routes/middlewares"
)

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middlewares.CurrentUser(r)
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "auth.current_user")
			return
		}

		s := model.Survey{}
		err := render.DecodeJSON(r.Body, &s)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		if err := s.Validate(); err != nil {
			fe, _ := model.FirstFieldError(err)
			httpx.LogValidationError(w, r, "create_survey.validate", fe.Field, fe.Message)
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		var surveyId int
		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO survey (owner_id, title, description, active) VALUES (?, ?, ?, TRUE)
			RETURNING id`,
			user.ID,
			s.Title,
			s.Description,
		).Scan(&surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey", err)
			return
		}

		stmt, err := tx.PrepareContext(r.Context(), `
			INSERT INTO question (survey_id, position, type, prompt, required, options)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey.questions.prepare", err)
			return
		}
		defer stmt.Close()

		for i, q := range s.Questions {
			var optionsJson []byte
			if len(q.Options) > 0 {
				optionsJson, err = json.Marshal(q.Options)
				if err != nil {
					httpx.LogInternalError(w, "db.insert_survey.questions.marshal_options", err)
					return
				}
			}
			_, err := stmt.ExecContext(r.Context(), surveyId, i, q.Type, q.Prompt, q.Required, string(optionsJson))
			if err != nil {
				httpx.LogInternalError(w, "db.insert_survey.questions.insert", err)
				return
			}
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_survey.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": surveyId,
		})
	}
}

func ListSurveys(app app.App) http.HandlerFunc {
	type listedSurvey struct {
		model.Survey
		QuestionCount int `json:"question_count"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := app.QueryContext(r.Context(), `
			SELECT s.id, s.title, s.description, u.username, COUNT(q.id)
			FROM survey s
			INNER JOIN user u ON (u.id = s.owner_id)
			LEFT OUTER JOIN question q ON (s.id = q.survey_id)
			WHERE s.active
			GROUP BY s.id, s.title, s.description, u.username
			ORDER BY s.id`)
		if err != nil {
			httpx.LogInternalError(w, "db.get_surveys", err)
			return
		}
		defer rows.Close()

		surveys := []listedSurvey{}
		for rows.Next() {
			s := listedSurvey{}
			err = rows.Scan(&s.ID, &s.Title, &s.Description, &s.Owner, &s.QuestionCount)
			if err != nil {
				httpx.LogInternalError(w, "db.get_surveys.scan", err)
				return
			}
			s.Active = true

			surveys = append(surveys, s)
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func GetSurveyByID(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middlewares.CurrentUser(r)
		if !ok {
			httpx.LogStatus(w, http.StatusUnauthorized, log.DebugLevel, "auth.current_user")
			return
		}

		surveyId, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		s := model.Survey{ID: surveyId}
		err = app.QueryRowContext(r.Context(), `
			SELECT s.title, s.description, s.active, u.username
			FROM survey s
			INNER JOIN user u ON (u.id = s.owner_id)
			WHERE s.id = ?`,
			surveyId,
		).Scan(&s.Title, &s.Description, &s.Active, &s.Owner)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_survey", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		s.Questions, err = loadQuestions(r.Context(), app.DB, surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey.questions", err)
			return
		}

		err = app.QueryRowContext(r.Context(), `
			SELECT EXISTS (
				SELECT 1 FROM response
				WHERE survey_id = ?
					AND respondent_id = ?
			)`,
			surveyId,
			user.ID,
		).Scan(&s.Submitted)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey.submitted", err)
			return
		}

		render.JSON(w, r, s)
	}
}

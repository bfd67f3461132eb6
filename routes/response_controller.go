package routes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mverdi/surveyor/app"
	"github.com/mverdi/surveyor/database"
	"github.com/mverdi/surveyor/httpx"
	"github.com/mverdi/surveyor/log"
	"github.com/mverdi/surveyor/model"
	"github.com/mverdi/surveyor/routes/middlewares"
)

func SubmitResponse(app app.App) http.HandlerFunc {
	type submission struct {
		Answers []model.Answer `json:"answers"`
	}

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

		sub := submission{}
		err = render.DecodeJSON(r.Body, &sub)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		_, active, err := surveyOwner(r.Context(), app.DB, surveyId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "submit_response.get_survey", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}
		if !active {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "submit_response.inactive", "survey is not accepting responses")
			return
		}

		questions, err := loadQuestions(r.Context(), app.DB, surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey.questions", err)
			return
		}

		if err := model.ValidateAnswers(questions, sub.Answers); err != nil {
			fe, _ := model.FirstFieldError(err)
			httpx.LogValidationError(w, r, "submit_response.validate", fe.Field, fe.Message)
			return
		}

		// one response per respondent per survey; the UNIQUE constraint
		// below catches the race this pre-check leaves open
		var alreadySubmitted bool
		err = app.QueryRowContext(r.Context(), `
			SELECT EXISTS (
				SELECT 1 FROM response
				WHERE survey_id = ?
					AND respondent_id = ?
			)`,
			surveyId,
			user.ID,
		).Scan(&alreadySubmitted)
		if err != nil {
			httpx.LogInternalError(w, "db.get_response.scan", err)
			return
		}
		if alreadySubmitted {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "submit_response.duplicate", "a response is already on file for this survey")
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		var responseId int
		err = tx.QueryRowContext(r.Context(), `
			INSERT INTO response (survey_id, respondent_id, submitted_at) VALUES (?, ?, ?)
			RETURNING id`,
			surveyId,
			user.ID,
			time.Now(),
		).Scan(&responseId)
		if err != nil {
			if database.IsUniqueViolation(err) {
				httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "submit_response.duplicate", "a response is already on file for this survey")
				return
			}
			httpx.LogInternalError(w, "db.insert_response", err)
			return
		}

		stmt, err := tx.PrepareContext(r.Context(), `
			INSERT INTO answer (response_id, question_id, value)
			VALUES (?, ?, ?)`)
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response.answers.prepare", err)
			return
		}
		defer stmt.Close()

		for _, a := range sub.Answers {
			// skipped questions get no answer row
			if a.Empty() {
				continue
			}

			valueJson, err := json.Marshal(a.Value)
			if err != nil {
				httpx.LogInternalError(w, "db.insert_response.answers.marshal_value", err)
				return
			}
			_, err = stmt.ExecContext(r.Context(), responseId, a.QuestionID, string(valueJson))
			if err != nil {
				httpx.LogInternalError(w, "db.insert_response.answers.insert", err)
				return
			}
		}

		err = tx.Commit()
		if err != nil {
			httpx.LogInternalError(w, "db.insert_response.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": responseId,
		})
	}
}

func ListMyResponses(app app.App) http.HandlerFunc {
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

		_, _, err = surveyOwner(r.Context(), app.DB, surveyId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_responses.get_survey", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		history, err := loadResponseHistory(r.Context(), app.DB, surveyId, user.ID)
		if err != nil {
			httpx.LogInternalError(w, "db.get_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": history,
		})
	}
}

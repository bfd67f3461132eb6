package routes

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/mverdi/surveyor/app"
	"github.com/mverdi/surveyor/httpx"
	"github.com/mverdi/surveyor/log"
	"github.com/mverdi/surveyor/model"
	"github.com/mverdi/surveyor/routes/middlewares"
	"github.com/mverdi/surveyor/survey"
)

// SurveyResults aggregates every submitted answer per question; owners only.
func SurveyResults(app app.App) http.HandlerFunc {
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

		ownerId, _, err := surveyOwner(r.Context(), app.DB, surveyId)
		if errors.Is(err, sql.ErrNoRows) {
			httpx.LogNotFound(w, "get_results.get_survey", surveyId)
			return
		}
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}
		if ownerId != user.ID {
			httpx.LogStatus(w, http.StatusForbidden, log.DebugLevel, "get_results.forbidden")
			return
		}

		questions, err := loadQuestions(r.Context(), app.DB, surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey.questions", err)
			return
		}

		answers, err := loadSurveyAnswers(r.Context(), app.DB, surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_answers", err)
			return
		}

		var responseCount int
		err = app.QueryRowContext(r.Context(),
			"SELECT COUNT(*) FROM response WHERE survey_id = ?", surveyId,
		).Scan(&responseCount)
		if err != nil {
			httpx.LogInternalError(w, "db.count_responses", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"survey_id": surveyId,
			"responses": responseCount,
			"results":   survey.Aggregate(questions, answers),
		})
	}
}

// CompareResponses aligns up to three of the caller's own responses to a
// survey, question by question. Without an ids parameter the two most
// recent responses are selected (or the single one, or none).
func CompareResponses(app app.App) http.HandlerFunc {
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
			httpx.LogNotFound(w, "compare.get_survey", surveyId)
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

		ids, err := parseIds(r.URL.Query().Get("ids"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_query_param.ids")
			return
		}
		if len(ids) == 0 {
			ids = survey.DefaultSelection(history)
		}
		if len(ids) > survey.MaxCompared {
			httpx.LogValidationError(w, r, "compare.validate", "ids",
				"at most "+strconv.Itoa(survey.MaxCompared)+" responses can be compared")
			return
		}

		// selection is restricted to the caller's own history; anything
		// else stays invisible
		byId := make(map[int]model.Response, len(history))
		for _, resp := range history {
			byId[resp.ID] = resp
		}

		selected := make([]model.Response, 0, len(ids))
		for _, id := range ids {
			resp, ok := byId[id]
			if !ok {
				httpx.LogNotFound(w, "compare.get_response", id)
				return
			}

			resp.Answers, err = loadResponseAnswers(r.Context(), app.DB, resp.ID)
			if err != nil {
				httpx.LogInternalError(w, "db.get_response.answers", err)
				return
			}
			selected = append(selected, resp)
		}

		questions, err := loadQuestions(r.Context(), app.DB, surveyId)
		if err != nil {
			httpx.LogInternalError(w, "db.get_survey.questions", err)
			return
		}

		render.JSON(w, r, survey.Compare(questions, selected))
	}
}

func parseIds(param string) ([]int, error) {
	if param == "" {
		return nil, nil
	}

	parts := strings.Split(param, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mverdi/surveyor/app"
	"github.com/mverdi/surveyor/config"
	"github.com/mverdi/surveyor/database"
	"github.com/mverdi/surveyor/httpx"
	"github.com/mverdi/surveyor/model"
	"github.com/mverdi/surveyor/routes/middlewares"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testApp opens a fresh in-memory database, fully migrated, per test.
func testApp(t *testing.T) app.App {
	t.Helper()

	cfg := config.Config{
		DBUrl:       "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared",
		TokenSecret: "test-secret",
		TokenTTL:    time.Minute,
	}

	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return app.App{
		DB:           db,
		BearerServer: httpx.NewBearerServer(db, cfg),
		Config:       cfg,
	}
}

func createTestUser(t *testing.T, a app.App, username string) middlewares.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	var id int
	err = a.QueryRow(`
		INSERT INTO user (username, password_hash) VALUES (?, ?)
		RETURNING id`,
		username, hash,
	).Scan(&id)
	require.NoError(t, err)

	return middlewares.User{ID: id, Username: username}
}

// createTestSurvey inserts a survey with its questions and returns it with
// all ids filled in.
func createTestSurvey(t *testing.T, a app.App, owner middlewares.User, s model.Survey) model.Survey {
	t.Helper()

	err := a.QueryRow(`
		INSERT INTO survey (owner_id, title, description, active) VALUES (?, ?, ?, TRUE)
		RETURNING id`,
		owner.ID, s.Title, s.Description,
	).Scan(&s.ID)
	require.NoError(t, err)

	for i := range s.Questions {
		q := &s.Questions[i]
		q.Position = i

		var optionsJson []byte
		if len(q.Options) > 0 {
			optionsJson, err = json.Marshal(q.Options)
			require.NoError(t, err)
		}

		err = a.QueryRow(`
			INSERT INTO question (survey_id, position, type, prompt, required, options)
			VALUES (?, ?, ?, ?, ?, ?)
			RETURNING id`,
			s.ID, q.Position, q.Type, q.Prompt, q.Required, string(optionsJson),
		).Scan(&q.ID)
		require.NoError(t, err)
	}

	return s
}

// newRequest builds a request with an authenticated user and chi URL params
// already in place, so handlers can be exercised without the full router.
func newRequest(t *testing.T, method, target string, body any, user middlewares.User, params map[string]string) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("content-type", "application/json")

	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	return middlewares.WithUser(req, user)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), "body: %s", w.Body.String())
}

func countRows(t *testing.T, a app.App, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, a.QueryRow(query, args...).Scan(&n))
	return n
}

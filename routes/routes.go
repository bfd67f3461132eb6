package routes

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/mverdi/surveyor/app"
	"github.com/mverdi/surveyor/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))
	root.Mount("/", servePublicFiles())

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Post("/register", Register(app))
	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	api.Group(func(r chi.Router) {
		r.Use(middlewares.Authenticated(app.TokenSecret))

		// authoring
		r.Post("/surveys", CreateSurvey(app))
		r.Get("/surveys", ListSurveys(app))
		r.Get(`/surveys/{id:^\d+$}`, GetSurveyByID(app))

		// taking
		r.Post(`/surveys/{id:^\d+$}/responses`, SubmitResponse(app))
		r.Get(`/surveys/{id:^\d+$}/responses/mine`, ListMyResponses(app))
		r.Get(`/surveys/{id:^\d+$}/responses/compare`, CompareResponses(app))

		// owner views
		r.Get(`/surveys/{id:^\d+$}/results`, SurveyResults(app))
	})

	return api
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}

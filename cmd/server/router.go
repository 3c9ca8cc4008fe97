package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/studymap/studymap-api/internal/api"
	apiMiddleware "github.com/studymap/studymap-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	sessionHandler := api.NewSessionHandler(app.studyService, app.logger)
	studySetHandler := api.NewStudySetHandler(app.studyService, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Session lifecycle
		r.Post("/sessions", sessionHandler.CreateSession)
		r.Post("/sessions/{id}/generate", sessionHandler.Generate)
		r.Post("/sessions/{id}/chat", sessionHandler.Chat)
		r.Get("/sessions/{id}/diagram", sessionHandler.GetDiagram)
		r.Post("/sessions/{id}/viewport", sessionHandler.UpdateViewport)

		// Persisted study sets
		r.Get("/study-sets", studySetHandler.ListStudySets)
		r.Get("/study-sets/{id}", studySetHandler.GetStudySet)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}

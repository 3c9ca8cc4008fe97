package main

import (
	"database/sql"
	"log/slog"

	"github.com/studymap/studymap-api/internal/config"
	"github.com/studymap/studymap-api/internal/service"
)

// application holds the wired-up dependencies for the running server.
type application struct {
	config       *config.Config
	logger       *slog.Logger
	db           *sql.DB
	studyService *service.StudyService
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}

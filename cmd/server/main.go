// Package main implements the entry point for the StudyMap API server,
// which turns uploaded study material into diagrams, summaries, and
// flashcards through a generative service.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/studymap/studymap-api/internal/config"
	"github.com/studymap/studymap-api/internal/platform/gemini"
	"github.com/studymap/studymap-api/internal/platform/logger"
	"github.com/studymap/studymap-api/internal/platform/postgres"
	"github.com/studymap/studymap-api/internal/service"
)

func main() {
	app, err := initializeApp(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.startHTTPServer(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and wires up all application
// components: logging, database, migrations, the generator, the study
// service, and the handlers.
//
// Credential checks are fail-fast: a missing Gemini API key stops startup
// here rather than surfacing on the first generation request.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("model", cfg.LLM.ModelName))

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := postgres.RunMigrations(db, appLogger); err != nil {
		return nil, err
	}

	generator, err := gemini.NewGeminiGenerator(ctx, appLogger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	sets := postgres.NewPostgresStudySetStore(db, appLogger)
	studyService := service.NewStudyService(generator, sets, appLogger)

	return &application{
		config:       cfg,
		logger:       appLogger,
		db:           db,
		studyService: studyService,
	}, nil
}

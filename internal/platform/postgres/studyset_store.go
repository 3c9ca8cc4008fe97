package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/store"
)

// PostgresStudySetStore implements the store.StudySetStore interface using
// a PostgreSQL database as the storage backend. Flashcards are stored as a
// JSONB column: they are only ever read and written as a whole batch.
type PostgresStudySetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStudySetStore creates a new PostgreSQL implementation of the
// StudySetStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresStudySetStore(db store.DBTX, logger *slog.Logger) *PostgresStudySetStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStudySetStore{
		db:     db,
		logger: logger.With(slog.String("component", "study_set_store")),
	}
}

// Ensure PostgresStudySetStore implements store.StudySetStore
var _ store.StudySetStore = (*PostgresStudySetStore)(nil)

// Save implements store.StudySetStore.Save.
// Returns domain validation errors wrapped in store.ErrInvalidEntity for
// invalid sets and store.ErrDuplicate for ID collisions.
func (s *PostgresStudySetStore) Save(ctx context.Context, set *domain.StudySet) error {
	if err := set.Validate(); err != nil {
		s.logger.Warn("study set validation failed during save",
			slog.String("error", err.Error()),
			slog.String("study_set_id", set.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	cardsJSON, err := json.Marshal(set.Flashcards)
	if err != nil {
		return fmt.Errorf("failed to marshal flashcards: %w", err)
	}

	query := `
		INSERT INTO study_sets (id, category, diagram_markup, summary_markdown, flashcards, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		set.ID,
		string(set.Category),
		set.DiagramMarkup,
		set.SummaryMarkdown,
		cardsJSON,
		set.CreatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	s.logger.Debug("study set saved",
		slog.String("study_set_id", set.ID.String()),
		slog.Int("flashcard_count", len(set.Flashcards)))

	return nil
}

// GetByID implements store.StudySetStore.GetByID.
func (s *PostgresStudySetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySet, error) {
	query := `
		SELECT id, category, diagram_markup, summary_markdown, flashcards, created_at
		FROM study_sets
		WHERE id = $1
	`

	var set domain.StudySet
	var category string
	var cardsJSON []byte

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&set.ID,
		&category,
		&set.DiagramMarkup,
		&set.SummaryMarkdown,
		&cardsJSON,
		&set.CreatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", store.ErrStudySetNotFound, id)
		}
		return nil, mapped
	}

	set.Category = domain.DiagramCategory(category)
	if err := json.Unmarshal(cardsJSON, &set.Flashcards); err != nil {
		return nil, fmt.Errorf("failed to unmarshal flashcards: %w", err)
	}

	return &set, nil
}

// List implements store.StudySetStore.List.
func (s *PostgresStudySetStore) List(ctx context.Context, limit, offset int) ([]*domain.StudySet, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, category, diagram_markup, summary_markdown, flashcards, created_at
		FROM study_sets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	var sets []*domain.StudySet
	for rows.Next() {
		var set domain.StudySet
		var category string
		var cardsJSON []byte

		if err := rows.Scan(
			&set.ID,
			&category,
			&set.DiagramMarkup,
			&set.SummaryMarkdown,
			&cardsJSON,
			&set.CreatedAt,
		); err != nil {
			return nil, MapError(err)
		}

		set.Category = domain.DiagramCategory(category)
		if err := json.Unmarshal(cardsJSON, &set.Flashcards); err != nil {
			return nil, fmt.Errorf("failed to unmarshal flashcards: %w", err)
		}

		sets = append(sets, &set)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return sets, nil
}

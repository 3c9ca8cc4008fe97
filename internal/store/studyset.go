package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/studymap/studymap-api/internal/domain"
)

// StudySetStore persists generated study sets so they can be retrieved
// after the session that produced them is gone. Conversation transcripts
// are deliberately not persisted anywhere.
type StudySetStore interface {
	// Save stores a newly generated study set.
	// Returns ErrDuplicate if a set with the same ID already exists and
	// ErrInvalidEntity if the set fails validation.
	Save(ctx context.Context, set *domain.StudySet) error

	// GetByID retrieves a study set by its unique ID.
	// Returns ErrStudySetNotFound if no set with the ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StudySet, error)

	// List returns study sets ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*domain.StudySet, error)
}

package generation

import (
	"context"

	"github.com/studymap/studymap-api/internal/domain"
)

// Generator defines the interface for deriving study artifacts from source
// material. It serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
//
// The service behind this interface holds no memory between calls: every
// follow-up question re-sends the full grounding context. This is a
// deliberate simplicity/consistency trade-off, not an oversight.
type Generator interface {
	// GenerateStudySet produces a diagram, summary, and flashcards from the
	// given material in one atomic call.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can be used for cancellation
	//   - material: The text and/or file to ground generation on
	//   - category: The diagram category, which selects the markup dialect
	//
	// Returns:
	//   - A fully populated domain.StudySet
	//   - An error if generation fails (see errors.go for specific types)
	GenerateStudySet(
		ctx context.Context,
		material domain.SourceMaterial,
		category domain.DiagramCategory,
	) (*domain.StudySet, error)

	// Answer responds to a follow-up question grounded strictly in the
	// original material and the prior transcript. The full context is
	// re-assembled and re-sent on every call.
	//
	// Parameters:
	//   - ctx: Context for the operation, which can be used for cancellation
	//   - material: The original source material, re-attached in full
	//   - priorTurns: The transcript so far, in chronological order
	//   - question: The new question
	//
	// Returns:
	//   - A plain-text answer string
	//   - An error if the service call fails
	Answer(
		ctx context.Context,
		material domain.SourceMaterial,
		priorTurns []domain.ConversationTurn,
		question string,
	) (string, error)
}

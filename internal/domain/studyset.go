package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Study set validation errors
var (
	// ErrStudySetIDEmpty is returned when a study set ID is empty or nil.
	ErrStudySetIDEmpty = errors.New("study set ID cannot be empty")

	// ErrStudySetSummaryEmpty is returned when a study set's summary is empty.
	ErrStudySetSummaryEmpty = errors.New("study set summary cannot be empty")

	// ErrFlashcardIDsNotUnique is returned when two flashcards within one
	// study set share an ID.
	ErrFlashcardIDsNotUnique = errors.New("flashcard IDs must be unique within a study set")
)

// Flashcard is a single question/answer card generated from the source
// material. IDs are assigned at parse time from the generation timestamp and
// the card's ordinal position, never taken from the generation service, so
// they are stable and unique within one study set.
type Flashcard struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// NewFlashcardID builds the deterministic ID for the card at the given
// ordinal position in a batch generated at the given time.
func NewFlashcardID(generatedAt time.Time, ordinal int) string {
	return fmt.Sprintf("card-%d-%d", generatedAt.UnixMilli(), ordinal)
}

// StudySet holds everything derived from one generation call: the diagram
// markup, the prose summary, and the flashcards. A StudySet is produced
// atomically, is immutable afterwards, and is replaced wholesale by the next
// generation call, never merged.
type StudySet struct {
	ID              uuid.UUID       `json:"id"`
	Category        DiagramCategory `json:"category"`
	DiagramMarkup   string          `json:"diagram_markup"`
	SummaryMarkdown string          `json:"summary_markdown"`
	Flashcards      []Flashcard     `json:"flashcards"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewStudySet creates a StudySet with a fresh ID and creation timestamp.
// Returns an error if validation fails.
func NewStudySet(
	category DiagramCategory,
	diagramMarkup, summaryMarkdown string,
	flashcards []Flashcard,
	createdAt time.Time,
) (*StudySet, error) {
	set := &StudySet{
		ID:              uuid.New(),
		Category:        category,
		DiagramMarkup:   diagramMarkup,
		SummaryMarkdown: summaryMarkdown,
		Flashcards:      flashcards,
		CreatedAt:       createdAt.UTC(),
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Validate checks the StudySet invariants. An empty DiagramMarkup is valid:
// the renderer treats it as an empty diagram, not an error.
func (s *StudySet) Validate() error {
	if s.ID == uuid.Nil {
		return ErrStudySetIDEmpty
	}

	if err := s.Category.Validate(); err != nil {
		return err
	}

	if s.SummaryMarkdown == "" {
		return ErrStudySetSummaryEmpty
	}

	seen := make(map[string]struct{}, len(s.Flashcards))
	for _, card := range s.Flashcards {
		if _, dup := seen[card.ID]; dup {
			return fmt.Errorf("%w: %s", ErrFlashcardIDsNotUnique, card.ID)
		}
		seen[card.ID] = struct{}{}
	}

	return nil
}

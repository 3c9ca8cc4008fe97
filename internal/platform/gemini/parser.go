package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/generation"
)

// Placeholders substituted for fields the service omitted. Cards are never
// discarded for missing sides, so the returned card count always matches the
// number of entries in the reply.
const (
	placeholderSummary = "Could not generate summary."
	placeholderFront   = "Question"
	placeholderBack    = "Answer"
)

// studySetSchema is the JSON object the generation service is instructed to
// return as its entire response body.
type studySetSchema struct {
	Summary       string            `json:"summary"`
	DiagramMarkup string            `json:"diagramMarkup"`
	Flashcards    []flashcardSchema `json:"flashcards"`
}

// flashcardSchema is a single flashcard in the service reply. IDs are never
// part of the wire format; they are assigned locally at parse time.
type flashcardSchema struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// parseStudySet decodes the raw service reply into a domain.StudySet.
//
// It first attempts direct JSON decoding. If that fails it applies one
// repair pass that strips enclosing markdown code fences, a common deviation
// where the service wraps the JSON despite instructions, and retries once.
// A second failure surfaces generation.ErrMalformedResponse with no partial
// result; further repair heuristics would risk silently accepting garbage.
//
// Missing sub-fields are normalized independently rather than failing the
// batch, so a malformed diagram never invalidates a valid summary or valid
// flashcards.
func parseStudySet(
	raw string,
	category domain.DiagramCategory,
	generatedAt time.Time,
) (*domain.StudySet, error) {
	var schema studySetSchema
	if err := json.Unmarshal([]byte(raw), &schema); err != nil {
		repaired := stripCodeFence(raw)
		if repairErr := json.Unmarshal([]byte(repaired), &schema); repairErr != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrMalformedResponse, repairErr)
		}
	}

	summary := strings.TrimSpace(schema.Summary)
	if summary == "" {
		summary = placeholderSummary
	}

	markup := strings.TrimSpace(schema.DiagramMarkup)

	cards := make([]domain.Flashcard, 0, len(schema.Flashcards))
	for i, card := range schema.Flashcards {
		front := strings.TrimSpace(card.Front)
		if front == "" {
			front = placeholderFront
		}
		back := strings.TrimSpace(card.Back)
		if back == "" {
			back = placeholderBack
		}
		cards = append(cards, domain.Flashcard{
			ID:    domain.NewFlashcardID(generatedAt, i),
			Front: front,
			Back:  back,
		})
	}

	return domain.NewStudySet(category, markup, summary, cards, generatedAt)
}

// stripCodeFence removes one enclosing markdown code fence (``` or ```json)
// from the reply, leaving the body untouched. Replies without a leading
// fence are returned trimmed but otherwise unchanged.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	// Drop the opening fence line, including any language tag.
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		return s
	}

	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}

	return s
}

package gemini

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/generation"
)

var parseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

const wellFormedReply = `{
	"summary": "# Cells\nMitochondria produce energy.",
	"diagramMarkup": "flowchart TD\n  a[Cell] --> b[Mitochondria]",
	"flashcards": [
		{"front": "What produces energy?", "back": "Mitochondria"},
		{"front": "What is ATP?", "back": "The cell's energy currency"}
	]
}`

func TestParseStudySetWellFormed(t *testing.T) {
	t.Parallel()

	set, err := parseStudySet(wellFormedReply, domain.CategoryFlowchart, parseTime)
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryFlowchart, set.Category)
	assert.Equal(t, "# Cells\nMitochondria produce energy.", set.SummaryMarkdown)
	assert.Equal(t, "flowchart TD\n  a[Cell] --> b[Mitochondria]", set.DiagramMarkup)
	require.Len(t, set.Flashcards, 2)
	assert.Equal(t, "What produces energy?", set.Flashcards[0].Front)
	assert.Equal(t, "Mitochondria", set.Flashcards[0].Back)
}

// Parsing is idempotent: re-serializing the parsed model back into the wire
// shape and parsing again yields an equal content model.
func TestParseStudySetIdempotent(t *testing.T) {
	t.Parallel()

	first, err := parseStudySet(wellFormedReply, domain.CategoryFlowchart, parseTime)
	require.NoError(t, err)

	schema := studySetSchema{
		Summary:       first.SummaryMarkdown,
		DiagramMarkup: first.DiagramMarkup,
	}
	for _, card := range first.Flashcards {
		schema.Flashcards = append(schema.Flashcards, flashcardSchema{Front: card.Front, Back: card.Back})
	}
	reserialized, err := json.Marshal(schema)
	require.NoError(t, err)

	second, err := parseStudySet(string(reserialized), domain.CategoryFlowchart, parseTime)
	require.NoError(t, err)

	assert.Equal(t, first.Category, second.Category)
	assert.Equal(t, first.SummaryMarkdown, second.SummaryMarkdown)
	assert.Equal(t, first.DiagramMarkup, second.DiagramMarkup)
	assert.Equal(t, first.Flashcards, second.Flashcards)
}

// A reply wrapped in a markdown fence recovers the identical content model
// as the unwrapped version.
func TestParseStudySetRepairsFencedReply(t *testing.T) {
	t.Parallel()

	fenced := "```json\n" + wellFormedReply + "\n```"

	plain, err := parseStudySet(wellFormedReply, domain.CategoryFlowchart, parseTime)
	require.NoError(t, err)
	repaired, err := parseStudySet(fenced, domain.CategoryFlowchart, parseTime)
	require.NoError(t, err)

	assert.Equal(t, plain.SummaryMarkdown, repaired.SummaryMarkdown)
	assert.Equal(t, plain.DiagramMarkup, repaired.DiagramMarkup)
	assert.Equal(t, plain.Flashcards, repaired.Flashcards)
}

func TestParseStudySetMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "Here is your summary: the cell is small."},
		{"fenced non-json", "```\nstill not json\n```"},
		{"truncated object", `{"summary": "x", "diagramMarkup`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			set, err := parseStudySet(tt.raw, domain.CategoryFlowchart, parseTime)
			assert.ErrorIs(t, err, generation.ErrMalformedResponse)
			assert.Nil(t, set, "no partial content on malformed reply")
		})
	}
}

func TestParseStudySetNormalizesMissingFields(t *testing.T) {
	t.Parallel()

	set, err := parseStudySet(`{}`, domain.CategorySequence, parseTime)
	require.NoError(t, err)

	assert.Equal(t, placeholderSummary, set.SummaryMarkdown)
	assert.Empty(t, set.DiagramMarkup, "missing markup becomes empty, not an error")
	assert.Empty(t, set.Flashcards)
}

// Cards with missing sides are kept with placeholders so the returned count
// matches the reply's count.
func TestParseStudySetNormalizesCards(t *testing.T) {
	t.Parallel()

	raw := `{
		"summary": "s",
		"flashcards": [
			{"front": "Q1"},
			{"back": "A2"},
			{}
		]
	}`

	set, err := parseStudySet(raw, domain.CategoryTimeline, parseTime)
	require.NoError(t, err)
	require.Len(t, set.Flashcards, 3)

	assert.Equal(t, "Q1", set.Flashcards[0].Front)
	assert.Equal(t, placeholderBack, set.Flashcards[0].Back)
	assert.Equal(t, placeholderFront, set.Flashcards[1].Front)
	assert.Equal(t, "A2", set.Flashcards[1].Back)
	assert.Equal(t, placeholderFront, set.Flashcards[2].Front)
	assert.Equal(t, placeholderBack, set.Flashcards[2].Back)
}

func TestParseStudySetAssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	var cards []flashcardSchema
	for i := 0; i < 12; i++ {
		cards = append(cards, flashcardSchema{Front: fmt.Sprintf("Q%d", i), Back: fmt.Sprintf("A%d", i)})
	}
	raw, err := json.Marshal(studySetSchema{Summary: "s", Flashcards: cards})
	require.NoError(t, err)

	set, err := parseStudySet(string(raw), domain.CategoryHierarchyMap, parseTime)
	require.NoError(t, err)
	require.Len(t, set.Flashcards, len(cards))

	seen := make(map[string]struct{})
	for _, card := range set.Flashcards {
		_, dup := seen[card.ID]
		assert.False(t, dup, "duplicate flashcard ID %s", card.ID)
		seen[card.ID] = struct{}{}
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fence with padding", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
		{"unclosed fence", "```json\n{\"a\":1}", `{"a":1}`},
		{"fence only", "```", "```"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, stripCodeFence(tt.in))
		})
	}
}

package gemini

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/grammar"
)

func TestBuildGenerationPartsOrdering(t *testing.T) {
	t.Parallel()

	material := domain.SourceMaterial{
		Text: "The mitochondria is the powerhouse of the cell.",
		File: &domain.FileAttachment{
			Name:     "biology.pdf",
			MIMEType: "application/pdf",
			Data:     []byte("%PDF-1.4"),
		},
	}

	parts, err := buildGenerationParts(material, domain.CategoryFlowchart, promptOptions{})
	require.NoError(t, err)
	require.Len(t, parts, 3, "expected file, text, and instruction segments")

	// Inline file payload first.
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "application/pdf", parts[0].InlineData.MIMEType)
	assert.Equal(t, []byte("%PDF-1.4"), parts[0].InlineData.Data)

	// Free text second.
	assert.Equal(t, material.Text, parts[1].Text)

	// Task instructions last.
	assert.Contains(t, parts[2].Text, "flowchart TD")
}

func TestBuildGenerationPartsTextOnly(t *testing.T) {
	t.Parallel()

	parts, err := buildGenerationParts(
		domain.SourceMaterial{Text: "notes"}, domain.CategoryTimeline, promptOptions{})
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Nil(t, parts[0].InlineData)
	assert.Equal(t, "notes", parts[0].Text)
}

func TestBuildGenerationPartsRevalidatesMaterial(t *testing.T) {
	t.Parallel()

	_, err := buildGenerationParts(domain.SourceMaterial{}, domain.CategoryFlowchart, promptOptions{})
	assert.ErrorIs(t, err, domain.ErrNoSourceMaterial)
}

func TestBuildGenerationPartsRejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	_, err := buildGenerationParts(
		domain.SourceMaterial{Text: "notes"}, domain.DiagramCategory("pie-chart"), promptOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}

// For every category the instruction segment must name that category's
// dialect keyword and no other category's keyword.
func TestInstructionsKeywordExclusivity(t *testing.T) {
	t.Parallel()

	for _, category := range domain.Categories() {
		spec, err := grammar.For(category)
		require.NoError(t, err)

		instructions := generationInstructions(spec, promptOptions{}.withDefaults())
		assert.Contains(t, instructions, spec.Keyword, "category %s", category)

		for _, other := range domain.Categories() {
			if other == category {
				continue
			}
			otherSpec, err := grammar.For(other)
			require.NoError(t, err)
			assert.NotContains(t, instructions, otherSpec.Keyword,
				"instructions for %s must not mention %s's keyword", category, other)
		}
	}
}

func TestInstructionsDemandContract(t *testing.T) {
	t.Parallel()

	spec, err := grammar.For(domain.CategorySchedule)
	require.NoError(t, err)

	instructions := generationInstructions(spec, promptOptions{
		MaxSummaryWords: 150,
		MinFlashcards:   4,
		MaxFlashcards:   8,
	})

	assert.Contains(t, instructions, "at most 150 words")
	assert.Contains(t, instructions, "Between 4 and 8 flashcards")
	assert.Contains(t, instructions, "single JSON object")
	assert.Contains(t, instructions, "no code fences")
	assert.Contains(t, instructions, "escaped")

	// Structural rules come verbatim from the grammar table.
	for _, rule := range spec.Rules {
		assert.Contains(t, instructions, fmt.Sprintf("- %s", rule))
	}
}

func TestPromptOptionsWithDefaults(t *testing.T) {
	t.Parallel()

	opts := promptOptions{}.withDefaults()
	assert.Equal(t, defaultMaxSummaryWords, opts.MaxSummaryWords)
	assert.Equal(t, defaultMinFlashcards, opts.MinFlashcards)
	assert.Equal(t, defaultMaxFlashcards, opts.MaxFlashcards)

	// A max below min is replaced, not silently inverted.
	opts = promptOptions{MinFlashcards: 5, MaxFlashcards: 2}.withDefaults()
	assert.GreaterOrEqual(t, opts.MaxFlashcards, opts.MinFlashcards)

	// Explicit bounds are kept.
	opts = promptOptions{MaxSummaryWords: 100, MinFlashcards: 2, MaxFlashcards: 4}.withDefaults()
	assert.Equal(t, 100, opts.MaxSummaryWords)
	assert.Equal(t, 2, opts.MinFlashcards)
	assert.Equal(t, 4, opts.MaxFlashcards)
}

func TestInstructionsAreFinalSegment(t *testing.T) {
	t.Parallel()

	parts, err := buildGenerationParts(
		domain.SourceMaterial{Text: "some notes"}, domain.CategorySequence, promptOptions{})
	require.NoError(t, err)

	last := parts[len(parts)-1].Text
	assert.True(t, strings.Contains(last, "sequenceDiagram"))
	assert.True(t, strings.Contains(last, "flashcards"))
}

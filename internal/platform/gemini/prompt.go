package gemini

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/grammar"
)

// Prompt bounds used when the configuration leaves them unset.
const (
	defaultMaxSummaryWords = 300
	defaultMinFlashcards   = 3
	defaultMaxFlashcards   = 10
)

// promptOptions carries the tunable bounds embedded in generation
// instructions.
type promptOptions struct {
	MaxSummaryWords int
	MinFlashcards   int
	MaxFlashcards   int
}

// withDefaults fills unset bounds with the package defaults.
func (o promptOptions) withDefaults() promptOptions {
	if o.MaxSummaryWords <= 0 {
		o.MaxSummaryWords = defaultMaxSummaryWords
	}
	if o.MinFlashcards <= 0 {
		o.MinFlashcards = defaultMinFlashcards
	}
	if o.MaxFlashcards < o.MinFlashcards {
		o.MaxFlashcards = defaultMaxFlashcards
	}
	return o
}

// buildGenerationParts assembles the ordered multimodal request for one
// generation call: inline file payload first (if present), free text second
// (if present), task instructions last.
//
// The at-least-one-source precondition is the caller's responsibility, but
// it is re-validated here defensively; violations surface as
// domain.ErrNoSourceMaterial.
func buildGenerationParts(
	material domain.SourceMaterial,
	category domain.DiagramCategory,
	opts promptOptions,
) ([]*genai.Part, error) {
	if err := material.Validate(); err != nil {
		return nil, err
	}

	spec, err := grammar.For(category)
	if err != nil {
		return nil, err
	}

	var parts []*genai.Part
	if material.HasFile() {
		parts = append(parts, genai.NewPartFromBytes(material.File.Data, material.File.MIMEType))
	}
	if material.Text != "" {
		parts = append(parts, genai.NewPartFromText(material.Text))
	}
	parts = append(parts, genai.NewPartFromText(generationInstructions(spec, opts.withDefaults())))

	return parts, nil
}

// generationInstructions renders the task instruction segment for the given
// dialect spec. The structural rules come verbatim from the grammar table so
// the instructions cannot drift from what the diagram parser accepts.
func generationInstructions(spec grammar.Spec, opts promptOptions) string {
	var b strings.Builder

	b.WriteString("You are a study assistant. Derive three artifacts from the study material provided above.\n\n")

	fmt.Fprintf(&b, "1. A prose summary of the material, written in markdown, at most %d words long.\n\n",
		opts.MaxSummaryWords)

	fmt.Fprintf(&b, "2. A %s describing the structure of the material, written in %q markup.\n",
		spec.Dialect, spec.Keyword)
	b.WriteString("The markup must be syntactically valid, with special characters inside labels escaped or removed. Follow these rules exactly:\n")
	for _, rule := range spec.Rules {
		fmt.Fprintf(&b, "- %s\n", rule)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "3. Between %d and %d flashcards covering the key facts, each with a question front and an answer back.\n\n",
		opts.MinFlashcards, opts.MaxFlashcards)

	b.WriteString(`Respond with a single JSON object and nothing else: no prose before or after it, and no code fences. The object must have exactly this shape:
{"summary": "...", "diagramMarkup": "...", "flashcards": [{"front": "...", "back": "..."}]}`)

	return b.String()
}

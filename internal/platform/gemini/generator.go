package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/studymap/studymap-api/internal/config"
	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/generation"
)

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API.
//
// Every call is independent: no chat session is held open and no state is
// kept between calls. Failed calls are never retried automatically; the
// user retries by repeating the action.
type GeminiGenerator struct {
	logger *slog.Logger
	config config.LLMConfig
	client *genai.Client
	model  string

	// now is injectable for deterministic flashcard IDs in tests.
	now func() time.Time
}

// Ensure GeminiGenerator implements generation.Generator.
var _ generation.Generator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator with the provided
// dependencies.
//
// A missing API key fails fast with generation.ErrMissingCredential before
// any request is attempted, so the caller can distinguish a credential
// problem from a service failure.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, generation.ErrMissingCredential
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		config: cfg,
		client: client,
		model:  cfg.ModelName,
		now:    time.Now,
	}, nil
}

// GenerateStudySet produces a diagram, summary, and flashcards from the
// given material in one atomic Gemini call.
func (g *GeminiGenerator) GenerateStudySet(
	ctx context.Context,
	material domain.SourceMaterial,
	category domain.DiagramCategory,
) (*domain.StudySet, error) {
	parts, err := buildGenerationParts(material, category, promptOptions{
		MaxSummaryWords: g.config.MaxSummaryWords,
		MinFlashcards:   g.config.MinFlashcards,
		MaxFlashcards:   g.config.MaxFlashcards,
	})
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "requesting study set generation",
		slog.String("category", category.String()),
		slog.Int("text_length", len(material.Text)),
		slog.Bool("has_file", material.HasFile()))

	raw, err := g.call(ctx, parts, true)
	if err != nil {
		return nil, err
	}

	set, err := parseStudySet(raw, category, g.now().UTC())
	if err != nil {
		g.logger.WarnContext(ctx, "study set reply could not be decoded",
			slog.String("error", err.Error()),
			slog.Int("reply_length", len(raw)))
		return nil, err
	}

	g.logger.InfoContext(ctx, "study set generated",
		slog.String("study_set_id", set.ID.String()),
		slog.Int("flashcard_count", len(set.Flashcards)),
		slog.Int("markup_length", len(set.DiagramMarkup)))

	return set, nil
}

// Answer responds to a follow-up question. The full grounding context is
// re-assembled and re-sent; the service is never expected to remember
// anything from prior calls.
func (g *GeminiGenerator) Answer(
	ctx context.Context,
	material domain.SourceMaterial,
	priorTurns []domain.ConversationTurn,
	question string,
) (string, error) {
	parts, err := assembleFollowUpParts(material, priorTurns, question)
	if err != nil {
		return "", err
	}

	g.logger.InfoContext(ctx, "requesting follow-up answer",
		slog.Int("prior_turns", len(priorTurns)),
		slog.Bool("has_file", material.HasFile()))

	raw, err := g.call(ctx, parts, false)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(raw), nil
}

// call performs one GenerateContent request and returns the concatenated
// reply text. When wantJSON is set the service is asked for a JSON response
// body.
func (g *GeminiGenerator) call(ctx context.Context, parts []*genai.Part, wantJSON bool) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	genCfg := &genai.GenerateContentConfig{}
	if wantJSON {
		genCfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, genCfg)
	if err != nil {
		g.logger.ErrorContext(ctx, "Gemini API call failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", generation.ErrServiceCall, err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated", generation.ErrServiceCall)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty reply", generation.ErrServiceCall)
	}

	return text, nil
}

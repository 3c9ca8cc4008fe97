package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/generation"
	"github.com/studymap/studymap-api/internal/render"
	"github.com/studymap/studymap-api/internal/store"
)

// fallbackAnswer is returned to the user when the follow-up call fails.
// The failed exchange is still recorded in the transcript so later turns
// see an honest history.
const fallbackAnswer = "Sorry, I could not answer that question. Please try again."

// StudyService coordinates the full study session lifecycle: session
// creation, study set generation, follow-up Q&A, diagram rendering, and
// viewport control. Sessions are held in memory; generated study sets are
// additionally persisted through the StudySetStore.
type StudyService struct {
	generator  generation.Generator
	sets       store.StudySetStore
	logger     *slog.Logger
	renderOpts []render.RendererOption

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// StudyServiceOption customizes a StudyService.
type StudyServiceOption func(*StudyService)

// WithRendererOptions forwards renderer options to every session's
// renderer. Used by tests to inject a deterministic render function.
func WithRendererOptions(opts ...render.RendererOption) StudyServiceOption {
	return func(s *StudyService) {
		s.renderOpts = opts
	}
}

// NewStudyService creates a new study service.
// The generator is required; the store may be nil, in which case study
// sets are kept in memory only. If logger is nil, a default logger is
// used.
func NewStudyService(
	generator generation.Generator,
	sets store.StudySetStore,
	logger *slog.Logger,
	opts ...StudyServiceOption,
) *StudyService {
	if generator == nil {
		panic("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &StudyService{
		generator: generator,
		sets:      sets,
		logger:    logger.With(slog.String("component", "study_service")),
		sessions:  make(map[uuid.UUID]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession validates the material and creates a new in-memory session
// bound to it. The material cannot be changed afterwards; uploading new
// material means creating a new session.
func (s *StudyService) CreateSession(ctx context.Context, material domain.SourceMaterial) (*Session, error) {
	if err := material.Validate(); err != nil {
		return nil, err
	}

	sess := newSession(material, s.logger, s.renderOpts...)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "session created",
		slog.String("session_id", sess.ID.String()),
		slog.Bool("has_file", sess.material.HasFile()))

	return sess, nil
}

// GetSession returns the session with the given ID.
// Returns ErrSessionNotFound if no such session exists.
func (s *StudyService) GetSession(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Generate runs one generation call for the session and category, replacing
// any previous study set and clearing the conversation transcript. The new
// diagram markup is handed to the session's renderer asynchronously, so the
// returned study set is available before its diagram is.
//
// Only one generation may run per session at a time; a second call while
// one is in flight fails with ErrGenerationInFlight. Failures are returned
// as-is with no automatic retry: the caller decides whether to try again.
func (s *StudyService) Generate(
	ctx context.Context,
	sessionID uuid.UUID,
	category domain.DiagramCategory,
) (*domain.StudySet, error) {
	if err := category.Validate(); err != nil {
		return nil, err
	}

	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	if err := sess.beginGeneration(); err != nil {
		return nil, err
	}

	set, err := s.generator.GenerateStudySet(ctx, sess.Material(), category)
	if err != nil {
		sess.endGeneration(nil)
		s.logger.WarnContext(ctx, "study set generation failed",
			slog.String("session_id", sessionID.String()),
			slog.String("category", category.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("generating study set: %w", err)
	}

	sess.endGeneration(set)
	// The render outlives this request; detach it from the request's
	// cancellation while keeping its values (trace ID, logger).
	sess.renderer.Submit(context.WithoutCancel(ctx), category, set.DiagramMarkup)

	if s.sets != nil {
		// Persistence is best effort: a storage failure must not cost
		// the user a study set they can already see.
		if err := s.sets.Save(ctx, set); err != nil {
			s.logger.WarnContext(ctx, "failed to persist study set",
				slog.String("study_set_id", set.ID.String()),
				slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "study set generated",
		slog.String("session_id", sessionID.String()),
		slog.String("study_set_id", set.ID.String()),
		slog.String("category", category.String()),
		slog.Int("flashcard_count", len(set.Flashcards)))

	return set, nil
}

// Ask answers a follow-up question about the session's current study set.
// Each call re-sends the source material and the full transcript to the
// generator; the server keeps no generator-side conversation state.
//
// When the generator call fails, the exchange is still appended to the
// transcript with a fixed fallback answer and that answer is returned
// without an error: a flaky follow-up should degrade, not break the
// session.
func (s *StudyService) Ask(ctx context.Context, sessionID uuid.UUID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.ErrTurnContentEmpty
	}

	sess, err := s.GetSession(sessionID)
	if err != nil {
		return "", err
	}
	if sess.StudySet() == nil {
		return "", ErrNoStudySet
	}

	// Snapshot the transcript before the call; turns appended by this
	// exchange come after everything the generator saw.
	prior := sess.Transcript()

	answer, genErr := s.generator.Answer(ctx, sess.Material(), prior, question)
	if genErr != nil {
		s.logger.WarnContext(ctx, "follow-up answer failed",
			slog.String("session_id", sessionID.String()),
			slog.String("error", genErr.Error()))
		answer = fallbackAnswer
	}

	userTurn, err := domain.NewConversationTurn(domain.RoleUser, question)
	if err != nil {
		return "", err
	}
	assistantTurn, err := domain.NewConversationTurn(domain.RoleAssistant, answer)
	if err != nil {
		return "", err
	}
	sess.appendTurns(*userTurn, *assistantTurn)

	return answer, nil
}

// Diagram returns the current render snapshot for the session's diagram.
func (s *StudyService) Diagram(sessionID uuid.UUID) (render.Snapshot, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return render.Snapshot{}, err
	}
	return sess.renderer.Snapshot(), nil
}

// DiagramSVG returns the rendered SVG with the session's viewport transform
// applied. Returns ErrNoStudySet semantics through the snapshot: callers
// should check the snapshot state first via Diagram.
func (s *StudyService) DiagramSVG(sessionID uuid.UUID) ([]byte, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	snap := sess.renderer.Snapshot()
	if snap.State != render.StateRendered {
		return nil, nil
	}
	return sess.viewport.Apply(snap.SVG), nil
}

// ZoomViewport multiplies the session's viewport scale by factor, clamped
// to the supported range, and returns the resulting transform.
func (s *StudyService) ZoomViewport(sessionID uuid.UUID, factor float64) (render.Transform, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return render.Transform{}, err
	}
	return sess.viewport.ZoomBy(factor), nil
}

// PanViewport shifts the session's viewport by (dx, dy) and returns the
// resulting transform.
func (s *StudyService) PanViewport(sessionID uuid.UUID, dx, dy float64) (render.Transform, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return render.Transform{}, err
	}
	return sess.viewport.PanBy(dx, dy), nil
}

// ResetViewport returns the session's viewport to its default transform.
func (s *StudyService) ResetViewport(sessionID uuid.UUID) (render.Transform, error) {
	sess, err := s.GetSession(sessionID)
	if err != nil {
		return render.Transform{}, err
	}
	return sess.viewport.Reset(), nil
}

// GetStudySet retrieves a persisted study set by ID.
func (s *StudyService) GetStudySet(ctx context.Context, id uuid.UUID) (*domain.StudySet, error) {
	if s.sets == nil {
		return nil, store.ErrStudySetNotFound
	}
	return s.sets.GetByID(ctx, id)
}

// ListStudySets lists persisted study sets, newest first.
func (s *StudyService) ListStudySets(ctx context.Context, limit, offset int) ([]*domain.StudySet, error) {
	if s.sets == nil {
		return nil, nil
	}
	return s.sets.List(ctx, limit, offset)
}

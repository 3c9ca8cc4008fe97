package service

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/render"
)

// Session holds everything the server keeps for one study session: the
// source material, the latest study set, the conversation transcript, the
// diagram renderer, and the viewport. Sessions live only in memory; when
// the process restarts they are gone, though generated study sets survive
// in the store.
//
// The session mutex guards the study set, the transcript, and the
// generation gate. The renderer and viewport carry their own locks.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	material domain.SourceMaterial
	renderer *render.Renderer
	viewport *render.Viewport

	mu         sync.Mutex
	set        *domain.StudySet
	transcript []domain.ConversationTurn
	generating bool
}

func newSession(material domain.SourceMaterial, logger *slog.Logger, renderOpts ...render.RendererOption) *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		material:  material,
		renderer:  render.NewRenderer(logger, renderOpts...),
		viewport:  render.NewViewport(),
	}
}

// Material returns the source material the session was created with. The
// material is immutable for the lifetime of the session.
func (s *Session) Material() domain.SourceMaterial {
	return s.material
}

// StudySet returns the session's current study set, or nil if generation
// has not completed yet.
func (s *Session) StudySet() *domain.StudySet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// Transcript returns a copy of the conversation transcript in order.
func (s *Session) Transcript() []domain.ConversationTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := make([]domain.ConversationTurn, len(s.transcript))
	copy(turns, s.transcript)
	return turns
}

// beginGeneration marks the session as generating. It fails with
// ErrGenerationInFlight if a generation call is already running.
func (s *Session) beginGeneration() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.generating {
		return ErrGenerationInFlight
	}
	s.generating = true
	return nil
}

// endGeneration clears the generation gate. On success the new study set
// replaces the old one atomically and the transcript is cleared: follow-up
// answers must be grounded in the current set, not a previous one.
func (s *Session) endGeneration(set *domain.StudySet) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generating = false
	if set != nil {
		s.set = set
		s.transcript = nil
	}
}

// appendTurns appends turns to the transcript in order.
func (s *Session) appendTurns(turns ...domain.ConversationTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = append(s.transcript, turns...)
}

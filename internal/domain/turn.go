package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Conversation turn validation errors
var (
	// ErrInvalidTurnRole is returned when a turn role is neither user nor assistant.
	ErrInvalidTurnRole = errors.New("turn role must be user or assistant")

	// ErrTurnContentEmpty is returned when a turn's content is empty.
	ErrTurnContentEmpty = errors.New("turn content cannot be empty")
)

// TurnRole identifies who authored a conversation turn.
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// Valid reports whether the role is a known value.
func (r TurnRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ConversationTurn is one entry in the follow-up Q&A transcript. The
// transcript is an ordered, append-only sequence that is reset whenever a
// new StudySet is generated; stale Q&A context is discarded, not merged
// with new material.
type ConversationTurn struct {
	ID        uuid.UUID `json:"id"`
	Role      TurnRole  `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewConversationTurn creates a turn with a fresh ID and the current time.
// Returns an error if validation fails.
func NewConversationTurn(role TurnRole, content string) (*ConversationTurn, error) {
	turn := &ConversationTurn{
		ID:        uuid.New(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}

	if err := turn.Validate(); err != nil {
		return nil, err
	}

	return turn, nil
}

// Validate checks if the turn has valid data.
func (t *ConversationTurn) Validate() error {
	if !t.Role.Valid() {
		return ErrInvalidTurnRole
	}
	if t.Content == "" {
		return ErrTurnContentEmpty
	}
	return nil
}

package api

import (
	"time"

	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/render"
)

// CreateSessionRequest contains the source material for a new study
// session. Text, file, or both must be present. File content arrives
// base64-encoded; encoding/json decodes it into the byte slice.
type CreateSessionRequest struct {
	Text string       `json:"text"`
	File *FilePayload `json:"file,omitempty"`
}

// FilePayload is a file attachment in a session creation request.
type FilePayload struct {
	Name     string `json:"name"      validate:"required"`
	MIMEType string `json:"mime_type" validate:"required"`
	Data     []byte `json:"data"      validate:"required"`
}

// CreateSessionResponse contains the newly created session's identity.
type CreateSessionResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

// GenerateRequest selects the diagram category for a generation call.
type GenerateRequest struct {
	Category string `json:"category" validate:"required"`
}

// FlashcardResponse is one flashcard in a study set response.
type FlashcardResponse struct {
	ID    string `json:"id"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// StudySetResponse is the full study set returned by generation and
// retrieval endpoints.
type StudySetResponse struct {
	ID              string              `json:"id"`
	Category        string              `json:"category"`
	DiagramMarkup   string              `json:"diagram_markup"`
	SummaryMarkdown string              `json:"summary_markdown"`
	Flashcards      []FlashcardResponse `json:"flashcards"`
	CreatedAt       time.Time           `json:"created_at"`
}

// ChatRequest is a follow-up question about the current study set.
type ChatRequest struct {
	Question string `json:"question" validate:"required"`
}

// ChatResponse carries the assistant's answer to a follow-up question.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// ViewportRequest is a pan/zoom command for the session's diagram
// viewport.
type ViewportRequest struct {
	Action string  `json:"action" validate:"required,oneof=zoom pan reset"`
	Factor float64 `json:"factor,omitempty"`
	DX     float64 `json:"dx,omitempty"`
	DY     float64 `json:"dy,omitempty"`
}

// ViewportResponse is the viewport transform after a command was applied.
type ViewportResponse struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// DiagramErrorDetail describes a render failure. RawMarkup lets the client
// fall back to showing the markup as text.
type DiagramErrorDetail struct {
	Detail    string `json:"detail"`
	RawMarkup string `json:"raw_markup"`
}

// DiagramResponse is the current state of the session's diagram. SVG is
// set only in the rendered state and carries the viewport transform.
type DiagramResponse struct {
	State  string              `json:"state"`
	Markup string              `json:"markup,omitempty"`
	SVG    string              `json:"svg,omitempty"`
	Error  *DiagramErrorDetail `json:"error,omitempty"`
}

// ListStudySetsResponse is a page of persisted study sets.
type ListStudySetsResponse struct {
	StudySets []StudySetResponse `json:"study_sets"`
}

// toStudySetResponse converts a domain study set into its API shape.
func toStudySetResponse(set *domain.StudySet) StudySetResponse {
	cards := make([]FlashcardResponse, 0, len(set.Flashcards))
	for _, card := range set.Flashcards {
		cards = append(cards, FlashcardResponse{
			ID:    card.ID,
			Front: card.Front,
			Back:  card.Back,
		})
	}

	return StudySetResponse{
		ID:              set.ID.String(),
		Category:        set.Category.String(),
		DiagramMarkup:   set.DiagramMarkup,
		SummaryMarkdown: set.SummaryMarkdown,
		Flashcards:      cards,
		CreatedAt:       set.CreatedAt,
	}
}

// toDiagramResponse converts a render snapshot plus viewport-adjusted SVG
// into the API shape.
func toDiagramResponse(snap render.Snapshot, svg []byte) DiagramResponse {
	resp := DiagramResponse{
		State:  snap.State.String(),
		Markup: snap.Markup,
	}

	switch snap.State {
	case render.StateRendered:
		resp.SVG = string(svg)
	case render.StateFailed:
		if snap.Err != nil {
			resp.Error = &DiagramErrorDetail{
				Detail:    snap.Err.Detail,
				RawMarkup: snap.Err.RawMarkup,
			}
		}
	}

	return resp
}

// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studymap/studymap-api/internal/api/shared"
	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/platform/logger"
	"github.com/studymap/studymap-api/internal/render"
	"github.com/studymap/studymap-api/internal/service"
)

// SessionHandler handles study-session HTTP requests: creation,
// generation, follow-up chat, diagram retrieval, and viewport control.
type SessionHandler struct {
	studyService *service.StudyService
	logger       *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(studyService *service.StudyService, logger *slog.Logger) *SessionHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for SessionHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "session_handler")),
	}
}

// CreateSession handles POST /sessions requests.
// It binds a new in-memory session to the uploaded study material.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Debug("invalid session request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.File != nil {
		if err := shared.ValidateRequest(req.File); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
			return
		}
	}

	material := domain.SourceMaterial{Text: req.Text}
	if req.File != nil {
		material.File = &domain.FileAttachment{
			Name:     req.File.Name,
			MIMEType: req.File.MIMEType,
			Data:     req.File.Data,
		}
	}

	sess, err := h.studyService.CreateSession(r.Context(), material)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateSessionResponse{
		SessionID: sess.ID.String(),
		CreatedAt: sess.CreatedAt,
	})
}

// Generate handles POST /sessions/{id}/generate requests.
// It runs one generation call and responds with the complete study set.
// The diagram renders asynchronously; poll GetDiagram for its state.
func (h *SessionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	log.Debug("generation requested",
		slog.String("session_id", sessionID.String()),
		slog.String("category", req.Category))

	set, err := h.studyService.Generate(r.Context(), sessionID, domain.DiagramCategory(req.Category))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toStudySetResponse(set))
}

// Chat handles POST /sessions/{id}/chat requests.
// It answers a follow-up question grounded in the current study set.
func (h *SessionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	var req ChatRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	answer, err := h.studyService.Ask(r.Context(), sessionID, req.Question)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ChatResponse{Answer: answer})
}

// GetDiagram handles GET /sessions/{id}/diagram requests.
// The response reflects the renderer's current state; clients poll this
// endpoint until the state leaves "rendering".
func (h *SessionHandler) GetDiagram(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	snap, err := h.studyService.Diagram(sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	var svg []byte
	if snap.State == render.StateRendered {
		svg, err = h.studyService.DiagramSVG(sessionID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toDiagramResponse(snap, svg))
}

// UpdateViewport handles POST /sessions/{id}/viewport requests.
// It applies a zoom, pan, or reset command and returns the resulting
// transform. Viewport state is independent of render state.
func (h *SessionHandler) UpdateViewport(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.sessionIDFromURL(w, r)
	if !ok {
		return
	}

	var req ViewportRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	var (
		transform render.Transform
		err       error
	)
	switch req.Action {
	case "zoom":
		transform, err = h.studyService.ZoomViewport(sessionID, req.Factor)
	case "pan":
		transform, err = h.studyService.PanViewport(sessionID, req.DX, req.DY)
	case "reset":
		transform, err = h.studyService.ResetViewport(sessionID)
	}
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ViewportResponse{
		Scale: transform.Scale,
		X:     transform.X,
		Y:     transform.Y,
	})
}

// sessionIDFromURL extracts and parses the session ID path parameter,
// writing an error response when it is missing or malformed.
func (h *SessionHandler) sessionIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return uuid.Nil, false
	}
	return id, true
}

package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studymap/studymap-api/internal/api/shared"
	"github.com/studymap/studymap-api/internal/platform/logger"
	"github.com/studymap/studymap-api/internal/service"
)

// defaultListLimit bounds study-set listing when the client gives no limit.
const defaultListLimit = 20

// StudySetHandler handles retrieval of persisted study sets.
type StudySetHandler struct {
	studyService *service.StudyService
	logger       *slog.Logger
}

// NewStudySetHandler creates a new StudySetHandler
func NewStudySetHandler(studyService *service.StudyService, logger *slog.Logger) *StudySetHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for StudySetHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudySetHandler")
	}

	return &StudySetHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "study_set_handler")),
	}
}

// GetStudySet handles GET /study-sets/{id} requests.
func (h *StudySetHandler) GetStudySet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid study set ID")
		return
	}

	set, err := h.studyService.GetStudySet(r.Context(), id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toStudySetResponse(set))
}

// ListStudySets handles GET /study-sets requests. Supports limit and
// offset query parameters; newest sets come first.
func (h *StudySetHandler) ListStudySets(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	limit := queryInt(r, "limit", defaultListLimit)
	offset := queryInt(r, "offset", 0)

	sets, err := h.studyService.ListStudySets(r.Context(), limit, offset)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), "Failed to list study sets", err)
		return
	}

	log.Debug("listed study sets",
		slog.Int("count", len(sets)),
		slog.Int("limit", limit),
		slog.Int("offset", offset))

	resp := ListStudySetsResponse{StudySets: make([]StudySetResponse, 0, len(sets))}
	for _, set := range sets {
		resp.StudySets = append(resp.StudySets, toStudySetResponse(set))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// queryInt parses an integer query parameter, returning def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

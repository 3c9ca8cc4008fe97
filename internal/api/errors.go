package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/studymap/studymap-api/internal/domain"
	"github.com/studymap/studymap-api/internal/generation"
	"github.com/studymap/studymap-api/internal/render"
	"github.com/studymap/studymap-api/internal/service"
	"github.com/studymap/studymap-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad request errors
	case errors.Is(err, domain.ErrNoSourceMaterial),
		errors.Is(err, domain.ErrFileAttachmentIncomplete),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrTurnContentEmpty),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrStudySetNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrGenerationInFlight),
		errors.Is(err, service.ErrNoStudySet),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Render failures carry the raw markup as a fallback; the entity was
	// understood but could not be processed.
	case errors.Is(err, render.ErrRenderFailed):
		return http.StatusUnprocessableEntity

	// Upstream generative service failures
	case errors.Is(err, generation.ErrServiceCall),
		errors.Is(err, generation.ErrMalformedResponse),
		errors.Is(err, generation.ErrContentBlocked):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrNoSourceMaterial):
		return "Provide study text, a file, or both"

	case errors.Is(err, domain.ErrFileAttachmentIncomplete):
		return "File attachments need a name, a MIME type, and content"

	case errors.Is(err, domain.ErrInvalidCategory):
		return "Unknown diagram category"

	case errors.Is(err, domain.ErrTurnContentEmpty):
		return "Question cannot be empty"

	case errors.Is(err, service.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrStudySetNotFound):
		return "Study set not found"

	case errors.Is(err, service.ErrGenerationInFlight):
		return "Generation is already in progress for this session"

	case errors.Is(err, service.ErrNoStudySet):
		return "Generate a study set before asking questions"

	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, render.ErrRenderFailed):
		return "Diagram could not be rendered"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The service declined to process this material"

	case errors.Is(err, generation.ErrMalformedResponse):
		return "The generative service returned an unusable response"

	case errors.Is(err, generation.ErrServiceCall):
		return "The generative service is unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'GenerateRequest.Category' Error:Field validation
		// for 'Category' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// Package service provides the application-level study session service that
// coordinates generation, conversation, rendering, and persistence.
package service

import "errors"

// Common service errors - sentinel errors used across the study service.
// Callers check for these with errors.Is(); the API layer maps them to
// HTTP status codes.
var (
	// ErrSessionNotFound indicates that no session exists with the given ID.
	// API layer should map this to HTTP 404 Not Found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrGenerationInFlight indicates that a generation call is already
	// running for the session. Only one generation may run at a time.
	// API layer should map this to HTTP 409 Conflict.
	ErrGenerationInFlight = errors.New("generation already in progress")

	// ErrNoStudySet indicates that the session has no study set yet, so
	// follow-up questions and diagram access are not possible.
	// API layer should map this to HTTP 409 Conflict.
	ErrNoStudySet = errors.New("no study set has been generated for this session")
)

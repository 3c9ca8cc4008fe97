package generation

import "errors"

// Common errors returned by the generation package. The core performs no
// automatic retries on any of these; retries happen only when the user
// repeats the action.
var (
	// ErrMissingCredential is returned when no API credential is configured.
	// It is raised at client construction time, before any request is
	// attempted, and is not retryable.
	ErrMissingCredential = errors.New("no generation service credential configured")

	// ErrMalformedResponse is returned when the service reply cannot be
	// decoded as the requested JSON object, even after one repair pass.
	ErrMalformedResponse = errors.New("malformed response from generation service")

	// ErrServiceCall is returned for network or service-side failures.
	// Surfaced to the user with a generic message; retryable by re-issuing
	// the same action.
	ErrServiceCall = errors.New("generation service call failed")

	// ErrContentBlocked is returned when the service blocks the content due
	// to safety filters.
	ErrContentBlocked = errors.New("content blocked by generation service safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

package gemini

import "errors"

// Error definitions for the gemini package.
var (
	// ErrEmptyQuestion is returned when a follow-up question is empty.
	ErrEmptyQuestion = errors.New("question cannot be empty")
)

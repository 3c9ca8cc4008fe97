package render

import (
	"errors"
	"fmt"
)

// ErrRenderFailed is the sentinel all render errors wrap, so callers can
// detect render failures with errors.Is without inspecting details.
var ErrRenderFailed = errors.New("diagram render failed")

// Error is a structured render failure. It carries the original raw markup
// alongside the detail so the caller can present a raw-text fallback instead
// of a blank canvas. A render failure is per-diagram and non-fatal: it never
// blocks display of the summary or flashcards.
type Error struct {
	Detail    string
	RawMarkup string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("diagram render failed: %s", e.Detail)
}

// Unwrap makes errors.Is(err, ErrRenderFailed) work.
func (e *Error) Unwrap() error {
	return ErrRenderFailed
}

// newError builds an Error for the given markup.
func newError(markup, format string, args ...any) *Error {
	return &Error{
		Detail:    fmt.Sprintf(format, args...),
		RawMarkup: markup,
	}
}

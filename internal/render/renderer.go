package render

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/studymap/studymap-api/internal/domain"
)

// State identifies where the renderer is in its lifecycle for the current
// markup. It is derived solely from the latest markup value, never from
// history.
type State int

const (
	StateEmpty State = iota
	StateRendering
	StateRendered
	StateFailed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateRendering:
		return "rendering"
	case StateRendered:
		return "rendered"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable view of the renderer at one point in time.
// SVG is set only in StateRendered; Err only in StateFailed, where it
// carries both the failure detail and the raw markup for fallback display.
type Snapshot struct {
	State  State
	Markup string
	SVG    []byte
	Err    *Error
}

// RenderFunc produces a vector artifact from markup. The default parses the
// markup and lays it out as SVG; tests inject slow or failing substitutes.
type RenderFunc func(ctx context.Context, category domain.DiagramCategory, markup string) ([]byte, error)

// DefaultRenderFunc parses markup in the category's dialect and renders it
// to SVG.
func DefaultRenderFunc(ctx context.Context, category domain.DiagramCategory, markup string) ([]byte, error) {
	model, err := Parse(category, markup)
	if err != nil {
		return nil, err
	}
	return RenderSVG(ctx, model)
}

// Renderer owns the render state machine: Empty → Rendering → {Rendered |
// Failed}, re-entering Rendering on any markup change, including from
// Failed.
//
// Rendering is asynchronous and markup can change before a prior render
// completes, so each attempt carries a monotonically increasing identity;
// a completing attempt whose identity is not the latest issued is discarded
// unconditionally. No cancellation is propagated to superseded attempts;
// their work simply completes and is dropped.
type Renderer struct {
	logger   *slog.Logger
	renderFn RenderFunc

	mu      sync.Mutex
	attempt uint64 // identity of the latest issued attempt
	snap    Snapshot
}

// RendererOption customizes a Renderer.
type RendererOption func(*Renderer)

// WithRenderFunc replaces the default markup-to-SVG function.
func WithRenderFunc(fn RenderFunc) RendererOption {
	return func(r *Renderer) {
		r.renderFn = fn
	}
}

// NewRenderer creates a Renderer in StateEmpty.
// If logger is nil, the default logger is used.
func NewRenderer(logger *slog.Logger, opts ...RendererOption) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Renderer{
		logger:   logger.With(slog.String("component", "diagram_renderer")),
		renderFn: DefaultRenderFunc,
		snap:     Snapshot{State: StateEmpty},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit registers new markup and starts an asynchronous render attempt,
// returning the attempt identity (0 when no attempt was started).
//
// Empty markup moves the renderer to StateEmpty. Re-submitting markup that
// is already rendered is skipped: rendering is idempotent for identical
// markup, so skipping is a safe optimization. Any other submission enters
// StateRendering regardless of the current state and supersedes all
// attempts in flight.
func (r *Renderer) Submit(ctx context.Context, category domain.DiagramCategory, markup string) uint64 {
	markup = strings.TrimSpace(markup)

	r.mu.Lock()

	if markup == "" {
		r.attempt++ // supersede anything in flight
		r.snap = Snapshot{State: StateEmpty}
		r.mu.Unlock()
		return 0
	}

	if markup == r.snap.Markup && r.snap.State == StateRendered {
		r.mu.Unlock()
		return 0
	}

	r.attempt++
	id := r.attempt
	r.snap = Snapshot{State: StateRendering, Markup: markup}
	fn := r.renderFn
	r.mu.Unlock()

	go func() {
		svg, err := fn(ctx, category, markup)
		r.complete(id, markup, svg, err)
	}()

	return id
}

// complete applies the result of one attempt, unless a newer attempt has
// been issued since; stale results are dropped without touching state.
func (r *Renderer) complete(id uint64, markup string, svg []byte, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id != r.attempt {
		r.logger.Debug("discarding stale render result",
			slog.Uint64("attempt", id),
			slog.Uint64("latest", r.attempt))
		return
	}

	if err != nil {
		var rerr *Error
		if !errors.As(err, &rerr) {
			rerr = &Error{Detail: err.Error(), RawMarkup: markup}
		}
		r.snap = Snapshot{State: StateFailed, Markup: markup, Err: rerr}
		r.logger.Warn("diagram render failed",
			slog.Uint64("attempt", id),
			slog.String("detail", rerr.Detail))
		return
	}

	r.snap = Snapshot{State: StateRendered, Markup: markup, SVG: svg}
	r.logger.Debug("diagram rendered",
		slog.Uint64("attempt", id),
		slog.Int("svg_bytes", len(svg)))
}

// Snapshot returns the current state. The returned value is a copy; the
// SVG bytes are shared and must not be mutated by callers.
func (r *Renderer) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap
}

package render

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymap/studymap-api/internal/domain"
)

// gatedRenderFunc blocks each render attempt until the test releases the
// gate for that markup, so completion order can be controlled precisely.
type gatedRenderFunc struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	errs  map[string]error
}

func newGatedRenderFunc(markups ...string) *gatedRenderFunc {
	g := &gatedRenderFunc{
		gates: make(map[string]chan struct{}),
		errs:  make(map[string]error),
	}
	for _, m := range markups {
		g.gates[m] = make(chan struct{})
	}
	return g
}

func (g *gatedRenderFunc) failWith(markup string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[markup] = err
}

func (g *gatedRenderFunc) release(markup string) {
	close(g.gates[markup])
}

func (g *gatedRenderFunc) render(_ context.Context, _ domain.DiagramCategory, markup string) ([]byte, error) {
	if gate, ok := g.gates[markup]; ok {
		<-gate
	}
	g.mu.Lock()
	err := g.errs[markup]
	g.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return []byte("<svg>" + markup + "</svg>"), nil
}

func waitForState(t *testing.T, r *Renderer, want State) Snapshot {
	t.Helper()
	require.Eventually(t, func() bool {
		return r.Snapshot().State == want
	}, 2*time.Second, 5*time.Millisecond, "renderer never reached state %s", want)
	return r.Snapshot()
}

func TestRendererLifecycle(t *testing.T) {
	t.Parallel()

	gates := newGatedRenderFunc("A")
	r := NewRenderer(nil, WithRenderFunc(gates.render))

	assert.Equal(t, StateEmpty, r.Snapshot().State)

	r.Submit(context.Background(), domain.CategoryFlowchart, "A")
	assert.Equal(t, StateRendering, r.Snapshot().State)

	gates.release("A")
	snap := waitForState(t, r, StateRendered)
	assert.Equal(t, "A", snap.Markup)
	assert.Equal(t, []byte("<svg>A</svg>"), snap.SVG)
}

// Submit markup A, then markup B before A's render resolves: the final
// state must reflect B regardless of which attempt completes first.
func TestRendererDiscardsStaleResult(t *testing.T) {
	t.Parallel()

	t.Run("newer completes first", func(t *testing.T) {
		t.Parallel()

		gates := newGatedRenderFunc("A", "B")
		r := NewRenderer(nil, WithRenderFunc(gates.render))
		ctx := context.Background()

		r.Submit(ctx, domain.CategoryFlowchart, "A")
		r.Submit(ctx, domain.CategoryFlowchart, "B")

		gates.release("B")
		snap := waitForState(t, r, StateRendered)
		assert.Equal(t, "B", snap.Markup)

		// The slow stale render resolves afterwards and must be dropped.
		gates.release("A")
		time.Sleep(50 * time.Millisecond)
		snap = r.Snapshot()
		assert.Equal(t, StateRendered, snap.State)
		assert.Equal(t, "B", snap.Markup, "stale result must never overwrite newer state")
	})

	t.Run("stale completes first", func(t *testing.T) {
		t.Parallel()

		gates := newGatedRenderFunc("A", "B")
		r := NewRenderer(nil, WithRenderFunc(gates.render))
		ctx := context.Background()

		r.Submit(ctx, domain.CategoryFlowchart, "A")
		r.Submit(ctx, domain.CategoryFlowchart, "B")

		gates.release("A")
		time.Sleep(50 * time.Millisecond)
		snap := r.Snapshot()
		assert.Equal(t, StateRendering, snap.State, "stale completion must not leave Rendering")
		assert.Equal(t, "B", snap.Markup)

		gates.release("B")
		snap = waitForState(t, r, StateRendered)
		assert.Equal(t, "B", snap.Markup)
	})
}

func TestRendererFailureExposesRawMarkup(t *testing.T) {
	t.Parallel()

	gates := newGatedRenderFunc("bad")
	gates.failWith("bad", newError("bad", "markup must start with %q, got %q", "flowchart TD", "bad"))
	r := NewRenderer(nil, WithRenderFunc(gates.render))

	r.Submit(context.Background(), domain.CategoryFlowchart, "bad")
	gates.release("bad")

	snap := waitForState(t, r, StateFailed)
	require.NotNil(t, snap.Err)
	assert.Equal(t, "bad", snap.Err.RawMarkup, "caller needs raw markup for fallback display")
	assert.Nil(t, snap.SVG)
}

// Any markup change re-enters Rendering, including from Failed.
func TestRendererReentersRenderingFromFailed(t *testing.T) {
	t.Parallel()

	gates := newGatedRenderFunc("bad", "good")
	gates.failWith("bad", newError("bad", "no nodes"))
	r := NewRenderer(nil, WithRenderFunc(gates.render))
	ctx := context.Background()

	r.Submit(ctx, domain.CategoryFlowchart, "bad")
	gates.release("bad")
	waitForState(t, r, StateFailed)

	r.Submit(ctx, domain.CategoryFlowchart, "good")
	assert.Equal(t, StateRendering, r.Snapshot().State)

	gates.release("good")
	snap := waitForState(t, r, StateRendered)
	assert.Equal(t, "good", snap.Markup)
}

func TestRendererEmptyMarkup(t *testing.T) {
	t.Parallel()

	gates := newGatedRenderFunc("A")
	r := NewRenderer(nil, WithRenderFunc(gates.render))
	ctx := context.Background()

	id := r.Submit(ctx, domain.CategoryFlowchart, "   ")
	assert.Zero(t, id)
	assert.Equal(t, StateEmpty, r.Snapshot().State)

	// Empty markup also supersedes an in-flight attempt.
	r.Submit(ctx, domain.CategoryFlowchart, "A")
	r.Submit(ctx, domain.CategoryFlowchart, "")
	assert.Equal(t, StateEmpty, r.Snapshot().State)

	gates.release("A")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateEmpty, r.Snapshot().State, "superseded render must not resurrect state")
}

// Re-rendering identical, already-rendered markup may be skipped.
func TestRendererSkipsIdenticalRenderedMarkup(t *testing.T) {
	t.Parallel()

	gates := newGatedRenderFunc("A")
	r := NewRenderer(nil, WithRenderFunc(gates.render))
	ctx := context.Background()

	first := r.Submit(ctx, domain.CategoryFlowchart, "A")
	assert.NotZero(t, first)
	gates.release("A")
	waitForState(t, r, StateRendered)

	second := r.Submit(ctx, domain.CategoryFlowchart, "A")
	assert.Zero(t, second, "identical rendered markup should be skipped")
	assert.Equal(t, StateRendered, r.Snapshot().State)
}

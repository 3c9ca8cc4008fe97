package render

import (
	"bytes"
	"fmt"
	"sync"
)

// Viewport scale bounds.
const (
	MinScale     = 0.5
	MaxScale     = 4.0
	DefaultScale = 1.0
)

// Transform is the pan/zoom state applied to a rendered diagram.
type Transform struct {
	Scale float64 `json:"scale"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Viewport wraps rendered output in a pan/zoom transform with a bounded
// scale factor. Zoom and pan operations only ever mutate the transform,
// never the render state; the two are deliberately independent.
type Viewport struct {
	mu sync.Mutex
	t  Transform
}

// NewViewport creates a viewport centered at the origin with the default
// scale.
func NewViewport() *Viewport {
	return &Viewport{t: Transform{Scale: DefaultScale}}
}

// ZoomBy multiplies the scale by factor, clamped to [MinScale, MaxScale],
// and returns the resulting transform. Non-positive factors are ignored.
func (v *Viewport) ZoomBy(factor float64) Transform {
	v.mu.Lock()
	defer v.mu.Unlock()

	if factor > 0 {
		v.t.Scale = clampScale(v.t.Scale * factor)
	}
	return v.t
}

// PanBy shifts the viewport by (dx, dy) and returns the resulting
// transform.
func (v *Viewport) PanBy(dx, dy float64) Transform {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.t.X += dx
	v.t.Y += dy
	return v.t
}

// Reset returns the viewport to the default scale, centered.
func (v *Viewport) Reset() Transform {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.t = Transform{Scale: DefaultScale}
	return v.t
}

// Transform returns the current transform.
func (v *Viewport) Transform() Transform {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.t
}

// Apply wraps the SVG's content in a group carrying the current transform.
// SVG without a recognizable root element is returned unchanged.
func (v *Viewport) Apply(svg []byte) []byte {
	t := v.Transform()

	open := bytes.Index(svg, []byte("<svg"))
	if open < 0 {
		return svg
	}
	openEnd := bytes.IndexByte(svg[open:], '>')
	if openEnd < 0 {
		return svg
	}
	openEnd += open + 1

	closeIdx := bytes.LastIndex(svg, []byte("</svg>"))
	if closeIdx < openEnd {
		return svg
	}

	group := fmt.Sprintf(`<g transform="translate(%g %g) scale(%g)">`, t.X, t.Y, t.Scale)

	var out bytes.Buffer
	out.Grow(len(svg) + len(group) + 4)
	out.Write(svg[:openEnd])
	out.WriteString(group)
	out.Write(svg[openEnd:closeIdx])
	out.WriteString("</g>")
	out.Write(svg[closeIdx:])
	return out.Bytes()
}

// clampScale bounds a scale factor to the supported range.
func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// Package viewport tracks the scroll position over a laid-out document
// and selects the glyph runs visible through a window of fixed size.
package viewport

import (
	"iter"
	"sync"

	"github.com/GriffinCanCode/webview/internal/layout"
)

// ScrollStep is the distance one scroll key press moves, in pixels.
const ScrollStep = 100.0

// Controller owns the scroll offset. The offset always lies in
// [0, MaxOffset()].
type Controller struct {
	mu     sync.RWMutex
	width  float64
	height float64
	offset float64
	result layout.Result
}

// New creates a controller for a window of the given size, showing an
// empty document.
func New(width, height float64) *Controller {
	return &Controller{
		width:  max(width, 0),
		height: max(height, 0),
	}
}

// Width returns the window width.
func (c *Controller) Width() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width
}

// Height returns the window height.
func (c *Controller) Height() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height
}

// Offset returns the current scroll offset.
func (c *Controller) Offset() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

// Result returns the layout currently shown.
func (c *Controller) Result() layout.Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.result
}

// MaxOffset returns the largest offset the current document allows.
func (c *Controller) MaxOffset() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxOffset()
}

func (c *Controller) maxOffset() float64 {
	return max(0, c.result.Height-c.height)
}

func (c *Controller) clamp(offset float64) float64 {
	return min(max(offset, 0), c.maxOffset())
}

// SetResult replaces the document after a relayout. The offset is kept
// where possible and clamped to the new document height.
func (c *Controller) SetResult(r layout.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result = r
	c.offset = c.clamp(c.offset)
}

// Resize changes the window size and re-clamps the offset. It does not
// relayout; callers do that when the width changes.
func (c *Controller) Resize(width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = max(width, 0)
	c.height = max(height, 0)
	c.offset = c.clamp(c.offset)
}

// SetOffset moves to raw, clamped, and returns the offset applied.
func (c *Controller) SetOffset(raw float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = c.clamp(raw)
	return c.offset
}

// ScrollBy moves the offset by delta, clamped, and returns the offset
// applied.
func (c *Controller) ScrollBy(delta float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.offset = c.clamp(c.offset + delta)
	return c.offset
}

// ScrollDown scrolls one step toward the end of the document.
func (c *Controller) ScrollDown() float64 {
	return c.ScrollBy(ScrollStep)
}

// ScrollUp scrolls one step toward the top of the document.
func (c *Controller) ScrollUp() float64 {
	return c.ScrollBy(-ScrollStep)
}

// VisibleRuns yields the runs of r whose vertical extent meets the window,
// shifted so y is relative to the top of the window. The offset and
// window height are read when iteration starts.
func (c *Controller) VisibleRuns(r layout.Result) iter.Seq[layout.GlyphRun] {
	return func(yield func(layout.GlyphRun) bool) {
		c.mu.RLock()
		top, bottom := c.offset, c.offset+c.height
		c.mu.RUnlock()

		for _, run := range r.Runs {
			if run.Bottom() < top || run.Y > bottom {
				continue
			}
			run.Y -= top
			if !yield(run) {
				return
			}
		}
	}
}

// Visible yields the visible runs of the current document.
func (c *Controller) Visible() iter.Seq[layout.GlyphRun] {
	return c.VisibleRuns(c.Result())
}

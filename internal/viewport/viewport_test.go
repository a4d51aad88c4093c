package viewport

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/webview/internal/layout"
)

// column builds a document of runs 10 high, one every 20 pixels.
func column(height float64) layout.Result {
	var r layout.Result
	for y := 0.0; y+10 <= height; y += 20 {
		r.Runs = append(r.Runs, layout.GlyphRun{X: 13, Y: y, Text: "w", Size: 12, Ascent: 7.5, Descent: 2.5})
	}
	r.Height = height
	return r
}

func TestClampScroll(t *testing.T) {
	c := New(800, 200)
	doc := column(500)
	c.SetResult(doc)

	assert.Equal(t, 300.0, c.MaxOffset())
	assert.Equal(t, 300.0, c.ScrollBy(10000))
	assert.Equal(t, 300.0, c.Offset())

	runs := slices.Collect(c.VisibleRuns(doc))
	require.NotEmpty(t, runs)
	for _, run := range runs {
		abs := run.Y + 300
		assert.GreaterOrEqual(t, run.Bottom(), 0.0)
		assert.LessOrEqual(t, run.Y, 200.0)
		assert.GreaterOrEqual(t, abs+run.Ascent+run.Descent, 300.0, "never above the offset")
		assert.LessOrEqual(t, abs, doc.Height, "never below the content")
	}

	assert.Equal(t, 0.0, c.ScrollBy(-10000))
	assert.Equal(t, 0.0, c.SetOffset(-5))
	assert.Equal(t, 120.0, c.SetOffset(120))
	assert.Equal(t, 300.0, c.SetOffset(301))
}

func TestShortDocumentDoesNotScroll(t *testing.T) {
	c := New(800, 600)
	c.SetResult(column(100))

	assert.Equal(t, 0.0, c.MaxOffset())
	assert.Equal(t, 0.0, c.ScrollDown())
	assert.Equal(t, 0.0, c.SetOffset(50))
}

func TestEmptyDocument(t *testing.T) {
	c := New(800, 600)
	assert.Equal(t, 0.0, c.ScrollBy(100))
	assert.Empty(t, slices.Collect(c.Visible()))
}

func TestVisibleRunsShiftsY(t *testing.T) {
	c := New(800, 50)
	doc := column(200) // runs at 0, 20, ..., 180
	c.SetResult(doc)
	c.SetOffset(45)

	var ys []float64
	for run := range c.Visible() {
		ys = append(ys, run.Y)
	}
	// Run at 40 reaches 50 and is partly visible. Run at 100 starts
	// past the window bottom at 95.
	assert.Equal(t, []float64{-5, 15, 35}, ys)

	// Source runs are not modified.
	assert.Equal(t, 40.0, doc.Runs[2].Y)
}

func TestVisibleRunsStopsEarly(t *testing.T) {
	c := New(800, 1000)
	doc := column(500)
	c.SetResult(doc)

	n := 0
	for range c.VisibleRuns(doc) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestRelayoutReclampsWithoutReset(t *testing.T) {
	c := New(800, 200)
	c.SetResult(column(1000))
	c.SetOffset(500)

	// Same-height relayout keeps the offset.
	c.SetResult(column(1000))
	assert.Equal(t, 500.0, c.Offset())

	// A shorter document pulls the offset back to its new maximum.
	c.SetResult(column(400))
	assert.Equal(t, 200.0, c.Offset())

	// A taller one leaves it alone.
	c.SetResult(column(2000))
	assert.Equal(t, 200.0, c.Offset())
}

func TestResize(t *testing.T) {
	c := New(800, 200)
	c.SetResult(column(500))
	c.SetOffset(300)

	c.Resize(600, 400)
	assert.Equal(t, 600.0, c.Width())
	assert.Equal(t, 400.0, c.Height())
	assert.Equal(t, 100.0, c.Offset())

	c.Resize(-1, -1)
	assert.Equal(t, 0.0, c.Width())
	assert.Equal(t, 0.0, c.Height())
}

func TestScrollSteps(t *testing.T) {
	c := New(800, 200)
	c.SetResult(column(1000))

	assert.Equal(t, ScrollStep, c.ScrollDown())
	assert.Equal(t, 2*ScrollStep, c.ScrollDown())
	assert.Equal(t, ScrollStep, c.ScrollUp())
	assert.Equal(t, 0.0, c.ScrollUp())
	assert.Equal(t, 0.0, c.ScrollUp())
}

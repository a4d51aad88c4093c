package layout

import (
	"strings"

	"github.com/GriffinCanCode/webview/internal/markup"
)

// Engine lays out token streams. It holds no per-document state, so one
// Engine may serve concurrent Layout calls if its Metrics allow that.
type Engine struct {
	metrics Metrics
}

// New creates an engine that measures with m. A nil m uses
// DefaultMetrics.
func New(m Metrics) *Engine {
	if m == nil {
		m = DefaultMetrics()
	}
	return &Engine{metrics: m}
}

// Layout lays tokens out in a page of the given width using
// DefaultMetrics.
func Layout(tokens []markup.Token, width float64) Result {
	return New(nil).Layout(tokens, width)
}

// Layout places tokens in a page width pixels wide. An empty token list
// or a non-positive width yields an empty result.
func (e *Engine) Layout(tokens []markup.Token, width float64) Result {
	if len(tokens) == 0 || width <= 0 {
		return Result{}
	}

	s := &state{
		metrics: e.metrics,
		width:   width,
		x:       HStep,
		y:       VStep,
	}
	for _, tok := range tokens {
		switch tok.Kind {
		case markup.TextToken:
			for _, word := range strings.Fields(tok.Data) {
				s.emitWord(word)
			}
		case markup.TagToken:
			effects[LookupTag(tok)](s)
		}
	}
	s.flushLine()

	return Result{Runs: s.runs, Height: s.y}
}

// pending is a word waiting on the current line for its y.
type pending struct {
	x     float64
	word  string
	style Style
	width float64
}

// state is the cursor and style of one layout pass.
type state struct {
	metrics Metrics
	width   float64

	x, y float64
	line []pending
	runs []GlyphRun

	// Open tag depths. Closing tags never take these below zero.
	bold, italic, small, big int
}

func (s *state) style() Style {
	st := BaseStyle()
	st.Size = max(1, BaseSize+s.small*SmallDelta+s.big*BigDelta)
	if s.bold > 0 {
		st.Weight = Bold
	}
	if s.italic > 0 {
		st.Slant = Italic
	}
	return st
}

// emitWord adds word to the current line, flushing first if it would
// cross the right margin. A word wider than the page sits alone on its
// line.
func (s *state) emitWord(word string) {
	st := s.style()
	w := s.metrics.Width(st, word)
	if s.x+w > s.width-HStep {
		s.flushLine()
	}
	s.line = append(s.line, pending{x: s.x, word: word, style: st, width: w})
	s.x += w + s.metrics.Width(st, " ")
}

// flushLine aligns the pending words on a common baseline and moves the
// cursor to the start of the next line.
func (s *state) flushLine() {
	if len(s.line) == 0 {
		return
	}

	var maxAscent, maxDescent float64
	for _, p := range s.line {
		maxAscent = max(maxAscent, s.metrics.Ascent(p.style))
		maxDescent = max(maxDescent, s.metrics.Descent(p.style))
	}

	baseline := s.y + LineFactor*maxAscent
	for _, p := range s.line {
		ascent := s.metrics.Ascent(p.style)
		s.runs = append(s.runs, GlyphRun{
			X:       p.x,
			Y:       baseline - ascent,
			Text:    p.word,
			Size:    p.style.Size,
			Weight:  p.style.Weight,
			Slant:   p.style.Slant,
			Width:   p.width,
			Ascent:  ascent,
			Descent: s.metrics.Descent(p.style),
		})
	}

	s.y = baseline + LineFactor*maxDescent
	s.x = HStep
	s.line = s.line[:0]
}

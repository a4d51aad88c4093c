package layout

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Metrics measures text. Implementations must be safe for concurrent use
// and must return the same values for the same inputs.
type Metrics interface {
	Width(s Style, text string) float64
	Ascent(s Style) float64
	Descent(s Style) float64
}

// Monospace is a fixed-advance metric: every rune is half the font size
// wide, ascent is three quarters of the size and descent one quarter.
type Monospace struct{}

func (Monospace) Width(s Style, text string) float64 {
	return float64(utf8.RuneCountInString(text)) * float64(s.Size) / 2
}

func (Monospace) Ascent(s Style) float64  { return float64(s.Size) * 0.75 }
func (Monospace) Descent(s Style) float64 { return float64(s.Size) * 0.25 }

// FontMetrics measures text with the Go font family at 72 DPI, so one
// point is one pixel. Faces are created lazily per style.
type FontMetrics struct {
	mu    sync.Mutex
	fonts [2][2]*opentype.Font // [weight][slant]
	faces map[Style]font.Face
}

// NewFontMetrics parses the embedded Go fonts.
func NewFontMetrics() (*FontMetrics, error) {
	m := &FontMetrics{faces: make(map[Style]font.Face)}

	sources := [2][2][]byte{
		{goregular.TTF, goitalic.TTF},
		{gobold.TTF, gobolditalic.TTF},
	}
	for w := range sources {
		for s := range sources[w] {
			f, err := opentype.Parse(sources[w][s])
			if err != nil {
				return nil, fmt.Errorf("failed to parse font %s/%s: %w", Weight(w), Slant(s), err)
			}
			m.fonts[w][s] = f
		}
	}
	return m, nil
}

// DefaultMetrics returns a shared FontMetrics, falling back to Monospace
// if the embedded fonts cannot be parsed.
var DefaultMetrics = sync.OnceValue(func() Metrics {
	m, err := NewFontMetrics()
	if err != nil {
		return Monospace{}
	}
	return m
})

// face returns the face for s. Callers hold m.mu; faces are not safe for
// concurrent use.
func (m *FontMetrics) face(s Style) font.Face {
	if f, ok := m.faces[s]; ok {
		return f
	}
	f, err := opentype.NewFace(m.fonts[s.Weight&1][s.Slant&1], &opentype.FaceOptions{
		Size:    float64(max(s.Size, 1)),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		// Only reachable with invalid options, which face never builds.
		panic(fmt.Sprintf("layout: creating face for %+v: %v", s, err))
	}
	m.faces[s] = f
	return f
}

func (m *FontMetrics) Width(s Style, text string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toFloat(font.MeasureString(m.face(s), text))
}

func (m *FontMetrics) Ascent(s Style) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toFloat(m.face(s).Metrics().Ascent)
}

func (m *FontMetrics) Descent(s Style) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return toFloat(m.face(s).Metrics().Descent)
}

// Close releases all cached faces.
func (m *FontMetrics) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for s, f := range m.faces {
		_ = f.Close()
		delete(m.faces, s)
	}
	return nil
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

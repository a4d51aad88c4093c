package layout

import "fmt"

// Page geometry, in pixels.
const (
	HStep = 13.0 // left and right margin
	VStep = 18.0 // top margin and paragraph spacing

	BaseSize   = 12
	SmallDelta = -2
	BigDelta   = 4

	// LineFactor scales ascent and descent into line leading.
	LineFactor = 1.25
)

// Weight is the stroke weight of a run.
type Weight uint8

const (
	Normal Weight = iota
	Bold
)

func (w Weight) String() string {
	if w == Bold {
		return "bold"
	}
	return "normal"
}

// MarshalText implements encoding.TextMarshaler.
func (w Weight) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Weight) UnmarshalText(b []byte) error {
	switch string(b) {
	case "normal":
		*w = Normal
	case "bold":
		*w = Bold
	default:
		return fmt.Errorf("unknown weight %q", b)
	}
	return nil
}

// Slant is the posture of a run.
type Slant uint8

const (
	Roman Slant = iota
	Italic
)

func (s Slant) String() string {
	if s == Italic {
		return "italic"
	}
	return "roman"
}

// MarshalText implements encoding.TextMarshaler.
func (s Slant) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Slant) UnmarshalText(b []byte) error {
	switch string(b) {
	case "roman":
		*s = Roman
	case "italic":
		*s = Italic
	default:
		return fmt.Errorf("unknown slant %q", b)
	}
	return nil
}

// Style selects a face.
type Style struct {
	Size   int
	Weight Weight
	Slant  Slant
}

// BaseStyle is the style text starts in.
func BaseStyle() Style {
	return Style{Size: BaseSize}
}

// GlyphRun is one word drawn in one style. Y is the top of the run; the
// run's baseline is at Y + Ascent.
type GlyphRun struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Text    string  `json:"text"`
	Size    int     `json:"size"`
	Weight  Weight  `json:"weight"`
	Slant   Slant   `json:"slant"`
	Width   float64 `json:"width"`
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

// Style returns the style the run was measured in.
func (r GlyphRun) Style() Style {
	return Style{Size: r.Size, Weight: r.Weight, Slant: r.Slant}
}

// Bottom is the lowest y the run's glyphs reach.
func (r GlyphRun) Bottom() float64 {
	return r.Y + r.Ascent + r.Descent
}

// Result is a complete layout. Height is the document extent including
// the trailing descent of the last line.
type Result struct {
	Runs   []GlyphRun `json:"runs"`
	Height float64    `json:"height"`
}

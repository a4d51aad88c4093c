package layout

import "github.com/GriffinCanCode/webview/internal/markup"

// TagKind enumerates the tags layout reacts to.
type TagKind uint8

const (
	TagUnknown TagKind = iota
	TagItalic
	TagItalicEnd
	TagBold
	TagBoldEnd
	TagSmall
	TagSmallEnd
	TagBig
	TagBigEnd
	TagBreak
	TagParagraphEnd
)

var tagNames = map[string]TagKind{
	"i":      TagItalic,
	"/i":     TagItalicEnd,
	"b":      TagBold,
	"/b":     TagBoldEnd,
	"small":  TagSmall,
	"/small": TagSmallEnd,
	"big":    TagBig,
	"/big":   TagBigEnd,
	"br":     TagBreak,
	"/p":     TagParagraphEnd,
}

// LookupTag classifies a tag token. Anything unrecognized, including
// text tokens, is TagUnknown.
func LookupTag(t markup.Token) TagKind {
	return tagNames[t.Name()]
}

// effects maps each recognized tag to its change in layout state.
var effects = [...]func(*state){
	TagUnknown:      func(*state) {},
	TagItalic:       func(s *state) { s.italic++ },
	TagItalicEnd:    func(s *state) { s.italic = dec(s.italic) },
	TagBold:         func(s *state) { s.bold++ },
	TagBoldEnd:      func(s *state) { s.bold = dec(s.bold) },
	TagSmall:        func(s *state) { s.small++ },
	TagSmallEnd:     func(s *state) { s.small = dec(s.small) },
	TagBig:          func(s *state) { s.big++ },
	TagBigEnd:       func(s *state) { s.big = dec(s.big) },
	TagBreak:        func(s *state) { s.flushLine() },
	TagParagraphEnd: func(s *state) { s.flushLine(); s.y += VStep },
}

func dec(n int) int {
	if n > 0 {
		return n - 1
	}
	return 0
}

package markup

import (
	"strconv"
	"strings"
)

// Kind distinguishes the two token shapes.
type Kind uint8

const (
	TextToken Kind = iota
	TagToken
)

// Token is either a run of text or a tag. For a TagToken, Data holds the
// raw contents between the angle brackets, e.g. "p", "/p" or "a href=x".
type Token struct {
	Kind Kind
	Data string
}

// Text creates a text token.
func Text(s string) Token {
	return Token{Kind: TextToken, Data: s}
}

// Tag creates a tag token.
func Tag(s string) Token {
	return Token{Kind: TagToken, Data: s}
}

// IsText reports whether t is a text token.
func (t Token) IsText() bool { return t.Kind == TextToken }

// IsTag reports whether t is a tag token.
func (t Token) IsTag() bool { return t.Kind == TagToken }

// Name returns the lowercased tag name without attributes, e.g. "/p" for
// "/P class=x". It is empty for text tokens.
func (t Token) Name() string {
	if t.Kind != TagToken {
		return ""
	}
	name, _, _ := strings.Cut(strings.TrimSpace(t.Data), " ")
	name = strings.TrimSuffix(name, "/")
	return strings.ToLower(name)
}

// String renders the token for debugging.
func (t Token) String() string {
	if t.Kind == TagToken {
		return "Tag(" + strconv.Quote(t.Data) + ")"
	}
	return "Text(" + strconv.Quote(t.Data) + ")"
}

// PlainText concatenates the contents of all text tokens.
func PlainText(tokens []Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.Kind == TextToken {
			sb.WriteString(t.Data)
		}
	}
	return sb.String()
}

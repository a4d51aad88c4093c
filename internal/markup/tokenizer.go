package markup

import "strings"

// entities are the only named character references that are resolved.
var entities = map[string]string{
	"lt":   "<",
	"gt":   ">",
	"amp":  "&",
	"quot": `"`,
	"apos": "'",
}

type mode uint8

const (
	modeText mode = iota
	modeTag
	modeEntity
)

// Tokenize splits body into text and tag tokens in a single forward pass.
//
// Resolved entities become part of the surrounding text token. Unknown or
// unterminated entities are kept verbatim. An unterminated tag at the end of
// input is still emitted as a tag, and a lone trailing "<" as text.
// Tokenize accepts any input.
func Tokenize(body string) []Token {
	var (
		tokens []Token
		buf    strings.Builder
		entity strings.Builder
		state  = modeText
	)

	flushText := func() {
		if buf.Len() > 0 {
			tokens = append(tokens, Text(buf.String()))
			buf.Reset()
		}
	}

	for _, c := range body {
		switch state {
		case modeEntity:
			switch c {
			case ';':
				name := entity.String()
				if resolved, ok := entities[name]; ok {
					buf.WriteString(resolved)
				} else {
					buf.WriteString("&" + name + ";")
				}
				entity.Reset()
				state = modeText
			case '<':
				buf.WriteString("&" + entity.String())
				entity.Reset()
				flushText()
				state = modeTag
			case '&':
				buf.WriteString("&" + entity.String())
				entity.Reset()
			default:
				entity.WriteRune(c)
			}

		case modeTag:
			if c == '>' {
				tokens = append(tokens, Tag(buf.String()))
				buf.Reset()
				state = modeText
				continue
			}
			buf.WriteRune(c)

		default:
			switch c {
			case '<':
				flushText()
				state = modeTag
			case '&':
				state = modeEntity
			default:
				buf.WriteRune(c)
			}
		}
	}

	switch state {
	case modeTag:
		if buf.Len() > 0 {
			tokens = append(tokens, Tag(buf.String()))
		} else if n := len(tokens); n > 0 && tokens[n-1].Kind == TextToken {
			tokens[n-1] = Text(tokens[n-1].Data + "<")
		} else {
			tokens = append(tokens, Text("<"))
		}
	case modeEntity:
		buf.WriteString("&" + entity.String())
		flushText()
	default:
		flushText()
	}

	return tokens
}

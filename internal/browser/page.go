package browser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/GriffinCanCode/webview/internal/locator"
	"github.com/GriffinCanCode/webview/internal/markup"
)

// Page is a loaded document.
type Page struct {
	Ref    locator.Ref
	Body   string
	Title  string
	Tokens []markup.Token

	// Err is the fetch error that blanked the page, if any.
	Err error
}

// Blank reports whether the page shows nothing because its fetch failed.
func (p *Page) Blank() bool {
	return p.Err != nil
}

// tokensFor turns a fetched body into tokens. View-source bodies are shown
// literally, one line per row, and never parsed as markup.
func tokensFor(ref locator.Ref, body string) []markup.Token {
	if ref.Kind != locator.KindViewSource {
		return markup.Tokenize(body)
	}
	if body == "" {
		return nil
	}

	lines := strings.Split(strings.TrimSuffix(body, "\n"), "\n")
	tokens := make([]markup.Token, 0, 2*len(lines))
	for _, line := range lines {
		tokens = append(tokens, markup.Text(strings.TrimSuffix(line, "\r")), markup.Tag("br"))
	}
	return tokens
}

// extractTitle returns the document title, falling back to og:title.
func extractTitle(body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("meta[property='og:title']").AttrOr("content", ""))
	}
	return strings.Join(strings.Fields(title), " ")
}

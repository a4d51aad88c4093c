// Package browser runs the fetch, tokenize, layout and scroll pipeline for
// one browsing session.
//
// A Session owns its transport state, so two sessions never share pooled
// connections or cached bodies. Any fetch failure is shown as a blank page;
// the error is kept on the Page and logged, never returned.
//
// Example Usage:
//
//	s := browser.New(browser.Options{Width: 800, Height: 600})
//	defer s.Close()
//
//	page := s.Load(ctx, "https://example.org/")
//	for _, run := range s.DisplayList() {
//		draw(run.X, run.Y, run.Text, run.Style())
//	}
package browser

// Package layout places a token stream into positioned, styled glyph runs.
//
// Layout is greedy: words are measured in the current style and placed
// left to right until the next one would cross the right margin, at which
// point the pending line is flushed. Words on one line share a baseline,
// so mixed sizes align at the bottom of their ascent rather than at the
// top of the line.
//
// Recognized tags:
//   - b, /b          bold on, off
//   - i, /i          italic on, off
//   - small, /small  size -2 while open
//   - big, /big      size +4 while open
//   - br             line break
//   - /p             line break plus one VStep of paragraph space
//
// All other tags are ignored. Closing tags without an open partner do
// nothing.
//
// Example Usage:
//
//	engine := layout.New(layout.DefaultMetrics())
//	result := engine.Layout(markup.Tokenize(body), 800)
//	fmt.Println(len(result.Runs), result.Height)
package layout

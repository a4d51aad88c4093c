// Package markup turns document text into a flat stream of Text and Tag
// tokens.
//
// The tokenizer knows nothing about which tags exist. It separates
// "<...>" from surrounding text and resolves the five named entities
// &lt; &gt; &amp; &quot; and &apos;. Every other "&name;" sequence is kept
// as literal text, and input that ends inside a tag or entity is flushed
// rather than dropped.
package markup

// Package locator parses resource locators into tagged references.
//
// Recognized forms, checked in this order:
//   - data:<mime>,<payload>     literal payload after the first comma
//   - file://<path>             local file
//   - view-source:<locator>     raw body of the inner locator
//   - http://host[:port]/path   plain HTTP/1.1 (port 80 by default)
//   - https://host[:port]/path  HTTP/1.1 over TLS (port 443 by default)
//
// Anything else parses to an About reference, which fetches as an empty
// document. Parse never fails.
//
// Example Usage:
//
//	ref := locator.Parse("https://example.org/index.html")
//	fmt.Println(ref.Host, ref.Port, ref.Path) // example.org 443 /index.html
package locator

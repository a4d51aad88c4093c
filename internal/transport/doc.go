/*
Package transport fetches documents for the browser.

# Overview

A Client resolves a locator.Ref to a decoded body string:

  - about: an empty body
  - data: the literal payload
  - file: the file's text
  - view-source: the inner reference's body
  - http/https: an HTTP/1.1 GET over a pooled keep-alive connection

# Session State

Connections and cached responses live in a State owned by one browsing
session and shared by reference with its Client. Both maps are keyed by
host and port. The cache ignores the path, so once http://h/a is cached a
fetch of http://h/b returns the same body. Cached entries record max-age
but are returned regardless of age. Both behaviors are deliberate.

# Wire Handling

Each request sends Host, Connection: keep-alive, User-Agent and
Accept-Encoding: gzip. Responses are framed by Transfer-Encoding: chunked
or Content-Length; gzip content coding is undone with klauspost/compress
and bodies that are not valid UTF-8 are transcoded after charset
detection. 301, 302, 303, 307 and 308 responses are followed to their
Location without a hop limit.

A response is cached when it has Cache-Control max-age, or is a 200 with
no Cache-Control at all, and never when it says no-store.

# Errors

Every failure is a *FetchError wrapping one of ErrTransport, ErrProtocol,
ErrFraming, ErrEncoding or ErrUnsupportedMedia. Nothing is retried. The
browser package turns any error into a blank page.
*/
package transport

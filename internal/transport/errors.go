package transport

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by Fetch wraps exactly one of these.
var (
	// ErrTransport covers dial, TLS, read and write failures.
	ErrTransport = errors.New("transport failure")
	// ErrProtocol covers malformed status lines, header lines and missing
	// required headers.
	ErrProtocol = errors.New("protocol violation")
	// ErrFraming covers invalid chunk sizes and truncated bodies.
	ErrFraming = errors.New("invalid message framing")
	// ErrEncoding covers content-encoding failures such as corrupt gzip data.
	ErrEncoding = errors.New("content decoding failed")
	// ErrUnsupportedMedia is returned for local files that are not text.
	ErrUnsupportedMedia = errors.New("unsupported media type")
)

// FetchError describes a failed fetch step.
type FetchError struct {
	Op  string // "dial", "write", "read", "decode", "open", ...
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// kindError tags err with one of the kind sentinels.
func kindError(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// wrapKind tags a lower level error with a kind sentinel, keeping both in
// the chain.
func wrapKind(kind error, what string, err error) error {
	return fmt.Errorf("%w: %s: %w", kind, what, err)
}

package locator

import (
	"strconv"
	"strings"
)

// Kind identifies which variant of a Ref is populated.
type Kind int

const (
	KindAbout Kind = iota
	KindHTTP
	KindFile
	KindData
	KindViewSource
)

// String returns the scheme-like name of the kind
func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindFile:
		return "file"
	case KindData:
		return "data"
	case KindViewSource:
		return "view-source"
	default:
		return "about"
	}
}

const (
	DefaultHTTPPort  = 80
	DefaultHTTPSPort = 443
)

// Ref is a parsed resource locator. Only the fields of its Kind are set.
type Ref struct {
	Kind Kind

	// HTTP
	Host   string
	Port   int
	Path   string
	Secure bool

	// File uses Path.

	// Data
	MediaType string
	Payload   string

	// ViewSource
	Inner *Ref
}

// Key identifies a transport endpoint.
type Key struct {
	Host string
	Port int
}

// String renders the key as host:port
func (k Key) String() string {
	return k.Host + ":" + strconv.Itoa(k.Port)
}

// About returns the blank reference.
func About() Ref {
	return Ref{Kind: KindAbout}
}

// Parse turns raw into a Ref. Unrecognized or ambiguous input yields About.
func Parse(raw string) Ref {
	switch {
	case strings.HasPrefix(raw, "data:"):
		media, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
		if !ok {
			return About()
		}
		return Ref{Kind: KindData, MediaType: media, Payload: payload}
	case strings.HasPrefix(raw, "file://"):
		path := strings.TrimPrefix(raw, "file://")
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return Ref{Kind: KindFile, Path: path}
	case strings.HasPrefix(raw, "view-source:"):
		inner := Parse(strings.TrimPrefix(raw, "view-source:"))
		return Ref{Kind: KindViewSource, Inner: &inner}
	}

	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return About()
	}
	return parseHTTP(scheme, rest)
}

// parseHTTP handles the scheme://host[:port]/path form
func parseHTTP(scheme, rest string) Ref {
	ref := Ref{Kind: KindHTTP}
	switch scheme {
	case "http":
		ref.Port = DefaultHTTPPort
	case "https":
		ref.Port = DefaultHTTPSPort
		ref.Secure = true
	default:
		return About()
	}

	host, path, _ := strings.Cut(rest, "/")
	ref.Path = "/" + path

	if h, port, found := strings.Cut(host, ":"); found {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return About()
		}
		host, ref.Port = h, n
	}
	if host == "" {
		return About()
	}
	ref.Host = host
	return ref
}

// Key returns the connection key of an HTTP reference.
func (r Ref) Key() Key {
	return Key{Host: r.Host, Port: r.Port}
}

// Scheme returns the locator scheme for the reference.
func (r Ref) Scheme() string {
	if r.Kind == KindHTTP && r.Secure {
		return "https"
	}
	return r.Kind.String()
}

// String renders the reference back into locator form.
func (r Ref) String() string {
	switch r.Kind {
	case KindHTTP:
		s := r.Scheme() + "://" + r.Host
		if (r.Secure && r.Port != DefaultHTTPSPort) || (!r.Secure && r.Port != DefaultHTTPPort) {
			s += ":" + strconv.Itoa(r.Port)
		}
		return s + r.Path
	case KindFile:
		return "file://" + r.Path
	case KindData:
		return "data:" + r.MediaType + "," + r.Payload
	case KindViewSource:
		if r.Inner == nil {
			return "view-source:about:blank"
		}
		return "view-source:" + r.Inner.String()
	default:
		return "about:blank"
	}
}

// Resolve parses a redirect Location relative to r. A location starting
// with a single "/" keeps the scheme, host and port of r.
func (r Ref) Resolve(location string) Ref {
	if r.Kind == KindHTTP && strings.HasPrefix(location, "/") && !strings.HasPrefix(location, "//") {
		next := r
		next.Path = location
		return next
	}
	return Parse(location)
}

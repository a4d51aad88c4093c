package transport

import (
	"strconv"
	"strings"
	"time"
)

// cacheDecision is the outcome of the write-side caching policy.
type cacheDecision struct {
	store     bool
	maxAge    time.Duration
	hasMaxAge bool
}

// cachePolicy decides whether a final (non-redirect) response is cached:
// "no-store" never is, a parseable max-age always is, and a 200 without
// any Cache-Control header is. Everything else is not.
func cachePolicy(status int, h Header) cacheDecision {
	cc := strings.ToLower(strings.TrimSpace(h.Get("cache-control")))
	if cc == "" {
		return cacheDecision{store: status == 200}
	}

	directives := strings.Split(cc, ",")
	for i := range directives {
		directives[i] = strings.TrimSpace(directives[i])
	}

	for _, d := range directives {
		if d == "no-store" {
			return cacheDecision{}
		}
	}

	for _, d := range directives {
		value, ok := strings.CutPrefix(d, "max-age=")
		if !ok {
			continue
		}
		secs, err := strconv.Atoi(strings.Trim(value, `"`))
		if err != nil || secs < 0 {
			return cacheDecision{}
		}
		return cacheDecision{
			store:     true,
			maxAge:    time.Duration(secs) * time.Second,
			hasMaxAge: true,
		}
	}
	return cacheDecision{}
}

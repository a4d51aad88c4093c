package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCachePolicy(t *testing.T) {
	tests := []struct {
		name   string
		status int
		cc     string
		want   cacheDecision
	}{
		{"plain 200", 200, "", cacheDecision{store: true}},
		{"plain 404", 404, "", cacheDecision{}},
		{"no-store", 200, "no-store", cacheDecision{}},
		{"no-store beats max-age", 200, "max-age=60, no-store", cacheDecision{}},
		{"max-age", 200, "max-age=60", cacheDecision{store: true, maxAge: time.Minute, hasMaxAge: true}},
		{"max-age with other directives", 200, "public, MAX-AGE=5", cacheDecision{store: true, maxAge: 5 * time.Second, hasMaxAge: true}},
		{"max-age on non-200", 404, "max-age=10", cacheDecision{store: true, maxAge: 10 * time.Second, hasMaxAge: true}},
		{"zero max-age", 200, "max-age=0", cacheDecision{store: true, hasMaxAge: true}},
		{"unparseable max-age", 200, "max-age=soon", cacheDecision{}},
		{"negative max-age", 200, "max-age=-1", cacheDecision{}},
		{"other directive only", 200, "public", cacheDecision{}},
		{"no-cache only", 200, "no-cache", cacheDecision{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Header{}
			if tt.cc != "" {
				h["cache-control"] = tt.cc
			}
			assert.Equal(t, tt.want, cachePolicy(tt.status, h))
		})
	}
}

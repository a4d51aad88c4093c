package transport

import (
	"bufio"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/GriffinCanCode/webview/internal/locator"
)

// Key identifies a pooled connection and a cache entry.
type Key = locator.Key

// CachedResponse is a stored response body. MaxAge is recorded when the
// response carried one but is never checked on read.
type CachedResponse struct {
	Body      string
	MaxAge    time.Duration
	HasMaxAge bool
	StoredAt  time.Time
}

// conn is a pooled keep-alive connection. mu is held for the whole
// request/response exchange so two fetches never interleave on one socket.
type conn struct {
	net.Conn
	r  *bufio.Reader
	mu sync.Mutex
}

func newConn(c net.Conn) *conn {
	return &conn{Conn: c, r: bufio.NewReader(c)}
}

// State is the connection pool and response cache of one browsing
// session. Both are keyed by host and port only, so two paths on the same
// host share one cache entry.
type State struct {
	mu    sync.Mutex
	conns map[Key]*conn
	cache map[Key]CachedResponse
	now   func() time.Time
}

// NewState creates an empty session state.
func NewState() *State {
	return &State{
		conns: make(map[Key]*conn),
		cache: make(map[Key]CachedResponse),
		now:   time.Now,
	}
}

// Cached returns the cached response for key, regardless of its age.
func (s *State) Cached(key Key) (CachedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resp, ok := s.cache[key]
	return resp, ok
}

// Store caches resp under key unless an entry already exists. It reports
// whether resp was stored.
func (s *State) Store(key Key, resp CachedResponse) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.cache[key]; exists {
		return false
	}
	if resp.StoredAt.IsZero() {
		resp.StoredAt = s.now()
	}
	s.cache[key] = resp
	return true
}

// CacheLen returns the number of cached responses.
func (s *State) CacheLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cache)
}

// PoolLen returns the number of pooled connections.
func (s *State) PoolLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Close closes every pooled connection. The cache is kept.
func (s *State) Close() error {
	s.mu.Lock()
	conns := s.conns
	s.conns = make(map[Key]*conn)
	s.mu.Unlock()

	var errs []error
	for _, c := range conns {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *State) conn(key Key) (*conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conns[key]
	return c, ok
}

// adopt pools c under key. If another connection won the race for key, c
// is closed and the pooled one is returned.
func (s *State) adopt(key Key, c *conn) *conn {
	s.mu.Lock()
	existing, ok := s.conns[key]
	if !ok {
		s.conns[key] = c
	}
	s.mu.Unlock()

	if ok {
		_ = c.Close()
		return existing
	}
	return c
}

// evict removes c from the pool and closes it. A different connection
// pooled under the same key is left alone.
func (s *State) evict(key Key, c *conn) {
	s.mu.Lock()
	if s.conns[key] == c {
		delete(s.conns, key)
	}
	s.mu.Unlock()
	_ = c.Close()
}

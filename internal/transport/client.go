package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/webview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webview/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/webview/internal/locator"
)

// Dialer opens raw network connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Options configures a Client. The zero value is usable.
type Options struct {
	Dialer      Dialer
	TLSConfig   *tls.Config
	UserAgent   string
	DialTimeout time.Duration

	// RequestsPerSecond paces outgoing requests, redirects included.
	// Zero means unlimited.
	RequestsPerSecond float64

	// Breaker guards dials per host:port. A zero FailureThreshold
	// disables it.
	Breaker resilience.Settings

	Metrics *monitoring.Metrics
	Logger  *zap.Logger
}

// Client fetches documents over HTTP/1.1 keep-alive connections, from local
// files and from inline data. It follows redirects, decodes chunked and
// gzip bodies and caches responses in its State.
type Client struct {
	state   *State
	opts    Options
	dialer  Dialer
	limiter *rate.Limiter
	guards  *resilience.Group
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// response is a parsed response head plus its raw body.
type response struct {
	status     int
	header     Header
	body       []byte
	closeAfter bool
}

// redirect reports whether r sends the client elsewhere: any 3xx other
// than 304 that names a Location, and the standard redirect codes even
// without one (a missing Location is then an error).
func (r *response) redirect() bool {
	switch r.status {
	case 301, 302, 303, 307, 308:
		return true
	case 304:
		return false
	}
	return r.status >= 300 && r.status < 400 && r.header.Get("location") != ""
}

// NewClient creates a client that pools connections and caches responses
// in state.
func NewClient(state *State, opts Options) *Client {
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &net.Dialer{KeepAlive: 30 * time.Second}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), max(1, int(opts.RequestsPerSecond)))
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		state:   state,
		opts:    opts,
		dialer:  dialer,
		limiter: limiter,
		guards:  resilience.NewGroup(opts.Breaker),
		metrics: opts.Metrics,
		logger:  logger.Named("transport"),
	}
}

// State returns the session state the client uses.
func (c *Client) State() *State {
	return c.state
}

// Fetch returns the decoded body named by ref. About references fetch as
// an empty body; a view-source reference fetches its inner reference.
func (c *Client) Fetch(ctx context.Context, ref locator.Ref) (string, error) {
	start := time.Now()
	body, outcome, err := c.fetch(ctx, ref)
	if err != nil {
		outcome = monitoring.OutcomeError
	} else {
		c.metrics.RecordBody(len(body))
	}
	c.metrics.RecordFetch(ref.Scheme(), outcome, time.Since(start))
	return body, err
}

func (c *Client) fetch(ctx context.Context, ref locator.Ref) (string, string, error) {
	switch ref.Kind {
	case locator.KindData:
		return ref.Payload, monitoring.OutcomeOK, nil
	case locator.KindFile:
		body, err := readFile(ref.Path)
		if err != nil {
			return "", "", &FetchError{Op: "open", URL: ref.String(), Err: err}
		}
		return body, monitoring.OutcomeOK, nil
	case locator.KindViewSource:
		if ref.Inner == nil {
			return "", monitoring.OutcomeOK, nil
		}
		return c.fetch(ctx, *ref.Inner)
	case locator.KindHTTP:
		return c.fetchHTTP(ctx, ref)
	default:
		return "", monitoring.OutcomeOK, nil
	}
}

// fetchHTTP follows redirects until a final response arrives. Redirect
// chains are not bounded; ctx is the only way to stop a loop.
func (c *Client) fetchHTTP(ctx context.Context, ref locator.Ref) (string, string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", "", &FetchError{Op: "fetch", URL: ref.String(), Err: wrapKind(ErrTransport, "canceled", err)}
		}

		key := ref.Key()
		if cached, ok := c.state.Cached(key); ok {
			c.metrics.IncCacheHits()
			c.logger.Debug("cache hit", zap.String("key", key.String()), zap.String("path", ref.Path))
			return cached.Body, monitoring.OutcomeCache, nil
		}

		resp, err := c.roundTrip(ctx, ref)
		if err != nil {
			return "", "", err
		}

		if resp.redirect() {
			location := resp.header.Get("location")
			next := ref.Resolve(location)
			if next.Kind != locator.KindHTTP {
				return "", "", &FetchError{
					Op:  "redirect",
					URL: ref.String(),
					Err: kindError(ErrProtocol, "unusable Location %q", location),
				}
			}
			c.metrics.IncRedirects()
			c.logger.Debug("following redirect",
				zap.Int("status", resp.status),
				zap.String("from", ref.String()),
				zap.String("to", next.String()))
			ref = next
			continue
		}

		body, err := decodeBody(resp.body, resp.header)
		if err != nil {
			return "", "", &FetchError{Op: "decode", URL: ref.String(), Err: err}
		}

		if d := cachePolicy(resp.status, resp.header); d.store {
			stored := c.state.Store(key, CachedResponse{
				Body:      body,
				MaxAge:    d.maxAge,
				HasMaxAge: d.hasMaxAge,
			})
			if stored {
				c.metrics.IncCacheStores()
			}
		}
		return body, monitoring.OutcomeOK, nil
	}
}

// roundTrip sends one request on the pooled connection for ref's key and
// reads the response. A connection that failed mid-exchange, or that the
// server asked to close, is evicted.
func (c *Client) roundTrip(ctx context.Context, ref locator.Ref) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &FetchError{Op: "wait", URL: ref.String(), Err: wrapKind(ErrTransport, "rate limit", err)}
	}

	key := ref.Key()
	cn, err := c.connect(ctx, ref)
	if err != nil {
		return nil, err
	}

	cn.mu.Lock()
	defer cn.mu.Unlock()

	resp, err := c.exchange(ctx, cn, ref)
	if err != nil || resp.closeAfter {
		c.state.evict(key, cn)
		c.metrics.SetPooledConns(c.state.PoolLen())
	}
	if err != nil {
		c.logger.Debug("exchange failed", zap.String("key", key.String()), zap.Error(err))
		return nil, err
	}
	return resp, nil
}

func (c *Client) exchange(ctx context.Context, cn *conn, ref locator.Ref) (*response, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = cn.SetDeadline(deadline)
		defer cn.SetDeadline(time.Time{})
	}

	if err := writeRequest(cn, ref, c.opts.UserAgent); err != nil {
		return nil, &FetchError{Op: "write", URL: ref.String(), Err: wrapKind(ErrTransport, "sending request", err)}
	}

	status, header, err := readHead(cn.r)
	if err != nil {
		return nil, &FetchError{Op: "read", URL: ref.String(), Err: err}
	}

	resp := &response{
		status:     status,
		header:     header,
		closeAfter: strings.EqualFold(strings.TrimSpace(header.Get("connection")), "close"),
	}

	body, err := readBody(cn.r, header, status)
	switch {
	case errors.Is(err, errNoFraming) && resp.redirect():
		// The redirect body runs to end of stream; drop the connection
		// instead of reading it.
		resp.closeAfter = true
	case err != nil:
		return nil, &FetchError{Op: "read", URL: ref.String(), Err: err}
	}
	resp.body = body
	return resp, nil
}

// connect returns the pooled connection for ref, dialing a new one when
// none exists.
func (c *Client) connect(ctx context.Context, ref locator.Ref) (*conn, error) {
	key := ref.Key()
	if cn, ok := c.state.conn(key); ok {
		c.logger.Debug("reusing connection", zap.String("key", key.String()))
		return cn, nil
	}

	var raw net.Conn
	err := c.guards.Get(key.String()).Do(func() error {
		var err error
		raw, err = c.dial(ctx, ref)
		return err
	})
	c.metrics.RecordDial(err)
	if err != nil {
		return nil, &FetchError{Op: "dial", URL: ref.String(), Err: wrapKind(ErrTransport, "connecting to "+key.String(), err)}
	}

	c.logger.Debug("connected", zap.String("key", key.String()), zap.Bool("tls", ref.Secure))
	cn := c.state.adopt(key, newConn(raw))
	c.metrics.SetPooledConns(c.state.PoolLen())
	return cn, nil
}

func (c *Client) dial(ctx context.Context, ref locator.Ref) (net.Conn, error) {
	if c.opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.DialTimeout)
		defer cancel()
	}

	raw, err := c.dialer.DialContext(ctx, "tcp", net.JoinHostPort(ref.Host, strconv.Itoa(ref.Port)))
	if err != nil {
		return nil, err
	}
	if !ref.Secure {
		return raw, nil
	}

	tlsConn := tls.Client(raw, c.tlsConfig(ref.Host))
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = raw.Close()
		return nil, err
	}
	return tlsConn, nil
}

func (c *Client) tlsConfig(host string) *tls.Config {
	var cfg *tls.Config
	if c.opts.TLSConfig != nil {
		cfg = c.opts.TLSConfig.Clone()
	} else {
		cfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if cfg.ServerName == "" {
		cfg.ServerName = host
	}
	return cfg
}

package browser

import (
	"context"
	"crypto/tls"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webview/internal/config"
	"github.com/GriffinCanCode/webview/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webview/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/webview/internal/layout"
	"github.com/GriffinCanCode/webview/internal/locator"
	"github.com/GriffinCanCode/webview/internal/transport"
	"github.com/GriffinCanCode/webview/internal/viewport"
)

// Options configures a Session.
type Options struct {
	Width, Height float64

	Transport transport.Options

	// Metrics measures glyphs. Nil uses layout.DefaultMetrics.
	Metrics layout.Metrics

	Logger *zap.Logger
}

// Session is one browsing session: a transport state, the current page,
// its layout and the scroll position over it.
type Session struct {
	id     string
	logger *zap.Logger
	client *transport.Client
	engine *layout.Engine
	view   *viewport.Controller

	mu   sync.Mutex
	page *Page
}

// New creates a session showing an empty page.
func New(opts Options) *Session {
	id := uuid.New().String()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session", id))

	topts := opts.Transport
	if topts.Logger == nil {
		topts.Logger = logger
	}

	return &Session{
		id:     id,
		logger: logger.Named("browser"),
		client: transport.NewClient(transport.NewState(), topts),
		engine: layout.New(opts.Metrics),
		view:   viewport.New(opts.Width, opts.Height),
		page:   &Page{Ref: locator.About()},
	}
}

// NewFromConfig creates a session from loaded configuration.
func NewFromConfig(cfg *config.Config, logger *zap.Logger, metrics *monitoring.Metrics) *Session {
	topts := transport.Options{
		UserAgent:         cfg.Transport.UserAgent,
		DialTimeout:       cfg.Transport.DialTimeout.Duration,
		RequestsPerSecond: cfg.Transport.RequestsPerSecond,
		Breaker: resilience.Settings{
			FailureThreshold: cfg.Transport.BreakerThreshold,
			Cooldown:         cfg.Transport.BreakerCooldown.Duration,
		},
		Metrics: metrics,
		Logger:  logger,
	}
	if cfg.Transport.InsecureSkipVerify {
		topts.TLSConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: true, //nolint:gosec // opt-in for local test servers
		}
	}

	return New(Options{
		Width:     float64(cfg.Viewport.Width),
		Height:    float64(cfg.Viewport.Height),
		Transport: topts,
		Logger:    logger,
	})
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Load fetches raw, lays it out at the current width and scrolls to the
// top. A failed fetch yields a blank page; the error is on Page.Err.
func (s *Session) Load(ctx context.Context, raw string) *Page {
	ref := locator.Parse(raw)
	page := &Page{Ref: ref}

	body, err := s.client.Fetch(ctx, ref)
	if err != nil {
		s.logger.Warn("fetch failed, showing blank page",
			zap.String("locator", ref.String()),
			zap.Error(err))
		page.Err = err
	} else {
		page.Body = body
		page.Tokens = tokensFor(ref, body)
		if ref.Kind != locator.KindViewSource {
			page.Title = extractTitle(body)
		}
	}

	result := s.engine.Layout(page.Tokens, s.view.Width())

	s.mu.Lock()
	s.page = page
	s.mu.Unlock()

	s.view.SetResult(result)
	s.view.SetOffset(0)

	s.logger.Debug("page loaded",
		zap.String("locator", ref.String()),
		zap.Int("tokens", len(page.Tokens)),
		zap.Int("runs", len(result.Runs)),
		zap.Float64("height", result.Height))
	return page
}

// Page returns the current page.
func (s *Session) Page() *Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Title returns the current page title, or "" if it has none.
func (s *Session) Title() string {
	return s.Page().Title
}

// Resize changes the window size. A width change lays the current tokens
// out again without refetching; a height change only re-clamps the scroll
// offset.
func (s *Session) Resize(width, height float64) {
	widthChanged := width != s.view.Width()
	s.view.Resize(width, height)
	if widthChanged {
		s.view.SetResult(s.engine.Layout(s.Page().Tokens, s.view.Width()))
	}
}

// Scroll moves the view by delta and returns the new offset.
func (s *Session) Scroll(delta float64) float64 {
	return s.view.ScrollBy(delta)
}

// ScrollTo moves the view to offset, clamped, and returns the applied
// offset.
func (s *Session) ScrollTo(offset float64) float64 {
	return s.view.SetOffset(offset)
}

// ScrollDown scrolls one step down.
func (s *Session) ScrollDown() float64 {
	return s.view.ScrollDown()
}

// ScrollUp scrolls one step up.
func (s *Session) ScrollUp() float64 {
	return s.view.ScrollUp()
}

// Offset returns the scroll offset.
func (s *Session) Offset() float64 {
	return s.view.Offset()
}

// Result returns the current layout.
func (s *Session) Result() layout.Result {
	return s.view.Result()
}

// DisplayList returns the runs visible in the window, with y relative to
// the top of the window.
func (s *Session) DisplayList() []layout.GlyphRun {
	return slices.Collect(s.view.Visible())
}

// Transport returns the session's transport state.
func (s *Session) Transport() *transport.State {
	return s.client.State()
}

// Close closes pooled connections.
func (s *Session) Close() error {
	return s.client.State().Close()
}

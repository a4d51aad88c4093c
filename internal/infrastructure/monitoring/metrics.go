package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch outcomes used as label values
const (
	OutcomeOK    = "ok"
	OutcomeCache = "cache"
	OutcomeError = "error"
)

// Metrics holds the transport's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	FetchesTotal  *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	ResponseBytes prometheus.Histogram
	CacheHits     prometheus.Counter
	CacheStores   prometheus.Counter
	Redirects     prometheus.Counter
	DialsTotal    *prometheus.CounterVec
	PooledConns   prometheus.Gauge
}

// NewMetrics creates collectors registered on a private registry, so
// several sessions in one process never collide.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webview_fetches_total",
				Help: "Total number of resource fetches",
			},
			[]string{"scheme", "outcome"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webview_fetch_duration_seconds",
				Help:    "Resource fetch duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"scheme"},
		),
		ResponseBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "webview_response_body_bytes",
				Help:    "Decoded response body size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
		),
		CacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webview_cache_hits_total",
				Help: "Fetches answered from the response cache",
			},
		),
		CacheStores: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webview_cache_stores_total",
				Help: "Responses written to the response cache",
			},
		),
		Redirects: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "webview_redirects_total",
				Help: "Redirect responses followed",
			},
		),
		DialsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webview_dials_total",
				Help: "Connection attempts by result",
			},
			[]string{"result"},
		),
		PooledConns: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "webview_pooled_connections",
				Help: "Open keep-alive connections in the pool",
			},
		),
	}
}

// RecordFetch records one completed fetch
func (m *Metrics) RecordFetch(scheme, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(scheme, outcome).Inc()
	m.FetchDuration.WithLabelValues(scheme).Observe(duration.Seconds())
}

// RecordBody records a decoded body size
func (m *Metrics) RecordBody(size int) {
	if m == nil {
		return
	}
	m.ResponseBytes.Observe(float64(size))
}

// IncCacheHits increments the cache hit counter
func (m *Metrics) IncCacheHits() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// IncCacheStores increments the cache store counter
func (m *Metrics) IncCacheStores() {
	if m == nil {
		return
	}
	m.CacheStores.Inc()
}

// IncRedirects increments the redirect counter
func (m *Metrics) IncRedirects() {
	if m == nil {
		return
	}
	m.Redirects.Inc()
}

// RecordDial records a connection attempt
func (m *Metrics) RecordDial(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.DialsTotal.WithLabelValues(result).Inc()
}

// SetPooledConns sets the pooled connection gauge
func (m *Metrics) SetPooledConns(n int) {
	if m == nil {
		return
	}
	m.PooledConns.Set(float64(n))
}

package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsUsesPrivateRegistry(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()
	assert.NotSame(t, a.Registry, b.Registry)

	a.IncCacheHits()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.CacheHits))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CacheHits))
}

func TestRecordFetch(t *testing.T) {
	m := NewMetrics()
	m.RecordFetch("http", OutcomeOK, 20*time.Millisecond)
	m.RecordFetch("http", OutcomeOK, 5*time.Millisecond)
	m.RecordFetch("file", OutcomeError, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("http", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchesTotal.WithLabelValues("file", OutcomeError)))

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "webview_fetches_total")
	assert.Contains(t, names, "webview_fetch_duration_seconds")
}

func TestCountersAndGauges(t *testing.T) {
	m := NewMetrics()
	m.IncCacheStores()
	m.IncRedirects()
	m.IncRedirects()
	m.RecordDial(nil)
	m.RecordDial(errors.New("refused"))
	m.SetPooledConns(3)
	m.RecordBody(1024)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheStores))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Redirects))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DialsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DialsTotal.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PooledConns))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordFetch("http", OutcomeOK, time.Second)
		m.RecordBody(10)
		m.IncCacheHits()
		m.IncCacheStores()
		m.IncRedirects()
		m.RecordDial(nil)
		m.SetPooledConns(1)
	})
}

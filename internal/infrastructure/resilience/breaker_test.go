package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDial = errors.New("dial failed")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestBreaker(threshold uint32) (*Breaker, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	b := New("test", Settings{FailureThreshold: threshold, Cooldown: 10 * time.Second})
	b.now = clock.Now
	return b, clock
}

func fail() error { return errDial }
func ok() error   { return nil }

func TestBreakerInitialState(t *testing.T) {
	b, _ := newTestBreaker(3)
	assert.Equal(t, "test", b.Name())
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(0), b.Failures())
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(3)

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, b.Do(fail), errDial)
		assert.Equal(t, StateClosed, b.State())
	}

	assert.ErrorIs(t, b.Do(fail), errDial)
	assert.Equal(t, StateOpen, b.State())

	called := false
	err := b.Do(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b, _ := newTestBreaker(2)

	require.Error(t, b.Do(fail))
	require.NoError(t, b.Do(ok))
	require.Error(t, b.Do(fail))

	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, uint32(1), b.Failures())
}

func TestBreakerHalfOpenTrial(t *testing.T) {
	t.Run("success closes", func(t *testing.T) {
		b, clock := newTestBreaker(1)
		require.Error(t, b.Do(fail))
		require.Equal(t, StateOpen, b.State())

		clock.Advance(10 * time.Second)
		assert.Equal(t, StateHalfOpen, b.State())

		require.NoError(t, b.Do(ok))
		assert.Equal(t, StateClosed, b.State())
	})

	t.Run("failure reopens", func(t *testing.T) {
		b, clock := newTestBreaker(5)
		for i := 0; i < 5; i++ {
			_ = b.Do(fail)
		}
		clock.Advance(11 * time.Second)

		assert.ErrorIs(t, b.Do(fail), errDial)
		assert.Equal(t, StateOpen, b.State())
	})

	t.Run("one trial at a time", func(t *testing.T) {
		b, clock := newTestBreaker(1)
		require.Error(t, b.Do(fail))
		clock.Advance(10 * time.Second)

		err := b.Do(func() error {
			assert.ErrorIs(t, b.Do(ok), ErrCircuitOpen)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, StateClosed, b.State())
	})
}

func TestBreakerDisabled(t *testing.T) {
	b, _ := newTestBreaker(0)
	for i := 0; i < 100; i++ {
		_ = b.Do(fail)
	}
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, b.Do(ok))
}

func TestBreakerStateChangeCallback(t *testing.T) {
	var transitions []string
	b := New("cb", Settings{
		FailureThreshold: 1,
		Cooldown:         time.Hour,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	_ = b.Do(fail)
	assert.Equal(t, []string{"cb:closed->open"}, transitions)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}

func TestGroup(t *testing.T) {
	g := NewGroup(Settings{FailureThreshold: 1})

	a := g.Get("a:80")
	assert.Same(t, a, g.Get("a:80"))
	assert.NotSame(t, a, g.Get("b:80"))

	_ = a.Do(fail)
	assert.Equal(t, StateOpen, g.Get("a:80").State())
	assert.Equal(t, StateClosed, g.Get("b:80").State())
}

package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonospace(t *testing.T) {
	m := Monospace{}
	s := Style{Size: 12}

	assert.Equal(t, 30.0, m.Width(s, "hello"))
	assert.Equal(t, 24.0, m.Width(s, "éé£¥"), "width counts runes, not bytes")
	assert.Equal(t, 9.0, m.Ascent(s))
	assert.Equal(t, 3.0, m.Descent(s))
}

func TestFontMetrics(t *testing.T) {
	m, err := NewFontMetrics()
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	regular := Style{Size: 12}
	big := Style{Size: 24}
	bold := Style{Size: 12, Weight: Bold}

	assert.Greater(t, m.Width(regular, "hello"), 0.0)
	assert.Equal(t, 0.0, m.Width(regular, ""))
	assert.Greater(t, m.Width(big, "hello"), m.Width(regular, "hello"))
	assert.Greater(t, m.Width(regular, "hello world"), m.Width(regular, "hello"))
	assert.GreaterOrEqual(t, m.Width(bold, "hello"), m.Width(regular, "hello"))

	assert.Greater(t, m.Ascent(regular), 0.0)
	assert.Greater(t, m.Descent(regular), 0.0)
	assert.Greater(t, m.Ascent(big), m.Ascent(regular))
	assert.InDelta(t, 2*m.Ascent(regular), m.Ascent(big), 1)

	for _, s := range []Style{regular, bold, {Size: 12, Slant: Italic}, {Size: 12, Weight: Bold, Slant: Italic}} {
		assert.Greater(t, m.Width(s, "x"), 0.0, "%+v", s)
	}
}

func TestDefaultMetricsShared(t *testing.T) {
	assert.Same(t, DefaultMetrics(), DefaultMetrics())
}

func TestWeightSlantText(t *testing.T) {
	b, err := Bold.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "bold", string(b))

	var w Weight
	require.NoError(t, w.UnmarshalText([]byte("bold")))
	assert.Equal(t, Bold, w)
	assert.Error(t, w.UnmarshalText([]byte("heavy")))

	var s Slant
	require.NoError(t, s.UnmarshalText([]byte("italic")))
	assert.Equal(t, Italic, s)
	assert.Equal(t, "roman", Roman.String())
	assert.Error(t, s.UnmarshalText([]byte("oblique")))
}

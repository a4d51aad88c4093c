package transport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecodeBody(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		body, err := decodeBody([]byte("<p>hi</p>"), Header{})
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", body)
	})

	t.Run("gzip", func(t *testing.T) {
		body, err := decodeBody(gzipped(t, "<p>compressed</p>"), Header{"content-encoding": "GZIP"})
		require.NoError(t, err)
		assert.Equal(t, "<p>compressed</p>", body)
	})

	t.Run("corrupt gzip", func(t *testing.T) {
		_, err := decodeBody([]byte("not gzip at all"), Header{"content-encoding": "gzip"})
		assert.ErrorIs(t, err, ErrEncoding)
	})

	t.Run("truncated gzip", func(t *testing.T) {
		data := gzipped(t, "a fairly long body that will be cut short")
		_, err := decodeBody(data[:len(data)-6], Header{"content-encoding": "gzip"})
		assert.ErrorIs(t, err, ErrEncoding)
	})

	t.Run("unsupported coding", func(t *testing.T) {
		_, err := decodeBody([]byte("x"), Header{"content-encoding": "br"})
		assert.ErrorIs(t, err, ErrEncoding)
	})
}

func TestToText(t *testing.T) {
	latin1 := []byte("caf\xe9 cr\xe8me br\xfbl\xe9e")

	t.Run("utf-8 passes through", func(t *testing.T) {
		assert.Equal(t, "café", toText([]byte("café"), ""))
	})

	t.Run("declared charset", func(t *testing.T) {
		got := toText(latin1, "text/html; charset=iso-8859-1")
		assert.Equal(t, "café crème brûlée", got)
	})

	t.Run("detected charset", func(t *testing.T) {
		got := toText(latin1, "text/html")
		assert.True(t, utf8.ValidString(got))
		assert.Contains(t, got, "caf")
	})

	t.Run("bogus charset still yields utf-8", func(t *testing.T) {
		got := toText([]byte{'o', 'k', 0xff, 0xfe}, "text/html; charset=no-such-charset")
		assert.True(t, utf8.ValidString(got))
		assert.Contains(t, got, "ok")
	})
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("text file", func(t *testing.T) {
		path := filepath.Join(dir, "page.html")
		require.NoError(t, os.WriteFile(path, []byte("<b>hello</b>"), 0o600))

		body, err := readFile(path)
		require.NoError(t, err)
		assert.Equal(t, "<b>hello</b>", body)
	})

	t.Run("latin-1 text file", func(t *testing.T) {
		path := filepath.Join(dir, "latin1.txt")
		require.NoError(t, os.WriteFile(path, []byte("na\xefve text in an older encoding"), 0o600))

		body, err := readFile(path)
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(body))
		assert.Contains(t, body, "text in an older encoding")
	})

	t.Run("binary file", func(t *testing.T) {
		path := filepath.Join(dir, "image.png")
		png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
		require.NoError(t, os.WriteFile(path, png, 0o600))

		_, err := readFile(path)
		assert.ErrorIs(t, err, ErrUnsupportedMedia)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := readFile(filepath.Join(dir, "absent"))
		assert.ErrorIs(t, err, ErrTransport)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

package transport

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/webview/internal/locator"
)

// maxBodySize bounds how much a single response may claim.
const maxBodySize = 64 << 20

// errNoFraming is returned by readBody when a response has neither a
// chunked transfer encoding nor a Content-Length.
var errNoFraming = kindError(ErrProtocol, "response has neither Transfer-Encoding: chunked nor Content-Length")

// Header holds response headers by case-folded name.
type Header map[string]string

// Get returns the value for name, matched case-insensitively.
func (h Header) Get(name string) string {
	return h[strings.ToLower(name)]
}

func (h Header) add(name, value string) {
	if prev, ok := h[name]; ok && prev != "" {
		value = prev + ", " + value
	}
	h[name] = value
}

// chunked reports whether the final transfer coding is chunked.
func (h Header) chunked() bool {
	te := strings.ToLower(strings.TrimSpace(h.Get("transfer-encoding")))
	return strings.HasSuffix(te, "chunked")
}

// writeRequest renders a keep-alive GET request for ref.
func writeRequest(w io.Writer, ref locator.Ref, userAgent string) error {
	host := ref.Host
	if (ref.Secure && ref.Port != locator.DefaultHTTPSPort) || (!ref.Secure && ref.Port != locator.DefaultHTTPPort) {
		host += ":" + strconv.Itoa(ref.Port)
	}

	var b strings.Builder
	b.WriteString("GET " + ref.Path + " HTTP/1.1\r\n")
	b.WriteString("Host: " + host + "\r\n")
	b.WriteString("Connection: keep-alive\r\n")
	if userAgent != "" {
		b.WriteString("User-Agent: " + userAgent + "\r\n")
	}
	b.WriteString("Accept-Encoding: gzip\r\n")
	b.WriteString("\r\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// readLine reads one line and strips the trailing CRLF or LF.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r"), nil
}

// readStatusLine parses "HTTP/1.1 200 OK" and returns the numeric status.
func readStatusLine(r *bufio.Reader) (int, error) {
	line, err := readLine(r)
	if err != nil {
		return 0, wrapKind(ErrTransport, "reading status line", err)
	}

	parts := strings.SplitN(line, " ", 3)
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "HTTP/") {
		return 0, kindError(ErrProtocol, "malformed status line %q", line)
	}

	status, err := strconv.Atoi(parts[1])
	if err != nil || len(parts[1]) != 3 || status < 100 {
		return 0, kindError(ErrProtocol, "malformed status code %q", parts[1])
	}
	return status, nil
}

// readHead reads the status line and headers of the final response,
// discarding any 1xx interim responses (100 Continue, 103 Early Hints)
// sent ahead of it. 101 is an error: no upgrade is ever requested.
func readHead(r *bufio.Reader) (int, Header, error) {
	for {
		status, err := readStatusLine(r)
		if err != nil {
			return 0, nil, err
		}
		header, err := readHeader(r)
		if err != nil {
			return 0, nil, err
		}
		switch {
		case status == 101:
			return 0, nil, kindError(ErrProtocol, "unexpected 101 Switching Protocols")
		case status < 200:
			continue
		}
		return status, header, nil
	}
}

// readHeader reads header lines up to the terminating blank line.
func readHeader(r *bufio.Reader) (Header, error) {
	h := make(Header)
	for {
		line, err := readLine(r)
		if err != nil {
			return nil, wrapKind(ErrTransport, "reading headers", err)
		}
		if line == "" {
			return h, nil
		}

		name, value, ok := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, kindError(ErrProtocol, "malformed header line %q", line)
		}
		h.add(strings.ToLower(name), strings.TrimSpace(value))
	}
}

// hasBody reports whether a response with this status carries a body.
func hasBody(status int) bool {
	return status >= 200 && status != 204 && status != 304
}

// readBody reads the message body framed per the headers.
func readBody(r *bufio.Reader, h Header, status int) ([]byte, error) {
	if !hasBody(status) {
		return nil, nil
	}
	if h.chunked() {
		return readChunked(r)
	}
	if cl := h.Get("content-length"); cl != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64)
		if err != nil || n < 0 {
			return nil, kindError(ErrFraming, "invalid Content-Length %q", cl)
		}
		return readFixed(r, n)
	}
	return nil, errNoFraming
}

// readFixed reads exactly n bytes.
func readFixed(r *bufio.Reader, n int64) ([]byte, error) {
	if n > maxBodySize {
		return nil, kindError(ErrFraming, "body of %d bytes exceeds limit", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, truncated(err)
	}
	return buf, nil
}

// readChunked decodes a chunked body: hex size lines, each followed by that
// many bytes and a CRLF, ending with a zero-size chunk, optional trailers
// and a final CRLF.
func readChunked(r *bufio.Reader) ([]byte, error) {
	var body bytes.Buffer
	for {
		line, err := readLine(r)
		if err != nil {
			return nil, truncated(err)
		}

		sizeField, _, _ := strings.Cut(line, ";")
		size, err := strconv.ParseInt(strings.TrimSpace(sizeField), 16, 64)
		if err != nil || size < 0 {
			return nil, kindError(ErrFraming, "invalid chunk size %q", line)
		}
		if size == 0 {
			break
		}
		if int64(body.Len())+size > maxBodySize {
			return nil, kindError(ErrFraming, "chunked body exceeds limit")
		}

		if _, err := io.CopyN(&body, r, size); err != nil {
			return nil, truncated(err)
		}
		term, err := readLine(r)
		if err != nil {
			return nil, truncated(err)
		}
		if term != "" {
			return nil, kindError(ErrFraming, "missing CRLF after chunk data")
		}
	}

	// Trailer fields, if any, then the final CRLF.
	for {
		line, err := readLine(r)
		if err != nil {
			return nil, truncated(err)
		}
		if line == "" {
			return body.Bytes(), nil
		}
	}
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return wrapKind(ErrFraming, "truncated body", err)
	}
	return wrapKind(ErrTransport, "reading body", err)
}

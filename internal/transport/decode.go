package transport

import (
	"bytes"
	"io"
	"mime"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/klauspost/compress/gzip"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// decodeBody undoes the content coding and converts the result to text.
func decodeBody(raw []byte, h Header) (string, error) {
	coding := strings.ToLower(strings.TrimSpace(h.Get("content-encoding")))
	switch coding {
	case "", "identity":
	case "gzip", "x-gzip":
		data, err := gunzip(raw)
		if err != nil {
			return "", err
		}
		raw = data
	default:
		return "", kindError(ErrEncoding, "unsupported content encoding %q", coding)
	}
	return toText(raw, h.Get("content-type")), nil
}

func gunzip(raw []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, wrapKind(ErrEncoding, "gzip header", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, maxBodySize+1))
	if err != nil {
		return nil, wrapKind(ErrEncoding, "gzip stream", err)
	}
	if len(data) > maxBodySize {
		return nil, kindError(ErrEncoding, "decompressed body exceeds limit")
	}
	return data, nil
}

// toText returns b as a UTF-8 string. Valid UTF-8 passes through untouched;
// anything else is transcoded from the charset named in contentType, or
// failing that the charset chardet detects.
func toText(b []byte, contentType string) string {
	if utf8.Valid(b) {
		return string(b)
	}

	label := charsetParam(contentType)
	if label == "" {
		label = detectCharset(b)
	}
	if enc, _ := charset.Lookup(label); enc != nil {
		if out, err := enc.NewDecoder().Bytes(b); err == nil {
			return string(out)
		}
	}
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

func charsetParam(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return params["charset"]
}

func detectCharset(b []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(b)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// readFile loads a local document. Files that are neither UTF-8 nor
// sniffed as text are rejected.
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", wrapKind(ErrTransport, "reading file", err)
	}
	if !utf8.Valid(data) && !isText(mimetype.Detect(data)) {
		return "", kindError(ErrUnsupportedMedia, "%s is %s", path, mimetype.Detect(data).String())
	}
	return toText(data, ""), nil
}

func isText(m *mimetype.MIME) bool {
	if strings.HasPrefix(m.String(), "text/") {
		return true
	}
	for ; m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

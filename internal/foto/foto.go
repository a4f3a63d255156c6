// Package foto renders stored product photos as data URIs.
package foto

import (
	"bytes"
	"encoding/base64"
	"strings"
)

const mimePorDefecto = "image/jpeg"

// Normalizar converts a stored photo into "data:<mime>;base64,<payload>".
// It accepts nil, a string (data URI or bare base64) or raw bytes, and
// returns nil when there is no photo. Values that already are a data URI are
// returned unchanged.
func Normalizar(v any) *string {
	switch f := v.(type) {
	case nil:
		return nil
	case *string:
		if f == nil {
			return nil
		}
		return desdeTexto(*f)
	case string:
		return desdeTexto(f)
	case []byte:
		if len(f) == 0 {
			return nil
		}
		// Photos uploaded as text are stored verbatim and must not be re-encoded.
		if esTexto(f) {
			return desdeTexto(string(f))
		}
		uri := "data:" + mimeDeBytes(f) + ";base64," + base64.StdEncoding.EncodeToString(f)
		return &uri
	default:
		return nil
	}
}

func desdeTexto(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "data:image/") {
		return &s
	}
	payload := strings.Join(strings.Fields(s), "")
	uri := "data:" + mimeDeBase64(payload) + ";base64," + payload
	return &uri
}

var firmas = []struct {
	magia []byte
	mime  string
}{
	{[]byte{0x89, 0x50, 0x4E, 0x47}, "image/png"},
	{[]byte{0xFF, 0xD8}, "image/jpeg"},
	{[]byte("GIF"), "image/gif"},
}

// mimeDeBytes sniffs the image type. Each signature only needs its own
// length, so a truncated header still resolves.
func mimeDeBytes(b []byte) string {
	for _, f := range firmas {
		if bytes.HasPrefix(b, f.magia) {
			return f.mime
		}
	}
	if len(b) >= 12 && bytes.Equal(b[0:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")) {
		return "image/webp"
	}
	return mimePorDefecto
}

func mimeDeBase64(s string) string {
	switch {
	case strings.HasPrefix(s, "/9j/"):
		return "image/jpeg"
	case strings.HasPrefix(s, "iVBORw0KGgo"):
		return "image/png"
	case strings.HasPrefix(s, "R0lGOD"):
		return "image/gif"
	case strings.HasPrefix(s, "UklGR"):
		return "image/webp"
	}
	return mimePorDefecto
}

// esTexto reports whether b is a data URI or a base64 payload.
func esTexto(b []byte) bool {
	t := bytes.TrimSpace(b)
	if bytes.HasPrefix(t, []byte("data:image/")) {
		return true
	}
	if len(t) == 0 {
		return false
	}
	for _, c := range t {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '+', c == '/', c == '=', c == '\n', c == '\r', c == ' ', c == '\t':
		default:
			return false
		}
	}
	return true
}

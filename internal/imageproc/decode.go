// Package imageproc provides preparation of client images before they are sent to the recognition service:
// data-URI decoding and shrinking of oversized payloads.
package imageproc

import (
	"encoding/base64"
	"regexp"
	"strings"
)

var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// DecodeImage strips an optional data:image/<subtype>;base64, prefix and decodes the rest.
// Decoding is permissive: characters outside the base64 alphabets are skipped, URL-safe
// characters are accepted, padding is optional and anything after the first '=' is ignored.
// The result is never validated as an image.
func DecodeImage(payload string) []byte {
	raw := dataURIPrefix.ReplaceAllString(payload, "")

	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '=':
			i = len(raw)
		case c == '-':
			b.WriteByte('+')
		case c == '_':
			b.WriteByte('/')
		case isStdBase64(c):
			b.WriteByte(c)
		}
	}

	clean := b.String()
	// одиночный хвостовой символ не несет целого байта
	if len(clean)%4 == 1 {
		clean = clean[:len(clean)-1]
	}

	// после фильтрации ошибки быть не может, а при ее появлении DecodeString отдает байты до сбоя
	out, _ := base64.RawStdEncoding.DecodeString(clean)
	return out
}

func isStdBase64(c byte) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '+' || c == '/'
}

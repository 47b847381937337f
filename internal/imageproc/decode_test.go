package imageproc

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeImage(t *testing.T) {
	payload := []byte("\x89PNG\r\n\x1a\nnot-really-an-image")
	std := base64.StdEncoding.EncodeToString(payload)

	tests := []struct {
		name  string
		input string
	}{
		{"png data-uri", "data:image/png;base64," + std},
		{"jpeg data-uri", "data:image/jpeg;base64," + std},
		{"raw base64", std},
		{"unpadded", base64.RawStdEncoding.EncodeToString(payload)},
		{"url-safe alphabet", base64.URLEncoding.EncodeToString(payload)},
		{"with line breaks", std[:10] + "\r\n" + std[10:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, payload, DecodeImage(tt.input))
		})
	}
}

func TestDecodeImage_Permissive(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"empty", "", []byte{}},
		{"prefix only", "data:image/png;base64,", []byte{}},
		{"garbage only", "!!!???", []byte{}},
		{"stops at padding", "aGk=aGk=", []byte("hi")},
		{"dangling char dropped", "aGVsbG8x" + "Q", []byte("hello1")},
		{"unknown prefix kept as data", "data:text/plain;base64,aGk=", DecodeImage("datatext/plainbase64aGk")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeImage(tt.input)
			require.Equal(t, len(tt.want), len(got))
			if len(tt.want) > 0 {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

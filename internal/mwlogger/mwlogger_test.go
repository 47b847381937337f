package mwlogger

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), zerolog.New(&buf))

	logger := LoggerFromContext(ctx)
	logger.Info().Msg("hello")

	require.Contains(t, buf.String(), "hello")
}

func TestNewMWLogger_RequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{"generated", ""},
		{"propagated", "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen bool
			h := NewMWLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, seen = r.Context().Value(loggerWithRequestID{}).(zerolog.Logger)
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodPost, "/api/recognize", nil)
			if tt.incoming != "" {
				req.Header.Set(requestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			require.True(t, seen)
			require.Equal(t, http.StatusNoContent, w.Code)
			require.NotEmpty(t, w.Header().Get(requestIDHeader))
			if tt.incoming != "" {
				require.Equal(t, tt.incoming, w.Header().Get(requestIDHeader))
			}
		})
	}
}

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestLoggingMiddlewareLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	mw := NewLoggingMiddleware(zerolog.New(&buf))

	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["level"] != "error" {
		t.Fatalf("expected 5xx to log at error level, got %v", entry["level"])
	}
	if entry["status"] != float64(http.StatusServiceUnavailable) || entry["path"] != "/health" {
		t.Fatalf("unexpected log entry: %v", entry)
	}
}

func TestLoggingMiddlewareLevels(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
		level  string
	}{
		{"client error", "/api/v1/accounts/x", http.StatusBadRequest, "warn"},
		{"probe", "/health", http.StatusOK, "debug"},
		{"api success", "/api/v1/accounts", http.StatusOK, "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mw := NewLoggingMiddleware(zerolog.New(&buf).Level(zerolog.DebugLevel))

			handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("ok"))
			}))
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, tt.path, nil))

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
			}
			if entry["level"] != tt.level {
				t.Fatalf("level = %v, want %s", entry["level"], tt.level)
			}
			if entry["bytes"] != float64(2) || entry["route"] != "unmatched" {
				t.Fatalf("unexpected log entry: %v", entry)
			}
		})
	}
}

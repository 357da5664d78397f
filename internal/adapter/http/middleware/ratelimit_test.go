package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterBlocksExcessRequestsPerIP(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("1.2.3.4:1234"); code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", code)
	}
	if code := do("1.2.3.4:5678"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request from same IP to be limited, got %d", code)
	}
	if code := do("5.6.7.8:1234"); code != http.StatusOK {
		t.Fatalf("expected other IP to be allowed, got %d", code)
	}
}

func TestRateLimiterCleanupRemovesIdleVisitors(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(10, 10)
	rl.now = func() time.Time { return now }

	rl.getLimiter("1.1.1.1")
	now = now.Add(time.Hour)
	rl.getLimiter("2.2.2.2")

	if removed := rl.Cleanup(30 * time.Minute); removed != 1 {
		t.Fatalf("expected 1 idle visitor removed, got %d", removed)
	}
	if _, ok := rl.visitors["2.2.2.2"]; !ok {
		t.Fatal("expected recent visitor to be kept")
	}
}

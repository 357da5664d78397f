package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/txledger/internal/infrastructure/metrics"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name          string
		method        string
		path          string
		expectedRoute string
		statusCode    int
	}{
		{
			name:          "uses route pattern for account path",
			method:        http.MethodGet,
			path:          "/api/v1/accounts/42",
			expectedRoute: "/api/v1/accounts/{client}",
			statusCode:    http.StatusTeapot,
		},
		{
			name:          "static route",
			method:        http.MethodGet,
			path:          "/health",
			expectedRoute: "/health",
			statusCode:    http.StatusOK,
		},
		{
			name:          "unmatched route",
			method:        http.MethodGet,
			path:          "/nope",
			expectedRoute: "unmatched",
			statusCode:    http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.New(prometheus.NewRegistry())

			r := chi.NewRouter()
			r.Use(Metrics(m))
			reply := func(w http.ResponseWriter, _ *http.Request) {
				if got := testutil.ToFloat64(m.HTTPInFlight); got != 1 {
					t.Errorf("expected 1 in-flight request, got %v", got)
				}
				w.WriteHeader(tc.statusCode)
			}
			r.Get("/health", reply)
			r.Get("/api/v1/accounts/{client}", reply)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			if rec.Code != tc.statusCode {
				t.Fatalf("expected status %d, got %d", tc.statusCode, rec.Code)
			}

			counter := m.HTTPRequests.WithLabelValues(tc.method, tc.expectedRoute, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1 for %s, got %v", tc.expectedRoute, got)
			}
			if got := testutil.ToFloat64(m.HTTPInFlight); got != 0 {
				t.Fatalf("expected no in-flight requests, got %v", got)
			}
		})
	}
}

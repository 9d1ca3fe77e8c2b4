package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/trafficadmin/internal/infrastructure/metrics"
)

func TestRateLimiter_Limit(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	rl := NewRateLimiter(1, 1, m)
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(addr, forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/licenses", nil)
		req.RemoteAddr = addr
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := do("10.0.0.1:1000", ""); got != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", got)
	}
	if got := do("10.0.0.1:1001", ""); got != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", got)
	}
	if got := do("10.0.0.2:1000", ""); got != http.StatusOK {
		t.Fatalf("expected a different client to pass, got %d", got)
	}
	if got := do("10.0.0.1:1000", "203.0.113.9, 10.0.0.1"); got != http.StatusOK {
		t.Fatalf("expected forwarded client to have its own bucket, got %d", got)
	}

	if got := testutil.ToFloat64(m.RateLimitHits.WithLabelValues("10.0.0.1")); got != 1 {
		t.Fatalf("expected one rate limit hit, got %v", got)
	}
}

func TestRateLimiter_CleanupLimiters(t *testing.T) {
	rl := NewRateLimiter(10, 10, nil)
	rl.getLimiter("10.0.0.1")
	rl.getLimiter("10.0.0.2")

	rl.CleanupLimiters(time.Hour)
	if got := rl.size(); got != 2 {
		t.Fatalf("expected fresh limiters to survive, got %d", got)
	}

	rl.mu.Lock()
	rl.visitors["10.0.0.1"].lastSeen = time.Now().Add(-2 * time.Hour)
	rl.mu.Unlock()

	rl.CleanupLimiters(time.Hour)
	if got := rl.size(); got != 1 {
		t.Fatalf("expected idle limiter to be removed, got %d", got)
	}
}

package ratelim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
)

// A limiter whose Redis is unreachable must allow the request through with the
// full quota reported, never block or error.
func TestFailsOpenWhenRedisUnavailable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1", // nothing listens here
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	rl := NewRateLimiterWithClient(rdb)

	before := time.Now()
	res := rl.IsExceeded(context.Background(), "client-a", 120, time.Minute)

	if res.Exceeded {
		t.Fatal("expected request to be allowed when redis is down")
	}
	if res.Remaining != 120 {
		t.Fatalf("remaining = %d, want full quota 120", res.Remaining)
	}
	if !res.ResetTime.After(before) {
		t.Fatalf("reset time %v should be in the future", res.ResetTime)
	}
}

func TestFailsOpenWithNilClient(t *testing.T) {
	rl := NewRateLimiterWithClient(nil)

	res := rl.IsExceeded(context.Background(), "client-b", 10, time.Minute)
	if res.Exceeded || res.Remaining != 10 {
		t.Fatalf("nil client should fail open, got %+v", res)
	}
}

func TestLimitSetsHeadersAndServes(t *testing.T) {
	rl := NewRateLimiterWithClient(nil)

	served := false
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		served = true
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.RemoteAddr = "10.0.0.7:54321"
	rec := httptest.NewRecorder()
	handler(rec, req, nil)

	if !served {
		t.Fatal("handler was not invoked")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Remaining") == "" {
		t.Fatal("missing X-RateLimit-Remaining header")
	}
	if rec.Header().Get("X-RateLimit-Reset") == "" {
		t.Fatal("missing X-RateLimit-Reset header")
	}
}

func TestLimitAuthThrottlesBursts(t *testing.T) {
	rl := NewRateLimiterWithClient(nil)

	handler := rl.LimitAuth(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	var last int
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.8:54321"
		rec := httptest.NewRecorder()
		handler(rec, req, nil)
		last = rec.Code
	}

	if last != http.StatusTooManyRequests {
		t.Fatalf("burst of 20 should exhaust the limiter, last status = %d", last)
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.5")

	if got := clientIP(req); got != "203.0.113.5" {
		t.Fatalf("clientIP = %q, want forwarded address", got)
	}
}

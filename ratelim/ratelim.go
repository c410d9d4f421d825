package ratelim

import (
	"context"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"ayurkart/rdx"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Result reports the outcome of a rate-limit check.
type Result struct {
	Exceeded  bool
	Remaining int64
	ResetTime time.Time
}

// RateLimiter combines a Redis fixed-window counter for API traffic with an
// in-memory per-IP limiter used on the auth endpoints.
type RateLimiter struct {
	rdb      *redis.Client
	visitors map[string]*rate.Limiter
	mu       sync.Mutex
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		rdb:      rdx.Conn,
		visitors: make(map[string]*rate.Limiter),
	}
}

// NewRateLimiterWithClient is used by tests to point at a specific Redis.
func NewRateLimiterWithClient(rdb *redis.Client) *RateLimiter {
	return &RateLimiter{
		rdb:      rdb,
		visitors: make(map[string]*rate.Limiter),
	}
}

// IsExceeded counts a hit against key within the fixed window. Redis being
// unreachable degrades to "always allow": the request must never block on the
// limiter's backing store.
func (rl *RateLimiter) IsExceeded(ctx context.Context, key string, limit int64, window time.Duration) Result {
	open := Result{Exceeded: false, Remaining: limit, ResetTime: time.Now().Add(window)}
	if rl.rdb == nil {
		return open
	}

	rkey := "ratelimit:" + key
	count, err := rl.rdb.Incr(ctx, rkey).Result()
	if err != nil {
		log.Println("ratelim: redis incr error, failing open:", err)
		return open
	}
	if count == 1 {
		if err := rl.rdb.Expire(ctx, rkey, window).Err(); err != nil {
			log.Println("ratelim: redis expire error:", err)
		}
	}

	reset := time.Now().Add(window)
	if ttl, err := rl.rdb.TTL(ctx, rkey).Result(); err == nil && ttl > 0 {
		reset = time.Now().Add(ttl)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Exceeded:  count > limit,
		Remaining: remaining,
		ResetTime: reset,
	}
}

// Limit enforces the default per-IP window of 120 requests per minute.
func (rl *RateLimiter) Limit(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		res := rl.IsExceeded(r.Context(), clientIP(r), 120, time.Minute)

		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetTime.Unix(), 10))
		if res.Exceeded {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next(w, r, ps)
	}
}

// LimitAuth guards login/signup with a stricter in-memory limiter so that
// credential stuffing is throttled even when Redis is down.
func (rl *RateLimiter) LimitAuth(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if !rl.getVisitor(clientIP(r)).Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r, ps)
	}
}

// getVisitor returns the in-memory limiter for an IP, 5 req/s with burst 10.
func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, exists := rl.visitors[ip]; exists {
		return limiter
	}

	limiter := rate.NewLimiter(5, 10)
	rl.visitors[ip] = limiter

	// Clean up old IPs after 10 minutes
	go func() {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		delete(rl.visitors, ip)
		rl.mu.Unlock()
	}()

	return limiter
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

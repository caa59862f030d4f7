// Package ratelimit provides a fixed-window per-client limiter for the
// public submission endpoints.
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"eduverify/pkg/platform/httputil"
)

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string]*bucket
}

type bucket struct {
	windowStart time.Time
	count       int
}

func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
	}
}

// Allow records one hit for key and reports whether it is within the limit,
// along with the remaining allowance and when the window resets.
func (l *Limiter) Allow(key string, now time.Time) (allowed bool, remaining int, reset time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || now.Sub(b.windowStart) >= l.window {
		b = &bucket{windowStart: now}
		l.buckets[key] = b
		// Opportunistic sweep keeps the map from growing with dead clients.
		if len(l.buckets) > 10000 {
			for k, old := range l.buckets {
				if now.Sub(old.windowStart) >= l.window {
					delete(l.buckets, k)
				}
			}
		}
	}

	b.count++
	reset = b.windowStart.Add(l.window)
	if b.count > l.limit {
		return false, 0, reset
	}
	return true, l.limit - b.count, reset
}

// Middleware enforces the limiter per client IP, answering 429 with
// X-RateLimit headers when exceeded.
func Middleware(l *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			now := time.Now()
			allowed, remaining, reset := l.Allow(clientIP(r), now)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(time.Until(reset).Seconds())+1))
				httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"error":             "rate_limited",
					"error_description": "rate limit exceeded, retry later",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

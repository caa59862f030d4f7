package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow(t *testing.T) {
	l := New(2, time.Minute)
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	ok, remaining, _ := l.Allow("1.2.3.4", now)
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)

	ok, remaining, _ = l.Allow("1.2.3.4", now)
	assert.True(t, ok)
	assert.Zero(t, remaining)

	ok, _, reset := l.Allow("1.2.3.4", now)
	assert.False(t, ok)
	assert.Equal(t, now.Add(time.Minute), reset)

	// Other clients are unaffected.
	ok, _, _ = l.Allow("5.6.7.8", now)
	assert.True(t, ok)

	// The window rolls over.
	ok, _, _ = l.Allow("1.2.3.4", now.Add(time.Minute))
	assert.True(t, ok)
}

func TestMiddleware(t *testing.T) {
	l := New(1, time.Minute)
	handler := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/requests", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limited")
}

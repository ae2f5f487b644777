package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mdrrmo/bantay-api/internal/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, handler http.HandlerFunc, ip string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	req.RemoteAddr = ip + ":54321"
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestRateLimitBlocksAfterFailures(t *testing.T) {
	limiter := ratelimiter.New(5, 5*time.Minute, ratelimiter.NewMemoryStore())
	failing := RateLimit(limiter, "login")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	for i := 0; i < 5; i++ {
		w := doRequest(t, failing, "10.0.0.1")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := doRequest(t, failing, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "Too many login attempts")
}

func TestRateLimitSuccessResetsWindow(t *testing.T) {
	limiter := ratelimiter.New(5, 5*time.Minute, ratelimiter.NewMemoryStore())
	status := http.StatusUnauthorized
	handler := RateLimit(limiter, "login")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})

	for i := 0; i < 4; i++ {
		doRequest(t, handler, "10.0.0.1")
	}

	status = http.StatusOK
	w := doRequest(t, handler, "10.0.0.1")
	require.Equal(t, http.StatusOK, w.Code)

	// the budget is fresh again
	status = http.StatusUnauthorized
	for i := 0; i < 5; i++ {
		w := doRequest(t, handler, "10.0.0.1")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, doRequest(t, handler, "10.0.0.1").Code)
}

func TestRateLimitBlockedRequestNotCounted(t *testing.T) {
	limiter := ratelimiter.New(2, 5*time.Minute, ratelimiter.NewMemoryStore())
	handler := RateLimit(limiter, "login")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	doRequest(t, handler, "10.0.0.1")
	doRequest(t, handler, "10.0.0.1")

	// throttled requests must not extend the window
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusTooManyRequests, doRequest(t, handler, "10.0.0.1").Code)
	}
}

func TestRateLimitIsolatesClients(t *testing.T) {
	limiter := ratelimiter.New(1, 5*time.Minute, ratelimiter.NewMemoryStore())
	handler := RateLimit(limiter, "login")(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	doRequest(t, handler, "10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, doRequest(t, handler, "10.0.0.1").Code)

	assert.Equal(t, http.StatusUnauthorized, doRequest(t, handler, "10.0.0.2").Code)
}

func TestRateLimitDefaultStatusTreatedAsSuccess(t *testing.T) {
	limiter := ratelimiter.New(1, 5*time.Minute, ratelimiter.NewMemoryStore())
	handler := RateLimit(limiter, "login")(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok")) // implicit 200
	})

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, doRequest(t, handler, "10.0.0.1").Code)
	}
}

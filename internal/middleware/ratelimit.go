package middleware

import (
	"net/http"

	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
	"github.com/mdrrmo/bantay-api/internal/ratelimiter"
	"github.com/mdrrmo/bantay-api/internal/utils"
)

// statusRecorder captures the status code written by the wrapped handler so
// the limiter can tell failed attempts from successful ones.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RateLimit guards a handler with a sliding-window attempt budget keyed by
// client IP. A blocked request is rejected before the handler runs and does
// not consume an attempt. Afterwards a 2xx outcome clears the client's
// window and any other outcome records one attempt, so an attacker cannot
// stretch the budget by alternating failures with throttled requests.
func RateLimit(limiter *ratelimiter.Limiter, action string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			identity, err := utils.GetIP(r)
			if err != nil {
				utils.WriteError(w, err)
				return
			}

			if !limiter.Allow(identity) {
				utils.WriteError(w, internal_errors.RateLimited(action, limiter.RetryAfter(identity)))
				return
			}

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status < 400 {
				limiter.Reset(identity)
			} else {
				limiter.RecordAttempt(identity)
			}
		}
	}
}

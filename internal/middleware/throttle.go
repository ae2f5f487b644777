package middleware

import (
	"net/http"

	"github.com/mdrrmo/bantay-api/internal/utils"
	"golang.org/x/time/rate"
)

// Throttle caps the total request rate across all clients. It protects the
// service itself; the per-action attempt budgets stay with RateLimit.
func Throttle(rps int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), rps)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				utils.WriteJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Service is busy. Please try again later."})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

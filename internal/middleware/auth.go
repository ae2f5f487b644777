package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mdrrmo/bantay-api/internal/domain"
	"github.com/mdrrmo/bantay-api/internal/utils"
	jwt_internal "github.com/mdrrmo/bantay-api/internal/utils/jwt"
)

// Key to store the authenticated user id in the request context
type key int

const userIdKey key = 0

// NeedAuth rejects requests without a valid bearer token and stores the
// token's user id in the request context.
func NeedAuth(jwtService jwt_internal.JwtService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				utils.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "Please sign in."})
				return
			}

			userId, err := jwtService.UserIdFromToken(token)
			if err != nil {
				utils.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userIdKey, userId)
			next(w, r.WithContext(ctx))
		}
	}
}

// UserIdFromContext retrieves the user id stored by NeedAuth. The second
// return value is false on routes that never passed through it.
func UserIdFromContext(r *http.Request) (domain.UserId, bool) {
	userId, ok := r.Context().Value(userIdKey).(domain.UserId)
	return userId, ok
}

package handler

import (
	"net/http"

	"github.com/mdrrmo/bantay-api/internal/config"
	"github.com/mdrrmo/bantay-api/internal/service"
	"github.com/mdrrmo/bantay-api/internal/utils"
)

type Handler struct {
	auth service.AuthService
	cfg  *config.Config
}

func New(auth service.AuthService, cfg *config.Config) *Handler {
	return &Handler{auth, cfg}
}

// Dispatch routes POST /v1/auth by its `action` query parameter. The mobile
// client's legacy builds call this single endpoint; newer builds use the
// per-action routes, which share the same wrapped handlers so the rate-limit
// budgets apply either way.
func Dispatch(routes map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next, ok := routes[r.URL.Query().Get("action")]
		if !ok {
			utils.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found."})
			return
		}
		next(w, r)
	}
}

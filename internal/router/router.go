package router

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mdrrmo/bantay-api/internal/handler"
	"github.com/mdrrmo/bantay-api/internal/middleware"
	"github.com/mdrrmo/bantay-api/internal/setup"
	"github.com/mdrrmo/bantay-api/internal/utils"
)

// New creates and configures the mux router with all the routes. The mobile
// client is the only consumer, so CORS stays permissive.
func New(deps *setup.Dependencies) *mux.Router {
	r := mux.NewRouter()

	r.Use(handlers.CompressHandler)
	r.Use(handlers.CORS(
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	))
	r.Use(middleware.Metrics)
	r.Use(middleware.Throttle(deps.Config.Public.GlobalRps))

	// Wildcard OPTIONS handler so preflight requests don't 404
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Endpoint not found."})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed."})
	})

	h := deps.Handler

	// Register and login burn their own attempt budgets; a success clears
	// the caller's window.
	register := middleware.RateLimit(deps.RegisterLimiter, "registration")(h.Register)
	login := middleware.RateLimit(deps.LoginLimiter, "login")(h.Login)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/health", h.Health).Methods("GET")

	auth := v1.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", register).Methods("POST")
	auth.HandleFunc("/login", login).Methods("POST")
	auth.HandleFunc("/update-address", h.UpdateAddress).Methods("POST")
	auth.HandleFunc("/send-verification", h.SendVerification).Methods("POST")
	auth.HandleFunc("/verify-code", h.VerifyCode).Methods("POST")

	// Legacy action-keyed entrypoint used by older app builds. It shares the
	// wrapped handlers above so the same limits apply.
	v1.HandleFunc("/auth", handler.Dispatch(map[string]http.HandlerFunc{
		"register":          register,
		"login":             login,
		"update-address":    h.UpdateAddress,
		"send-verification": h.SendVerification,
		"verify-code":       h.VerifyCode,
	})).Methods("POST")

	v1.HandleFunc("/users/me", middleware.NeedAuth(deps.Jwt)(h.Me)).Methods("GET")

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}

package utils

import (
	"encoding/json"
	"io"
	"net"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mdrrmo/bantay-api/internal/errors"
	"github.com/mdrrmo/bantay-api/internal/logger"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeValidate decodes a JSON request body into body and checks its
// validator tags. Both failure modes are reported as 422 per the API
// contract: the caller is an end-user mobile client, so the message stays
// human-readable.
func DecodeValidate(r io.Reader, body any) error {
	if err := json.NewDecoder(r).Decode(body); err != nil {
		logger.Log.Debug("request body is not valid json", "error", err)
		return errors.Validation("Invalid input data.")
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request body failed validation", "error", err)
		return errors.Validation("Invalid input data.")
	}
	return nil
}

// WriteJSON writes v with the given status. Encoding failures are logged;
// the status line has already been sent at that point.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// WriteError maps err to the wire format: {"error": message} with the
// error's status code. Errors without a status code become a generic 500 so
// internal detail never reaches the client.
func WriteError(w http.ResponseWriter, err error) {
	status := errors.StatusCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Log.Error("internal error", "error", err)
		message = "Internal server error."
	}
	if e, ok := err.(*errors.ErrorWithStatusCode); ok && e.RetryAfter > 0 {
		w.Header().Set("Retry-After", formatSeconds(e.RetryAfter))
	}
	WriteJSON(w, status, map[string]string{"error": message})
}

// GetIP extracts the client IP from RemoteAddr. Forwarding headers are
// deliberately not trusted: there is no reverse proxy in front of this API
// and they are trivially spoofable.
func GetIP(r *http.Request) (string, error) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if net.ParseIP(ip) == nil {
		return "", errors.Validation("Invalid client address.")
	}
	return ip, nil
}

package errors

import (
	"fmt"
	"net/http"
	"time"
)

// ErrorWithStatusCode is the error type crossing the service/handler
// boundary. Handlers serialize only Message and StatusCode; anything
// without a status code is treated as an internal error and reported
// generically.
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int

	// RetryAfter is set for rate-limit errors only.
	RetryAfter time.Duration
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for err, defaulting to 500.
func StatusCode(err error) int {
	if e, ok := err.(*ErrorWithStatusCode); ok {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func Validation(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusUnprocessableEntity}
}

func Conflict(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusConflict}
}

// InvalidCredentials is intentionally generic so login failures do not
// reveal whether the email exists.
func InvalidCredentials() *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: "Invalid email or password.", StatusCode: http.StatusUnauthorized}
}

func InvalidOrExpiredCode() *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: "Invalid or expired verification code.", StatusCode: http.StatusBadRequest}
}

func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

func RateLimited(action string, retryAfter time.Duration) *ErrorWithStatusCode {
	minutes := int((retryAfter + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	unit := "minutes"
	if minutes == 1 {
		unit = "minute"
	}
	return &ErrorWithStatusCode{
		Message:    fmt.Sprintf("Too many %s attempts. Please try again in %d %s.", action, minutes, unit),
		StatusCode: http.StatusTooManyRequests,
		RetryAfter: retryAfter,
	}
}

// IsNotFound reports whether err carries a 404 status.
func IsNotFound(err error) bool {
	e, ok := err.(*ErrorWithStatusCode)
	return ok && e.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err carries a 409 status.
func IsConflict(err error) bool {
	e, ok := err.(*ErrorWithStatusCode)
	return ok && e.StatusCode == http.StatusConflict
}

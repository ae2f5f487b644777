package service

import (
	"strings"
	"unicode"

	internal_errors "github.com/mdrrmo/bantay-api/internal/errors"
)

// passwordSymbols matches the client-side strength meter's symbol set; the
// two must stay in sync or the app will accept passwords the server rejects.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

const passwordMinLength = 8

// ValidatePassword enforces the registration strength policy. The first
// failing rule is named so the mobile client can show it directly.
func ValidatePassword(password string) error {
	switch {
	case len(password) < passwordMinLength:
		return internal_errors.Validation("Password must be at least 8 characters long.")
	case !containsFunc(password, unicode.IsUpper):
		return internal_errors.Validation("Password must contain at least one uppercase letter.")
	case !containsFunc(password, unicode.IsLower):
		return internal_errors.Validation("Password must contain at least one lowercase letter.")
	case !containsFunc(password, unicode.IsDigit):
		return internal_errors.Validation("Password must contain at least one number.")
	case !strings.ContainsAny(password, passwordSymbols):
		return internal_errors.Validation("Password must contain at least one special character.")
	}
	return nil
}

// IsStrongPassword reports whether password passes all five policy rules.
func IsStrongPassword(password string) bool {
	return ValidatePassword(password) == nil
}

func containsFunc(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}
	return false
}

package http

import (
	"net/mail"

	"github.com/doorkeep/doorkeep/core"
)

// validateCredentials is the pre-condition gate in front of Register and
// Login: by the time the lifecycle manager runs, every string is known to
// be well-formed and non-empty.
func validateCredentials(name, email, username, password string, requireProfile bool) *core.Error {
	if username == "" {
		return core.NewValidationError("auth/username-empty", "Username or email cannot be empty.")
	}
	if password == "" {
		return core.NewValidationError("auth/password-empty", "Password cannot be empty.")
	}
	if requireProfile {
		if name == "" {
			return core.NewValidationError("auth/name-required", "Name is required.")
		}
		if email == "" {
			return core.NewValidationError("auth/email-required", "Email is required.")
		}
	}
	if len(username) < 3 {
		return core.NewValidationError("auth/username-invalid", "Username has to be at least 3 characters.")
	}
	if !isAlphanumeric(username) {
		return core.NewValidationError("auth/username-invalid", "Username has to be alphanumeric only.")
	}
	if len(password) < 6 {
		return core.NewValidationError("auth/password-invalid", "Password has to be at least 6 characters.")
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return core.NewValidationError("auth/email-invalid", "Email has to be a valid email.")
		}
	}
	return nil
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

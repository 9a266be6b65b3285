package auth

import (
	"strings"
	"unicode"
)

// PasswordValidationError contains details about password validation failure.
type PasswordValidationError struct {
	Messages []string
}

func (e *PasswordValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// ValidatePassword checks if a password meets complexity requirements.
// Requirements:
// - Minimum 12 characters
// - At least 1 uppercase letter (A-Z)
// - At least 1 lowercase letter (a-z)
// - At least 1 digit (0-9)
// - At least 1 special character
func ValidatePassword(password string) error {
	var messages []string

	if len(password) < 12 {
		messages = append(messages, "password must be at least 12 characters")
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasDigit   bool
		hasSpecial bool
	)

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		messages = append(messages, "password must contain at least 1 uppercase letter")
	}
	if !hasLower {
		messages = append(messages, "password must contain at least 1 lowercase letter")
	}
	if !hasDigit {
		messages = append(messages, "password must contain at least 1 digit")
	}
	if !hasSpecial {
		messages = append(messages, "password must contain at least 1 special character (!@#$%^&*...)")
	}

	if len(messages) > 0 {
		return &PasswordValidationError{Messages: messages}
	}
	return nil
}

// Package validation checks user-supplied registration and profile fields.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	nickRegex  = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,30}$`)
	emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)
)

const (
	minPasswordLength = 6
	maxPasswordLength = 72 // bcrypt ignores bytes past 72
	maxEmailLength    = 254
	maxNameLength     = 60
)

// ValidateNick validates nick length and characters.
func ValidateNick(nick string) error {
	if !nickRegex.MatchString(nick) {
		return fmt.Errorf("nick must be 3-30 characters of letters, numbers, '.', '_' or '-'")
	}
	if strings.HasPrefix(nick, ".") || strings.HasSuffix(nick, ".") {
		return fmt.Errorf("nick cannot start or end with a dot")
	}
	return nil
}

// ValidateEmail validates the address shape and length.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLength {
		return fmt.Errorf("email must be at most %d characters", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword enforces length bounds on a plaintext password.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("password must be at most %d bytes", maxPasswordLength)
	}
	return nil
}

// ValidateName validates a first name or surname.
func ValidateName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return fmt.Errorf("%s must be at most %d characters", field, maxNameLength)
	}
	return nil
}

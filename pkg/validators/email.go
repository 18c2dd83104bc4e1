// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
	ErrEmailTooLong = errors.New("email address is too long")
)

// RFC 5321 limits
const (
	maxEmailLength = 254
	maxLocalLength = 64
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail is the form addresses are stored and looked up in
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// ValidateEmail reports whether e looks like local@domain.tld
func ValidateEmail(e string) bool {
	return emailRegex.MatchString(e)
}

func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	local, _, _ := strings.Cut(e, "@")
	if len(e) > maxEmailLength || len(local) > maxLocalLength {
		return ErrEmailTooLong
	}

	if !ValidateEmail(e) {
		return ErrEmailInvalid
	}

	return nil
}

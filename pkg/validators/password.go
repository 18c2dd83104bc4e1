package validators

import (
	"errors"
	"strings"
	"unicode"
)

var (
	ErrPasswordTooLong = errors.New("password is too long")
	ErrPasswordEmpty   = errors.New("no password provided")
)

const (
	minPasswordLength = 8
	maxPasswordLength = 255

	specialChars = `!@#$%^&*(),.?":{}|<>`
)

// ValidatePassword checks every rule independently and reports all that fail
func ValidatePassword(p string) Result {
	var errs []string

	if len([]rune(p)) < minPasswordLength {
		errs = append(errs, "Password must be at least 8 characters long")
	}

	if !strings.ContainsFunc(p, unicode.IsUpper) {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}

	if !strings.ContainsFunc(p, unicode.IsLower) {
		errs = append(errs, "Password must contain at least one lowercase letter")
	}

	if !strings.ContainsFunc(p, isASCIIDigit) {
		errs = append(errs, "Password must contain at least one number")
	}

	if !strings.ContainsAny(p, specialChars) {
		errs = append(errs, "Password must contain at least one special character")
	}

	return newResult(errs)
}

func PasswordValidator(p string) error {
	if p == "" {
		return ErrPasswordEmpty
	}

	if len(p) > maxPasswordLength {
		return ErrPasswordTooLong
	}

	return ValidatePassword(p).Err()
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

package validators

import (
	"regexp"
	"strings"
	"unicode"
)

var phoneRegex = regexp.MustCompile(`^[+]?[\d\s\-()]{10,}$`)

// ValidateNationalID reports whether s is a 12 digit national ID once
// whitespace is removed
func ValidateNationalID(s string) bool {
	s = stripSpace(s)
	if len(s) != 12 {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func ValidatePhone(s string) bool {
	return phoneRegex.MatchString(stripSpace(s))
}

// NormalizeNationalID drops whitespace so IDs are stored in one shape
func NormalizeNationalID(s string) string {
	return stripSpace(s)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, s)
}

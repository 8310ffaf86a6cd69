// Package validation holds the request field validators shared by the user
// and order handlers.
package validation

import (
	"regexp"
	"strings"
)

var (
	nameRegex  = regexp.MustCompile(`^[a-zA-Z ]+$`)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	pinRegex   = regexp.MustCompile(`^[0-9]{6}$`)
)

// IsValid reports whether a required string field is present and non-blank.
func IsValid(s string) bool {
	return strings.TrimSpace(s) != ""
}

func IsValidName(s string) bool {
	return nameRegex.MatchString(s)
}

func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidPhone accepts ten-digit Indian mobile numbers.
func IsValidPhone(s string) bool {
	return phoneRegex.MatchString(s)
}

func IsValidPincode(s string) bool {
	return pinRegex.MatchString(s)
}

// IsValidPassword enforces the password policy: 8-15 characters with at
// least one uppercase, one lowercase, one digit and one special character.
// regexp does not support lookaheads, so the classes are counted directly.
func IsValidPassword(s string) bool {
	if len(s) < 8 || len(s) > 15 {
		return false
	}

	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return upper && lower && digit && special
}

// MissingFields returns the names of required fields that are blank, in the
// order given.
func MissingFields(fields map[string]string, order []string) []string {
	missing := make([]string, 0)
	for _, name := range order {
		if !IsValid(fields[name]) {
			missing = append(missing, name)
		}
	}
	return missing
}

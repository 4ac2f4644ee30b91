package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	maxNameLength     = 100
	minPasswordLength = 6
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9\-+()\s]{10,}$`)
)

// IsValidEmail reports whether s looks like local@domain.tld. It is a syntactic
// check only and does not attempt RFC 5322 compliance.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s, with all whitespace removed, is at least ten
// characters drawn from digits, '-', '+', '(' and ')'. The input is not normalized.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(stripSpace(s))
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ValidateContact checks the add/edit contact form. Errors are reported in field
// order: name, email, phone.
func ValidateContact(name, email, phone string) ValidationResult {
	result := newResult()

	name = strings.TrimSpace(name)
	switch {
	case name == "":
		result.add("name", ErrorNameRequired, "Please enter a name")
	case len(name) > maxNameLength:
		result.add("name", ErrorNameTooLong, "Name too long (max 100 characters)")
	}

	email = strings.TrimSpace(email)
	if email == "" || !IsValidEmail(email) {
		result.add("email", ErrorInvalidEmail, "Please enter a valid email address")
	}

	if strings.TrimSpace(phone) == "" || !IsValidPhone(phone) {
		result.add("phone", ErrorInvalidPhone, "Please enter a valid phone number (at least 10 digits)")
	}

	return result
}

// ValidateRegistration requires every field to be present.
func ValidateRegistration(name, email, password string) ValidationResult {
	result := newResult()

	if strings.TrimSpace(name) == "" {
		result.add("name", ErrorNameRequired, "Name is required")
	}
	if strings.TrimSpace(email) == "" {
		result.add("email", ErrorEmailRequired, "Email is required")
	}
	if password == "" {
		result.add("password", ErrorPasswordRequired, "Password is required")
	}

	return result
}

func ValidateLogin(email, password string) ValidationResult {
	result := newResult()

	if strings.TrimSpace(email) == "" {
		result.add("email", ErrorEmailRequired, "Email is required")
	}
	if password == "" {
		result.add("password", ErrorPasswordRequired, "Password is required")
	}

	return result
}

// ValidateProfileUpdate requires a name. The password is optional, but when given
// it must be at least six characters.
func ValidateProfileUpdate(name, password string) ValidationResult {
	result := newResult()

	if strings.TrimSpace(name) == "" {
		result.add("name", ErrorNameRequired, "Name is required")
	}
	if strings.TrimSpace(password) != "" && len(password) < minPasswordLength {
		result.add("password", ErrorPasswordTooShort, "Password must be at least 6 characters")
	}

	return result
}

func newResult() ValidationResult {
	return ValidationResult{
		IsValid:     true,
		ValidatedAt: time.Now(),
	}
}

package utils

import "unicode"

// PasswordStrength is a hint shown next to password fields. It never blocks
// submission; the form validators decide what is accepted.
type PasswordStrength int

const (
	PasswordWeak PasswordStrength = iota
	PasswordMedium
	PasswordStrong
)

func (s PasswordStrength) String() string {
	switch s {
	case PasswordStrong:
		return "strong"
	case PasswordMedium:
		return "medium"
	default:
		return "weak"
	}
}

// RatePassword scores length and character variety.
func RatePassword(password string) PasswordStrength {
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	length := 0
	for _, char := range password {
		length++
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	variety := 0
	for _, ok := range []bool{hasUpper, hasLower, hasDigit, hasSpecial} {
		if ok {
			variety++
		}
	}

	switch {
	case length >= 10 && variety >= 3:
		return PasswordStrong
	case length >= 6 && variety >= 2:
		return PasswordMedium
	default:
		return PasswordWeak
	}
}

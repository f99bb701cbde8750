package services

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

const MinPasswordLength = 8

var ErrWeakPassword = errors.New("password must be at least 8 characters and include upper, lower, digit and special characters")

// passwordClasses are the character classes every account password needs at
// least one of. Temporary passwords are generated against the same list.
var passwordClasses = []func(rune) bool{
	unicode.IsUpper,
	unicode.IsLower,
	unicode.IsDigit,
	func(char rune) bool { return unicode.IsPunct(char) || unicode.IsSymbol(char) },
}

func ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrWeakPassword
	}

	missing := len(passwordClasses)
	seen := make([]bool, len(passwordClasses))
	for _, char := range password {
		for index, class := range passwordClasses {
			if !seen[index] && class(char) {
				seen[index] = true
				missing--
			}
		}
		if missing == 0 {
			return nil
		}
	}
	return ErrWeakPassword
}

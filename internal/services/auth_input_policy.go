package services

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrInvalidLoginID         = errors.New("login id must be at least 3 characters of letters, digits, dot, dash or underscore")
)

var loginIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{3,64}$`)

func NormalizeLoginID(raw string) string {
	return strings.TrimSpace(raw)
}

func ValidateLoginID(loginID string) error {
	if !loginIDPattern.MatchString(loginID) {
		return ErrInvalidLoginID
	}
	return nil
}

func NormalizeCredentialsInput(loginRaw string, passwordRaw string) (string, string, error) {
	loginID := NormalizeLoginID(loginRaw)
	password := strings.TrimSpace(passwordRaw)
	if loginID == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return loginID, password, nil
}

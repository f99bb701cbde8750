// Package security holds credential generation helpers shared by the
// maintenance commands.
package security

import (
	"crypto/rand"
	"errors"
	"fmt"
)

// TemporaryPasswordAlphabet avoids look-alike glyphs (0/O, 1/l/I) so a
// password read out over the phone survives transcription.
const TemporaryPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789#%+=!?"

const (
	minTemporaryPasswordLength = 8
	temporaryPasswordAttempts  = 32
)

var (
	errNegativeLength    = errors.New("length must be non-negative")
	errAlphabetSize      = errors.New("alphabet must hold between 1 and 256 characters")
	ErrPolicyUnsatisfied = errors.New("could not generate a password that meets the policy")
)

// RandomString draws length characters uniformly from alphabet using
// crypto/rand. Bytes that would bias the modulo are rejected and redrawn.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case len(alphabet) == 0 || len(alphabet) > 256:
		return "", errAlphabetSize
	}

	size := len(alphabet)
	ceiling := 256 - 256%size
	out := make([]byte, 0, length)
	buffer := make([]byte, length+length/2+1)
	for len(out) < length {
		if _, err := rand.Read(buffer); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range buffer {
			if int(b) >= ceiling {
				continue
			}
			out = append(out, alphabet[int(b)%size])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

// TemporaryPassword keeps drawing from TemporaryPasswordAlphabet until accept
// returns nil, so the result can be used to log in directly. Lengths below
// eight are raised to eight.
func TemporaryPassword(length int, accept func(string) error) (string, error) {
	if length < minTemporaryPasswordLength {
		length = minTemporaryPasswordLength
	}
	for attempt := 0; attempt < temporaryPasswordAttempts; attempt++ {
		candidate, err := RandomString(length, TemporaryPasswordAlphabet)
		if err != nil {
			return "", err
		}
		if accept == nil || accept(candidate) == nil {
			return candidate, nil
		}
	}
	return "", ErrPolicyUnsatisfied
}

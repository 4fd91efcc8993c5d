package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

const (
	secretAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	secretLength   = 48
)

var (
	errNegativeLength  = errors.New("length must be non-negative")
	errInvalidAlphabet = errors.New("alphabet must hold between 1 and 256 characters")
)

// GenerateSecret returns a signing secret accepted by ValidateSecret.
func GenerateSecret() (string, error) {
	return drawFromAlphabet(rand.Reader, secretLength, secretAlphabet)
}

// drawFromAlphabet picks length characters uniformly from alphabet. Bytes
// at or above the largest multiple of the alphabet size are rejected so the
// modulo does not bias early characters.
func drawFromAlphabet(source io.Reader, length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if len(alphabet) == 0 || len(alphabet) > 256 {
		return "", errInvalidAlphabet
	}

	limit := 256 - 256%len(alphabet)
	out := make([]byte, 0, length)
	chunk := make([]byte, length)
	for len(out) < length {
		if _, err := io.ReadFull(source, chunk); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}
		for _, b := range chunk {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}

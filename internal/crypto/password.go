package crypto

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generated password bounds. The upper bound is bcrypt's input limit.
const (
	MinGeneratedLength = 12
	MaxGeneratedLength = 72
)

// Symbols are limited to ones that survive shells and form encoding.
var passwordClasses = []string{
	"ABCDEFGHJKLMNPQRSTUVWXYZ",
	"abcdefghijkmnopqrstuvwxyz",
	"23456789",
	"-_.+=@%",
}

var ErrGeneratedLength = fmt.Errorf("generated password length must be between %d and %d", MinGeneratedLength, MaxGeneratedLength)

// GeneratePassword returns a random password of the given length with at
// least one character from every class. Ambiguous glyphs (0/O, 1/l/I) are
// left out since operators read these aloud.
func GeneratePassword(length int) (string, error) {
	if length < MinGeneratedLength || length > MaxGeneratedLength {
		return "", ErrGeneratedLength
	}

	var all string
	for _, class := range passwordClasses {
		all += class
	}

	out := make([]byte, 0, length)
	for _, class := range passwordClasses {
		c, err := pick(class)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	for i := len(out) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}

	return string(out), nil
}

func pick(set string) (byte, error) {
	i, err := randIndex(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("reading random bytes: %w", err)
	}
	return int(v.Int64()), nil
}

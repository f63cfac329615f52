package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used unless configured otherwise.
const DefaultHashCost = 12

var (
	ErrEmptyPassword   = errors.New("password must be provided")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
	ErrInvalidHashCost = fmt.Errorf("hash cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
)

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using the given bcrypt cost.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, ErrInvalidHashCost
	}
	return &Hasher{cost: cost}, nil
}

// Cost returns the configured bcrypt work factor.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns a salted bcrypt hash of password. Two calls with the same
// password return different strings.
func (h *Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash. It never returns
// an error: an empty or corrupt hash simply does not match.
func (h *Hasher) Verify(password, storedHash string) bool {
	if storedHash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}

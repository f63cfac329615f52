package crypto

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher() unexpected error: %v", err)
	}
	return h
}

func TestNewHasherRejectsInvalidCost(t *testing.T) {
	for _, cost := range []int{0, bcrypt.MinCost - 1, bcrypt.MaxCost + 1} {
		if _, err := NewHasher(cost); err != ErrInvalidHashCost {
			t.Errorf("NewHasher(%d) error = %v, want ErrInvalidHashCost", cost, err)
		}
	}
}

func TestHashEncodesCost(t *testing.T) {
	h, err := NewHasher(5)
	if err != nil {
		t.Fatalf("NewHasher() unexpected error: %v", err)
	}

	hash, err := h.Hash("correct-horse-battery-staple")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$05$") {
		t.Errorf("Hash() = %q, want bcrypt hash with cost 05", hash)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost() unexpected error: %v", err)
	}
	if cost != 5 {
		t.Errorf("cost = %d, want 5", cost)
	}
}

func TestHashEmptyPassword(t *testing.T) {
	h := newTestHasher(t)

	if _, err := h.Hash(""); err != ErrEmptyPassword {
		t.Errorf("Hash(\"\") error = %v, want ErrEmptyPassword", err)
	}
}

func TestHashPasswordTooLong(t *testing.T) {
	h := newTestHasher(t)

	if _, err := h.Hash(strings.Repeat("a", 73)); err != ErrPasswordTooLong {
		t.Errorf("Hash() error = %v, want ErrPasswordTooLong", err)
	}
}

func TestVerifyCorrect(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if !h.Verify("pw123", hash) {
		t.Error("Verify() returned false for correct password")
	}
}

func TestVerifyWrong(t *testing.T) {
	h := newTestHasher(t)

	hash, err := h.Hash("correct-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if h.Verify("wrong-password", hash) {
		t.Error("Verify() returned true for wrong password")
	}
}

func TestHashProducesDifferentHashes(t *testing.T) {
	h := newTestHasher(t)

	hash1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	hash2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for same password (salt should differ)")
	}
	if !h.Verify("same-password", hash1) || !h.Verify("same-password", hash2) {
		t.Error("both salted hashes should verify")
	}
}

func TestVerifyNeverFails(t *testing.T) {
	h := newTestHasher(t)

	cases := []struct {
		name     string
		password string
		hash     string
	}{
		{"empty hash", "password", ""},
		{"empty password", "", "$2a$04$abcdefghijklmnopqrstuuN6H4uPGjGQ3u2sWr1ro4N5sFmCMhnWG"},
		{"malformed hash", "password", "not-a-bcrypt-hash"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if h.Verify(tc.password, tc.hash) {
				t.Errorf("Verify(%q, %q) = true, want false", tc.password, tc.hash)
			}
		})
	}
}

package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestIssuer(t *testing.T, secret string) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(secret, "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer() unexpected error: %v", err)
	}
	return issuer
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", "HS256", time.Hour); err != ErrSigningKeyRequired {
		t.Errorf("NewTokenIssuer() error = %v, want ErrSigningKeyRequired", err)
	}
}

func TestNewTokenIssuerRejectsAlgorithms(t *testing.T) {
	for _, alg := range []string{"", "none", "RS256", "ES256", "hs256"} {
		if _, err := NewTokenIssuer("secret", alg, time.Hour); !errors.Is(err, ErrUnsupportedAlg) {
			t.Errorf("NewTokenIssuer(%q) error = %v, want ErrUnsupportedAlg", alg, err)
		}
	}
}

func TestIssueThenVerify(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			issuer, err := NewTokenIssuer("test-secret", alg, time.Hour)
			if err != nil {
				t.Fatalf("NewTokenIssuer() unexpected error: %v", err)
			}

			token, err := issuer.Issue("alice")
			if err != nil {
				t.Fatalf("Issue() unexpected error: %v", err)
			}

			subject, err := issuer.Verify(token)
			if err != nil {
				t.Fatalf("Verify() unexpected error: %v", err)
			}
			if subject != "alice" {
				t.Errorf("Verify() subject = %q, want %q", subject, "alice")
			}
		})
	}
}

func TestVerifyMalformed(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret")

	if _, err := issuer.Verify("not-a-valid-token"); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret")

	token, err := issuer.IssueWithTTL("alice", -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL() unexpected error: %v", err)
	}

	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongSecretLooksLikeExpired(t *testing.T) {
	issuer := newTestIssuer(t, "correct-secret")
	other := newTestIssuer(t, "wrong-secret")

	forged, err := other.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	expired, err := issuer.IssueWithTTL("alice", -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL() unexpected error: %v", err)
	}

	_, errForged := issuer.Verify(forged)
	_, errExpired := issuer.Verify(expired)

	if errForged != ErrInvalidToken || errExpired != ErrInvalidToken {
		t.Fatalf("Verify() errors = (%v, %v), want ErrInvalidToken for both", errForged, errExpired)
	}
	if errForged.Error() != errExpired.Error() {
		t.Errorf("error messages differ: %q vs %q", errForged, errExpired)
	}
}

func TestVerifyMissingSubject(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret")

	token, err := issuer.Issue("")
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyMissingExpiry(t *testing.T) {
	secret := "test-secret"
	issuer := newTestIssuer(t, secret)

	claims := jwt.RegisteredClaims{
		Issuer:   tokenIssuer,
		Subject:  "alice",
		IssuedAt: jwt.NewNumericDate(time.Now()),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if _, err := issuer.Verify(tokenString); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongAlgorithm(t *testing.T) {
	secret := "test-secret"
	issuer := newTestIssuer(t, secret)

	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if _, err := issuer.Verify(tokenString); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyWrongIssuer(t *testing.T) {
	secret := "test-secret"
	issuer := newTestIssuer(t, secret)

	claims := jwt.RegisteredClaims{
		Issuer:    "wrong-issuer",
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	if _, err := issuer.Verify(tokenString); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

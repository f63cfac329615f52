package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "tyrecheck"

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSigningKeyRequired = errors.New("signing key is required")
	ErrUnsupportedAlg     = errors.New("signing algorithm must be one of HS256, HS384, HS512")
)

// TokenIssuer signs and verifies HMAC access tokens carrying a subject claim.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenIssuer builds a TokenIssuer for the given shared secret and HMAC
// algorithm name. ttl is the lifetime used by Issue.
func NewTokenIssuer(secret, algorithm string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrSigningKeyRequired
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedAlg, algorithm)
	}
	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
	}, nil
}

// Issue signs a token for subject that expires after the configured TTL.
func (t *TokenIssuer) Issue(subject string) (string, error) {
	return t.IssueWithTTL(subject, t.ttl)
}

// IssueWithTTL signs a token for subject that expires after ttl. A negative
// ttl yields a token that is already expired.
func (t *TokenIssuer) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.secret)
}

// Verify checks the signature, expiry and subject of tokenString and returns
// the subject. All failures collapse to ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

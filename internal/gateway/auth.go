package gateway

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 5 * time.Minute

// TokenSigner issues short-lived HS256 bearer tokens for gateway requests.
type TokenSigner struct {
	now     func() time.Time
	subject string
	secret  []byte
	ttl     time.Duration
}

// NewTokenSigner creates a signer. A zero ttl uses five minutes.
func NewTokenSigner(secret, subject string, ttl time.Duration) *TokenSigner {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenSigner{
		secret:  []byte(secret),
		subject: subject,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Sign returns a signed token.
func (s *TokenSigner) Sign() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": s.subject,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign gateway token: %w", err)
	}
	return signed, nil
}

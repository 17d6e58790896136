package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when an account token fails signature,
// expiry, or claim checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// accountTokenTTL bounds how long confirmation and reset links stay valid.
const accountTokenTTL = 24 * time.Hour

type accountClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenSigner issues and verifies the signed tokens embedded in account
// confirmation and password-reset emails. Tokens are additionally persisted
// on the user row so consuming one makes it single-use.
type TokenSigner struct {
	secret []byte
}

func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret)}
}

// Sign creates a signed account token bound to the given email.
func (s *TokenSigner) Sign(email string) (string, error) {
	now := time.Now()
	claims := accountClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(accountTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign account token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the email the token was
// issued for.
func (s *TokenSigner) Verify(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &accountClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*accountClaims)
	if !ok || claims.Email == "" {
		return "", ErrInvalidToken
	}
	return claims.Email, nil
}

// GenerateRandomToken returns a hex-encoded random value, used for
// per-session CSRF tokens.
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/dkempf/fintrack/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Verification failure kinds. Verify returns exactly one of these; there is
// no partial-trust outcome.
var (
	ErrMalformed        = errors.New("token is malformed")
	ErrSignatureInvalid = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
)

// Claims is the signed payload asserting a user's attributes for the
// lifetime of one token. Never persisted.
type Claims struct {
	UserID   int64  `json:"uid"`
	Username string `json:"username"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Service issues and verifies stateless signed tokens
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService initializes a token service with a process-wide secret and
// token lifetime, both fixed at startup.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue generates a signed token for the user, expiring after the
// configured lifetime.
func (s *Service) Issue(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.ttl)
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Admin:    user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify parses and validates a token string. Verification is
// all-or-nothing: any failure maps to ErrMalformed, ErrSignatureInvalid or
// ErrExpired.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		default:
			return nil, ErrMalformed
		}
	}
	if !token.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}

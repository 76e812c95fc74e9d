// Package token issues and verifies the signed bearer tokens that carry a
// caller's identity and role. Tokens are stateless: the secret alone is
// enough to verify them, and rotating it invalidates everything issued
// before the rotation.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/peopleops/hrms-api/internal/core/domain"
)

// Verification errors. The middleware maps all three to 401.
var (
	ErrMalformed        = errors.New("token malformed")
	ErrExpired          = errors.New("token expired")
	ErrSignatureInvalid = errors.New("token signature invalid")
)

// Identity is the authenticated caller extracted from a verified token.
// Subject is the user record id, so it shares a namespace with the id
// segment of /api/users/{id} paths.
type Identity struct {
	Subject string
	Email   string
	Role    domain.Role
}

const defaultTTL = 24 * time.Hour

// Service signs and verifies HS256 tokens with a single process-wide secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for the given user. Issued-at is now and
// expiry is now + the configured lifetime.
func (s *Service) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded identity.
// Only HS256 is accepted; tokens signed with any other method fail with
// ErrSignatureInvalid.
func (s *Service) Verify(raw string) (Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return Identity{}, classify(err)
	}
	if !tkn.Valid {
		return Identity{}, ErrSignatureInvalid
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, ErrMalformed
	}
	email, _ := claims["email"].(string)

	roleName, _ := claims["role"].(string)
	role, parseErr := domain.ParseRole(roleName)
	if parseErr != nil {
		return Identity{}, ErrMalformed
	}

	return Identity{Subject: sub, Email: email, Role: role}, nil
}

// classify maps jwt/v5 parse errors onto the package's three categories.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureInvalid
	default:
		return ErrMalformed
	}
}

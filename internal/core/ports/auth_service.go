package ports

import (
	"context"

	"github.com/peopleops/hrms-api/internal/core/domain"
)

// AuthService authenticates credentials and issues bearer tokens.
type AuthService interface {
	// Login verifies the email/password pair and returns a signed token
	// together with the user's profile. Every failure surfaces as
	// domain.ErrInvalidCredentials except the attempt limiter, which
	// returns domain.ErrTooManyAttempts.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

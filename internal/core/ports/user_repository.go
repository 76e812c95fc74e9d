package ports

import (
	"context"
	"time"

	"github.com/peopleops/hrms-api/internal/core/domain"
)

// ListUsersFilter carries all query parameters for listing users.
type ListUsersFilter struct {
	Search string // optional: partial match on full_name, email or employee_code
	Page   int    // 1-based
	Limit  int    // max rows per page (capped at 100 by service)
}

// UserRepository defines persistence operations for user records.
//
// Create and Update must surface uniqueness violations on email, username
// or employee_code as domain.ErrConflict; the policy layer's pre-checks can
// race under concurrent requests, so the single-record commit is the final
// arbiter.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)

	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmployeeCode(ctx context.Context, code string) (*domain.User, error)

	// FindTopByEmployeeCodePrefix returns the lexicographically greatest
	// employee code starting with prefix, or domain.ErrUserNotFound when
	// no record carries the prefix.
	FindTopByEmployeeCodePrefix(ctx context.Context, prefix string) (string, error)

	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)

	// SetLastLogin records a successful login timestamp.
	SetLastLogin(ctx context.Context, id string, at time.Time) error
}

// OrganizationRepository resolves the tenant a new user is attached to.
type OrganizationRepository interface {
	// Default returns the default organization, seeding it when absent.
	Default(ctx context.Context) (*domain.Organization, error)
}

package ports

import (
	"context"
	"time"

	"github.com/peopleops/hrms-api/internal/core/domain"
	"github.com/peopleops/hrms-api/internal/core/token"
)

// CreateUserInput carries all data needed to provision a new user record.
// EmployeeCode is optional: when empty a role-prefixed sequential code is
// generated.
type CreateUserInput struct {
	Email           string
	Username        string
	Password        string
	FullName        string
	Phone           string
	Department      string
	Designation     string
	DateOfJoining   time.Time
	EmployeeCode    string
	EmploymentType  string
	RoleName        string
	ProfileImageURL string
}

// UpdateUserInput is a merge patch: only non-nil fields are candidates for
// mutation. There is deliberately no password field; credential changes go
// through a separate flow.
type UpdateUserInput struct {
	Email           *string
	Username        *string
	FullName        *string
	Phone           *string
	Department      *string
	Designation     *string
	DateOfJoining   *time.Time
	EmployeeCode    *string
	EmploymentType  *string
	RoleName        *string
	IsActive        *bool
	ProfileImageURL *string
}

// ListUsersResult is returned by List.
type ListUsersResult struct {
	Items      []*domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserService defines use-case operations over personnel records. Every
// call receives the caller's verified identity explicitly; there is no
// ambient security context.
type UserService interface {
	Create(ctx context.Context, caller token.Identity, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, caller token.Identity, id string) (*domain.User, error)
	List(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error)
	Update(ctx context.Context, caller token.Identity, id string, input UpdateUserInput) (*domain.User, error)
	Deactivate(ctx context.Context, caller token.Identity, id string) error
}

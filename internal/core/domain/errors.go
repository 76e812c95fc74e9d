package domain

import "errors"

// Sentinel errors for the access-control core. Adapters wrap these with
// fmt.Errorf("...: %w", err); the HTTP layer maps them with errors.Is.
var (
	// ErrInvalidCredentials covers every failed login. It never reveals
	// which factor (email or password) was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccessDenied is returned when an authenticated caller is neither
	// privileged nor the owner of the target record.
	ErrAccessDenied = errors.New("access denied")

	// ErrConflict signals a uniqueness violation on email, username or
	// employee code.
	ErrConflict = errors.New("conflict")

	// ErrInvalidRole signals a role name outside {ADMIN, HR, EMPLOYEE}.
	ErrInvalidRole = errors.New("invalid role")

	// ErrUserNotFound signals that the referenced user record is absent.
	ErrUserNotFound = errors.New("user not found")

	// ErrOrganizationNotFound signals a missing organization record.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrTooManyAttempts signals that the login attempt limiter tripped.
	ErrTooManyAttempts = errors.New("too many login attempts")
)

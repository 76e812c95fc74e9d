package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/peopleops/hrms-api/internal/core/domain"
	"github.com/peopleops/hrms-api/internal/core/ports"
)

// stubUserRepo is a map-backed in-memory UserRepository.
type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User), nextID: 1}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// seed inserts a user directly, hashing the given password.
func (r *stubUserRepo) seed(u domain.User, password string) *domain.User {
	if password != "" {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		u.PasswordHash = string(hash)
	}
	if u.ID == "" {
		u.ID = strconv.Itoa(r.nextID)
	}
	r.nextID++
	r.users[u.ID] = cloneUser(&u)
	return cloneUser(&u)
}

func (r *stubUserRepo) conflicts(u *domain.User) bool {
	for id, existing := range r.users {
		if id == u.ID {
			continue
		}
		if existing.Email == u.Email || existing.Username == u.Username || existing.EmployeeCode == u.EmployeeCode {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	copy := cloneUser(u)
	copy.ID = strconv.Itoa(r.nextID)
	if r.conflicts(copy) {
		return nil, domain.ErrConflict
	}
	r.nextID++
	r.users[copy.ID] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	if _, ok := r.users[u.ID]; !ok {
		return nil, domain.ErrUserNotFound
	}
	if r.conflicts(u) {
		return nil, domain.ErrConflict
	}
	r.users[u.ID] = cloneUser(u)
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) findBy(match func(*domain.User) bool) (*domain.User, error) {
	for _, u := range r.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByEmployeeCode(_ context.Context, code string) (*domain.User, error) {
	return r.findBy(func(u *domain.User) bool { return u.EmployeeCode == code })
}

func (r *stubUserRepo) FindTopByEmployeeCodePrefix(_ context.Context, prefix string) (string, error) {
	top := ""
	for _, u := range r.users {
		if strings.HasPrefix(u.EmployeeCode, prefix) && u.EmployeeCode > top {
			top = u.EmployeeCode
		}
	}
	if top == "" {
		return "", domain.ErrUserNotFound
	}
	return top, nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if filter.Search != "" &&
			!strings.Contains(u.FullName, filter.Search) &&
			!strings.Contains(u.Email, filter.Search) &&
			!strings.Contains(u.EmployeeCode, filter.Search) {
			continue
		}
		out = append(out, cloneUser(u))
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) SetLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLogin = &at
	return nil
}

// stubOrgRepo always returns one default organization.
type stubOrgRepo struct{}

func (stubOrgRepo) Default(_ context.Context) (*domain.Organization, error) {
	return &domain.Organization{ID: "org-1", Name: "Acme Corp"}, nil
}

// stubRecorder captures audit events synchronously.
type stubRecorder struct {
	events []ports.AuditEventInput
}

func (r *stubRecorder) Record(e ports.AuditEventInput) {
	r.events = append(r.events, e)
}

// stubLimiter is a map-backed LoginLimiter with a threshold of 3.
type stubLimiter struct {
	failures map[string]int
}

func newStubLimiter() *stubLimiter {
	return &stubLimiter{failures: make(map[string]int)}
}

func (l *stubLimiter) TooMany(_ context.Context, email string) (bool, error) {
	return l.failures[email] >= 3, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	delete(l.failures, email)
	return nil
}

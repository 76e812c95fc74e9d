package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/peopleops/hrms-api/internal/core/domain"
	"github.com/peopleops/hrms-api/internal/core/ports"
	"github.com/peopleops/hrms-api/internal/core/token"
)

const (
	firstCodeNumber = 1001
	maxCodeRetries  = 3

	defaultPageLimit = 10
	maxPageLimit     = 100
)

// UserService implements provisioning, the field-level update policy and
// the remaining personnel-record use cases.
type UserService struct {
	repo  ports.UserRepository
	orgs  ports.OrganizationRepository
	audit ports.AuditRecorder
	log   zerolog.Logger
}

func NewUserService(
	repo ports.UserRepository,
	orgs ports.OrganizationRepository,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *UserService {
	return &UserService{repo: repo, orgs: orgs, audit: audit, log: log}
}

// Create provisions a new user record on behalf of caller.
//
// The creation role policy is enforced here even though the route is
// already restricted to ADMIN/HR: HR may create only EMPLOYEE, ADMIN may
// create any role. The requested email and any explicitly supplied
// employee code must not already exist.
func (s *UserService) Create(ctx context.Context, caller token.Identity, input ports.CreateUserInput) (*domain.User, error) {
	creator, err := s.repo.FindByID(ctx, caller.Subject)
	if err != nil {
		return nil, fmt.Errorf("resolve creator: %w", err)
	}

	requested, err := domain.ParseRole(input.RoleName)
	if err != nil {
		return nil, err
	}
	if !creator.Role.CanCreate(requested) {
		return nil, domain.ErrAccessDenied
	}

	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, fmt.Errorf("email %s: %w", input.Email, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	explicitCode := strings.TrimSpace(input.EmployeeCode)
	if explicitCode != "" {
		if _, err := s.repo.FindByEmployeeCode(ctx, explicitCode); err == nil {
			return nil, fmt.Errorf("employee code %s: %w", explicitCode, domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	org, err := s.orgs.Default(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve organization: %w", err)
	}

	employmentType := domain.EmploymentType(input.EmploymentType)
	if employmentType == "" {
		employmentType = domain.EmploymentProbation
	}

	now := time.Now().UTC()
	user := &domain.User{
		OrgID:           org.ID,
		OrgName:         org.Name,
		Email:           input.Email,
		Username:        input.Username,
		PasswordHash:    string(hash),
		FullName:        input.FullName,
		Phone:           input.Phone,
		Department:      input.Department,
		Designation:     input.Designation,
		DateOfJoining:   input.DateOfJoining,
		EmploymentType:  employmentType,
		Role:            requested,
		ProfileImageURL: input.ProfileImageURL,
		IsActive:        true,
		CreatedByID:     creator.ID,
		CreatedByName:   creator.FullName,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.insertWithCode(ctx, user, explicitCode, requested)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.Record(ports.AuditEventInput{
			UserID:    created.ID,
			ActorID:   creator.ID,
			Action:    domain.AuditUserCreated,
			Timestamp: now,
		})
	}

	s.log.Info().
		Str("user_id", created.ID).
		Str("employee_code", created.EmployeeCode).
		Str("role", string(created.Role)).
		Str("created_by", creator.ID).
		Msg("user created")

	return created, nil
}

// insertWithCode assigns the employee code and commits. Generated codes can
// race under concurrent creation; the unique index is authoritative, so on
// a duplicate-key conflict the code is regenerated and the insert retried
// a bounded number of times. Explicit codes are never regenerated.
func (s *UserService) insertWithCode(ctx context.Context, user *domain.User, explicitCode string, role domain.Role) (*domain.User, error) {
	if explicitCode != "" {
		user.EmployeeCode = explicitCode
		return s.repo.Create(ctx, user)
	}

	var lastErr error
	for attempt := 0; attempt < maxCodeRetries; attempt++ {
		code, err := s.nextEmployeeCode(ctx, role)
		if err != nil {
			return nil, err
		}
		user.EmployeeCode = code

		created, err := s.repo.Create(ctx, user)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		lastErr = err
		s.log.Warn().Str("employee_code", code).Int("attempt", attempt+1).Msg("employee code collision, regenerating")
	}
	return nil, lastErr
}

// nextEmployeeCode derives the next sequential role-prefixed code. When no
// code with the prefix exists, or the greatest one has an unparseable
// numeric suffix, the sequence restarts at the first number.
func (s *UserService) nextEmployeeCode(ctx context.Context, role domain.Role) (string, error) {
	prefix := role.CodePrefix()

	last, err := s.repo.FindTopByEmployeeCodePrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Sprintf("%s%d", prefix, firstCodeNumber), nil
		}
		return "", err
	}

	n, parseErr := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if parseErr != nil {
		return fmt.Sprintf("%s%d", prefix, firstCodeNumber), nil
	}
	return fmt.Sprintf("%s%d", prefix, n+1), nil
}

// Get returns a user record. Non-privileged callers may only read their
// own record.
func (s *UserService) Get(ctx context.Context, caller token.Identity, id string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.Role.Privileged() && caller.Subject != user.ID {
		return nil, domain.ErrAccessDenied
	}
	return user, nil
}

// List returns a page of user records matching filter.
func (s *UserService) List(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListUsersResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update applies the field-level update policy to the target record.
//
// Non-privileged callers may update only their own fullName and phone;
// other present fields are silently ignored. Privileged callers (ADMIN/HR)
// may update every declared field except the password. All uniqueness
// checks run before any field is mutated, so a rejection leaves the record
// unchanged.
func (s *UserService) Update(ctx context.Context, caller token.Identity, id string, input ports.UpdateUserInput) (*domain.User, error) {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	privileged := caller.Role.Privileged()
	isSelf := caller.Subject == target.ID
	if !privileged && !isSelf {
		return nil, domain.ErrAccessDenied
	}

	var changed []string
	working := *target

	if !privileged {
		// Self branch: intentional narrowing, not validation failure.
		if input.FullName != nil {
			working.FullName = *input.FullName
			changed = append(changed, "full_name")
		}
		if input.Phone != nil {
			working.Phone = *input.Phone
			changed = append(changed, "phone")
		}
	} else {
		changed, err = s.applyPrivileged(ctx, &working, target, input)
		if err != nil {
			return nil, err
		}
	}

	if len(changed) == 0 {
		return target, nil
	}

	working.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, &working)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		s.audit.Record(ports.AuditEventInput{
			UserID:    updated.ID,
			ActorID:   caller.Subject,
			Action:    domain.AuditUserUpdated,
			Fields:    changed,
			Timestamp: working.UpdatedAt,
		})
	}

	s.log.Info().
		Str("user_id", updated.ID).
		Strs("fields", changed).
		Str("updated_by", caller.Subject).
		Msg("user updated")

	return updated, nil
}

// applyPrivileged validates every requested change against current state,
// then mutates the working copy. Validation runs fully before the first
// mutation.
func (s *UserService) applyPrivileged(ctx context.Context, working, target *domain.User, input ports.UpdateUserInput) ([]string, error) {
	var newRole domain.Role
	if input.RoleName != nil {
		role, err := domain.ParseRole(*input.RoleName)
		if err != nil {
			return nil, err
		}
		newRole = role
	}

	if input.Email != nil && *input.Email != target.Email {
		if err := s.checkUnique(ctx, "email", *input.Email, target.ID, s.repo.FindByEmail); err != nil {
			return nil, err
		}
	}
	if input.Username != nil && *input.Username != target.Username {
		if err := s.checkUnique(ctx, "username", *input.Username, target.ID, s.repo.FindByUsername); err != nil {
			return nil, err
		}
	}
	if input.EmployeeCode != nil && *input.EmployeeCode != target.EmployeeCode {
		if err := s.checkUnique(ctx, "employee code", *input.EmployeeCode, target.ID, s.repo.FindByEmployeeCode); err != nil {
			return nil, err
		}
	}

	var changed []string
	set := func(field string, apply func()) {
		apply()
		changed = append(changed, field)
	}

	if input.Email != nil && *input.Email != target.Email {
		set("email", func() { working.Email = *input.Email })
	}
	if input.Username != nil && *input.Username != target.Username {
		set("username", func() { working.Username = *input.Username })
	}
	if input.FullName != nil {
		set("full_name", func() { working.FullName = *input.FullName })
	}
	if input.Phone != nil {
		set("phone", func() { working.Phone = *input.Phone })
	}
	if input.Department != nil {
		set("department", func() { working.Department = *input.Department })
	}
	if input.Designation != nil {
		set("designation", func() { working.Designation = *input.Designation })
	}
	if input.DateOfJoining != nil {
		set("date_of_joining", func() { working.DateOfJoining = *input.DateOfJoining })
	}
	if input.EmploymentType != nil {
		set("employment_type", func() { working.EmploymentType = domain.EmploymentType(*input.EmploymentType) })
	}
	if input.EmployeeCode != nil && *input.EmployeeCode != target.EmployeeCode {
		set("employee_code", func() { working.EmployeeCode = *input.EmployeeCode })
	}
	if input.RoleName != nil {
		set("role", func() { working.Role = newRole })
	}
	if input.IsActive != nil {
		set("is_active", func() { working.IsActive = *input.IsActive })
	}
	if input.ProfileImageURL != nil {
		set("profile_image_url", func() { working.ProfileImageURL = *input.ProfileImageURL })
	}

	return changed, nil
}

// checkUnique fails with ErrConflict when a different record already holds
// the value.
func (s *UserService) checkUnique(
	ctx context.Context,
	field, value, selfID string,
	find func(context.Context, string) (*domain.User, error),
) error {
	existing, err := find(ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("%s %s: %w", field, value, domain.ErrConflict)
	}
	return nil
}

// Deactivate soft-deletes a record by clearing its active flag. The record
// keeps its uniqueness claims on email, username and employee code.
func (s *UserService) Deactivate(ctx context.Context, caller token.Identity, id string) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.IsActive = false
	user.UpdatedAt = time.Now().UTC()
	if _, err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	if s.audit != nil {
		s.audit.Record(ports.AuditEventInput{
			UserID:    user.ID,
			ActorID:   caller.Subject,
			Action:    domain.AuditUserDeactivated,
			Fields:    []string{"is_active"},
			Timestamp: user.UpdatedAt,
		})
	}

	s.log.Info().Str("user_id", user.ID).Str("deactivated_by", caller.Subject).Msg("user deactivated")
	return nil
}

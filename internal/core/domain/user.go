package domain

import (
	"strings"
	"time"
)

// Role is the closed set of roles a user can hold. Exactly one per user.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleEmployee Role = "EMPLOYEE"
)

// ParseRole resolves a free-form role name against the known set.
// Matching is case-insensitive; unknown names return ErrInvalidRole.
func ParseRole(name string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(name))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleHR:
		return RoleHR, nil
	case RoleEmployee:
		return RoleEmployee, nil
	default:
		return "", ErrInvalidRole
	}
}

// Privileged reports whether the role bypasses ownership checks.
// ADMIN and HR share elevated read/update rights over EMPLOYEE records.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleHR
}

// CanCreate reports whether a user with this role may provision a new user
// with the requested role. HR may create only EMPLOYEE; ADMIN may create
// any role; nobody else has an allow path.
func (r Role) CanCreate(requested Role) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleHR:
		return requested == RoleEmployee
	default:
		return false
	}
}

// CodePrefix returns the employee-code prefix assigned to the role.
func (r Role) CodePrefix() string {
	switch r {
	case RoleAdmin:
		return "ADM-"
	case RoleHR:
		return "HR-"
	default:
		return "EMP-"
	}
}

// EmploymentType classifies the employment relationship.
type EmploymentType string

const (
	EmploymentFullTime  EmploymentType = "FULL_TIME"
	EmploymentPartTime  EmploymentType = "PART_TIME"
	EmploymentContract  EmploymentType = "CONTRACT"
	EmploymentIntern    EmploymentType = "INTERN"
	EmploymentProbation EmploymentType = "PROBATION"
)

// Organization is the tenant a user record belongs to. Every user references
// exactly one organization.
type Organization struct {
	ID   string `json:"id" bson:"_id,omitempty"`
	Name string `json:"name" bson:"name"`
}

// User models a personnel record. Email, Username and EmployeeCode are each
// globally unique across active and inactive records.
type User struct {
	ID              string         `json:"id" bson:"_id,omitempty"`
	OrgID           string         `json:"org_id" bson:"org_id"`
	OrgName         string         `json:"organization_name" bson:"org_name"`
	Email           string         `json:"email" bson:"email"`
	Username        string         `json:"username" bson:"username"`
	PasswordHash    string         `json:"-" bson:"password_hash"`
	FullName        string         `json:"full_name" bson:"full_name"`
	Phone           string         `json:"phone,omitempty" bson:"phone"`
	Department      string         `json:"department,omitempty" bson:"department"`
	Designation     string         `json:"designation,omitempty" bson:"designation"`
	DateOfJoining   time.Time      `json:"date_of_joining,omitempty" bson:"date_of_joining"`
	EmployeeCode    string         `json:"employee_code" bson:"employee_code"`
	EmploymentType  EmploymentType `json:"employment_type" bson:"employment_type"`
	Role            Role           `json:"role" bson:"role"`
	ProfileImageURL string         `json:"profile_image_url,omitempty" bson:"profile_image_url"`
	IsActive        bool           `json:"is_active" bson:"is_active"`
	LastLogin       *time.Time     `json:"last_login,omitempty" bson:"last_login,omitempty"`
	CreatedByID     string         `json:"created_by_id,omitempty" bson:"created_by_id"`
	CreatedByName   string         `json:"created_by_name,omitempty" bson:"created_by_name"`
	CreatedAt       time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" bson:"updated_at"`
}

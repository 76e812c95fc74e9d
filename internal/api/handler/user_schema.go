package handler

import "time"

type createUserRequest struct {
	Email           string     `json:"email" validate:"required,email"`
	Username        string     `json:"username" validate:"required,min=3"`
	Password        string     `json:"password" validate:"required,min=8"`
	FullName        string     `json:"full_name" validate:"required"`
	Phone           string     `json:"phone"`
	Department      string     `json:"department"`
	Designation     string     `json:"designation"`
	DateOfJoining   *time.Time `json:"date_of_joining"`
	EmployeeCode    string     `json:"employee_code"`
	EmploymentType  string     `json:"employment_type" validate:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERN PROBATION"`
	RoleName        string     `json:"role_name" validate:"required"`
	ProfileImageURL string     `json:"profile_image_url"`
}

// updateUserRequest is a merge patch: absent fields stay untouched. There
// is deliberately no password field here; a password key in the payload is
// simply never decoded into anything.
type updateUserRequest struct {
	Email           *string    `json:"email" validate:"omitempty,email"`
	Username        *string    `json:"username" validate:"omitempty,min=3"`
	FullName        *string    `json:"full_name"`
	Phone           *string    `json:"phone"`
	Department      *string    `json:"department"`
	Designation     *string    `json:"designation"`
	DateOfJoining   *time.Time `json:"date_of_joining"`
	EmployeeCode    *string    `json:"employee_code"`
	EmploymentType  *string    `json:"employment_type" validate:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT INTERN PROBATION"`
	RoleName        *string    `json:"role_name"`
	IsActive        *bool      `json:"is_active"`
	ProfileImageURL *string    `json:"profile_image_url"`
}

type userResponse struct {
	ID              string     `json:"id"`
	OrgID           string     `json:"org_id"`
	OrgName         string     `json:"organization_name"`
	Email           string     `json:"email"`
	Username        string     `json:"username"`
	FullName        string     `json:"full_name"`
	Phone           string     `json:"phone,omitempty"`
	Department      string     `json:"department,omitempty"`
	Designation     string     `json:"designation,omitempty"`
	DateOfJoining   *time.Time `json:"date_of_joining,omitempty"`
	EmployeeCode    string     `json:"employee_code"`
	EmploymentType  string     `json:"employment_type"`
	RoleName        string     `json:"role_name"`
	ProfileImageURL string     `json:"profile_image_url,omitempty"`
	IsActive        bool       `json:"is_active"`
	LastLogin       *time.Time `json:"last_login,omitempty"`
	CreatedByID     string     `json:"created_by_id,omitempty"`
	CreatedByName   string     `json:"created_by_name,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listUsersResponse struct {
	Data       []*userResponse    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type messageResponse struct {
	Message string `json:"message"`
}

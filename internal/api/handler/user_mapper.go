package handler

import (
	"github.com/peopleops/hrms-api/internal/core/domain"
	"github.com/peopleops/hrms-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createUserRequest) ports.CreateUserInput {
	in := ports.CreateUserInput{
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		FullName:        req.FullName,
		Phone:           req.Phone,
		Department:      req.Department,
		Designation:     req.Designation,
		EmployeeCode:    req.EmployeeCode,
		EmploymentType:  req.EmploymentType,
		RoleName:        req.RoleName,
		ProfileImageURL: req.ProfileImageURL,
	}
	if req.DateOfJoining != nil {
		in.DateOfJoining = *req.DateOfJoining
	}
	return in
}

func toUpdateInput(req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		Email:           req.Email,
		Username:        req.Username,
		FullName:        req.FullName,
		Phone:           req.Phone,
		Department:      req.Department,
		Designation:     req.Designation,
		DateOfJoining:   req.DateOfJoining,
		EmployeeCode:    req.EmployeeCode,
		EmploymentType:  req.EmploymentType,
		RoleName:        req.RoleName,
		IsActive:        req.IsActive,
		ProfileImageURL: req.ProfileImageURL,
	}
}

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	resp := &userResponse{
		ID:              u.ID,
		OrgID:           u.OrgID,
		OrgName:         u.OrgName,
		Email:           u.Email,
		Username:        u.Username,
		FullName:        u.FullName,
		Phone:           u.Phone,
		Department:      u.Department,
		Designation:     u.Designation,
		EmployeeCode:    u.EmployeeCode,
		EmploymentType:  string(u.EmploymentType),
		RoleName:        string(u.Role),
		ProfileImageURL: u.ProfileImageURL,
		IsActive:        u.IsActive,
		LastLogin:       u.LastLogin,
		CreatedByID:     u.CreatedByID,
		CreatedByName:   u.CreatedByName,
		CreatedAt:       u.CreatedAt,
	}
	if !u.DateOfJoining.IsZero() {
		doj := u.DateOfJoining
		resp.DateOfJoining = &doj
	}
	return resp
}

func toListResponse(r *ports.ListUsersResult) listUsersResponse {
	items := make([]*userResponse, len(r.Items))
	for i, u := range r.Items {
		items[i] = toUserResponse(u)
	}
	return listUsersResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/peopleops/hrms-api/internal/core/domain"
	"github.com/peopleops/hrms-api/internal/core/ports"
	"github.com/peopleops/hrms-api/internal/core/token"
)

func newUserFixture() (*UserService, *stubUserRepo, *stubRecorder) {
	repo := newStubUserRepo()
	recorder := &stubRecorder{}
	svc := NewUserService(repo, stubOrgRepo{}, recorder, zerolog.Nop())
	return svc, repo, recorder
}

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func identity(u *domain.User) token.Identity {
	return token.Identity{Subject: u.ID, Email: u.Email, Role: u.Role}
}

func seedAdmin(repo *stubUserRepo) *domain.User {
	return repo.seed(domain.User{
		Email:        "admin@example.com",
		Username:     "admin",
		FullName:     "Admin One",
		EmployeeCode: "ADM-1001",
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}, "pass")
}

func seedHR(repo *stubUserRepo) *domain.User {
	return repo.seed(domain.User{
		Email:        "hr@example.com",
		Username:     "hr",
		FullName:     "HR One",
		EmployeeCode: "HR-1001",
		Role:         domain.RoleHR,
		IsActive:     true,
	}, "pass")
}

func seedEmployee(repo *stubUserRepo, email, username, code string) *domain.User {
	return repo.seed(domain.User{
		Email:        email,
		Username:     username,
		FullName:     "Employee " + username,
		Phone:        "555-0000",
		Department:   "Support",
		EmployeeCode: code,
		Role:         domain.RoleEmployee,
		IsActive:     true,
	}, "pass")
}

// --- Creation role policy ---

func TestUserService_Create_RolePolicy(t *testing.T) {
	cases := []struct {
		name      string
		creator   func(*stubUserRepo) *domain.User
		requested string
		wantErr   error
	}{
		{"hr creates employee", seedHR, "EMPLOYEE", nil},
		{"hr creates admin", seedHR, "ADMIN", domain.ErrAccessDenied},
		{"hr creates hr", seedHR, "HR", domain.ErrAccessDenied},
		{"admin creates hr", seedAdmin, "HR", nil},
		{"admin creates admin", seedAdmin, "ADMIN", nil},
		{"admin creates employee", seedAdmin, "EMPLOYEE", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newUserFixture()
			creator := tc.creator(repo)

			_, err := svc.Create(context.Background(), identity(creator), ports.CreateUserInput{
				Email:    "new@example.com",
				Username: "new",
				Password: "pass",
				FullName: "New User",
				RoleName: tc.requested,
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUserService_Create_EmployeeCreatorDenied(t *testing.T) {
	svc, repo, _ := newUserFixture()
	emp := seedEmployee(repo, "e@example.com", "e1", "EMP-1001")

	_, err := svc.Create(context.Background(), identity(emp), ports.CreateUserInput{
		Email:    "new@example.com",
		Password: "pass",
		RoleName: "EMPLOYEE",
	})
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
}

func TestUserService_Create_UnknownRole(t *testing.T) {
	svc, repo, _ := newUserFixture()
	admin := seedAdmin(repo)

	_, err := svc.Create(context.Background(), identity(admin), ports.CreateUserInput{
		Email:    "new@example.com",
		Password: "pass",
		RoleName: "SUPERUSER",
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newUserFixture()
	admin := seedAdmin(repo)
	seedEmployee(repo, "taken@example.com", "taken", "EMP-1001")

	_, err := svc.Create(context.Background(), identity(admin), ports.CreateUserInput{
		Email:    "taken@example.com",
		Password: "pass",
		RoleName: "EMPLOYEE",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserService_Create_ExplicitCodeConflict(t *testing.T) {
	svc, repo, _ := newUserFixture()
	admin := seedAdmin(repo)
	seedEmployee(repo, "a@example.com", "a1", "EMP-1001")

	_, err := svc.Create(context.Background(), identity(admin), ports.CreateUserInput{
		Email:        "b@example.com",
		Username:     "b1",
		Password:     "pass",
		RoleName:     "EMPLOYEE",
		EmployeeCode: "EMP-1001",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserService_Create_Defaults(t *testing.T) {
	svc, repo, recorder := newUserFixture()
	admin := seedAdmin(repo)

	created, err := svc.Create(context.Background(), identity(admin), ports.CreateUserInput{
		Email:    "new@example.com",
		Username: "new",
		Password: "pass",
		FullName: "New User",
		RoleName: "employee", // case-insensitive
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.EmploymentType != domain.EmploymentProbation {
		t.Fatalf("expected PROBATION default, got %s", created.EmploymentType)
	}
	if !created.IsActive {
		t.Fatalf("expected active record")
	}
	if created.OrgID == "" {
		t.Fatalf("expected organization reference")
	}
	if created.CreatedByID != admin.ID {
		t.Fatalf("expected creator provenance")
	}
	if created.PasswordHash == "pass" {
		t.Fatalf("expected password to be hashed")
	}
	if len(recorder.events) != 1 || recorder.events[0].Action != domain.AuditUserCreated {
		t.Fatalf("expected user_created audit event")
	}
}

// --- Employee code generation ---

func TestUserService_EmployeeCode_FirstOfPrefix(t *testing.T) {
	svc, repo, _ := newUserFixture()
	admin := seedAdmin(repo)

	// No EMP- codes exist yet.
	created, err := svc.Create(context.Background(), identity(admin), ports.CreateUserInput{
		Email:    "e@example.com",
		Username: "e1",
		Password: "pass",
		RoleName: "EMPLOYEE",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.EmployeeCode != "EMP-1001" {
		t.Fatalf("expected EMP-1001, got %s", created.EmployeeCode)
	}
}

func TestUserService_EmployeeCode_Sequence(t *testing.T) {
	svc, repo, _ := newUserFixture()
	admin := seedAdmin(repo)
	seedEmployee(repo, "a@example.com", "a1", "EMP-1001")
	seedEmployee(repo, "b@example.com", "b1", "EMP-1002")

	created, err := svc.Create(context.Background(), identity(admin), ports.CreateUserInput{
		Email:    "c@example.com",
		Username: "c1",
		Password: "pass",
		RoleName: "EMPLOYEE",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.EmployeeCode != "EMP-1003" {
		t.Fatalf("expected EMP-1003, got %s", created.EmployeeCode)
	}
}

func TestUserService_EmployeeCode_RolePrefixes(t *testing.T) {
	svc, repo, _ := newUserFixture()
	admin := seedAdmin(repo)

	hr, err := svc.Create(context.Background(), identity(admin), ports.CreateUserInput{
		Email:    "h@example.com",
		Username: "h1",
		Password: "pass",
		RoleName: "HR",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// HR-1001 is already held by nobody here; seedAdmin holds ADM-1001.
	if hr.EmployeeCode != "HR-1001" {
		t.Fatalf("expected HR-1001, got %s", hr.EmployeeCode)
	}

	adm, err := svc.Create(context.Background(), identity(admin), ports.CreateUserInput{
		Email:    "a2@example.com",
		Username: "a2",
		Password: "pass",
		RoleName: "ADMIN",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if adm.EmployeeCode != "ADM-1002" {
		t.Fatalf("expected ADM-1002, got %s", adm.EmployeeCode)
	}
}

func TestUserService_EmployeeCode_UnparseableSuffixFallsBack(t *testing.T) {
	svc, repo, _ := newUserFixture()
	admin := seedAdmin(repo)
	// "EMP-LEGACY" sorts above any numeric suffix and cannot be parsed.
	seedEmployee(repo, "x@example.com", "x1", "EMP-LEGACY")

	created, err := svc.Create(context.Background(), identity(admin), ports.CreateUserInput{
		Email:    "y@example.com",
		Username: "y1",
		Password: "pass",
		RoleName: "EMPLOYEE",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.EmployeeCode != "EMP-1001" {
		t.Fatalf("expected fallback EMP-1001, got %s", created.EmployeeCode)
	}
}

// --- Update policy ---

func TestUserService_Update_SelfBranchNarrowsFields(t *testing.T) {
	svc, repo, _ := newUserFixture()
	emp := seedEmployee(repo, "self@example.com", "self", "EMP-1001")

	updated, err := svc.Update(context.Background(), identity(emp), emp.ID, ports.UpdateUserInput{
		FullName:   strptr("New Name"),
		Phone:      strptr("555-9999"),
		Department: strptr("Engineering"),
		RoleName:   strptr("ADMIN"),
		Email:      strptr("elevated@example.com"),
		IsActive:   boolptr(false),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.FullName != "New Name" {
		t.Fatalf("full name not updated")
	}
	if updated.Phone != "555-9999" {
		t.Fatalf("phone not updated")
	}
	// Everything else is silently ignored.
	if updated.Department != "Support" {
		t.Fatalf("department must not change on self branch")
	}
	if updated.Role != domain.RoleEmployee {
		t.Fatalf("role must not change on self branch")
	}
	if updated.Email != "self@example.com" {
		t.Fatalf("email must not change on self branch")
	}
	if !updated.IsActive {
		t.Fatalf("active flag must not change on self branch")
	}
}

func TestUserService_Update_OtherUserDenied(t *testing.T) {
	svc, repo, _ := newUserFixture()
	caller := seedEmployee(repo, "a@example.com", "a1", "EMP-1001")
	target := seedEmployee(repo, "b@example.com", "b1", "EMP-1002")

	_, err := svc.Update(context.Background(), identity(caller), target.ID, ports.UpdateUserInput{
		FullName: strptr("Hijacked"),
	})
	if !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	unchanged, _ := repo.FindByID(context.Background(), target.ID)
	if unchanged.FullName != target.FullName {
		t.Fatalf("target record mutated on denied update")
	}
}

func TestUserService_Update_PrivilegedFullFieldSet(t *testing.T) {
	svc, repo, recorder := newUserFixture()
	hr := seedHR(repo)
	emp := seedEmployee(repo, "e@example.com", "e1", "EMP-1001")

	doj := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update(context.Background(), identity(hr), emp.ID, ports.UpdateUserInput{
		Email:           strptr("e-new@example.com"),
		Username:        strptr("e1-new"),
		FullName:        strptr("Renamed"),
		Phone:           strptr("555-1234"),
		Department:      strptr("Engineering"),
		Designation:     strptr("Senior"),
		DateOfJoining:   &doj,
		EmployeeCode:    strptr("EMP-2001"),
		EmploymentType:  strptr("FULL_TIME"),
		RoleName:        strptr("HR"),
		IsActive:        boolptr(false),
		ProfileImageURL: strptr("https://img.example.com/e1.png"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if updated.Email != "e-new@example.com" || updated.Username != "e1-new" {
		t.Fatalf("identity fields not updated: %+v", updated)
	}
	if updated.Department != "Engineering" || updated.Designation != "Senior" {
		t.Fatalf("profile fields not updated")
	}
	if !updated.DateOfJoining.Equal(doj) {
		t.Fatalf("date of joining not updated")
	}
	if updated.EmployeeCode != "EMP-2001" {
		t.Fatalf("employee code not updated")
	}
	if updated.EmploymentType != domain.EmploymentFullTime {
		t.Fatalf("employment type not updated")
	}
	if updated.Role != domain.RoleHR {
		t.Fatalf("role not updated")
	}
	if updated.IsActive {
		t.Fatalf("active flag not updated")
	}

	if len(recorder.events) != 1 || recorder.events[0].Action != domain.AuditUserUpdated {
		t.Fatalf("expected user_updated audit event")
	}
	if len(recorder.events[0].Fields) != 12 {
		t.Fatalf("expected 12 changed fields, got %v", recorder.events[0].Fields)
	}
}

func TestUserService_Update_EmailConflictLeavesRecordUnchanged(t *testing.T) {
	svc, repo, _ := newUserFixture()
	hr := seedHR(repo)
	emp := seedEmployee(repo, "e@example.com", "e1", "EMP-1001")
	seedEmployee(repo, "taken@example.com", "t1", "EMP-1002")

	_, err := svc.Update(context.Background(), identity(hr), emp.ID, ports.UpdateUserInput{
		FullName: strptr("Should Not Apply"),
		Email:    strptr("taken@example.com"),
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	unchanged, _ := repo.FindByID(context.Background(), emp.ID)
	if unchanged.FullName != emp.FullName || unchanged.Email != emp.Email {
		t.Fatalf("record mutated despite conflict: %+v", unchanged)
	}
}

func TestUserService_Update_UsernameConflict(t *testing.T) {
	svc, repo, _ := newUserFixture()
	hr := seedHR(repo)
	emp := seedEmployee(repo, "e@example.com", "e1", "EMP-1001")
	seedEmployee(repo, "o@example.com", "taken", "EMP-1002")

	_, err := svc.Update(context.Background(), identity(hr), emp.ID, ports.UpdateUserInput{
		Username: strptr("taken"),
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserService_Update_EmployeeCodeConflict(t *testing.T) {
	svc, repo, _ := newUserFixture()
	hr := seedHR(repo)
	emp := seedEmployee(repo, "e@example.com", "e1", "EMP-1001")
	seedEmployee(repo, "o@example.com", "o1", "EMP-1002")

	_, err := svc.Update(context.Background(), identity(hr), emp.ID, ports.UpdateUserInput{
		EmployeeCode: strptr("EMP-1002"),
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserService_Update_SameValueIsNotConflict(t *testing.T) {
	svc, repo, _ := newUserFixture()
	hr := seedHR(repo)
	emp := seedEmployee(repo, "e@example.com", "e1", "EMP-1001")

	// Re-submitting the record's own unique values must succeed.
	updated, err := svc.Update(context.Background(), identity(hr), emp.ID, ports.UpdateUserInput{
		Email:        strptr("e@example.com"),
		Username:     strptr("e1"),
		EmployeeCode: strptr("EMP-1001"),
		FullName:     strptr("Refreshed"),
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.FullName != "Refreshed" {
		t.Fatalf("full name not updated")
	}
}

func TestUserService_Update_InvalidRole(t *testing.T) {
	svc, repo, _ := newUserFixture()
	hr := seedHR(repo)
	emp := seedEmployee(repo, "e@example.com", "e1", "EMP-1001")

	_, err := svc.Update(context.Background(), identity(hr), emp.ID, ports.UpdateUserInput{
		RoleName: strptr("OVERLORD"),
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestUserService_Update_TargetNotFound(t *testing.T) {
	svc, repo, _ := newUserFixture()
	hr := seedHR(repo)

	_, err := svc.Update(context.Background(), identity(hr), "missing", ports.UpdateUserInput{
		FullName: strptr("X"),
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// --- Read access ---

func TestUserService_Get_OwnershipRules(t *testing.T) {
	svc, repo, _ := newUserFixture()
	hr := seedHR(repo)
	a := seedEmployee(repo, "a@example.com", "a1", "EMP-1001")
	b := seedEmployee(repo, "b@example.com", "b1", "EMP-1002")

	if _, err := svc.Get(context.Background(), identity(a), a.ID); err != nil {
		t.Fatalf("own record read failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), identity(a), b.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}
	if _, err := svc.Get(context.Background(), identity(hr), a.ID); err != nil {
		t.Fatalf("privileged read failed: %v", err)
	}
}

// --- Soft delete ---

func TestUserService_Deactivate(t *testing.T) {
	svc, repo, recorder := newUserFixture()
	hr := seedHR(repo)
	emp := seedEmployee(repo, "e@example.com", "e1", "EMP-1001")

	if err := svc.Deactivate(context.Background(), identity(hr), emp.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	got, _ := repo.FindByID(context.Background(), emp.ID)
	if got.IsActive {
		t.Fatalf("expected inactive record")
	}
	// The record keeps its unique values: re-creating with the same email
	// must still conflict.
	if _, err := svc.Create(context.Background(), identity(hr), ports.CreateUserInput{
		Email:    "e@example.com",
		Password: "pass",
		RoleName: "EMPLOYEE",
	}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict on reused email, got %v", err)
	}

	if len(recorder.events) != 1 || recorder.events[0].Action != domain.AuditUserDeactivated {
		t.Fatalf("expected user_deactivated audit event")
	}
}

// --- Listing ---

func TestUserService_List_PaginationDefaults(t *testing.T) {
	svc, repo, _ := newUserFixture()
	seedEmployee(repo, "a@example.com", "a1", "EMP-1001")

	res, err := svc.List(context.Background(), ports.ListUsersFilter{Page: 0, Limit: 0})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if res.Page != 1 || res.Limit != defaultPageLimit {
		t.Fatalf("expected defaults, got page=%d limit=%d", res.Page, res.Limit)
	}
	if res.Total != 1 || res.TotalPages != 1 {
		t.Fatalf("unexpected totals: %+v", res)
	}
}

func TestUserService_List_Search(t *testing.T) {
	svc, repo, _ := newUserFixture()
	seedEmployee(repo, "ana@example.com", "ana", "EMP-1001")
	seedEmployee(repo, "bob@example.com", "bob", "EMP-1002")

	res, err := svc.List(context.Background(), ports.ListUsersFilter{Search: "ana"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if res.Total != 1 || res.Items[0].Email != "ana@example.com" {
		t.Fatalf("unexpected search result: %+v", res)
	}
}

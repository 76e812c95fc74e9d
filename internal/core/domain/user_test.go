package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{"ADMIN", RoleAdmin, false},
		{"hr", RoleHR, false},
		{" employee ", RoleEmployee, false},
		{"SUPERUSER", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if err != ErrInvalidRole {
				t.Fatalf("ParseRole(%q): expected ErrInvalidRole, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseRole(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestRole_CanCreate(t *testing.T) {
	cases := []struct {
		creator   Role
		requested Role
		want      bool
	}{
		{RoleHR, RoleEmployee, true},
		{RoleHR, RoleAdmin, false},
		{RoleHR, RoleHR, false},
		{RoleAdmin, RoleHR, true},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleEmployee, true},
		{RoleEmployee, RoleEmployee, false},
		{RoleEmployee, RoleAdmin, false},
	}

	for _, tc := range cases {
		if got := tc.creator.CanCreate(tc.requested); got != tc.want {
			t.Fatalf("%s.CanCreate(%s) = %v, want %v", tc.creator, tc.requested, got, tc.want)
		}
	}
}

func TestRole_CodePrefix(t *testing.T) {
	if RoleAdmin.CodePrefix() != "ADM-" {
		t.Fatalf("unexpected admin prefix")
	}
	if RoleHR.CodePrefix() != "HR-" {
		t.Fatalf("unexpected hr prefix")
	}
	if RoleEmployee.CodePrefix() != "EMP-" {
		t.Fatalf("unexpected employee prefix")
	}
	// Unknown roles fall back to the employee prefix.
	if Role("OTHER").CodePrefix() != "EMP-" {
		t.Fatalf("unexpected fallback prefix")
	}
}

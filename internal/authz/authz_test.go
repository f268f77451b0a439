package authz

import (
	"reflect"
	"testing"
)

func TestIsAuthorized(t *testing.T) {
	tests := []struct {
		name     string
		current  []string
		required []string
		want     bool
	}{
		{"no roles against a requirement", nil, []string{RoleAdmin}, false},
		{"empty requirement is open", []string{RoleAdmin}, nil, true},
		{"empty requirement with no roles", nil, nil, true},
		{"no intersection", []string{RoleUser}, []string{RoleAdmin, RoleSuperAdmin}, false},
		{"intersection on one role", []string{RoleSuperAdmin}, []string{RoleAdmin, RoleSuperAdmin}, true},
		{"multiple held roles", []string{RoleUser, RoleAdmin}, []string{RoleAdmin}, true},
		{"unknown role never matches", []string{"Manager"}, []string{RoleAdmin}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAuthorized(tt.current, tt.required); got != tt.want {
				t.Errorf("IsAuthorized(%v, %v) = %v, want %v", tt.current, tt.required, got, tt.want)
			}
		})
	}
}

func TestIsValidRole(t *testing.T) {
	for _, name := range AllRoles() {
		if !IsValidRole(name) {
			t.Errorf("IsValidRole(%q) = false", name)
		}
	}
	if IsValidRole("manager") {
		t.Error("IsValidRole accepted an unknown role")
	}
	if IsValidRole("admin") {
		t.Error("role names are case-sensitive; lowercase must not match")
	}
}

func TestFilterNav(t *testing.T) {
	entries := Navigation()

	pathsOf := func(roles []string) []string {
		var out []string
		for _, e := range FilterNav(entries, roles) {
			out = append(out, e.Path)
		}
		return out
	}

	// Plain users only see the open entries.
	want := []string{"/", "/invoices", "/analytics"}
	if got := pathsOf([]string{RoleUser}); !reflect.DeepEqual(got, want) {
		t.Errorf("User nav = %v, want %v", got, want)
	}

	// Admins additionally see users, secrets and the audit log.
	want = []string{"/", "/invoices", "/analytics", "/users", "/secrets", "/audit"}
	if got := pathsOf([]string{RoleAdmin}); !reflect.DeepEqual(got, want) {
		t.Errorf("Admin nav = %v, want %v", got, want)
	}

	// Super Admins see everything, tenants included.
	if got := pathsOf([]string{RoleSuperAdmin}); len(got) != len(entries) {
		t.Errorf("Super Admin nav has %d entries, want %d", len(got), len(entries))
	}

	// Hidden entries are omitted entirely, never returned disabled.
	for _, e := range FilterNav(entries, []string{RoleUser}) {
		if len(e.RequiredRoles) > 0 {
			t.Errorf("restricted entry %q leaked into User nav", e.Name)
		}
	}
}

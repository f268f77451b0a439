// Package authz is the role-based access gate: a single intersection
// predicate applied uniformly at route-guard, navigation-filter, and
// handler level, so role logic is never re-derived per endpoint.
package authz

// Fixed role enumeration. Roles are reference data and never user-created.
const (
	RoleSuperAdmin = "Super Admin"
	RoleAdmin      = "Admin"
	RoleUser       = "User"
)

// AllRoles returns the fixed role set in seed order.
func AllRoles() []string {
	return []string{RoleSuperAdmin, RoleAdmin, RoleUser}
}

// IsValidRole reports whether name is one of the fixed roles.
func IsValidRole(name string) bool {
	for _, r := range AllRoles() {
		if r == name {
			return true
		}
	}
	return false
}

// IsAuthorized reports whether a user holding current roles may access a
// resource requiring any of required. An empty requirement is open to
// everyone; otherwise the two sets must intersect.
func IsAuthorized(current, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, have := range current {
		for _, want := range required {
			if have == want {
				return true
			}
		}
	}
	return false
}

// NavEntry is one navigation item. Entries with no RequiredRoles are
// visible to every authenticated user.
type NavEntry struct {
	Name          string   `json:"name"`
	Path          string   `json:"path"`
	Icon          string   `json:"icon"`
	RequiredRoles []string `json:"-"`
}

// Navigation returns the full navigation tree before role filtering.
func Navigation() []NavEntry {
	return []NavEntry{
		{Name: "Dashboard", Path: "/", Icon: "dashboard"},
		{Name: "Invoices", Path: "/invoices", Icon: "receipt"},
		{Name: "Analytics", Path: "/analytics", Icon: "chart"},
		{Name: "Users", Path: "/users", Icon: "people", RequiredRoles: []string{RoleAdmin, RoleSuperAdmin}},
		{Name: "Secrets", Path: "/secrets", Icon: "key", RequiredRoles: []string{RoleAdmin, RoleSuperAdmin}},
		{Name: "Audit Log", Path: "/audit", Icon: "history", RequiredRoles: []string{RoleAdmin, RoleSuperAdmin}},
		{Name: "Tenants", Path: "/tenants", Icon: "business", RequiredRoles: []string{RoleSuperAdmin}},
	}
}

// FilterNav returns the entries visible to a user holding the given roles.
func FilterNav(entries []NavEntry, roles []string) []NavEntry {
	out := make([]NavEntry, 0, len(entries))
	for _, e := range entries {
		if IsAuthorized(roles, e.RequiredRoles) {
			out = append(out, e)
		}
	}
	return out
}

package identity

import "strings"

// Role is a user's position within a tenant
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleManager Role = "MANAGER"
	RoleCashier Role = "CASHIER"
)

// AllRoles lists every role, highest capability first
var AllRoles = []Role{RoleOwner, RoleManager, RoleCashier}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleCashier:
		return true
	}
	return false
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a case-insensitive role name
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

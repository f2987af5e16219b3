package domain

import "strings"

// Role is the access profile carried by an administrator and by every token
// issued for them. The set is closed: values outside Roles() never reach the
// authorization gate.
type Role string

const (
	RoleAdmin  Role = "Adm"
	RoleEditor Role = "Editor"
)

// DefaultRole is assigned when an administrator is created without a role.
const DefaultRole = RoleEditor

// Roles returns every known role.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEditor}
}

// ParseRole resolves a wire value into a Role. Matching ignores case and
// surrounding spaces so "adm" and " Editor" are accepted.
func ParseRole(s string) (Role, bool) {
	s = strings.TrimSpace(s)
	for _, r := range Roles() {
		if strings.EqualFold(string(r), s) {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is exactly one of the enumerated values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

func (r Role) String() string { return string(r) }

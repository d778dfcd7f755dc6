// Package domain defines the core types shared across imsdash: the closed
// role and interview-status enumerations, session state, and the candidate
// records fetched from the upstream API.
package domain

import "fmt"

// Role is the closed set of access roles a user can sign in as. The role is
// chosen at login and is advisory UI state only; it is never verified by the
// upstream service.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleTAMember Role = "ta_member"
	RolePanelist Role = "panelist"
)

// Roles lists every valid role, in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleTAMember, RolePanelist}
}

// ParseRole returns the Role for s, or an error when s is outside the closed
// set. The empty string is not a role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleTAMember:
		return RoleTAMember, nil
	case RolePanelist:
		return RolePanelist, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Label returns the human-readable form shown in headers and selectors.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleTAMember:
		return "TA Member"
	case RolePanelist:
		return "Panelist"
	default:
		return string(r)
	}
}

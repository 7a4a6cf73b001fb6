package models

import "fmt"

// Role is the account role of a shop. Exactly two roles exist.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleShop  Role = "SHOP"
)

// ParseRole converts a stored or session role string into a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleShop:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// IsAdmin reports whether r is RoleAdmin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

package domain

import (
	"fmt"
	"strings"
)

// Role is the ordered access level of a user: Staff < Accountant < Admin
type Role int

const (
	RoleStaff Role = iota + 1
	RoleAccountant
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleStaff:      "staff",
	RoleAccountant: "accountant",
	RoleAdmin:      "admin",
}

// ParseRole converts a wire value into a Role
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "staff":
		return RoleStaff, nil
	case "accountant":
		return RoleAccountant, nil
	case "admin":
		return RoleAdmin, nil
	}
	return 0, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether r is at or above min in the hierarchy
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r >= min
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: role %d", ErrInvalidInput, int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Permissions is the capability set derived from a role
type Permissions struct {
	CanAddSale          bool `json:"canAddSale"`
	CanAddExpense       bool `json:"canAddExpense"`
	CanEdit             bool `json:"canEdit"`
	CanDelete           bool `json:"canDelete"`
	CanManageUsers      bool `json:"canManageUsers"`
	CanManageCategories bool `json:"canManageCategories"`
	CanViewAllData      bool `json:"canViewAllData"`
}

// PermissionsOf returns the permission set granted to a role
func PermissionsOf(r Role) Permissions {
	return Permissions{
		CanAddSale:          r.AtLeast(RoleStaff),
		CanAddExpense:       r.AtLeast(RoleAccountant),
		CanEdit:             r.AtLeast(RoleAdmin),
		CanDelete:           r.AtLeast(RoleAdmin),
		CanManageUsers:      r.AtLeast(RoleAdmin),
		CanManageCategories: r.AtLeast(RoleAdmin),
		CanViewAllData:      r.AtLeast(RoleAccountant),
	}
}

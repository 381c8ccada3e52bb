package enums

import "fmt"

// UserRole separates agents, who publish listings, from buyers.
type UserRole string

const (
	UserRoleBuyer UserRole = "buyer"
	UserRoleAgent UserRole = "agent"
)

var validUserRoles = []UserRole{
	UserRoleBuyer,
	UserRoleAgent,
}

// String returns the literal string for the role.
func (u UserRole) String() string {
	return string(u)
}

// IsAgent reports whether the role can publish listings.
func (u UserRole) IsAgent() bool {
	return u == UserRoleAgent
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

package enums

import "fmt"

// UserRole represents an account-level permissions role.
type UserRole string

const (
	UserRoleUser       UserRole = "User"
	UserRoleAdmin      UserRole = "Admin"
	UserRoleValidator  UserRole = "Validator"
	UserRoleBusiness   UserRole = "Business"
	UserRoleSubAccount UserRole = "SubAccount"
)

var validUserRoles = []UserRole{
	UserRoleUser,
	UserRoleAdmin,
	UserRoleValidator,
	UserRoleBusiness,
	UserRoleSubAccount,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts raw input into a UserRole. Matching is
// case-insensitive; unknown values are an error so callers decide whether to
// default or reject.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if equalFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}

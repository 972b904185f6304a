package users

import (
	"errors"
	"time"
)

var (
	// ErrUserNotFound is returned by repositories when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when the email is already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials hides which of email or password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Role restricts which admin views a user may see.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleSales Role = "sales"

	// DefaultRole is assigned when registration does not name one.
	DefaultRole = RoleAdmin
)

// ParseRole converts a string to a Role. Unknown labels fall back to DefaultRole.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleSales:
		return Role(s)
	default:
		return DefaultRole
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSales
}

func (r Role) String() string { return string(r) }

// User is a dealership staff account allowed to sign in to the admin area.
type User struct {
	ID           string
	Email        string
	Phone        string
	Name         string
	PasswordHash []byte
	Role         Role
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Registration captures the data required to create a user.
type Registration struct {
	Email    string
	Phone    string
	Name     string
	Password string
	Role     Role
}

// Package access holds authorization checks that run after authentication.
package access

import (
	"errors"

	"github.com/carlot/dealer-admin/internal/users"
)

// ErrForbidden is returned when an authenticated user lacks the required role.
var ErrForbidden = errors.New("access denied")

// RequireRole allows only a present user whose role equals role.
func RequireRole(user *users.User, role users.Role) error {
	if user == nil || user.Role != role {
		return ErrForbidden
	}
	return nil
}

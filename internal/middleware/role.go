package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carlot/dealer-admin/internal/access"
	"github.com/carlot/dealer-admin/internal/session"
	"github.com/carlot/dealer-admin/internal/users"
)

// RoleGate lets the request continue only when the Principal placed by
// RouteGuard has the given role. Otherwise deny renders the outcome; when
// deny is nil a 403 JSON body is returned.
func RoleGate(role users.Role, deny fiber.Handler) fiber.Handler {
	if deny == nil {
		deny = DenyJSON
	}
	return func(c *fiber.Ctx) error {
		p, _ := session.PrincipalFrom(c.UserContext())
		if err := access.RequireRole(p.User, role); err != nil {
			return deny(c)
		}
		return c.Next()
	}
}

// DenyJSON answers 403 {"error":"forbidden"}.
func DenyJSON(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
}

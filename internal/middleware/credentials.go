package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Credential extracts the session credential from the named cookie, falling
// back to an Authorization bearer token for non-browser clients.
func Credential(c *fiber.Ctx, cookieName string) string {
	if v := strings.TrimSpace(c.Cookies(cookieName)); v != "" {
		return v
	}
	authz := c.Get(fiber.HeaderAuthorization)
	if len(authz) > len("bearer ") && strings.EqualFold(authz[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}

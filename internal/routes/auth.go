package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carlot/dealer-admin/internal/auth"
)

// RegisterAuthRoutes wires the sign-in page and the login/logout endpoints.
func RegisterAuthRoutes(app *fiber.App, h *auth.Handler, optionalSession, rateLimiter fiber.Handler) {
	app.Get(loginPath, optionalSession, h.LoginPage)

	group := app.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Post("/logout", h.Logout)
}

package routes

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/carlot/dealer-admin/internal/auth"
	"github.com/carlot/dealer-admin/internal/inventory"
	"github.com/carlot/dealer-admin/internal/middleware"
	"github.com/carlot/dealer-admin/internal/session"
	"github.com/carlot/dealer-admin/internal/settings"
	"github.com/carlot/dealer-admin/internal/users"
	"github.com/carlot/dealer-admin/internal/views"
)

// AdminRoutes groups what the protected area needs.
type AdminRoutes struct {
	Guard       middleware.GuardConfig
	AppName     string
	Auth        *auth.Handler
	Settings    *settings.Handler
	Inventory   *inventory.Service
	Logger      *slog.Logger
	Idempotency fiber.Handler
}

// RegisterAdminRoutes wires the session-gated pages under /admin and the
// JSON endpoints under /api/admin.
func RegisterAdminRoutes(app *fiber.App, a AdminRoutes) {
	denyPage := func(c *fiber.Ctx) error { return views.Denied(c, a.AppName) }

	pages := app.Group(adminRoot, middleware.RouteGuard(a.Guard))
	// The guard answers /admin itself with the landing redirect.
	pages.Get("/", func(c *fiber.Ctx) error { return c.Redirect(landingPath, fiber.StatusFound) })
	pages.Get("/console", middleware.RoleGate(users.RoleAdmin, denyPage), consoleHandler(a))

	jsonGuard := a.Guard
	jsonGuard.JSON = true
	jsonGuard.AreaRoot = ""
	apiAdmin := app.Group("/api/admin", middleware.RouteGuard(jsonGuard))
	apiAdmin.Get("/me", a.Auth.Me)
	apiAdmin.Put("/settings", middleware.RoleGate(users.RoleAdmin, middleware.DenyJSON), a.Idempotency, a.Settings.Update)
}

func consoleHandler(a AdminRoutes) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, _ := session.PrincipalFrom(c.UserContext())
		page := views.ConsolePage{
			AppName:   a.AppName,
			UserName:  p.User.Name,
			UserEmail: p.User.Email,
			Role:      p.User.Role.String(),
		}
		stats, err := a.Inventory.Statistics(c.UserContext())
		if err != nil {
			a.Logger.Warn("console statistics unavailable",
				slog.String("request_id", middleware.RequestIDFrom(c)),
				slog.Any("error", err),
			)
		} else {
			page.StatsAvailable = true
			page.Total, page.Available, page.Reserved, page.Sold = stats.Total, stats.Available, stats.Reserved, stats.Sold
		}
		return views.Console(c, page)
	}
}

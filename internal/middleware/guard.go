package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/carlot/dealer-admin/internal/session"
	"github.com/carlot/dealer-admin/internal/users"
)

const (
	defaultLoginPath = "/login"
	userIDLocal      = "user_id"
)

// Verifier resolves a session credential to its user.
type Verifier interface {
	Verify(ctx context.Context, credential string) (users.User, error)
}

// GuardConfig configures RouteGuard.
type GuardConfig struct {
	Verifier   Verifier
	CookieName string
	Logger     *slog.Logger

	// LoginPath receives unauthenticated page requests.
	LoginPath string
	// AreaRoot and LandingPath enable the canonical landing redirect: an
	// authenticated request for exactly AreaRoot is sent to LandingPath.
	AreaRoot    string
	LandingPath string
	// JSON answers 401 with a JSON body instead of redirecting.
	JSON bool
}

// RouteGuard runs before protected views. A verified user is attached to the
// request context as a session.Principal; anything else ends the request
// with a redirect to the login page (or 401 for JSON routes). Store failures
// are logged and treated as unauthenticated.
func RouteGuard(cfg GuardConfig) fiber.Handler {
	if cfg.LoginPath == "" {
		cfg.LoginPath = defaultLoginPath
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return func(c *fiber.Ctx) error {
		credential := Credential(c, cfg.CookieName)
		user, err := cfg.Verifier.Verify(c.UserContext(), credential)
		if err != nil {
			if !errors.Is(err, session.ErrUnauthenticated) {
				cfg.Logger.Error("session verification failed",
					slog.String("path", c.Path()),
					slog.String("request_id", RequestIDFrom(c)),
					slog.Any("error", err),
				)
			}
			if credential != "" {
				c.ClearCookie(cfg.CookieName)
			}
			if cfg.JSON {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
			}
			return c.Redirect(cfg.LoginPath, fiber.StatusFound)
		}

		if cfg.AreaRoot != "" && cfg.LandingPath != "" && samePath(c.Path(), cfg.AreaRoot) {
			return c.Redirect(cfg.LandingPath, fiber.StatusFound)
		}

		c.SetUserContext(session.WithPrincipal(c.UserContext(), session.Principal{User: &user}))
		c.Locals(userIDLocal, user.ID)
		return c.Next()
	}
}

// OptionalSession attaches a Principal when the request carries a valid
// session and otherwise lets the request through anonymously. Failures are
// never surfaced.
func OptionalSession(verifier Verifier, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		credential := Credential(c, cookieName)
		if credential == "" {
			return c.Next()
		}
		if user, err := verifier.Verify(c.UserContext(), credential); err == nil {
			c.SetUserContext(session.WithPrincipal(c.UserContext(), session.Principal{User: &user}))
			c.Locals(userIDLocal, user.ID)
		}
		return c.Next()
	}
}

func samePath(path, root string) bool {
	trim := func(s string) string {
		if len(s) > 1 {
			return strings.TrimRight(s, "/")
		}
		return s
	}
	return trim(path) == trim(root)
}

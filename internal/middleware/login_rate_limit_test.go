package middleware

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/carlot/dealer-admin/internal/logging"
)

func loginAttempt(t *testing.T, app *fiber.App, email string) int {
	t.Helper()
	form := url.Values{"email": {email}, "password": {"whatever"}}
	req := httptest.NewRequest(fiber.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestLoginRateLimitPerEmail(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logging.Discard())})
	app.Post("/auth/login", LoginRateLimit(cache, 2, logging.Discard()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusUnauthorized)
	})

	for i := 0; i < 2; i++ {
		if got := loginAttempt(t, app, "Admin@Example.com"); got != fiber.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401 got %d", i, got)
		}
	}
	if got := loginAttempt(t, app, "admin@example.com"); got != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", got)
	}
	if got := loginAttempt(t, app, "other@example.com"); got != fiber.StatusUnauthorized {
		t.Fatalf("other email should not be limited, got %d", got)
	}

	mr.FastForward(loginRateWindow)
	if got := loginAttempt(t, app, "admin@example.com"); got != fiber.StatusUnauthorized {
		t.Fatalf("window should reset, got %d", got)
	}
}

func TestLoginRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { cache.Close() })
	mr.Close()

	app := fiber.New()
	app.Post("/auth/login", LoginRateLimit(cache, 1, logging.Discard()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 3; i++ {
		if got := loginAttempt(t, app, "admin@example.com"); got != fiber.StatusOK {
			t.Fatalf("attempt %d: expected pass-through, got %d", i, got)
		}
	}
}

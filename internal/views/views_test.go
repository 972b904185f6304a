package views

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func render200(t *testing.T, h fiber.Handler) (int, string, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body), resp.Header.Get(fiber.HeaderCacheControl)
}

func TestLoginEscapesInput(t *testing.T) {
	status, body, cache := render200(t, func(c *fiber.Ctx) error {
		return Login(c, fiber.StatusUnauthorized, LoginPage{AppName: "DealerAdmin", Email: `"><script>`, Error: "invalid email or password"})
	})
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", status)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("email was not escaped: %s", body)
	}
	if !strings.Contains(body, "invalid email or password") {
		t.Fatalf("missing error message")
	}
	if cache != "no-store" {
		t.Fatalf("expected no-store cache header, got %q", cache)
	}
}

func TestConsoleShowsStats(t *testing.T) {
	_, body, _ := render200(t, func(c *fiber.Ctx) error {
		return Console(c, ConsolePage{AppName: "DealerAdmin", UserName: "Ada", Role: "admin", StatsAvailable: true, Total: 7, Available: 5})
	})
	for _, want := range []string{`data-testid="admin-console"`, "Signed in as Ada", "Cars in stock: 7"} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in %s", want, body)
		}
	}
}

func TestDeniedCarriesNoConsole(t *testing.T) {
	status, body, _ := render200(t, func(c *fiber.Ctx) error { return Denied(c, "DealerAdmin") })
	if status != fiber.StatusForbidden {
		t.Fatalf("expected 403 got %d", status)
	}
	if strings.Contains(body, "admin-console") || !strings.Contains(body, "Access denied") {
		t.Fatalf("unexpected denied page: %s", body)
	}
}

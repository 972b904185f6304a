package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/carlot/dealer-admin/internal/logging"
	"github.com/carlot/dealer-admin/internal/session"
	"github.com/carlot/dealer-admin/internal/users"
)

const (
	testCookie     = "dealer_session"
	protectedBody  = "protected console"
	genericLanding = "generic landing"
)

type verifierFunc func(ctx context.Context, credential string) (users.User, error)

func (f verifierFunc) Verify(ctx context.Context, credential string) (users.User, error) {
	return f(ctx, credential)
}

type guardFixture struct {
	app   *fiber.App
	store session.Store
	codec *session.TokenCodec
	repo  users.Repository
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()
	codec, err := session.NewTokenCodec([]byte("guard-test-secret"), "dealer-admin")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	repo := users.NewMemoryRepository()
	store := session.NewMemoryStore()
	svc := session.NewService(store, repo, codec, session.Options{})

	f := &guardFixture{store: store, codec: codec, repo: repo}
	f.app = newGuardApp(svc)
	return f
}

func newGuardApp(verifier Verifier) *fiber.App {
	logger := logging.Discard()
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	admin := app.Group("/admin", RouteGuard(GuardConfig{
		Verifier:    verifier,
		CookieName:  testCookie,
		Logger:      logger,
		AreaRoot:    "/admin",
		LandingPath: "/admin/console",
	}))
	admin.Get("/", func(c *fiber.Ctx) error { return c.SendString(genericLanding) })
	admin.Get("/console", RoleGate(users.RoleAdmin, func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusForbidden).SendString("Access denied")
	}), func(c *fiber.Ctx) error {
		p, ok := session.PrincipalFrom(c.UserContext())
		if !ok || !p.Authenticated() {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(protectedBody + " for " + p.User.ID)
	})
	admin.Get("/reports", func(c *fiber.Ctx) error { return c.SendString(protectedBody) })

	api := app.Group("/api/admin", RouteGuard(GuardConfig{Verifier: verifier, CookieName: testCookie, Logger: logger, JSON: true}))
	api.Get("/me", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	return app
}

func (f *guardFixture) sessionFor(t *testing.T, sid string, user users.User, ttl time.Duration) string {
	t.Helper()
	ctx := context.Background()
	if _, err := f.repo.FindByID(ctx, user.ID); errors.Is(err, users.ErrUserNotFound) {
		if err := f.repo.Create(ctx, user); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	now := time.Now()
	rec := session.Record{ID: sid, UserID: user.ID, Role: user.Role, IssuedAt: now, ExpiresAt: now.Add(ttl)}
	if err := f.store.Save(ctx, rec); err != nil {
		t.Fatalf("save session: %v", err)
	}
	token, err := f.codec.Sign(session.Record{ID: sid, UserID: user.ID, IssuedAt: now, ExpiresAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func get(t *testing.T, app *fiber.App, path, token string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: token})
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test %s: %v", path, err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	return resp, string(body)
}

func expectRedirect(t *testing.T, resp *http.Response, body, location string) {
	t.Helper()
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("expected %d got %d", fiber.StatusFound, resp.StatusCode)
	}
	if got := resp.Header.Get(fiber.HeaderLocation); got != location {
		t.Fatalf("expected redirect to %s got %s", location, got)
	}
	if strings.Contains(body, protectedBody) || strings.Contains(body, genericLanding) {
		t.Fatalf("redirect leaked page content: %q", body)
	}
}

func TestGuardRootRedirectsToConsoleWithSession(t *testing.T) {
	f := newGuardFixture(t)
	token := f.sessionFor(t, "T1", users.User{ID: "u1", Email: "u1@dealer.test", Role: users.RoleAdmin}, time.Hour)

	resp, body := get(t, f.app, "/admin", token)
	expectRedirect(t, resp, body, "/admin/console")

	resp, body = get(t, f.app, "/admin/", token)
	expectRedirect(t, resp, body, "/admin/console")
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	f := newGuardFixture(t)

	for _, path := range []string{"/admin", "/admin/console", "/admin/reports"} {
		resp, body := get(t, f.app, path, "")
		expectRedirect(t, resp, body, "/login")
	}
}

func TestGuardRejectsMalformedAndExpiredCredentials(t *testing.T) {
	f := newGuardFixture(t)
	expired := f.sessionFor(t, "old", users.User{ID: "u1", Email: "u1@dealer.test", Role: users.RoleAdmin}, -time.Minute)

	for _, token := range []string{"not-a-token", expired} {
		resp, body := get(t, f.app, "/admin/console", token)
		expectRedirect(t, resp, body, "/login")
		if !strings.Contains(resp.Header.Get(fiber.HeaderSetCookie), testCookie+"=") {
			t.Fatalf("expected stale cookie to be cleared")
		}
	}
}

func TestGuardAcceptsBearerCredential(t *testing.T) {
	f := newGuardFixture(t)
	token := f.sessionFor(t, "T2", users.User{ID: "u1", Email: "u1@dealer.test", Role: users.RoleAdmin}, time.Hour)

	req := httptest.NewRequest(fiber.MethodGet, "/admin/console", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
}

func TestRoleGateAllowsMatchingRole(t *testing.T) {
	f := newGuardFixture(t)
	token := f.sessionFor(t, "T1", users.User{ID: "u1", Email: "u1@dealer.test", Role: users.RoleAdmin}, time.Hour)

	resp, body := get(t, f.app, "/admin/console", token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 got %d", resp.StatusCode)
	}
	if !strings.Contains(body, protectedBody+" for u1") {
		t.Fatalf("expected protected content, got %q", body)
	}
}

func TestRoleGateDeniesOtherRolesInPage(t *testing.T) {
	f := newGuardFixture(t)
	token := f.sessionFor(t, "S1", users.User{ID: "u2", Email: "u2@dealer.test", Role: users.RoleSales}, time.Hour)

	for i := 0; i < 3; i++ {
		resp, body := get(t, f.app, "/admin/console", token)
		if resp.StatusCode != fiber.StatusForbidden {
			t.Fatalf("attempt %d: expected 403 got %d", i, resp.StatusCode)
		}
		if resp.Header.Get(fiber.HeaderLocation) != "" {
			t.Fatalf("attempt %d: denial must not redirect", i)
		}
		if strings.Contains(body, protectedBody) {
			t.Fatalf("attempt %d: protected content leaked: %q", i, body)
		}
	}

	// Ungated pages remain reachable for any signed-in role.
	resp, _ := get(t, f.app, "/admin/reports", token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for ungated page got %d", resp.StatusCode)
	}
}

func TestGuardFailsClosedOnStoreError(t *testing.T) {
	calls := 0
	app := newGuardApp(verifierFunc(func(context.Context, string) (users.User, error) {
		calls++
		return users.User{}, errors.Join(session.ErrStoreUnavailable, errors.New("dial tcp: connection refused"))
	}))

	resp, body := get(t, app, "/admin/console", "anything")
	expectRedirect(t, resp, body, "/login")
	if calls != 1 {
		t.Fatalf("expected exactly one verification attempt, got %d", calls)
	}

	resp, body = get(t, app, "/api/admin/me", "anything")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.StatusCode)
	}
	if strings.TrimSpace(body) != `{"error":"unauthorized"}` {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestOptionalSessionAttachesPrincipal(t *testing.T) {
	f := newGuardFixture(t)
	token := f.sessionFor(t, "T1", users.User{ID: "u1", Email: "u1@dealer.test", Role: users.RoleAdmin}, time.Hour)
	svc := session.NewService(f.store, f.repo, f.codec, session.Options{})

	app := fiber.New()
	app.Get("/login", OptionalSession(svc, testCookie), func(c *fiber.Ctx) error {
		if p, ok := session.PrincipalFrom(c.UserContext()); ok && p.Authenticated() {
			return c.SendString("signed in as " + p.User.ID)
		}
		return c.SendString("anonymous")
	})

	if _, body := get(t, app, "/login", token); body != "signed in as u1" {
		t.Fatalf("expected principal, got %q", body)
	}
	if _, body := get(t, app, "/login", "bogus"); body != "anonymous" {
		t.Fatalf("expected anonymous, got %q", body)
	}
}

package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlot/dealer-admin/internal/config"
	"github.com/carlot/dealer-admin/internal/inventory"
	"github.com/carlot/dealer-admin/internal/logging"
	"github.com/carlot/dealer-admin/internal/middleware"
	"github.com/carlot/dealer-admin/internal/users"
)

const testPassword = "s3cret-passw0rd"

type brokenInventory struct{ inventory.Repository }

func (brokenInventory) List(context.Context, inventory.ListQuery) (inventory.Page, error) {
	return inventory.Page{}, errors.New("connection reset by peer")
}

func (brokenInventory) Statistics(context.Context) (inventory.Statistics, error) {
	return inventory.Statistics{}, errors.New("connection reset by peer")
}

func testConfig() config.Config {
	return config.Config{
		AppName:        "DealerAdmin",
		Env:            "test",
		SessionSecret:  "routes-test-secret-routes-test-secret",
		SessionCookie:  "dealer_session",
		SessionTTL:     time.Hour,
		StoreTimeout:   time.Second,
		LoginRateLimit: 5,
		IdempotencyTTL: time.Minute,
	}
}

func newTestApp(t *testing.T, inv inventory.Repository) *fiber.App {
	t.Helper()
	repo := users.NewMemoryRepository()
	svc := users.NewService(repo)
	for _, reg := range []users.Registration{
		{Email: "admin@dealer.test", Name: "Ada", Password: testPassword, Role: users.RoleAdmin},
		{Email: "sales@dealer.test", Name: "Sam", Password: testPassword, Role: users.RoleSales},
	} {
		_, err := svc.Register(context.Background(), reg)
		require.NoError(t, err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logging.Discard())})
	require.NoError(t, Setup(app, Deps{Cfg: testConfig(), Logger: logging.Discard(), Users: repo, Inventory: inv}))
	return app
}

func request(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func login(t *testing.T, app *fiber.App, email string) *http.Cookie {
	t.Helper()
	form := url.Values{"email": {email}, "password": {testPassword}}
	req := httptest.NewRequest(fiber.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, _ := request(t, app, req)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == "dealer_session" {
			return c
		}
	}
	t.Fatalf("login for %s set no session cookie", email)
	return nil
}

func getWith(t *testing.T, app *fiber.App, path string, cookie *http.Cookie) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return request(t, app, req)
}

func TestAdminRootRedirects(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := getWith(t, app, "/admin", nil)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	assert.NotContains(t, body, "admin-console")

	cookie := login(t, app, "admin@dealer.test")
	resp, _ = getWith(t, app, "/admin", cookie)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/console", resp.Header.Get(fiber.HeaderLocation))
}

func TestConsoleForAdminAndDeniedForSales(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := getWith(t, app, "/admin/console", login(t, app, "admin@dealer.test"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `data-testid="admin-console"`)
	assert.Contains(t, body, "Cars in stock: 4")

	sales := login(t, app, "sales@dealer.test")
	for i := 0; i < 2; i++ {
		resp, body = getWith(t, app, "/admin/console", sales)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
		assert.Contains(t, body, "Access denied")
		assert.NotContains(t, body, "admin-console")
	}
}

func TestConsoleSurvivesStatisticsFailure(t *testing.T) {
	app := newTestApp(t, brokenInventory{inventory.NewMemoryRepository()})

	resp, body := getWith(t, app, "/admin/console", login(t, app, "admin@dealer.test"))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "statistics are unavailable")
}

func TestDataEndpointFailureContract(t *testing.T) {
	app := newTestApp(t, brokenInventory{inventory.NewMemoryRepository()})

	resp, body := getWith(t, app, "/api/inventory", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to fetch inventory"}`, body)

	resp, body = getWith(t, app, "/api/statistics", nil)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Failed to fetch statistics"}`, body)

	resp, body = getWith(t, app, "/api/settings", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"name":"DealerAdmin"`)
}

func TestAdminAPI(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := getWith(t, app, "/api/admin/me", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.JSONEq(t, `{"error":"unauthorized"}`, body)

	admin := login(t, app, "admin@dealer.test")
	resp, body = getWith(t, app, "/api/admin/me", admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"role":"admin"`)

	update := func(cookie *http.Cookie) (*http.Response, string) {
		req := httptest.NewRequest(fiber.MethodPut, "/api/admin/settings", strings.NewReader(`{"name":"Carlot Motors","currency":"eur"}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.AddCookie(cookie)
		return request(t, app, req)
	}

	resp, body = update(login(t, app, "sales@dealer.test"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.JSONEq(t, `{"error":"forbidden"}`, body)

	resp, body = update(admin)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"currency":"EUR"`)

	_, body = getWith(t, app, "/api/settings", nil)
	assert.Contains(t, body, `"name":"Carlot Motors"`)
}

func TestLogoutEndsAdminAccess(t *testing.T) {
	app := newTestApp(t, nil)
	cookie := login(t, app, "admin@dealer.test")

	req := httptest.NewRequest(fiber.MethodPost, "/auth/logout", nil)
	req.AddCookie(cookie)
	resp, _ := request(t, app, req)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp, _ = getWith(t, app, "/admin/console", cookie)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
}

func TestHealthInMemoryMode(t *testing.T) {
	app := newTestApp(t, nil)

	resp, body := getWith(t, app, "/healthz", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"postgres":"memory"`)
}

func TestSetupRequiresBackendsOutsideDev(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	err := Setup(fiber.New(), Deps{Cfg: cfg, Logger: logging.Discard()})
	require.Error(t, err)
}

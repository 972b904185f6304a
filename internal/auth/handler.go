package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/carlot/dealer-admin/internal/middleware"
	"github.com/carlot/dealer-admin/internal/session"
	"github.com/carlot/dealer-admin/internal/users"
	"github.com/carlot/dealer-admin/internal/views"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// HandlerConfig wires Handler.
type HandlerConfig struct {
	Service     *Service
	Cookie      CookieConfig
	AppName     string
	LoginPath   string
	LandingPath string
	Logger      *slog.Logger
}

// Handler exposes the sign-in surface.
type Handler struct {
	cfg HandlerConfig
}

// NewHandler constructs an auth handler.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.LandingPath == "" {
		cfg.LandingPath = "/admin/console"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Handler{cfg: cfg}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginResponse struct {
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginPage renders the sign-in form, or sends an already signed-in user to
// the landing page.
func (h *Handler) LoginPage(c *fiber.Ctx) error {
	if p, ok := session.PrincipalFrom(c.UserContext()); ok && p.Authenticated() {
		return c.Redirect(h.cfg.LandingPath, http.StatusFound)
	}
	return views.Login(c, http.StatusOK, views.LoginPage{AppName: h.cfg.AppName, Title: "Sign in"})
}

// Login validates credentials and sets the session cookie. Form posts are
// redirected; JSON clients get the session summary.
func (h *Handler) Login(c *fiber.Ctx) error {
	wantsJSON := c.Is("json")

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid login payload")
	}
	req.Email = strings.TrimSpace(req.Email)

	user, issued, err := h.cfg.Service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		status, msg := http.StatusUnauthorized, "invalid email or password"
		if !errors.Is(err, users.ErrInvalidCredentials) {
			h.cfg.Logger.Error("login failed",
				slog.String("request_id", middleware.RequestIDFrom(c)),
				slog.Any("error", err),
			)
			status, msg = http.StatusServiceUnavailable, "sign-in is temporarily unavailable"
		}
		if wantsJSON {
			return c.Status(status).JSON(fiber.Map{"error": msg})
		}
		return views.Login(c, status, views.LoginPage{AppName: h.cfg.AppName, Title: "Sign in", Email: req.Email, Error: msg})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    issued.Token,
		Path:     "/",
		Expires:  issued.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	if wantsJSON {
		return c.JSON(loginResponse{UserID: user.ID, Role: user.Role.String(), ExpiresAt: issued.ExpiresAt})
	}
	return c.Redirect(h.cfg.LandingPath, http.StatusSeeOther)
}

// Logout revokes the current session and clears the cookie.
func (h *Handler) Logout(c *fiber.Ctx) error {
	credential := middleware.Credential(c, h.cfg.Cookie.Name)
	if err := h.cfg.Service.Logout(c.UserContext(), credential); err != nil {
		h.cfg.Logger.Warn("logout could not revoke session",
			slog.String("request_id", middleware.RequestIDFrom(c)),
			slog.Any("error", err),
		)
	}
	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.Cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cfg.Cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(h.cfg.LoginPath, http.StatusSeeOther)
}

type meResponse struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone,omitempty"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// Me returns the signed-in user.
func (h *Handler) Me(c *fiber.Ctx) error {
	p, ok := session.PrincipalFrom(c.UserContext())
	if !ok || !p.Authenticated() {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	u := p.User
	return c.JSON(meResponse{ID: u.ID, Email: u.Email, Name: u.Name, Phone: u.Phone, Role: u.Role.String(), LastLogin: u.LastLogin})
}

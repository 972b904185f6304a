package settings

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/carlot/dealer-admin/internal/session"
)

// Handler exposes the settings endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a settings handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Get serves GET /api/settings.
func (h *Handler) Get(c *fiber.Ctx) error {
	s, err := h.service.Get(c.UserContext())
	if errors.Is(err, ErrNotConfigured) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Settings not configured"})
	}
	if err != nil {
		h.logger.Error("settings query failed", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch settings"})
	}
	return c.JSON(s)
}

// Update serves PUT /api/admin/settings. It expects the full document.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req Settings
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid settings payload")
	}

	actor := ""
	if p, ok := session.PrincipalFrom(c.UserContext()); ok && p.Authenticated() {
		actor = p.User.Email
	}

	saved, err := h.service.Update(c.UserContext(), req, actor)
	if errors.Is(err, ErrInvalid) {
		return fiber.NewError(http.StatusBadRequest, strings.TrimPrefix(err.Error(), ErrInvalid.Error()+": "))
	}
	if err != nil {
		h.logger.Error("settings update failed", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update settings"})
	}
	return c.JSON(saved)
}

package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/carlot/dealer-admin/internal/inventory"
	"github.com/carlot/dealer-admin/internal/settings"
)

// RegisterInventoryRoutes wires the public inventory read endpoints.
func RegisterInventoryRoutes(r fiber.Router, h *inventory.Handler) {
	r.Get("/inventory", h.List)
	r.Get("/inventory/:id", h.Get)
	r.Get("/features", h.Features)
	r.Get("/filters", h.Filters)
	r.Get("/statistics", h.Statistics)
}

// RegisterSettingsRoutes wires the public settings endpoint.
func RegisterSettingsRoutes(r fiber.Router, h *settings.Handler) {
	r.Get("/settings", h.Get)
}

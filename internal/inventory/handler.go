package inventory

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the public inventory read endpoints. Any store failure is
// answered with 500 {"error":"Failed to fetch <resource>"} and no partial data.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an inventory handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// List serves GET /api/inventory.
func (h *Handler) List(c *fiber.Ctx) error {
	q, err := parseListQuery(c)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	page, err := h.service.List(c.UserContext(), q)
	if err != nil {
		return h.fetchFailed(c, "inventory", err)
	}
	return c.JSON(page)
}

// Get serves GET /api/inventory/:id.
func (h *Handler) Get(c *fiber.Ctx) error {
	car, err := h.service.Get(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrCarNotFound) {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Car not found"})
	}
	if err != nil {
		return h.fetchFailed(c, "car", err)
	}
	return c.JSON(car)
}

// Features serves GET /api/features.
func (h *Handler) Features(c *fiber.Ctx) error {
	features, err := h.service.Features(c.UserContext())
	if err != nil {
		return h.fetchFailed(c, "features", err)
	}
	return c.JSON(features)
}

// Filters serves GET /api/filters.
func (h *Handler) Filters(c *fiber.Ctx) error {
	filters, err := h.service.Filters(c.UserContext())
	if err != nil {
		return h.fetchFailed(c, "filters", err)
	}
	return c.JSON(filters)
}

// Statistics serves GET /api/statistics.
func (h *Handler) Statistics(c *fiber.Ctx) error {
	stats, err := h.service.Statistics(c.UserContext())
	if err != nil {
		return h.fetchFailed(c, "statistics", err)
	}
	return c.JSON(stats)
}

func (h *Handler) fetchFailed(c *fiber.Ctx, resource string, err error) error {
	if h.logger != nil {
		h.logger.Error("inventory query failed", slog.String("resource", resource), slog.String("path", c.Path()), slog.Any("error", err))
	}
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch " + resource})
}

func parseListQuery(c *fiber.Ctx) (ListQuery, error) {
	q := ListQuery{
		Make:      c.Query("make"),
		Model:     c.Query("model"),
		BodyType:  c.Query("body_type"),
		FuelType:  c.Query("fuel_type"),
		Condition: Condition(strings.ToLower(c.Query("condition"))),
		Status:    Status(strings.ToLower(c.Query("status"))),
		Search:    c.Query("q"),
	}

	switch q.Condition {
	case "", ConditionNew, ConditionUsed, ConditionCertified:
	default:
		return ListQuery{}, errors.New("invalid condition")
	}
	switch q.Status {
	case "", StatusAvailable, StatusReserved, StatusSold:
	default:
		return ListQuery{}, errors.New("invalid status")
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"min_year", &q.MinYear}, {"max_year", &q.MaxYear}, {"limit", &q.Limit}, {"offset", &q.Offset},
	}
	for _, p := range ints {
		if raw := c.Query(p.key); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return ListQuery{}, errors.New("invalid " + p.key)
			}
			*p.dst = n
		}
	}

	prices := []struct {
		key string
		dst *int64
	}{
		{"min_price", &q.MinPrice}, {"max_price", &q.MaxPrice},
	}
	for _, p := range prices {
		if raw := c.Query(p.key); raw != "" {
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || n < 0 {
				return ListQuery{}, errors.New("invalid " + p.key)
			}
			*p.dst = n
		}
	}
	return q, nil
}

package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/acqua-delivery/backend/internal/middleware"
	"github.com/acqua-delivery/backend/internal/model"
)

// StatsServiceInterface defines the interface for customer listing and
// dashboard counters.
type StatsServiceInterface interface {
	Customers(ctx context.Context) ([]model.CustomerInfo, error)
	AdminStats(ctx context.Context) (*model.AdminStats, error)
	CustomerStats(ctx context.Context, email string) (*model.CustomerStats, error)
}

// StatsHandler handles HTTP requests for the customers listing and stats.
type StatsHandler struct {
	service StatsServiceInterface
}

// NewStatsHandler creates a new StatsHandler with the given service.
func NewStatsHandler(svc StatsServiceInterface) *StatsHandler {
	return &StatsHandler{service: svc}
}

// Customers handles GET /api/customers requests (admin only).
func (h *StatsHandler) Customers(c *fiber.Ctx) error {
	customers, err := h.service.Customers(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list customers")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(customers)
}

// Stats handles GET /api/stats requests. Admins get store-wide counters,
// customers get their own.
func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	if principal.IsAdmin() {
		stats, err := h.service.AdminStats(c.Context())
		if err != nil {
			log.Error().Err(err).Msg("failed to compute admin stats")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
		return c.JSON(stats)
	}

	stats, err := h.service.CustomerStats(c.Context(), principal.Email)
	if err != nil {
		log.Error().Err(err).Str("customer_email", principal.Email).Msg("failed to compute customer stats")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(stats)
}

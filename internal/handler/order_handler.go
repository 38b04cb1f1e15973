package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/acqua-delivery/backend/internal/middleware"
	"github.com/acqua-delivery/backend/internal/model"
	"github.com/acqua-delivery/backend/internal/service"
)

// OrderServiceInterface defines the interface for order business logic.
type OrderServiceInterface interface {
	Create(ctx context.Context, customer *model.User, req *model.CreateOrderRequest) (*model.Order, error)
	List(ctx context.Context, principal *model.User) ([]model.Order, error)
	Get(ctx context.Context, principal *model.User, id string) (*model.Order, error)
	SetStatus(ctx context.Context, id string, status model.OrderStatus) (*model.Order, error)
	Delete(ctx context.Context, id string) error
}

// OrderHandler handles HTTP requests for order operations.
type OrderHandler struct {
	service   OrderServiceInterface
	validator *validator.Validate
}

// NewOrderHandler creates a new OrderHandler with the given service and validator.
func NewOrderHandler(svc OrderServiceInterface, v *validator.Validate) *OrderHandler {
	return &OrderHandler{service: svc, validator: v}
}

// Create handles POST /api/orders requests to place a new order.
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req model.CreateOrderRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	principal := middleware.Principal(c)
	order, err := h.service.Create(c.Context(), principal, &req)
	if err != nil {
		log.Error().Err(err).Str("customer_email", principal.Email).Msg("failed to create order")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().
		Str("order_id", order.ID).
		Str("customer_email", order.CustomerEmail).
		Int("quantity", order.Quantity).
		Int("discount_percentage", order.DiscountPercentage).
		Msg("order created")

	return c.Status(fiber.StatusCreated).JSON(order)
}

// List handles GET /api/orders requests. Customers see their own orders;
// admins see all, newest first.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := h.service.List(c.Context(), middleware.Principal(c))
	if err != nil {
		log.Error().Err(err).Msg("failed to list orders")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(orders)
}

// Get handles GET /api/orders/:id requests.
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")

	order, err := h.service.Get(c.Context(), middleware.Principal(c), id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		if errors.Is(err, service.ErrForbidden) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not allowed to view this order"})
		}
		log.Error().Err(err).Str("order_id", id).Msg("failed to get order")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(order)
}

// UpdateStatus handles PUT /api/orders/:id/status requests (admin only).
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	var req model.UpdateOrderStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	order, err := h.service.SetStatus(c.Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		if errors.Is(err, service.ErrTransitionNotAllowed) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "status transition not allowed"})
		}
		log.Error().Err(err).Str("order_id", id).Str("status", req.Status).Msg("failed to update order status")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().Str("order_id", id).Str("status", req.Status).Msg("order status updated")
	return c.JSON(order)
}

// Delete handles DELETE /api/orders/:id requests (admin only).
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		log.Error().Err(err).Str("order_id", id).Msg("failed to delete order")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"message": "order deleted"})
}

package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/acqua-delivery/backend/internal/middleware"
	"github.com/acqua-delivery/backend/internal/model"
	"github.com/acqua-delivery/backend/internal/service"
)

// CouponServiceInterface defines the interface for coupon business logic.
type CouponServiceInterface interface {
	Create(ctx context.Context, req *model.CreateCouponRequest) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
	Delete(ctx context.Context, code string) error
	Validate(ctx context.Context, code, requesterEmail string) (*model.CouponValidationResponse, error)
	ListMine(ctx context.Context, email string) ([]model.Coupon, error)
}

// CouponHandler handles HTTP requests for coupon operations.
type CouponHandler struct {
	service   CouponServiceInterface
	validator *validator.Validate
}

// NewCouponHandler creates a new CouponHandler with the given service and validator.
func NewCouponHandler(svc CouponServiceInterface, v *validator.Validate) *CouponHandler {
	return &CouponHandler{service: svc, validator: v}
}

// Create handles POST /api/coupons requests (admin only).
func (h *CouponHandler) Create(c *fiber.Ctx) error {
	var req model.CreateCouponRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	coupon, err := h.service.Create(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrCouponExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "coupon code already exists"})
		}
		log.Error().Err(err).Str("coupon_code", req.Code).Msg("failed to create coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().Str("coupon_code", coupon.Code).Msg("coupon created")
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// List handles GET /api/coupons requests (admin only).
func (h *CouponHandler) List(c *fiber.Ctx) error {
	coupons, err := h.service.List(c.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list coupons")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(coupons)
}

// Delete handles DELETE /api/coupons/:code requests (admin only).
func (h *CouponHandler) Delete(c *fiber.Ctx) error {
	code := c.Params("code")

	if err := h.service.Delete(c.Context(), code); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "coupon not found"})
		}
		log.Error().Err(err).Str("coupon_code", code).Msg("failed to delete coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(fiber.Map{"message": "coupon deleted"})
}

// Validate handles POST /api/coupons/validate requests. A well-formed
// request always gets 200 with a verdict and a message; an unusable or
// unknown code is a negative verdict, not an error.
func (h *CouponHandler) Validate(c *fiber.Ctx) error {
	var req model.ValidateCouponRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Code) == "" {
		return c.JSON(model.CouponValidationResponse{
			Valid:   false,
			Message: service.ReasonNotFound.Message(),
		})
	}

	principal := middleware.Principal(c)
	resp, err := h.service.Validate(c.Context(), req.Code, principal.Email)
	if err != nil {
		log.Error().Err(err).Str("coupon_code", req.Code).Msg("failed to validate coupon")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(resp)
}

// Mine handles GET /api/coupons/mine requests, listing the principal's
// personal coupons that can still be redeemed.
func (h *CouponHandler) Mine(c *fiber.Ctx) error {
	principal := middleware.Principal(c)

	coupons, err := h.service.ListMine(c.Context(), principal.Email)
	if err != nil {
		log.Error().Err(err).Str("customer_email", principal.Email).Msg("failed to list personal coupons")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.JSON(coupons)
}

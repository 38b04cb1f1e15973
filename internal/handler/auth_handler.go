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

// AuthServiceInterface defines the interface for account business logic.
type AuthServiceInterface interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)
}

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	service   AuthServiceInterface
	validator *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given service and validator.
func NewAuthHandler(svc AuthServiceInterface, v *validator.Validate) *AuthHandler {
	return &AuthHandler{service: svc, validator: v}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req model.RegisterRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.Register(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already registered"})
		}
		log.Error().Err(err).Msg("failed to register account")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	log.Info().Str("email", resp.User.Email).Msg("account registered")
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req model.LoginRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err)})
	}

	resp, err := h.service.Login(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "incorrect email or password"})
		}
		log.Error().Err(err).Msg("failed to log in")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.JSON(resp)
}

// Me handles GET /api/auth/me requests, returning the request principal.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.Principal(c))
}

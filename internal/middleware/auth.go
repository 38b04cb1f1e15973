// Package middleware provides the bearer-token authentication and admin
// gating middleware for the HTTP layer.
package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/acqua-delivery/backend/internal/model"
)

const principalKey = "principal"

// TokenVerifier verifies a bearer token and returns its subject email.
type TokenVerifier interface {
	Subject(token string) (string, error)
}

// UserSource resolves a token subject to a stored account.
type UserSource interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// Authenticate returns a middleware that requires a valid bearer token and
// stores the resolved account as the request principal. Requests with a
// missing, malformed, or unknown token get 401.
func Authenticate(tokens TokenVerifier, users UserSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c)
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			return unauthorized(c)
		}

		email, err := tokens.Subject(token)
		if err != nil {
			return unauthorized(c)
		}

		user, err := users.GetByEmail(c.Context(), email)
		if err != nil {
			log.Error().Err(err).Msg("failed to resolve principal")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
		}
		if user == nil {
			return unauthorized(c)
		}

		c.Locals(principalKey, user)
		return c.Next()
	}
}

// RequireAdmin returns a middleware that rejects non-admin principals with
// 403. Must run after Authenticate.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := Principal(c)
		if user == nil || !user.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "admin privileges required",
			})
		}
		return c.Next()
	}
}

// Principal returns the authenticated account for the request, or nil when
// Authenticate has not run.
func Principal(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(principalKey).(*model.User)
	return user
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "missing or invalid credentials",
	})
}

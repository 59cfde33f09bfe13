package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"yamdb/internal/models"
	"yamdb/internal/services"
)

const userKey = "user"

// AuthRequired is a Fiber middleware that resolves a bearer JWT to the
// user it was issued for and stores it in the request context.
func AuthRequired(authService *services.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authentication credentials were not provided.",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header format must be 'Bearer <token>'.",
			})
		}

		user, err := authService.Authenticate(c.UserContext(), parts[1])
		if errors.Is(err, services.ErrInvalidToken) {
			logger.Debug("JWT validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Given token not valid for any user.",
			})
		}
		if err != nil {
			logger.Error("failed to authenticate request", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"detail": "Internal server error.",
			})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequireRole rejects users below role. It must run after AuthRequired.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authentication credentials were not provided.",
			})
		}
		if !user.Role.AtLeast(role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": "You do not have permission to perform this action.",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

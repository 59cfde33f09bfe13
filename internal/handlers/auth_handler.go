package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"yamdb/internal/services"
)

// AuthHandler handles HTTP requests for signup and token exchange.
type AuthHandler struct {
	authService *services.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/token", h.HandleToken)
}

// HandleSignup registers a (username, email) pair and sends a
// confirmation code to the email.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req services.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	user, err := h.authService.Signup(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{
		"username": user.Username,
		"email":    user.Email,
	})
}

// HandleToken exchanges a confirmation code for a JWT.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req services.TokenRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}

	token, err := h.authService.ExchangeToken(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}

	return c.JSON(fiber.Map{"token": token})
}

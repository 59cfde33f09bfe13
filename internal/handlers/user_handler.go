package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/services"
)

// UserHandler handles HTTP requests for user accounts.
type UserHandler struct {
	userService *services.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers the user routes. Every route needs auth; all but
// /users/me also need an administrator.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	users := router.Group("/users", auth)
	users.Get("/me", h.HandleGetMe)
	users.Patch("/me", h.HandleUpdateMe)

	admin := middleware.RequireRole(models.RoleAdmin)
	users.Get("/", admin, h.HandleListUsers)
	users.Post("/", admin, h.HandleCreateUser)
	users.Get("/:username", admin, h.HandleGetUser)
	users.Patch("/:username", admin, h.HandleUpdateUser)
	users.Delete("/:username", admin, h.HandleDeleteUser)
}

// HandleGetMe returns the current user's profile.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// HandleUpdateMe edits the caller's own profile; role stays unchanged.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var patch services.UserPatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, h.logger, err)
	}
	user, err := h.userService.UpdateUser(c.UserContext(), middleware.CurrentUser(c).Username, patch, false)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

// HandleListUsers returns all users.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(users)
}

// HandleCreateUser creates a user.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req services.UserRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	user, err := h.userService.CreateUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetUser returns a user by username.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUser(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

// HandleUpdateUser partially updates a user, role included.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var patch services.UserPatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, h.logger, err)
	}
	user, err := h.userService.UpdateUser(c.UserContext(), c.Params("username"), patch, true)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes a user with everything they wrote.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.UserContext(), c.Params("username")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/services"
)

// CatalogHandler handles HTTP requests for categories and genres.
type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the category and genre routes. Reads are
// public; writes go through auth and require an administrator.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	admin := middleware.RequireRole(models.RoleAdmin)

	categories := router.Group("/categories")
	categories.Get("/", h.HandleListCategories)
	categories.Post("/", auth, admin, h.HandleCreateCategory)
	categories.Delete("/:slug", auth, admin, h.HandleDeleteCategory)

	genres := router.Group("/genres")
	genres.Get("/", h.HandleListGenres)
	genres.Post("/", auth, admin, h.HandleCreateGenre)
	genres.Delete("/:slug", auth, admin, h.HandleDeleteGenre)
}

// HandleListCategories returns all categories.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(categories)
}

// HandleCreateCategory creates a category.
func (h *CatalogHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var req services.TaxonomyRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	category, err := h.catalogService.CreateCategory(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleDeleteCategory deletes a category by slug.
func (h *CatalogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteCategory(c.UserContext(), c.Params("slug")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListGenres returns all genres.
func (h *CatalogHandler) HandleListGenres(c *fiber.Ctx) error {
	genres, err := h.catalogService.ListGenres(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(genres)
}

// HandleCreateGenre creates a genre.
func (h *CatalogHandler) HandleCreateGenre(c *fiber.Ctx) error {
	var req services.TaxonomyRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	genre, err := h.catalogService.CreateGenre(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(genre)
}

// HandleDeleteGenre deletes a genre by slug.
func (h *CatalogHandler) HandleDeleteGenre(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteGenre(c.UserContext(), c.Params("slug")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/services"
)

// titleResponse is the wire shape of a title: genres and category are
// nested objects, rating is null until the title has a review.
type titleResponse struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Year        int              `json:"year"`
	Rating      *float64         `json:"rating"`
	Description string           `json:"description"`
	Genre       []models.Genre   `json:"genre"`
	Category    *models.Category `json:"category"`
}

func newTitleResponse(t *models.Title) titleResponse {
	return titleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       t.Genres(),
		Category:    t.Category,
	}
}

// TitleHandler handles HTTP requests for titles.
type TitleHandler struct {
	titleService *services.TitleService
	logger       *zap.Logger
}

// NewTitleHandler creates a new TitleHandler.
func NewTitleHandler(titleService *services.TitleService, logger *zap.Logger) *TitleHandler {
	return &TitleHandler{
		titleService: titleService,
		logger:       logger,
	}
}

// RegisterRoutes registers the title routes.
func (h *TitleHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	admin := middleware.RequireRole(models.RoleAdmin)

	titles := router.Group("/titles")
	titles.Get("/", h.HandleListTitles)
	titles.Post("/", auth, admin, h.HandleCreateTitle)
	titles.Get("/:id", h.HandleGetTitle)
	titles.Patch("/:id", auth, admin, h.HandleUpdateTitle)
	titles.Delete("/:id", auth, admin, h.HandleDeleteTitle)
}

// HandleListTitles returns all titles with their ratings.
func (h *TitleHandler) HandleListTitles(c *fiber.Ctx) error {
	titles, err := h.titleService.ListTitles(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, err)
	}
	out := make([]titleResponse, 0, len(titles))
	for i := range titles {
		out = append(out, newTitleResponse(&titles[i]))
	}
	return c.JSON(out)
}

// HandleGetTitle returns one title.
func (h *TitleHandler) HandleGetTitle(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Title")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	title, err := h.titleService.GetTitle(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newTitleResponse(title))
}

// HandleCreateTitle creates a title.
func (h *TitleHandler) HandleCreateTitle(c *fiber.Ctx) error {
	var req services.TitleRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	title, err := h.titleService.CreateTitle(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newTitleResponse(title))
}

// HandleUpdateTitle partially updates a title.
func (h *TitleHandler) HandleUpdateTitle(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Title")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var patch services.TitlePatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, h.logger, err)
	}
	title, err := h.titleService.UpdateTitle(c.UserContext(), id, patch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newTitleResponse(title))
}

// HandleDeleteTitle deletes a title with its reviews.
func (h *TitleHandler) HandleDeleteTitle(c *fiber.Ctx) error {
	id, err := paramID(c, "id", "Title")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.titleService.DeleteTitle(c.UserContext(), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

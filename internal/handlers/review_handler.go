package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/services"
)

type reviewResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type commentResponse struct {
	ID      uint      `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

func authorName(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Username
}

func newReviewResponse(r *models.Review) reviewResponse {
	return reviewResponse{ID: r.ID, Text: r.Text, Author: authorName(r.Author), Score: r.Score, PubDate: r.PubDate}
}

func newCommentResponse(cm *models.Comment) commentResponse {
	return commentResponse{ID: cm.ID, Text: cm.Text, Author: authorName(cm.Author), PubDate: cm.PubDate}
}

// ReviewHandler handles HTTP requests for reviews and their comments.
type ReviewHandler struct {
	reviewService *services.ReviewService
	logger        *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService *services.ReviewService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		logger:        logger,
	}
}

// RegisterRoutes registers the nested review and comment routes. Reads are
// public; writes need an authenticated user, and edits are further checked
// against the author by the service.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	reviews := router.Group("/titles/:title_id/reviews")
	reviews.Get("/", h.HandleListReviews)
	reviews.Post("/", auth, h.HandleCreateReview)
	reviews.Get("/:id", h.HandleGetReview)
	reviews.Patch("/:id", auth, h.HandleUpdateReview)
	reviews.Delete("/:id", auth, h.HandleDeleteReview)

	comments := reviews.Group("/:review_id/comments")
	comments.Get("/", h.HandleListComments)
	comments.Post("/", auth, h.HandleCreateComment)
	comments.Get("/:id", h.HandleGetComment)
	comments.Patch("/:id", auth, h.HandleUpdateComment)
	comments.Delete("/:id", auth, h.HandleDeleteComment)
}

// reviewPath reads the route parameters naming a title and, if present, a review.
func reviewPath(c *fiber.Ctx) (titleID, reviewID uint, err error) {
	if titleID, err = paramID(c, "title_id", "Title"); err != nil {
		return 0, 0, err
	}
	if c.Params("review_id") == "" {
		return titleID, 0, nil
	}
	reviewID, err = paramID(c, "review_id", "Review")
	return titleID, reviewID, err
}

// HandleListReviews returns the reviews of a title.
func (h *ReviewHandler) HandleListReviews(c *fiber.Ctx) error {
	titleID, _, err := reviewPath(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	reviews, err := h.reviewService.ListReviews(c.UserContext(), titleID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	out := make([]reviewResponse, 0, len(reviews))
	for i := range reviews {
		out = append(out, newReviewResponse(&reviews[i]))
	}
	return c.JSON(out)
}

// HandleGetReview returns one review of a title.
func (h *ReviewHandler) HandleGetReview(c *fiber.Ctx) error {
	titleID, _, err := reviewPath(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id", "Review")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	review, err := h.reviewService.GetReview(c.UserContext(), titleID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newReviewResponse(review))
}

// HandleCreateReview posts a review as the current user.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	titleID, _, err := reviewPath(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req services.ReviewRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	review, err := h.reviewService.CreateReview(c.UserContext(), middleware.CurrentUser(c), titleID, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newReviewResponse(review))
}

// HandleUpdateReview partially updates a review.
func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	titleID, _, err := reviewPath(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id", "Review")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var patch services.ReviewPatch
	if err := parseBody(c, &patch); err != nil {
		return respondError(c, h.logger, err)
	}
	review, err := h.reviewService.UpdateReview(c.UserContext(), middleware.CurrentUser(c), titleID, id, patch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newReviewResponse(review))
}

// HandleDeleteReview deletes a review with its comments.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	titleID, _, err := reviewPath(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id", "Review")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.reviewService.DeleteReview(c.UserContext(), middleware.CurrentUser(c), titleID, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListComments returns the comments of a review.
func (h *ReviewHandler) HandleListComments(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	comments, err := h.reviewService.ListComments(c.UserContext(), titleID, reviewID)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	out := make([]commentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentResponse(&comments[i]))
	}
	return c.JSON(out)
}

// HandleGetComment returns one comment of a review.
func (h *ReviewHandler) HandleGetComment(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id", "Comment")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	comment, err := h.reviewService.GetComment(c.UserContext(), titleID, reviewID, id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCommentResponse(comment))
}

// HandleCreateComment posts a comment as the current user.
func (h *ReviewHandler) HandleCreateComment(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req services.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	comment, err := h.reviewService.CreateComment(c.UserContext(), middleware.CurrentUser(c), titleID, reviewID, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCommentResponse(comment))
}

// HandleUpdateComment replaces the text of a comment.
func (h *ReviewHandler) HandleUpdateComment(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id", "Comment")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	var req services.CommentRequest
	if err := parseBody(c, &req); err != nil {
		return respondError(c, h.logger, err)
	}
	comment, err := h.reviewService.UpdateComment(c.UserContext(), middleware.CurrentUser(c), titleID, reviewID, id, req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCommentResponse(comment))
}

// HandleDeleteComment deletes a comment.
func (h *ReviewHandler) HandleDeleteComment(c *fiber.Ctx) error {
	titleID, reviewID, err := reviewPath(c)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	id, err := paramID(c, "id", "Comment")
	if err != nil {
		return respondError(c, h.logger, err)
	}
	if err := h.reviewService.DeleteComment(c.UserContext(), middleware.CurrentUser(c), titleID, reviewID, id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

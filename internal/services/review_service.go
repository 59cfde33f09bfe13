package services

import (
	"context"
	"errors"

	"yamdb/internal/apperr"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// ReviewRequest is the body for creating a review. There is no author
// field: the author is always the acting user.
type ReviewRequest struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,min=1,max=10"`
}

// ReviewPatch is the body for a partial review update.
type ReviewPatch struct {
	Text  *string `json:"text" validate:"omitnil,min=1"`
	Score *int    `json:"score" validate:"omitnil,min=1,max=10"`
}

// CommentRequest is the body for creating or editing a comment.
type CommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// ReviewService handles reviews of titles and comments on reviews.
type ReviewService struct {
	titles    repositories.TitleRepository
	reviews   repositories.ReviewRepository
	validator *validation.Validator
}

// NewReviewService creates a new ReviewService.
func NewReviewService(titles repositories.TitleRepository, reviews repositories.ReviewRepository, validator *validation.Validator) *ReviewService {
	return &ReviewService{
		titles:    titles,
		reviews:   reviews,
		validator: validator,
	}
}

// canModify reports whether actor may edit or delete content by authorID.
func canModify(actor *models.User, authorID string) bool {
	return actor.ID == authorID || actor.Role.AtLeast(models.RoleModerator)
}

func (s *ReviewService) ensureTitle(ctx context.Context, titleID uint) error {
	_, err := s.titles.GetByID(ctx, titleID)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.NotFoundError("Title")
	}
	return err
}

// ListReviews returns the reviews of a title.
func (s *ReviewService) ListReviews(ctx context.Context, titleID uint) ([]models.Review, error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}
	return s.reviews.ListReviews(ctx, titleID)
}

// GetReview returns one review of a title.
func (s *ReviewService) GetReview(ctx context.Context, titleID, id uint) (*models.Review, error) {
	review, err := s.reviews.GetReview(ctx, titleID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFoundError("Review")
	}
	return review, err
}

// CreateReview stores a review by actor. Whatever author the client sent
// is never consulted.
func (s *ReviewService) CreateReview(ctx context.Context, actor *models.User, titleID uint, req ReviewRequest) (*models.Review, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.New(apperr.DetailField, apperr.AlreadyReviewed, "You have already reviewed this title.")
		}
		return nil, err
	}
	review.Author = actor
	return review, nil
}

// UpdateReview applies patch if actor wrote the review or moderates.
func (s *ReviewService) UpdateReview(ctx context.Context, actor *models.User, titleID, id uint, patch ReviewPatch) (*models.Review, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}
	review, err := s.GetReview(ctx, titleID, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, review.AuthorID) {
		return nil, apperr.Forbidden("You can only edit your own reviews.")
	}
	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Score != nil {
		review.Score = *patch.Score
	}
	if err := s.reviews.UpdateReview(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review and its comments.
func (s *ReviewService) DeleteReview(ctx context.Context, actor *models.User, titleID, id uint) error {
	review, err := s.GetReview(ctx, titleID, id)
	if err != nil {
		return err
	}
	if !canModify(actor, review.AuthorID) {
		return apperr.Forbidden("You can only delete your own reviews.")
	}
	return s.reviews.DeleteReview(ctx, titleID, id)
}

// ListComments returns the comments of a review of a title.
func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID uint) ([]models.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	return s.reviews.ListComments(ctx, reviewID)
}

// GetComment returns one comment of a review of a title.
func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, id uint) (*models.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.reviews.GetComment(ctx, reviewID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFoundError("Comment")
	}
	return comment, err
}

// CreateComment stores a comment by actor.
func (s *ReviewService) CreateComment(ctx context.Context, actor *models.User, titleID, reviewID uint, req CommentRequest) (*models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := s.reviews.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = actor
	return comment, nil
}

// UpdateComment replaces the text if actor wrote the comment or moderates.
func (s *ReviewService) UpdateComment(ctx context.Context, actor *models.User, titleID, reviewID, id uint, req CommentRequest) (*models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	comment, err := s.GetComment(ctx, titleID, reviewID, id)
	if err != nil {
		return nil, err
	}
	if !canModify(actor, comment.AuthorID) {
		return nil, apperr.Forbidden("You can only edit your own comments.")
	}
	comment.Text = req.Text
	if err := s.reviews.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes a comment if actor wrote it or moderates.
func (s *ReviewService) DeleteComment(ctx context.Context, actor *models.User, titleID, reviewID, id uint) error {
	comment, err := s.GetComment(ctx, titleID, reviewID, id)
	if err != nil {
		return err
	}
	if !canModify(actor, comment.AuthorID) {
		return apperr.Forbidden("You can only delete your own comments.")
	}
	return s.reviews.DeleteComment(ctx, reviewID, id)
}

package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yamdb/internal/models"
)

// ReviewRepository defines the interface for review and comment data access.
// Reviews are always addressed through their title, comments through their review.
type ReviewRepository interface {
	ListReviews(ctx context.Context, titleID uint) ([]models.Review, error)
	GetReview(ctx context.Context, titleID, id uint) (*models.Review, error)
	CreateReview(ctx context.Context, review *models.Review) error
	UpdateReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, titleID, id uint) error

	ListComments(ctx context.Context, reviewID uint) ([]models.Comment, error)
	GetComment(ctx context.Context, reviewID, id uint) (*models.Comment, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, reviewID, id uint) error
}

// GORMReviewRepository is a GORM implementation of ReviewRepository.
type GORMReviewRepository struct {
	db *gorm.DB
}

// NewGORMReviewRepository creates a new instance of GORMReviewRepository.
func NewGORMReviewRepository(db *gorm.DB) *GORMReviewRepository {
	return &GORMReviewRepository{db: db}
}

// ListReviews returns the reviews of a title, oldest first.
func (r *GORMReviewRepository) ListReviews(ctx context.Context, titleID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Preload("Author").
		Where("title_id = ?", titleID).Order("pub_date, id").Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews of title %d: %w", titleID, err)
	}
	return reviews, nil
}

// GetReview retrieves one review of a title.
func (r *GORMReviewRepository) GetReview(ctx context.Context, titleID, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).Preload("Author").
		First(&review, "id = ? AND title_id = ?", id, titleID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get review %d of title %d: %w", id, titleID, translate(err))
	}
	return &review, nil
}

// CreateReview inserts a review. A second review by the same author on the
// same title fails with ErrDuplicate.
func (r *GORMReviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error; err != nil {
		return fmt.Errorf("failed to create review on title %d: %w", review.TitleID, translate(err))
	}
	return nil
}

// UpdateReview saves text and score.
func (r *GORMReviewRepository) UpdateReview(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Model(review).Omit(clause.Associations).
		Select("text", "score").Updates(review).Error
	if err != nil {
		return fmt.Errorf("failed to update review %d: %w", review.ID, translate(err))
	}
	return nil
}

// DeleteReview removes a review and its comments.
func (r *GORMReviewRepository) DeleteReview(ctx context.Context, titleID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, "id = ? AND title_id = ?", id, titleID).Error; err != nil {
			return fmt.Errorf("failed to find review %d: %w", id, translate(err))
		}
		if err := tx.Where("review_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of review %d: %w", id, err)
		}
		if err := tx.Delete(&review).Error; err != nil {
			return fmt.Errorf("failed to delete review %d: %w", id, err)
		}
		return nil
	})
}

// ListComments returns the comments of a review, oldest first.
func (r *GORMReviewRepository) ListComments(ctx context.Context, reviewID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Where("review_id = ?", reviewID).Order("pub_date, id").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments of review %d: %w", reviewID, err)
	}
	return comments, nil
}

// GetComment retrieves one comment of a review.
func (r *GORMReviewRepository) GetComment(ctx context.Context, reviewID, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		First(&comment, "id = ? AND review_id = ?", id, reviewID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get comment %d of review %d: %w", id, reviewID, translate(err))
	}
	return &comment, nil
}

// CreateComment inserts a comment.
func (r *GORMReviewRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return fmt.Errorf("failed to create comment on review %d: %w", comment.ReviewID, translate(err))
	}
	return nil
}

// UpdateComment saves the comment text.
func (r *GORMReviewRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	err := r.db.WithContext(ctx).Model(comment).Omit(clause.Associations).
		Select("text").Updates(comment).Error
	if err != nil {
		return fmt.Errorf("failed to update comment %d: %w", comment.ID, translate(err))
	}
	return nil
}

// DeleteComment removes a comment.
func (r *GORMReviewRepository) DeleteComment(ctx context.Context, reviewID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND review_id = ?", id, reviewID).Delete(&models.Comment{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete comment %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("comment with ID %d not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

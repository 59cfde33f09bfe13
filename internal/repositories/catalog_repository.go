package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"yamdb/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	DeleteBySlug(ctx context.Context, slug string) error
}

// GenreRepository defines the interface for genre data access.
type GenreRepository interface {
	List(ctx context.Context) ([]models.Genre, error)
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	Create(ctx context.Context, genre *models.Genre) error
	DeleteBySlug(ctx context.Context, slug string) error
}

// GORMCategoryRepository is a GORM implementation of CategoryRepository.
type GORMCategoryRepository struct {
	db *gorm.DB
}

// NewGORMCategoryRepository creates a new instance of GORMCategoryRepository.
func NewGORMCategoryRepository(db *gorm.DB) *GORMCategoryRepository {
	return &GORMCategoryRepository{db: db}
}

// List returns all categories ordered by name.
func (r *GORMCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetBySlug retrieves a category by its slug.
func (r *GORMCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error; err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", slug, translate(err))
	}
	return &category, nil
}

// Create inserts a category.
func (r *GORMCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("failed to create category %s: %w", category.Slug, translate(err))
	}
	return nil
}

// DeleteBySlug removes a category. Titles in it keep existing with no category.
func (r *GORMCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, "slug = ?", slug).Error; err != nil {
			return fmt.Errorf("failed to find category %s: %w", slug, translate(err))
		}
		if err := tx.Model(&models.Title{}).Where("category_id = ?", category.ID).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach titles from category %s: %w", slug, err)
		}
		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("failed to delete category %s: %w", slug, err)
		}
		return nil
	})
}

// GORMGenreRepository is a GORM implementation of GenreRepository.
type GORMGenreRepository struct {
	db *gorm.DB
}

// NewGORMGenreRepository creates a new instance of GORMGenreRepository.
func NewGORMGenreRepository(db *gorm.DB) *GORMGenreRepository {
	return &GORMGenreRepository{db: db}
}

// List returns all genres ordered by name.
func (r *GORMGenreRepository) List(ctx context.Context) ([]models.Genre, error) {
	var genres []models.Genre
	if err := r.db.WithContext(ctx).Order("name").Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

// GetBySlug retrieves a genre by its slug.
func (r *GORMGenreRepository) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.WithContext(ctx).First(&genre, "slug = ?", slug).Error; err != nil {
		return nil, fmt.Errorf("failed to get genre %s: %w", slug, translate(err))
	}
	return &genre, nil
}

// GetBySlugs returns the genres matching slugs. Unknown slugs are skipped;
// callers compare lengths to detect them.
func (r *GORMGenreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	if len(slugs) == 0 {
		return genres, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&genres).Error; err != nil {
		return nil, fmt.Errorf("failed to get genres %v: %w", slugs, err)
	}
	return genres, nil
}

// Create inserts a genre.
func (r *GORMGenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		return fmt.Errorf("failed to create genre %s: %w", genre.Slug, translate(err))
	}
	return nil
}

// DeleteBySlug removes a genre. Links to titles lose their genre side only.
func (r *GORMGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var genre models.Genre
		if err := tx.First(&genre, "slug = ?", slug).Error; err != nil {
			return fmt.Errorf("failed to find genre %s: %w", slug, translate(err))
		}
		if err := tx.Model(&models.GenreTitle{}).Where("genre_id = ?", genre.ID).
			Update("genre_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach genre %s from titles: %w", slug, err)
		}
		if err := tx.Delete(&genre).Error; err != nil {
			return fmt.Errorf("failed to delete genre %s: %w", slug, err)
		}
		return nil
	})
}

package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"yamdb/internal/models"
)

// TitleRepository defines the interface for title data access.
type TitleRepository interface {
	List(ctx context.Context) ([]models.Title, error)
	GetByID(ctx context.Context, id uint) (*models.Title, error)
	// Create inserts title and links it to genreIDs.
	Create(ctx context.Context, title *models.Title, genreIDs []uint) error
	// Update saves title; a non-nil genreIDs replaces its genre links.
	Update(ctx context.Context, title *models.Title, genreIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

// GORMTitleRepository is a GORM implementation of TitleRepository.
type GORMTitleRepository struct {
	db *gorm.DB
}

// NewGORMTitleRepository creates a new instance of GORMTitleRepository.
func NewGORMTitleRepository(db *gorm.DB) *GORMTitleRepository {
	return &GORMTitleRepository{db: db}
}

func (r *GORMTitleRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category").Preload("GenreLinks.Genre")
}

// List returns all titles with category, genres and rating loaded.
func (r *GORMTitleRepository) List(ctx context.Context) ([]models.Title, error) {
	var titles []models.Title
	if err := r.withRelations(ctx).Order("id").Find(&titles).Error; err != nil {
		return nil, fmt.Errorf("failed to list titles: %w", err)
	}
	ids := make([]uint, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}
	ratings, err := r.ratings(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range titles {
		if avg, ok := ratings[titles[i].ID]; ok {
			avg := avg
			titles[i].Rating = &avg
		}
	}
	return titles, nil
}

// GetByID retrieves a title with category, genres and rating loaded.
func (r *GORMTitleRepository) GetByID(ctx context.Context, id uint) (*models.Title, error) {
	var title models.Title
	if err := r.withRelations(ctx).First(&title, id).Error; err != nil {
		return nil, fmt.Errorf("failed to get title %d: %w", id, translate(err))
	}
	ratings, err := r.ratings(ctx, []uint{id})
	if err != nil {
		return nil, err
	}
	if avg, ok := ratings[id]; ok {
		title.Rating = &avg
	}
	return &title, nil
}

type ratingRow struct {
	TitleID uint
	Avg     float64
}

// ratings averages review scores per title. Titles without reviews are absent.
func (r *GORMTitleRepository) ratings(ctx context.Context, ids []uint) (map[uint]float64, error) {
	out := make(map[uint]float64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []ratingRow
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("title_id, CAST(AVG(score) AS FLOAT) AS avg").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute title ratings: %w", err)
	}
	for _, row := range rows {
		out[row.TitleID] = row.Avg
	}
	return out, nil
}

// Create inserts title and its genre links in one transaction.
func (r *GORMTitleRepository) Create(ctx context.Context, title *models.Title, genreIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(title).Error; err != nil {
			return fmt.Errorf("failed to create title %s: %w", title.Name, translate(err))
		}
		return linkGenres(tx, title.ID, genreIDs)
	})
}

// Update saves title columns and, when genreIDs is non-nil, replaces its links.
// Old links are detached rather than deleted so the join rows survive.
func (r *GORMTitleRepository) Update(ctx context.Context, title *models.Title, genreIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(title).Omit(clause.Associations).Select("name", "year", "description", "category_id").Updates(title)
		if res.Error != nil {
			return fmt.Errorf("failed to update title %d: %w", title.ID, translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("title with ID %d not found for update: %w", title.ID, ErrNotFound)
		}
		if genreIDs == nil {
			return nil
		}
		if err := tx.Model(&models.GenreTitle{}).Where("title_id = ?", title.ID).
			Update("title_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach genres of title %d: %w", title.ID, err)
		}
		return linkGenres(tx, title.ID, genreIDs)
	})
}

func linkGenres(tx *gorm.DB, titleID uint, genreIDs []uint) error {
	if len(genreIDs) == 0 {
		return nil
	}
	links := make([]models.GenreTitle, 0, len(genreIDs))
	for _, gid := range genreIDs {
		gid, tid := gid, titleID
		links = append(links, models.GenreTitle{GenreID: &gid, TitleID: &tid})
	}
	if err := tx.Omit(clause.Associations).Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link genres to title %d: %w", titleID, err)
	}
	return nil
}

// Delete removes a title with its reviews and their comments.
// Genre links keep existing with no title.
func (r *GORMTitleRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var title models.Title
		if err := tx.First(&title, id).Error; err != nil {
			return fmt.Errorf("failed to find title %d: %w", id, translate(err))
		}
		if err := tx.Model(&models.GenreTitle{}).Where("title_id = ?", id).
			Update("title_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach genres of title %d: %w", id, err)
		}
		reviews := tx.Model(&models.Review{}).Select("id").Where("title_id = ?", id)
		if err := tx.Where("review_id IN (?)", reviews).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of title %d: %w", id, err)
		}
		if err := tx.Where("title_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews of title %d: %w", id, err)
		}
		if err := tx.Delete(&title).Error; err != nil {
			return fmt.Errorf("failed to delete title %d: %w", id, err)
		}
		return nil
	})
}

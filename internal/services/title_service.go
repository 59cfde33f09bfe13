package services

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/apperr"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// TitleRequest is the body for creating a title. Genres and category are
// referenced by slug.
type TitleRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required,notfutureyear"`
	Description string   `json:"description"`
	Genre       []string `json:"genre" validate:"required,dive,required"`
	Category    string   `json:"category" validate:"required"`
}

// TitlePatch is the body for a partial title update. Nil fields are kept.
type TitlePatch struct {
	Name        *string  `json:"name" validate:"omitnil,min=1,max=256"`
	Year        *int     `json:"year" validate:"omitnil,notfutureyear"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" validate:"omitempty,dive,required"`
	Category    *string  `json:"category" validate:"omitnil,min=1"`
}

// TitleService handles the title catalog.
type TitleService struct {
	titles     repositories.TitleRepository
	categories repositories.CategoryRepository
	genres     repositories.GenreRepository
	validator  *validation.Validator
}

// NewTitleService creates a new TitleService.
func NewTitleService(
	titles repositories.TitleRepository,
	categories repositories.CategoryRepository,
	genres repositories.GenreRepository,
	validator *validation.Validator,
) *TitleService {
	return &TitleService{
		titles:     titles,
		categories: categories,
		genres:     genres,
		validator:  validator,
	}
}

// ListTitles returns every title with its rating.
func (s *TitleService) ListTitles(ctx context.Context) ([]models.Title, error) {
	return s.titles.List(ctx)
}

// GetTitle returns one title with its rating.
func (s *TitleService) GetTitle(ctx context.Context, id uint) (*models.Title, error) {
	title, err := s.titles.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFoundError("Title")
	}
	return title, err
}

// CreateTitle validates req, resolves its slugs and stores the title.
func (s *TitleService) CreateTitle(ctx context.Context, req TitleRequest) (*models.Title, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
	}
	if err := s.titles.Create(ctx, title, genreIDs); err != nil {
		return nil, err
	}
	return s.titles.GetByID(ctx, title.ID)
}

// UpdateTitle applies patch to the title with the given id.
func (s *TitleService) UpdateTitle(ctx context.Context, id uint, patch TitlePatch) (*models.Title, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}
	title, err := s.GetTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		title.Name = *patch.Name
	}
	if patch.Year != nil {
		title.Year = *patch.Year
	}
	if patch.Description != nil {
		title.Description = *patch.Description
	}
	if patch.Category != nil {
		category, err := s.resolveCategory(ctx, *patch.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}
	var genreIDs []uint
	if patch.Genre != nil {
		if genreIDs, err = s.resolveGenres(ctx, patch.Genre); err != nil {
			return nil, err
		}
	}

	if err := s.titles.Update(ctx, title, genreIDs); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.NotFoundError("Title")
		}
		return nil, err
	}
	return s.titles.GetByID(ctx, id)
}

// DeleteTitle removes a title with its reviews.
func (s *TitleService) DeleteTitle(ctx context.Context, id uint) error {
	if err := s.titles.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFoundError("Title")
		}
		return err
	}
	return nil
}

func (s *TitleService) resolveCategory(ctx context.Context, categorySlug string) (*models.Category, error) {
	category, err := s.categories.GetBySlug(ctx, categorySlug)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.New("category", apperr.UnknownReference,
			fmt.Sprintf("Category with slug %q does not exist.", categorySlug))
	}
	return category, err
}

// resolveGenres returns a non-nil slice of genre IDs in request order,
// duplicates removed.
func (s *TitleService) resolveGenres(ctx context.Context, slugs []string) ([]uint, error) {
	genres, err := s.genres.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	bySlug := make(map[string]uint, len(genres))
	for _, g := range genres {
		bySlug[g.Slug] = g.ID
	}

	ids := make([]uint, 0, len(slugs))
	seen := make(map[uint]bool, len(slugs))
	var missing apperr.ValidationErrors
	for _, sl := range slugs {
		id, ok := bySlug[sl]
		if !ok {
			missing = append(missing, apperr.New("genre", apperr.UnknownReference,
				fmt.Sprintf("Genre with slug %q does not exist.", sl)))
			continue
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if err := missing.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

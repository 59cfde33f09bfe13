package services

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/apperr"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
	"yamdb/pkg/slug"
)

// TaxonomyRequest is the body for creating a category or a genre.
// An empty slug is derived from the name.
type TaxonomyRequest struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"omitempty,max=50,slug"`
}

// CatalogService handles categories and genres.
type CatalogService struct {
	categories repositories.CategoryRepository
	genres     repositories.GenreRepository
	validator  *validation.Validator
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categories repositories.CategoryRepository, genres repositories.GenreRepository, validator *validation.Validator) *CatalogService {
	return &CatalogService{
		categories: categories,
		genres:     genres,
		validator:  validator,
	}
}

func (s *CatalogService) normalize(req *TaxonomyRequest) error {
	if err := s.validator.Struct(*req); err != nil {
		return err
	}
	if req.Slug == "" {
		req.Slug = slug.Make(req.Name)
		if req.Slug == "" {
			return apperr.New("slug", apperr.RequiredFieldMissing, "This field is required.")
		}
	}
	return nil
}

func slugTaken(taken string) error {
	return apperr.New("slug", apperr.Conflict, fmt.Sprintf("Slug %q is already in use.", taken))
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.List(ctx)
}

// CreateCategory validates req and stores a new category.
func (s *CatalogService) CreateCategory(ctx context.Context, req TaxonomyRequest) (*models.Category, error) {
	if err := s.normalize(&req); err != nil {
		return nil, err
	}
	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, slugTaken(req.Slug)
		}
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category by slug; its titles lose their category.
func (s *CatalogService) DeleteCategory(ctx context.Context, categorySlug string) error {
	if err := s.categories.DeleteBySlug(ctx, categorySlug); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFoundError("Category")
		}
		return err
	}
	return nil
}

// ListGenres returns all genres.
func (s *CatalogService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.genres.List(ctx)
}

// CreateGenre validates req and stores a new genre.
func (s *CatalogService) CreateGenre(ctx context.Context, req TaxonomyRequest) (*models.Genre, error) {
	if err := s.normalize(&req); err != nil {
		return nil, err
	}
	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genres.Create(ctx, genre); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, slugTaken(req.Slug)
		}
		return nil, err
	}
	return genre, nil
}

// DeleteGenre removes a genre by slug; title links lose their genre side.
func (s *CatalogService) DeleteGenre(ctx context.Context, genreSlug string) error {
	if err := s.genres.DeleteBySlug(ctx, genreSlug); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFoundError("Genre")
		}
		return err
	}
	return nil
}

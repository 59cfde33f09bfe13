package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yamdb/internal/apperr"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/services"
	"yamdb/internal/validation"
)

func newCatalogService() (*services.CatalogService, *MockCategoryRepository, *MockGenreRepository) {
	categories := new(MockCategoryRepository)
	genres := new(MockGenreRepository)
	return services.NewCatalogService(categories, genres, validation.New(nil)), categories, genres
}

func TestCreateCategory_DerivesSlug(t *testing.T) {
	service, categories, _ := newCatalogService()
	categories.On("Create", mock.Anything, &models.Category{Name: "Éléments de Cinéma", Slug: "elements-de-cinema"}).Return(nil).Once()

	category, err := service.CreateCategory(context.Background(), services.TaxonomyRequest{Name: "Éléments de Cinéma"})
	require.NoError(t, err)
	assert.Equal(t, "elements-de-cinema", category.Slug)
	categories.AssertExpectations(t)
}

func TestCreateCategory_Validation(t *testing.T) {
	service, _, _ := newCatalogService()

	_, err := service.CreateCategory(context.Background(), services.TaxonomyRequest{Slug: "books"})
	assert.True(t, errors.Is(err, apperr.RequiredFieldMissing))

	_, err = service.CreateCategory(context.Background(), services.TaxonomyRequest{Name: "Books", Slug: "bad slug!"})
	assert.True(t, errors.Is(err, apperr.InvalidSlug))

	_, err = service.CreateCategory(context.Background(), services.TaxonomyRequest{Name: "???"})
	assert.True(t, errors.Is(err, apperr.RequiredFieldMissing), "no slug can be derived")
}

func TestCreateGenre_DuplicateSlug(t *testing.T) {
	service, _, genres := newCatalogService()
	genres.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("failed to create genre drama: %w", repositories.ErrDuplicate)).Once()

	_, err := service.CreateGenre(context.Background(), services.TaxonomyRequest{Name: "Drama", Slug: "drama"})
	assert.True(t, errors.Is(err, apperr.Conflict))
	assert.Contains(t, apperr.Fields(err), "slug")
}

func TestDelete_NotFound(t *testing.T) {
	service, categories, genres := newCatalogService()
	categories.On("DeleteBySlug", mock.Anything, "nope").Return(repositories.ErrNotFound).Once()
	genres.On("DeleteBySlug", mock.Anything, "nope").Return(repositories.ErrNotFound).Once()

	assert.True(t, errors.Is(service.DeleteCategory(context.Background(), "nope"), apperr.NotFound))
	assert.True(t, errors.Is(service.DeleteGenre(context.Background(), "nope"), apperr.NotFound))
}

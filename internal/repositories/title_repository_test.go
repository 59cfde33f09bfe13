package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/internal/models"
)

func TestTitleRepository_Relations(t *testing.T) {
	f := newFixture(t)

	title, err := f.titles.GetByID(context.Background(), f.title.ID)
	require.NoError(t, err)
	require.NotNil(t, title.Category)
	assert.Equal(t, "books", title.Category.Slug)
	assert.Len(t, title.Genres(), 2)
	assert.Nil(t, title.Rating)
}

func TestTitleRepository_Rating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other := &models.Title{Name: "The Nose", Year: 1836}
	require.NoError(t, f.titles.Create(ctx, other, nil))

	f.addReview(t, f.user, 7)
	f.addReview(t, f.addUser(t, "bob"), 10)

	titles, err := f.titles.List(ctx)
	require.NoError(t, err)
	require.Len(t, titles, 2)

	require.NotNil(t, titles[0].Rating)
	assert.InDelta(t, 8.5, *titles[0].Rating, 0.001)
	assert.Nil(t, titles[1].Rating, "ratings are per title")
}

func TestTitleRepository_UpdateGenres(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.title.Name = "Dead Souls, vol. 1"
	require.NoError(t, f.titles.Update(ctx, f.title, nil))
	title, err := f.titles.GetByID(ctx, f.title.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dead Souls, vol. 1", title.Name)
	assert.Len(t, title.Genres(), 2)

	require.NoError(t, f.titles.Update(ctx, title, []uint{f.comedy.ID}))
	title, err = f.titles.GetByID(ctx, f.title.ID)
	require.NoError(t, err)
	genres := title.Genres()
	require.Len(t, genres, 1)
	assert.Equal(t, "comedy", genres[0].Slug)

	missing := &models.Title{ID: 999, Name: "x", Year: 2000}
	assert.ErrorIs(t, f.titles.Update(ctx, missing, nil), ErrNotFound)
}

func TestTitleRepository_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	review := f.addReview(t, f.user, 5)
	require.NoError(t, f.reviews.CreateComment(ctx, &models.Comment{ReviewID: review.ID, AuthorID: f.user.ID, Text: "hm"}))

	require.NoError(t, f.titles.Delete(ctx, f.title.ID))

	_, err := f.titles.GetByID(ctx, f.title.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var reviews, comments, detached int64
	require.NoError(t, f.db.Model(&models.Review{}).Count(&reviews).Error)
	require.NoError(t, f.db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, f.db.Model(&models.GenreTitle{}).Where("title_id IS NULL").Count(&detached).Error)
	assert.Zero(t, reviews)
	assert.Zero(t, comments)
	assert.Equal(t, int64(2), detached)

	assert.ErrorIs(t, f.titles.Delete(ctx, f.title.ID), ErrNotFound)
}

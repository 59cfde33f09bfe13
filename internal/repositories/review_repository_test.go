package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamdb/internal/models"
)

func TestReviewRepository_OnePerAuthorAndTitle(t *testing.T) {
	f := newFixture(t)
	f.addReview(t, f.user, 6)

	err := f.reviews.CreateReview(context.Background(), &models.Review{
		TitleID: f.title.ID, AuthorID: f.user.ID, Text: "again", Score: 8,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestReviewRepository_ScopedToTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	review := f.addReview(t, f.user, 6)

	got, err := f.reviews.GetReview(ctx, f.title.ID, review.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Username)

	_, err = f.reviews.GetReview(ctx, f.title.ID+1, review.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewRepository_UpdateAndComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	review := f.addReview(t, f.user, 6)

	review.Text, review.Score = "better", 9
	require.NoError(t, f.reviews.UpdateReview(ctx, review))
	got, err := f.reviews.GetReview(ctx, f.title.ID, review.ID)
	require.NoError(t, err)
	assert.Equal(t, "better", got.Text)
	assert.Equal(t, 9, got.Score)

	comment := &models.Comment{ReviewID: review.ID, AuthorID: f.user.ID, Text: "first"}
	require.NoError(t, f.reviews.CreateComment(ctx, comment))
	comment.Text = "edited"
	require.NoError(t, f.reviews.UpdateComment(ctx, comment))

	gotComment, err := f.reviews.GetComment(ctx, review.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", gotComment.Text)
	assert.Equal(t, "alice", gotComment.Author.Username)

	require.NoError(t, f.reviews.DeleteComment(ctx, review.ID, comment.ID))
	_, err = f.reviews.GetComment(ctx, review.ID, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.reviews.DeleteReview(ctx, f.title.ID, review.ID))
	assert.ErrorIs(t, f.reviews.DeleteReview(ctx, f.title.ID, review.ID), ErrNotFound)
}

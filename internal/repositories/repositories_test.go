package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"yamdb/internal/database"
	"yamdb/internal/models"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// fixture seeds one category, two genres, a title in both genres and a user.
type fixture struct {
	db       *gorm.DB
	users    *GORMUserRepository
	cats     *GORMCategoryRepository
	genres   *GORMGenreRepository
	titles   *GORMTitleRepository
	reviews  *GORMReviewRepository
	user     *models.User
	category *models.Category
	drama    *models.Genre
	comedy   *models.Genre
	title    *models.Title
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)
	f := &fixture{
		db:      db,
		users:   NewGORMUserRepository(db),
		cats:    NewGORMCategoryRepository(db),
		genres:  NewGORMGenreRepository(db),
		titles:  NewGORMTitleRepository(db),
		reviews: NewGORMReviewRepository(db),
	}

	f.user = &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, f.users.Create(ctx, f.user))

	f.category = &models.Category{Name: "Books", Slug: "books"}
	require.NoError(t, f.cats.Create(ctx, f.category))
	f.drama = &models.Genre{Name: "Drama", Slug: "drama"}
	require.NoError(t, f.genres.Create(ctx, f.drama))
	f.comedy = &models.Genre{Name: "Comedy", Slug: "comedy"}
	require.NoError(t, f.genres.Create(ctx, f.comedy))

	f.title = &models.Title{Name: "Dead Souls", Year: 1842, CategoryID: &f.category.ID}
	require.NoError(t, f.titles.Create(ctx, f.title, []uint{f.drama.ID, f.comedy.ID}))
	return f
}

func (f *fixture) addUser(t *testing.T, name string) *models.User {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) addReview(t *testing.T, author *models.User, score int) *models.Review {
	t.Helper()
	r := &models.Review{TitleID: f.title.ID, AuthorID: author.ID, Text: "text", Score: score}
	require.NoError(t, f.reviews.CreateReview(context.Background(), r))
	return r
}

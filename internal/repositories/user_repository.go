package repositories

import (
	"context"
	"time"

	"yamdb/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// GetOrCreate returns the user matching both username and email,
	// creating it from user when no such record exists.
	GetOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, username string) error
	List(ctx context.Context) ([]models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// CodeStore keeps the hashed confirmation code issued to a user.
type CodeStore interface {
	Save(ctx context.Context, user *models.User, hash string, ttl time.Duration) error
	// Get returns ErrNotFound when no unexpired code exists.
	Get(ctx context.Context, user *models.User) (string, error)
	// Consume clears the code only if hash is still the stored one and
	// reports whether it did. Of two concurrent calls at most one wins.
	Consume(ctx context.Context, user *models.User, hash string) (bool, error)
}

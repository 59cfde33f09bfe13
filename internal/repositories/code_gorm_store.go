package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"yamdb/internal/models"
)

// GORMCodeStore keeps the confirmation code hash on the user row.
type GORMCodeStore struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGORMCodeStore creates a new instance of GORMCodeStore.
func NewGORMCodeStore(db *gorm.DB) *GORMCodeStore {
	return &GORMCodeStore{db: db, now: time.Now}
}

// Save replaces any previously issued code.
func (s *GORMCodeStore) Save(ctx context.Context, user *models.User, hash string, ttl time.Duration) error {
	var expires *time.Time
	if ttl > 0 {
		t := s.now().Add(ttl)
		expires = &t
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"confirmation_code": hash, "code_expires_at": expires})
	if res.Error != nil {
		return fmt.Errorf("failed to store confirmation code for %s: %w", user.Username, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("failed to store confirmation code for %s: %w", user.Username, ErrNotFound)
	}
	user.ConfirmationCode = hash
	user.CodeExpiresAt = expires
	return nil
}

// Get returns the stored hash. Expired codes count as missing.
func (s *GORMCodeStore) Get(ctx context.Context, user *models.User) (string, error) {
	var row models.User
	if err := s.db.WithContext(ctx).Select("confirmation_code", "code_expires_at").
		First(&row, "id = ?", user.ID).Error; err != nil {
		return "", fmt.Errorf("failed to load confirmation code for %s: %w", user.Username, translate(err))
	}
	if row.ConfirmationCode == "" {
		return "", ErrNotFound
	}
	if row.CodeExpiresAt != nil && s.now().After(*row.CodeExpiresAt) {
		return "", ErrNotFound
	}
	return row.ConfirmationCode, nil
}

// Consume clears the stored code if it still equals hash.
func (s *GORMCodeStore) Consume(ctx context.Context, user *models.User, hash string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND confirmation_code = ?", user.ID, hash).
		Updates(map[string]interface{}{"confirmation_code": "", "code_expires_at": nil})
	if res.Error != nil {
		return false, fmt.Errorf("failed to clear confirmation code for %s: %w", user.Username, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	user.ConfirmationCode = ""
	user.CodeExpiresAt = nil
	return true, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"yamdb/internal/models"
	"yamdb/internal/notify"
	"yamdb/internal/repositories"
)

// CodeConfig tunes confirmation code issuance.
type CodeConfig struct {
	// TTL bounds how long a code stays valid. Zero means no expiry.
	TTL time.Duration
	// HashCost is the bcrypt cost; zero means bcrypt.DefaultCost.
	HashCost int
}

// ConfirmationCodes issues, delivers and verifies one-time confirmation codes.
// Only a bcrypt hash of each code is stored.
type ConfirmationCodes struct {
	store    repositories.CodeStore
	notifier notify.Notifier
	logger   *zap.Logger
	cfg      CodeConfig
	newCode  func() string
	now      func() time.Time
}

// NewConfirmationCodes creates a ConfirmationCodes.
func NewConfirmationCodes(store repositories.CodeStore, notifier notify.Notifier, logger *zap.Logger, cfg CodeConfig) *ConfirmationCodes {
	if cfg.HashCost == 0 {
		cfg.HashCost = bcrypt.DefaultCost
	}
	return &ConfirmationCodes{
		store:    store,
		notifier: notifier,
		logger:   logger,
		cfg:      cfg,
		newCode:  uuid.NewString,
		now:      time.Now,
	}
}

// Issue generates a new code for user, replacing any previous one, and
// dispatches it. A delivery failure is logged but does not fail the call:
// signing up again re-sends a fresh code.
func (c *ConfirmationCodes) Issue(ctx context.Context, user *models.User) (string, error) {
	code := c.newCode()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), c.cfg.HashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash confirmation code: %w", err)
	}
	if err := c.store.Save(ctx, user, string(hash), c.cfg.TTL); err != nil {
		return "", err
	}

	msg := notify.ConfirmationMessage{
		Username: user.Username,
		Email:    user.Email,
		Code:     code,
		IssuedAt: c.now(),
	}
	if err := c.notifier.SendConfirmationCode(ctx, msg); err != nil {
		c.logger.Warn("confirmation code delivery failed",
			zap.String("username", user.Username), zap.Error(err))
	}
	return code, nil
}

// Verify reports whether code matches the one issued to user. A matching
// code is consumed; when two requests race on it only one succeeds.
func (c *ConfirmationCodes) Verify(ctx context.Context, user *models.User, code string) (bool, error) {
	hash, err := c.store.Get(ctx, user)
	if errors.Is(err, repositories.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)); err != nil {
		return false, nil
	}
	return c.store.Consume(ctx, user, hash)
}

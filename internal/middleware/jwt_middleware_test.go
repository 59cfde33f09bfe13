package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"yamdb/internal/middleware"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/services"
	"yamdb/internal/validation"
)

type MockUserRepository struct {
	repositories.UserRepository
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func setup(t *testing.T, user *models.User) (*fiber.App, *services.TokenIssuer) {
	t.Helper()
	repo := new(MockUserRepository)
	repo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	repo.On("GetByID", mock.Anything, mock.Anything).Return(nil, repositories.ErrNotFound)
	return newApp(t, repo)
}

func newApp(t *testing.T, repo repositories.UserRepository) (*fiber.App, *services.TokenIssuer) {
	t.Helper()
	tokens := services.NewTokenIssuer("test-secret", time.Hour)
	auth := services.NewAuthService(repo, nil, tokens, validation.New(nil), nil, zap.NewNop())

	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(auth, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentUser(c).Username)
	})
	app.Get("/admin", middleware.AuthRequired(auth, zap.NewNop()), middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app, tokens
}

func get(t *testing.T, app *fiber.App, path, header string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthRequired(t *testing.T) {
	user := &models.User{ID: "u-1", Username: "alice", Role: models.RoleUser}
	app, tokens := setup(t, user)
	token, err := tokens.Issue(user)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "Token "+token))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "Bearer garbage"))
	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", "Bearer "+token))

	ghost, err := tokens.Issue(&models.User{ID: "u-gone", Username: "ghost"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "Bearer "+ghost))
}

func TestAuthRequired_RepositoryFailureIsNotUnauthorized(t *testing.T) {
	user := &models.User{ID: "u-1", Username: "alice", Role: models.RoleUser}
	repo := new(MockUserRepository)
	repo.On("GetByID", mock.Anything, user.ID).
		Return(nil, fmt.Errorf("failed to get user by id: %w", errors.New("connection reset")))
	app, tokens := newApp(t, repo)
	token, err := tokens.Issue(user)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusInternalServerError, get(t, app, "/me", "Bearer "+token))
}

func TestRequireRole(t *testing.T) {
	user := &models.User{ID: "u-1", Username: "alice", Role: models.RoleModerator}
	app, tokens := setup(t, user)
	token, err := tokens.Issue(user)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/admin", "Bearer "+token))

	user.Role = models.RoleAdmin
	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/admin", "Bearer "+token))
}

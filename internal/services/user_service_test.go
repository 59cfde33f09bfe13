package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yamdb/internal/apperr"
	"yamdb/internal/models"
	"yamdb/internal/services"
	"yamdb/internal/validation"
)

func TestCreateUser_DefaultsAndReserved(t *testing.T) {
	repo := new(MockUserRepository)
	service := services.NewUserService(repo, validation.New(nil))
	ctx := context.Background()

	_, err := service.CreateUser(ctx, services.UserRequest{Username: "Me", Email: "me@example.com"})
	assert.True(t, errors.Is(err, apperr.InvalidUsername))

	_, err = service.CreateUser(ctx, services.UserRequest{Username: "bob", Email: "bob@example.com", Role: "owner"})
	assert.True(t, errors.Is(err, apperr.OutOfRange))

	repo.On("GetByUsername", mock.Anything, "bob").Return(nil, notFound("bob")).Once()
	repo.On("GetByEmail", mock.Anything, "bob@example.com").Return(nil, notFound("bob@example.com")).Once()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "bob" && u.Role == models.RoleUser
	})).Return(nil).Once()

	user, err := service.CreateUser(ctx, services.UserRequest{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
	repo.AssertExpectations(t)
}

func TestUpdateUser_RoleOnlyWhenAllowed(t *testing.T) {
	ctx := context.Background()
	admin := models.RoleAdmin
	bio := "hello"

	for _, allowRole := range []bool{false, true} {
		repo := new(MockUserRepository)
		service := services.NewUserService(repo, validation.New(nil))
		repo.On("GetByUsername", mock.Anything, "alice").
			Return(&models.User{ID: "u-1", Username: "alice", Email: "a@example.com", Role: models.RoleUser}, nil).Once()
		repo.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		user, err := service.UpdateUser(ctx, "alice", services.UserPatch{Bio: &bio, Role: &admin}, allowRole)
		require.NoError(t, err)
		assert.Equal(t, "hello", user.Bio)
		if allowRole {
			assert.Equal(t, models.RoleAdmin, user.Role)
		} else {
			assert.Equal(t, models.RoleUser, user.Role)
		}
	}
}

func TestUpdateUser_Conflicts(t *testing.T) {
	repo := new(MockUserRepository)
	service := services.NewUserService(repo, validation.New(nil))
	taken := "bob"
	email := "bob@example.com"

	repo.On("GetByUsername", mock.Anything, "alice").
		Return(&models.User{ID: "u-1", Username: "alice", Email: "a@example.com"}, nil).Once()
	repo.On("GetByUsername", mock.Anything, "bob").
		Return(&models.User{ID: "u-2", Username: "bob", Email: email}, nil).Once()
	repo.On("GetByEmail", mock.Anything, email).
		Return(&models.User{ID: "u-2", Username: "bob", Email: email}, nil).Once()

	_, err := service.UpdateUser(context.Background(), "alice", services.UserPatch{Username: &taken, Email: &email}, false)
	assert.True(t, errors.Is(err, apperr.UsernameConflict))
	assert.True(t, errors.Is(err, apperr.EmailConflict))
}

package services

import (
	"context"
	"errors"

	"yamdb/internal/apperr"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// UserRequest is the body for creating a user as an administrator.
type UserRequest struct {
	Username  string      `json:"username" validate:"required,max=150,username,notme"`
	Email     string      `json:"email" validate:"required,max=254,email"`
	FirstName string      `json:"first_name" validate:"max=150"`
	LastName  string      `json:"last_name" validate:"max=150"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// UserPatch is the body for a partial profile update.
type UserPatch struct {
	Username  *string      `json:"username" validate:"omitnil,min=1,max=150,username,notme"`
	Email     *string      `json:"email" validate:"omitnil,max=254,email"`
	FirstName *string      `json:"first_name" validate:"omitnil,max=150"`
	LastName  *string      `json:"last_name" validate:"omitnil,max=150"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" validate:"omitnil,oneof=user moderator admin"`
}

// UserService manages accounts outside the signup flow.
type UserService struct {
	userRepo  repositories.UserRepository
	validator *validation.Validator
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, validator *validation.Validator) *UserService {
	return &UserService{
		userRepo:  userRepo,
		validator: validator,
	}
}

// ListUsers returns all users.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// GetUser returns the user with the given username.
func (s *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.NotFoundError("User")
	}
	return user, err
}

// CreateUser stores a user; role defaults to user.
func (s *UserService) CreateUser(ctx context.Context, req UserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	if err := s.ensureFree(ctx, "", req.Username, req.Email); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.New("username", apperr.UsernameConflict, "A user with that username or email already exists.")
		}
		return nil, err
	}
	return user, nil
}

// UpdateUser applies patch to the user named username. When allowRole is
// false a role change in patch is ignored, as on self-service edits.
func (s *UserService) UpdateUser(ctx context.Context, username string, patch UserPatch, allowRole bool) (*models.User, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, username)
	if err != nil {
		return nil, err
	}

	newName, newEmail := "", ""
	if patch.Username != nil && *patch.Username != user.Username {
		newName = *patch.Username
	}
	if patch.Email != nil && *patch.Email != user.Email {
		newEmail = *patch.Email
	}
	if err := s.ensureFree(ctx, user.ID, newName, newEmail); err != nil {
		return nil, err
	}

	if newName != "" {
		user.Username = newName
	}
	if newEmail != "" {
		user.Email = newEmail
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if allowRole && patch.Role != nil {
		user.Role = *patch.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.New("username", apperr.UsernameConflict, "A user with that username or email already exists.")
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user named username with everything they wrote.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	if err := s.userRepo.Delete(ctx, username); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperr.NotFoundError("User")
		}
		return err
	}
	return nil
}

// ensureFree rejects a username or email held by a user other than selfID.
// Empty values are not checked.
func (s *UserService) ensureFree(ctx context.Context, selfID, username, email string) error {
	var errs apperr.ValidationErrors
	if username != "" {
		u, err := s.userRepo.GetByUsername(ctx, username)
		switch {
		case err == nil && u.ID != selfID:
			errs = append(errs, apperr.New("username", apperr.UsernameConflict, "A user with that username already exists."))
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return err
		}
	}
	if email != "" {
		u, err := s.userRepo.GetByEmail(ctx, email)
		switch {
		case err == nil && u.ID != selfID:
			errs = append(errs, apperr.New("email", apperr.EmailConflict, "A user with that email already exists."))
		case err != nil && !errors.Is(err, repositories.ErrNotFound):
			return err
		}
	}
	return errs.Err()
}

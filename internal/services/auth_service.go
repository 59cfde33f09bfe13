package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"yamdb/internal/apperr"
	"yamdb/internal/metrics"
	"yamdb/internal/models"
	"yamdb/internal/repositories"
	"yamdb/internal/validation"
)

// SignupRequest is the body of POST /v1/auth/signup/.
type SignupRequest struct {
	Username string `json:"username" validate:"required,max=150,username,notme"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

// TokenRequest is the body of POST /v1/auth/token/.
type TokenRequest struct {
	Username         string `json:"username" validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required,max=100"`
}

// AuthService handles registration, confirmation code exchange and
// access token checks.
type AuthService struct {
	userRepo  repositories.UserRepository
	codes     *ConfirmationCodes
	tokens    *TokenIssuer
	validator *validation.Validator
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo repositories.UserRepository,
	codes *ConfirmationCodes,
	tokens *TokenIssuer,
	validator *validation.Validator,
	m *metrics.Metrics,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		codes:     codes,
		tokens:    tokens,
		validator: validator,
		metrics:   m,
		logger:    logger,
	}
}

// Signup registers (username, email) and issues a confirmation code.
//
// Signing up again with the exact same pair is not an error: no record is
// created and a fresh code is sent. A username or email already bound to a
// different identity is rejected with UsernameConflict or EmailConflict.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	if err := s.validateSignup(req); err != nil {
		s.metrics.Signup(metrics.OutcomeRejected)
		return nil, err
	}

	byName, err := s.lookup(ctx, s.userRepo.GetByUsername, req.Username)
	if err != nil {
		s.metrics.Signup(metrics.OutcomeFailed)
		return nil, err
	}
	if byName != nil && byName.Email == req.Email {
		return s.issue(ctx, byName, metrics.OutcomeReissued)
	}
	if byName != nil {
		s.metrics.Signup(metrics.OutcomeRejected)
		return nil, usernameTaken(req.Username)
	}

	byEmail, err := s.lookup(ctx, s.userRepo.GetByEmail, req.Email)
	if err != nil {
		s.metrics.Signup(metrics.OutcomeFailed)
		return nil, err
	}
	if byEmail != nil {
		s.metrics.Signup(metrics.OutcomeRejected)
		return nil, emailTaken(req.Email)
	}

	user, created, err := s.userRepo.GetOrCreate(ctx, &models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     models.RoleUser,
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		// Lost a race with a concurrent signup; the datastore's unique
		// constraint decides which side conflicts.
		s.metrics.Signup(metrics.OutcomeRejected)
		return nil, s.conflictAfterRace(ctx, req)
	}
	if err != nil {
		s.metrics.Signup(metrics.OutcomeFailed)
		return nil, err
	}

	outcome := metrics.OutcomeReissued
	if created {
		outcome = metrics.OutcomeCreated
		s.logger.Info("user registered", zap.String("username", user.Username))
	}
	return s.issue(ctx, user, outcome)
}

// validateSignup reports every failure on username as InvalidUsername and
// every failure on email as InvalidEmail, whichever rule tripped.
func (s *AuthService) validateSignup(req SignupRequest) error {
	err := s.validator.Struct(req)
	var verrs apperr.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		switch e.Field {
		case "username":
			e.Kind = apperr.InvalidUsername
		case "email":
			e.Kind = apperr.InvalidEmail
		}
	}
	return verrs
}

func (s *AuthService) issue(ctx context.Context, user *models.User, outcome string) (*models.User, error) {
	if _, err := s.codes.Issue(ctx, user); err != nil {
		s.metrics.Signup(metrics.OutcomeFailed)
		return nil, fmt.Errorf("failed to issue confirmation code for %s: %w", user.Username, err)
	}
	s.metrics.Signup(outcome)
	return user, nil
}

// lookup returns nil, nil when no user matches.
func (s *AuthService) lookup(ctx context.Context, get func(context.Context, string) (*models.User, error), key string) (*models.User, error) {
	user, err := get(ctx, key)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) conflictAfterRace(ctx context.Context, req SignupRequest) error {
	if u, err := s.lookup(ctx, s.userRepo.GetByUsername, req.Username); err == nil && u != nil {
		return usernameTaken(req.Username)
	}
	return emailTaken(req.Email)
}

func usernameTaken(username string) error {
	return apperr.New("username", apperr.UsernameConflict,
		fmt.Sprintf("A user with username %q already exists.", username))
}

func emailTaken(email string) error {
	return apperr.New("email", apperr.EmailConflict,
		fmt.Sprintf("A user with email %q already exists.", email))
}

// ExchangeToken trades a confirmation code for an access token.
// The code is consumed on success.
func (s *AuthService) ExchangeToken(ctx context.Context, req TokenRequest) (string, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.TokenExchange(metrics.OutcomeRejected)
		return "", err
	}

	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if errors.Is(err, repositories.ErrNotFound) {
		s.metrics.TokenExchange(metrics.OutcomeRejected)
		return "", apperr.New("username", apperr.NotFound, "User not found.")
	}
	if err != nil {
		s.metrics.TokenExchange(metrics.OutcomeFailed)
		return "", err
	}

	ok, err := s.codes.Verify(ctx, user, req.ConfirmationCode)
	if err != nil {
		s.metrics.TokenExchange(metrics.OutcomeFailed)
		return "", err
	}
	if !ok {
		s.metrics.TokenExchange(metrics.OutcomeRejected)
		return "", apperr.New("confirmation_code", apperr.InvalidCode, "Invalid confirmation code.")
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		s.metrics.TokenExchange(metrics.OutcomeFailed)
		return "", err
	}
	s.metrics.TokenExchange(metrics.OutcomeIssued)
	return token, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
// Bad tokens and deleted subjects yield ErrInvalidToken; any other error
// comes from the repository.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: token subject: %w", ErrInvalidToken, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token subject: %w", err)
	}
	return user, nil
}

// IssueCode issues a fresh confirmation code for an existing user and
// returns it. Used by the create-admin command.
func (s *AuthService) IssueCode(ctx context.Context, user *models.User) (string, error) {
	return s.codes.Issue(ctx, user)
}

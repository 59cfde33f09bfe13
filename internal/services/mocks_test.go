package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"yamdb/internal/models"
	"yamdb/internal/notify"
	"yamdb/internal/repositories"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetOrCreate(ctx context.Context, user *models.User) (*models.User, bool, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.user(m.Called(ctx, username))
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.user(m.Called(ctx, email))
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserRepository) user(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockNotifier records confirmation messages.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendConfirmationCode(ctx context.Context, msg notify.ConfirmationMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// memoryCodeStore is an in-memory repositories.CodeStore keyed by user ID.
type memoryCodeStore struct {
	mu     sync.Mutex
	hashes map[string]string
	saves  int
}

func newMemoryCodeStore() *memoryCodeStore {
	return &memoryCodeStore{hashes: make(map[string]string)}
}

func (s *memoryCodeStore) Save(_ context.Context, user *models.User, hash string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[user.ID] = hash
	s.saves++
	return nil
}

func (s *memoryCodeStore) Get(_ context.Context, user *models.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	hash, ok := s.hashes[user.ID]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return hash, nil
}

func (s *memoryCodeStore) Consume(_ context.Context, user *models.User, hash string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hashes[user.ID] != hash {
		return false, nil
	}
	delete(s.hashes, user.ID)
	return true, nil
}

// MockTitleRepository is a mock implementation of repositories.TitleRepository
type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) List(ctx context.Context) ([]models.Title, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Title), args.Error(1)
}

func (m *MockTitleRepository) GetByID(ctx context.Context, id uint) (*models.Title, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Title), args.Error(1)
}

func (m *MockTitleRepository) Create(ctx context.Context, title *models.Title, genreIDs []uint) error {
	args := m.Called(ctx, title, genreIDs)
	return args.Error(0)
}

func (m *MockTitleRepository) Update(ctx context.Context, title *models.Title, genreIDs []uint) error {
	args := m.Called(ctx, title, genreIDs)
	return args.Error(0)
}

func (m *MockTitleRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of repositories.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockGenreRepository is a mock implementation of repositories.GenreRepository
type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) List(ctx context.Context) ([]models.Genre, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Genre), args.Error(1)
}

func (m *MockGenreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	args := m.Called(ctx, slugs)
	return args.Get(0).([]models.Genre), args.Error(1)
}

func (m *MockGenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	args := m.Called(ctx, genre)
	return args.Error(0)
}

func (m *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockReviewRepository is a mock implementation of repositories.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) ListReviews(ctx context.Context, titleID uint) ([]models.Review, error) {
	args := m.Called(ctx, titleID)
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) GetReview(ctx context.Context, titleID, id uint) (*models.Review, error) {
	args := m.Called(ctx, titleID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) UpdateReview(ctx context.Context, review *models.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) DeleteReview(ctx context.Context, titleID, id uint) error {
	args := m.Called(ctx, titleID, id)
	return args.Error(0)
}

func (m *MockReviewRepository) ListComments(ctx context.Context, reviewID uint) ([]models.Comment, error) {
	args := m.Called(ctx, reviewID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockReviewRepository) GetComment(ctx context.Context, reviewID, id uint) (*models.Comment, error) {
	args := m.Called(ctx, reviewID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockReviewRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockReviewRepository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockReviewRepository) DeleteComment(ctx context.Context, reviewID, id uint) error {
	args := m.Called(ctx, reviewID, id)
	return args.Error(0)
}

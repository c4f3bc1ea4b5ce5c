package category

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
)

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, f domain.CategoryFilter) ([]*domain.Category, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) Count(ctx context.Context, f domain.CategoryFilter) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) Restore(ctx context.Context, id uuid.UUID, updatedBy *uuid.UUID) error {
	args := m.Called(ctx, id, updatedBy)
	return args.Error(0)
}

func (m *MockCategoryRepository) ProductCount(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func TestService_Create_Success(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	category := &domain.Category{Name: "Sneakers", IsActive: true}

	mockRepo.On("ExistsByName", mock.Anything, "Sneakers", uuid.Nil).Return(false, nil)
	mockRepo.On("Create", mock.Anything, category).Return(nil)

	err := service.Create(context.Background(), category)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_DuplicateName(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	category := &domain.Category{Name: "Sneakers", IsActive: true}

	mockRepo.On("ExistsByName", mock.Anything, "Sneakers", uuid.Nil).Return(true, nil)

	err := service.Create(context.Background(), category)

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestService_Create_NameTooShort(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	category := &domain.Category{Name: "S"}

	err := service.Create(context.Background(), category)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "ExistsByName")
}

func TestService_GetByID_InactiveReadsAsNotFound(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	id := uuid.New()
	mockRepo.On("GetByID", mock.Anything, id).Return(&domain.Category{ID: id, Name: "Sneakers", IsActive: false}, nil)

	_, err := service.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_List_PageOutOfRange(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	mockRepo.On("Count", mock.Anything, mock.Anything).Return(5, nil)

	_, _, err := service.List(context.Background(), domain.CategoryFilter{Page: 3, Limit: 12})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "List")
}

func TestService_List_EmptyResultIsNotAnError(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	mockRepo.On("Count", mock.Anything, mock.Anything).Return(0, nil)
	mockRepo.On("List", mock.Anything, mock.Anything).Return([]*domain.Category{}, nil)

	categories, total, err := service.List(context.Background(), domain.CategoryFilter{Page: 1})

	assert.NoError(t, err)
	assert.Empty(t, categories)
	assert.Equal(t, 0, total)
}

func TestService_List_ForcesActiveOnly(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	mockRepo.On("Count", mock.Anything, mock.MatchedBy(func(f domain.CategoryFilter) bool {
		return !f.IncludeInactive
	})).Return(1, nil)
	mockRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.CategoryFilter) bool {
		return !f.IncludeInactive
	})).Return([]*domain.Category{{Name: "Sneakers", IsActive: true}}, nil)

	_, _, err := service.List(context.Background(), domain.CategoryFilter{Page: 1, IncludeInactive: true})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Update_RenameCollision(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	id := uuid.New()
	existing := &domain.Category{ID: id, Name: "Sneakers", IsActive: true}
	update := &domain.Category{ID: id, Name: "Boots"}

	mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	mockRepo.On("ExistsByName", mock.Anything, "Boots", id).Return(true, nil)

	err := service.Update(context.Background(), update)

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	mockRepo.AssertNotCalled(t, "Update")
}

func TestService_Update_SameNameSkipsCollisionCheck(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	id := uuid.New()
	existing := &domain.Category{ID: id, Name: "Sneakers", IsActive: true}
	update := &domain.Category{ID: id, Name: "Sneakers"}

	mockRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	mockRepo.On("Update", mock.Anything, update).Return(nil)

	err := service.Update(context.Background(), update)

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "ExistsByName")
}

func TestService_Delete_BlockedWhileProductsLinked(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	id := uuid.New()
	mockRepo.On("ProductCount", mock.Anything, id).Return(3, nil)

	err := service.Delete(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrCategoryInUse)
	mockRepo.AssertNotCalled(t, "SoftDelete")
}

func TestService_Delete_Success(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	id := uuid.New()
	mockRepo.On("ProductCount", mock.Anything, id).Return(0, nil)
	mockRepo.On("SoftDelete", mock.Anything, id).Return(nil)

	err := service.Delete(context.Background(), id)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_Restore(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	log := logger.New("test")
	service := NewService(mockRepo, log)

	id := uuid.New()
	adminID := uuid.New()
	mockRepo.On("Restore", mock.Anything, id, &adminID).Return(nil)

	err := service.Restore(context.Background(), id, &adminID)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

package review

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
)

// MockReviewRepository is a mock implementation of domain.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Upsert(ctx context.Context, review *domain.Review) (*domain.RatingSummary, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, productID, reviewID uuid.UUID) (*domain.RatingSummary, error) {
	args := m.Called(ctx, productID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

func (m *MockReviewRepository) GetByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Review), args.Error(1)
}

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) InvalidateProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// passthroughFilter leaves comments untouched
type passthroughFilter struct{}

func (passthroughFilter) Clean(text string) string { return text }

// maskingFilter replaces a fixed word so tests can observe filtering
type maskingFilter struct{}

func (maskingFilter) Clean(text string) string {
	return strings.ReplaceAll(text, "awful", "*****")
}

func validReview() *domain.Review {
	return &domain.Review{
		ProductID: uuid.New(),
		UserID:    uuid.New(),
		UserName:  "John Doe",
		Rating:    5,
		Comment:   "Great product!",
	}
}

func TestService_AddOrUpdate_Success(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, passthroughFilter{}, log)

	review := validReview()
	summary := &domain.RatingSummary{Ratings: 5.0, NumOfReviews: 1}

	mockRepo.On("Upsert", mock.Anything, review).Return(summary, nil)
	mockCache.On("InvalidateProduct", mock.Anything, review.ProductID).Return(nil)

	got, err := service.AddOrUpdate(context.Background(), review)

	assert.NoError(t, err)
	assert.Equal(t, summary, got)
	mockRepo.AssertExpectations(t)
	mockCache.AssertExpectations(t)
}

func TestService_AddOrUpdate_RatingOutOfRange(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, passthroughFilter{}, log)

	for _, rating := range []int{0, 6, -1} {
		review := validReview()
		review.Rating = rating

		_, err := service.AddOrUpdate(context.Background(), review)

		assert.ErrorIs(t, err, domain.ErrInvalidInput, "rating=%d", rating)
	}
	mockRepo.AssertNotCalled(t, "Upsert")
}

func TestService_AddOrUpdate_MissingUserName(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, passthroughFilter{}, log)

	review := validReview()
	review.UserName = ""

	_, err := service.AddOrUpdate(context.Background(), review)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	mockRepo.AssertNotCalled(t, "Upsert")
}

func TestService_AddOrUpdate_FiltersComment(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, maskingFilter{}, log)

	review := validReview()
	review.Comment = "simply awful quality"

	mockRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.Comment == "simply ***** quality"
	})).Return(&domain.RatingSummary{Ratings: 5.0, NumOfReviews: 1}, nil)
	mockCache.On("InvalidateProduct", mock.Anything, review.ProductID).Return(nil)

	_, err := service.AddOrUpdate(context.Background(), review)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_AddOrUpdate_RepeatSubmissionKeepsCount(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, passthroughFilter{}, log)

	review := validReview()
	// The repository overwrote in place: the count stays put, the mean moves
	summary := &domain.RatingSummary{Ratings: 3.0, NumOfReviews: 1}

	mockRepo.On("Upsert", mock.Anything, review).Return(summary, nil)
	mockCache.On("InvalidateProduct", mock.Anything, review.ProductID).Return(nil)

	got, err := service.AddOrUpdate(context.Background(), review)

	assert.NoError(t, err)
	assert.Equal(t, 1, got.NumOfReviews)
	assert.Equal(t, 3.0, got.Ratings)
}

func TestService_AddOrUpdate_ProductNotFound(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, passthroughFilter{}, log)

	review := validReview()
	mockRepo.On("Upsert", mock.Anything, review).Return(nil, domain.ErrNotFound)

	_, err := service.AddOrUpdate(context.Background(), review)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockCache.AssertNotCalled(t, "InvalidateProduct")
}

func TestService_AddOrUpdate_CacheFailureDoesNotFail(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, passthroughFilter{}, log)

	review := validReview()
	summary := &domain.RatingSummary{Ratings: 5.0, NumOfReviews: 1}

	mockRepo.On("Upsert", mock.Anything, review).Return(summary, nil)
	mockCache.On("InvalidateProduct", mock.Anything, review.ProductID).Return(errors.New("redis down"))

	got, err := service.AddOrUpdate(context.Background(), review)

	assert.NoError(t, err)
	assert.Equal(t, summary, got)
}

func TestService_Delete_Success(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, passthroughFilter{}, log)

	productID := uuid.New()
	reviewID := uuid.New()
	summary := &domain.RatingSummary{Ratings: 4.0, NumOfReviews: 2}

	mockRepo.On("Delete", mock.Anything, productID, reviewID).Return(summary, nil)
	mockCache.On("InvalidateProduct", mock.Anything, productID).Return(nil)

	got, err := service.Delete(context.Background(), productID, reviewID)

	assert.NoError(t, err)
	assert.Equal(t, summary, got)
	mockRepo.AssertExpectations(t)
}

func TestService_Delete_LastReviewZeroesAggregates(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, passthroughFilter{}, log)

	productID := uuid.New()
	reviewID := uuid.New()
	summary := &domain.RatingSummary{Ratings: 0, NumOfReviews: 0}

	mockRepo.On("Delete", mock.Anything, productID, reviewID).Return(summary, nil)
	mockCache.On("InvalidateProduct", mock.Anything, productID).Return(nil)

	got, err := service.Delete(context.Background(), productID, reviewID)

	assert.NoError(t, err)
	assert.Equal(t, 0.0, got.Ratings)
	assert.Equal(t, 0, got.NumOfReviews)
}

func TestService_Delete_NotFound(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, passthroughFilter{}, log)

	productID := uuid.New()
	reviewID := uuid.New()

	mockRepo.On("Delete", mock.Anything, productID, reviewID).Return(nil, domain.ErrNotFound)

	_, err := service.Delete(context.Background(), productID, reviewID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockCache.AssertNotCalled(t, "InvalidateProduct")
}

func TestService_ListByProduct(t *testing.T) {
	mockRepo := new(MockReviewRepository)
	mockCache := new(MockCache)
	log := logger.New("test")
	service := NewService(mockRepo, mockCache, passthroughFilter{}, log)

	productID := uuid.New()
	reviews := []*domain.Review{
		{ID: uuid.New(), ProductID: productID, UserName: "Alice", Rating: 4},
		{ID: uuid.New(), ProductID: productID, UserName: "Bob", Rating: 2},
	}

	mockRepo.On("GetByProductID", mock.Anything, productID).Return(reviews, nil)

	got, err := service.ListByProduct(context.Background(), productID)

	assert.NoError(t, err)
	assert.Len(t, got, 2)
}

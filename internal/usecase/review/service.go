package review

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	pkgvalidator "github.com/sneakpeak/storefront/internal/pkg/validator"
)

// Cache invalidates cached product state after review mutations.
type Cache interface {
	InvalidateProduct(ctx context.Context, id uuid.UUID) error
}

// ProfanityFilter censors review comments before storage. Clean is a
// total function; unknown input comes back unchanged.
type ProfanityFilter interface {
	Clean(text string) string
}

// Service handles review business logic. Aggregate maintenance lives
// in the repository transaction; this layer validates, filters and
// keeps the cache honest.
type Service struct {
	repo     domain.ReviewRepository
	cache    Cache
	filter   ProfanityFilter
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new review service
func NewService(
	repo domain.ReviewRepository,
	redisCache Cache,
	filter ProfanityFilter,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		cache:    redisCache,
		filter:   filter,
		validate: pkgvalidator.Get(),
		logger:   log,
	}
}

// AddOrUpdate submits a user's review of a product. A first submission
// appends a review; a repeat submission by the same user overwrites
// rating and comment in place. Either way the product's ratings mean
// and review count are recomputed atomically with the write.
func (s *Service) AddOrUpdate(ctx context.Context, review *domain.Review) (*domain.RatingSummary, error) {
	if err := s.validate.Struct(review); err != nil {
		s.logger.Error("Review validation failed", err)
		return nil, domain.ErrInvalidInput
	}

	review.Comment = s.filter.Clean(review.Comment)

	summary, err := s.repo.Upsert(ctx, review)
	if err != nil {
		s.logger.Error("Failed to upsert review", err)
		return nil, err
	}

	// Stale cache would show incorrect ratings on listings
	if err := s.cache.InvalidateProduct(ctx, review.ProductID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %s: %v", review.ProductID, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"review_id":      review.ID,
		"product_id":     review.ProductID,
		"rating":         review.Rating,
		"ratings":        summary.Ratings,
		"num_of_reviews": summary.NumOfReviews,
	}).Info("Review stored successfully")

	return summary, nil
}

// Delete removes a review and recomputes the product's aggregates.
// Deleting the last review leaves ratings at 0, not NaN.
func (s *Service) Delete(ctx context.Context, productID, reviewID uuid.UUID) (*domain.RatingSummary, error) {
	summary, err := s.repo.Delete(ctx, productID, reviewID)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Review not found: %s", reviewID)
		} else {
			s.logger.Error("Failed to delete review", err)
		}
		return nil, err
	}

	if err := s.cache.InvalidateProduct(ctx, productID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %s: %v", productID, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"review_id":      reviewID,
		"product_id":     productID,
		"num_of_reviews": summary.NumOfReviews,
	}).Info("Review deleted successfully")

	return summary, nil
}

// ListByProduct retrieves all reviews for a product
func (s *Service) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	reviews, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Product not found: %s", productID)
		} else {
			s.logger.Error("Failed to list reviews", err)
		}
		return nil, err
	}

	return reviews, nil
}

package category

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	pkgvalidator "github.com/sneakpeak/storefront/internal/pkg/validator"
)

const (
	defaultPublicLimit = 12
	defaultAdminLimit  = 20
)

// Service handles category business logic
type Service struct {
	repo     domain.CategoryRepository
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new category service
func NewService(repo domain.CategoryRepository, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: pkgvalidator.Get(),
		logger:   log,
	}
}

// Create creates a category. Names are unique case-insensitively.
func (s *Service) Create(ctx context.Context, category *domain.Category) error {
	if err := s.validate.Struct(category); err != nil {
		s.logger.Error("Category validation failed", err)
		return domain.ErrInvalidInput
	}

	exists, err := s.repo.ExistsByName(ctx, category.Name, uuid.Nil)
	if err != nil {
		s.logger.Error("Failed to check category name", err)
		return err
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	if err := s.repo.Create(ctx, category); err != nil {
		s.logger.Error("Failed to create category", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	}).Info("Category created successfully")

	return nil
}

// GetByID retrieves an active category. Soft-deleted categories read
// as not found on the public surface.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Category not found: %s", id)
		} else {
			s.logger.Error("Failed to get category", err)
		}
		return nil, err
	}

	if !category.IsActive {
		return nil, domain.ErrNotFound
	}

	return category, nil
}

// List retrieves one page of active categories, name-sorted. Unlike
// the catalog, a page past the end is rejected here.
func (s *Service) List(ctx context.Context, f domain.CategoryFilter) ([]*domain.Category, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = defaultPublicLimit
	}
	f.IncludeInactive = false

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		s.logger.Error("Failed to count categories", err)
		return nil, 0, err
	}

	totalPages := (total + f.Limit - 1) / f.Limit
	if f.Page > totalPages && totalPages > 0 {
		s.logger.Debugf("Category page %d out of range (%d pages)", f.Page, totalPages)
		return nil, 0, domain.ErrInvalidInput
	}

	categories, err := s.repo.List(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list categories", err)
		return nil, 0, err
	}

	return categories, total, nil
}

// AdminList retrieves categories including inactive ones
func (s *Service) AdminList(ctx context.Context, f domain.CategoryFilter) ([]*domain.Category, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = defaultAdminLimit
	}

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		s.logger.Error("Failed to count categories", err)
		return nil, 0, err
	}

	categories, err := s.repo.List(ctx, f)
	if err != nil {
		s.logger.Error("Failed to list categories", err)
		return nil, 0, err
	}

	return categories, total, nil
}

// Update updates a category, rejecting a rename that collides with
// another category's name
func (s *Service) Update(ctx context.Context, category *domain.Category) error {
	if err := s.validate.Struct(category); err != nil {
		s.logger.Error("Category validation failed", err)
		return domain.ErrInvalidInput
	}

	existing, err := s.repo.GetByID(ctx, category.ID)
	if err != nil {
		return err
	}

	if category.Name != existing.Name {
		taken, err := s.repo.ExistsByName(ctx, category.Name, category.ID)
		if err != nil {
			s.logger.Error("Failed to check category name", err)
			return err
		}
		if taken {
			return domain.ErrAlreadyExists
		}
	}

	if err := s.repo.Update(ctx, category); err != nil {
		s.logger.Error("Failed to update category", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	}).Info("Category updated successfully")

	return nil
}

// Delete soft-deletes a category. Deletion is blocked entirely while
// the category still has linked products.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.ProductCount(ctx, id)
	if err != nil {
		s.logger.Error("Failed to count category products", err)
		return err
	}
	if count > 0 {
		s.logger.WithFields(map[string]interface{}{
			"category_id":   id,
			"product_count": count,
		}).Warn("Category deletion blocked: linked products exist")
		return domain.ErrCategoryInUse
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		s.logger.Error("Failed to delete category", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"category_id": id,
	}).Info("Category soft-deleted successfully")

	return nil
}

// Restore re-activates a soft-deleted category
func (s *Service) Restore(ctx context.Context, id uuid.UUID, updatedBy *uuid.UUID) error {
	if err := s.repo.Restore(ctx, id, updatedBy); err != nil {
		s.logger.Error("Failed to restore category", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"category_id": id,
	}).Info("Category restored successfully")

	return nil
}

package product

import (
	"context"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sneakpeak/storefront/internal/catalog"
	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	pkgvalidator "github.com/sneakpeak/storefront/internal/pkg/validator"
)

// Cache caches catalog pages and product snapshots. Misses surface as
// domain.ErrNotFound.
type Cache interface {
	GetCatalogPage(ctx context.Context, cr catalog.Criteria) (*domain.ProductPage, error)
	SetCatalogPage(ctx context.Context, cr catalog.Criteria, page *domain.ProductPage) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	InvalidateProduct(ctx context.Context, id uuid.UUID) error
	InvalidateCatalogPages(ctx context.Context) error
}

// ImageStore uploads product images to object storage and returns
// their public URLs.
type ImageStore interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

// ImageUpload is one image payload supplied at product creation/update.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service handles product business logic
type Service struct {
	repo     domain.ProductRepository
	cache    Cache
	images   ImageStore
	pageSize int
	validate *validator.Validate
	logger   *logger.Logger
}

// NewService creates a new product service
func NewService(repo domain.ProductRepository, redisCache Cache, images ImageStore, pageSize int, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    redisCache,
		images:   images,
		pageSize: pageSize,
		validate: pkgvalidator.Get(),
		logger:   log,
	}
}

// List composes search, filter and pagination constraints from the
// request parameters and returns one catalog page. A page past the end
// comes back empty, not as an error.
func (s *Service) List(ctx context.Context, params url.Values) (*domain.ProductPage, error) {
	criteria := catalog.FromParams(params, s.pageSize)

	if page, err := s.cache.GetCatalogPage(ctx, criteria); err == nil {
		s.logger.Debugf("Cache hit for catalog page %d", criteria.Page)
		return page, nil
	}

	items, err := s.repo.List(ctx, criteria)
	if err != nil {
		s.logger.Error("Failed to list products", err)
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count products", err)
		return nil, err
	}

	page := &domain.ProductPage{
		Items:         items,
		FilteredCount: len(items),
		TotalCount:    total,
		PerPage:       criteria.PageSize,
	}

	if err := s.cache.SetCatalogPage(ctx, criteria, page); err != nil {
		s.logger.Warnf("Failed to cache catalog page: %v", err)
	}

	return page, nil
}

// ListAll retrieves every product for the admin view
func (s *Service) ListAll(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list all products", err)
		return nil, err
	}

	return products, nil
}

// GetByID retrieves a product by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if product, err := s.cache.GetProduct(ctx, id); err == nil {
		s.logger.Debugf("Cache hit for product %s", id)
		return product, nil
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Product not found: %s", id)
		} else {
			s.logger.Error("Failed to get product", err)
		}
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product); err != nil {
		s.logger.Warnf("Failed to cache product %s: %v", id, err)
	}

	return product, nil
}

// Create uploads the supplied images and creates the product. At least
// one image is required.
func (s *Service) Create(ctx context.Context, product *domain.Product, images []ImageUpload) error {
	if err := s.validate.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return domain.ErrInvalidInput
	}
	if len(images) == 0 {
		s.logger.Warn("Product creation rejected: no images supplied")
		return domain.ErrInvalidInput
	}

	urls, err := s.uploadImages(ctx, images)
	if err != nil {
		return err
	}
	product.Images = urls

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", err)
		return err
	}

	if err := s.cache.InvalidateCatalogPages(ctx); err != nil {
		s.logger.Warnf("Failed to invalidate catalog cache: %v", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product created successfully")

	return nil
}

// Update updates an existing product. When new images are supplied
// they replace the existing set; otherwise the current images stay.
func (s *Service) Update(ctx context.Context, product *domain.Product, images []ImageUpload) error {
	if err := s.validate.Struct(product); err != nil {
		s.logger.Error("Product validation failed", err)
		return domain.ErrInvalidInput
	}

	existing, err := s.repo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}

	product.Images = existing.Images
	if len(images) > 0 {
		urls, err := s.uploadImages(ctx, images)
		if err != nil {
			return err
		}
		product.Images = urls
	}

	if err := s.repo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", err)
		return err
	}

	if err := s.cache.InvalidateProduct(ctx, product.ID); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %s: %v", product.ID, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	}).Info("Product updated successfully")

	return nil
}

// Delete soft-deletes a product
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete product", err)
		return err
	}

	if err := s.cache.InvalidateProduct(ctx, id); err != nil {
		s.logger.Warnf("Failed to invalidate cache for product %s: %v", id, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"product_id": id,
	}).Info("Product deleted successfully")

	return nil
}

func (s *Service) uploadImages(ctx context.Context, images []ImageUpload) ([]string, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.images.Upload(ctx, img.Filename, img.ContentType, img.Data)
		if err != nil {
			s.logger.Error("Failed to upload product image", err)
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

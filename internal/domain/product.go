package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sneakpeak/storefront/internal/catalog"
)

// Product represents a catalog product. Ratings and NumOfReviews are
// derived from the product's reviews and are never set by clients.
type Product struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	Name         string         `json:"name" db:"name" validate:"required,min=1,max=255"`
	Description  *string        `json:"description,omitempty" db:"description"`
	Price        float64        `json:"price" db:"price" validate:"gte=0"`
	Stock        int            `json:"stock" db:"stock" validate:"gte=0"`
	CategoryID   *uuid.UUID     `json:"category_id,omitempty" db:"category_id"`
	Images       pq.StringArray `json:"images" db:"images"`
	Ratings      float64        `json:"ratings" db:"ratings"`
	NumOfReviews int            `json:"num_of_reviews" db:"num_of_reviews"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time     `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Review represents a single user's review of a product. A user can
// hold at most one review per product; re-submitting overwrites it.
type Review struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id" validate:"required"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" validate:"required"`
	UserName  string    `json:"user_name" db:"user_name" validate:"required,min=1,max=255"`
	Rating    int       `json:"rating" db:"rating" validate:"required,min=1,max=5"`
	Comment   string    `json:"comment" db:"comment" validate:"max=5000"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RatingSummary carries a product's derived review aggregates after a
// review mutation.
type RatingSummary struct {
	Ratings      float64 `json:"ratings" db:"ratings"`
	NumOfReviews int     `json:"num_of_reviews" db:"num_of_reviews"`
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Items         []*Product `json:"products"`
	FilteredCount int        `json:"filtered_products_count"`
	TotalCount    int        `json:"products_count"`
	PerPage       int        `json:"res_per_page"`
}

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// Create creates a new product
	Create(ctx context.Context, product *Product) error

	// GetByID retrieves a product by ID (excludes soft-deleted)
	GetByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// List retrieves products matching the criteria's constraints and page window
	List(ctx context.Context, c catalog.Criteria) ([]*Product, error)

	// ListAll retrieves every product without constraints (admin view)
	ListAll(ctx context.Context) ([]*Product, error)

	// Count returns the total unfiltered product count (excludes soft-deleted)
	Count(ctx context.Context) (int, error)

	// Update updates an existing product
	Update(ctx context.Context, product *Product) error

	// Delete soft-deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewRepository defines the interface for review data access.
// Mutations recompute the owning product's derived aggregates in the
// same transaction.
type ReviewRepository interface {
	// Upsert inserts the review, or overwrites rating and comment if the
	// user already reviewed the product, then recomputes the product's
	// aggregates. Returns the updated aggregates.
	Upsert(ctx context.Context, review *Review) (*RatingSummary, error)

	// Delete removes a review by ID and recomputes the product's
	// aggregates. Returns the updated aggregates.
	Delete(ctx context.Context, productID, reviewID uuid.UUID) (*RatingSummary, error)

	// GetByProductID retrieves all reviews for a product
	GetByProductID(ctx context.Context, productID uuid.UUID) ([]*Review, error)
}

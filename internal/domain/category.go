package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Category groups products. Categories are soft-deleted only: deletion
// flips IsActive and stamps DeletedAt, and is blocked entirely while
// the category still has linked products.
type Category struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name" validate:"required,min=2,max=50"`
	Description *string    `json:"description,omitempty" db:"description"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy   *uuid.UUID `json:"updated_by,omitempty" db:"updated_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// ProductCount is joined on reads, not stored.
	ProductCount int `json:"product_count" db:"product_count"`
}

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Search          string
	IncludeInactive bool
	Page            int
	Limit           int
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *Category) error

	// GetByID retrieves a category by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// ExistsByName reports whether a category with the given name exists,
	// compared case-insensitively, excluding the given ID (uuid.Nil to
	// exclude nothing)
	ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	// List retrieves categories matching the filter, name-sorted, with
	// product counts joined
	List(ctx context.Context, f CategoryFilter) ([]*Category, error)

	// Count returns the number of categories matching the filter
	Count(ctx context.Context, f CategoryFilter) (int, error)

	// Update updates an existing category
	Update(ctx context.Context, category *Category) error

	// SoftDelete marks a category inactive and stamps deleted_at
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// Restore re-activates a soft-deleted category
	Restore(ctx context.Context, id uuid.UUID, updatedBy *uuid.UUID) error

	// ProductCount returns the number of active products linked to a category
	ProductCount(ctx context.Context, id uuid.UUID) (int, error)
}

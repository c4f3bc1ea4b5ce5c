package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sneakpeak/storefront/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository for PostgreSQL
type CategoryRepository struct {
	db *sqlx.DB
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(db *sqlx.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name, description, is_active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		category.Name,
		category.Description,
		category.IsActive,
		category.CreatedBy,
		category.CreatedAt,
		category.UpdatedAt,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrAlreadyExists
	}

	return err
}

// GetByID retrieves a category by ID with its active-product count
func (r *CategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.description, c.is_active, c.created_by, c.updated_by,
		       c.created_at, c.updated_at, c.deleted_at,
		       (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.deleted_at IS NULL) AS product_count
		FROM categories c
		WHERE c.id = $1
	`

	var category domain.Category
	err := r.db.GetContext(ctx, &category, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &category, nil
}

// ExistsByName reports whether another category holds the name,
// compared case-insensitively
func (r *CategoryRepository) ExistsByName(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE LOWER(name) = LOWER($1) AND id <> $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, name, excludeID); err != nil {
		return false, err
	}

	return exists, nil
}

// List retrieves categories matching the filter with product counts joined
func (r *CategoryRepository) List(ctx context.Context, f domain.CategoryFilter) ([]*domain.Category, error) {
	where, args := buildCategoryWhere(f)

	query := fmt.Sprintf(`
		SELECT c.id, c.name, c.description, c.is_active, c.created_by, c.updated_by,
		       c.created_at, c.updated_at, c.deleted_at,
		       (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.deleted_at IS NULL) AS product_count
		FROM categories c
		WHERE %s
		ORDER BY c.name ASC
		LIMIT %d OFFSET %d
	`, where, f.Limit, (f.Page-1)*f.Limit)

	var categories []*domain.Category
	if err := r.db.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, err
	}

	return categories, nil
}

// Count returns the number of categories matching the filter
func (r *CategoryRepository) Count(ctx context.Context, f domain.CategoryFilter) (int, error) {
	where, args := buildCategoryWhere(f)

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM categories c WHERE %s`, where)
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}

	return count, nil
}

// Update updates an existing category
func (r *CategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $1, description = $2, is_active = $3, updated_by = $4, updated_at = $5
		WHERE id = $6
		RETURNING updated_at
	`

	category.UpdatedAt = time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		category.Name,
		category.Description,
		category.IsActive,
		category.UpdatedBy,
		category.UpdatedAt,
		category.ID,
	).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return err
	}

	return nil
}

// SoftDelete marks a category inactive and stamps deleted_at
func (r *CategoryRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE categories
		SET is_active = FALSE, deleted_at = $1, updated_at = $1
		WHERE id = $2 AND is_active = TRUE
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Restore re-activates a soft-deleted category
func (r *CategoryRepository) Restore(ctx context.Context, id uuid.UUID, updatedBy *uuid.UUID) error {
	query := `
		UPDATE categories
		SET is_active = TRUE, deleted_at = NULL, updated_by = $1, updated_at = $2
		WHERE id = $3 AND is_active = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, updatedBy, time.Now(), id)
	if err != nil {
		// The name may have been reused while this row sat deleted
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// ProductCount returns the number of active products linked to a category
func (r *CategoryRepository) ProductCount(ctx context.Context, id uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products WHERE category_id = $1 AND deleted_at IS NULL`
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, err
	}

	return count, nil
}

func buildCategoryWhere(f domain.CategoryFilter) (string, []interface{}) {
	where := "TRUE"
	var args []interface{}

	if !f.IncludeInactive {
		where = "c.is_active = TRUE"
	}

	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		where += fmt.Sprintf(" AND (c.name ILIKE $%d OR c.description ILIKE $%d)", len(args), len(args))
	}

	return where, args
}

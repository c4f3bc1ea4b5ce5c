package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sneakpeak/storefront/internal/catalog"
	"github.com/sneakpeak/storefront/internal/domain"
)

const productColumns = `id, name, description, price, stock, category_id, images, ratings, num_of_reviews, created_at, updated_at, deleted_at`

// ProductRepository implements domain.ProductRepository for PostgreSQL
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new PostgreSQL product repository
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create creates a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (name, description, price, stock, category_id, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, ratings, num_of_reviews, created_at, updated_at
	`

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.CategoryID,
		product.Images,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(
		&product.ID,
		&product.Ratings,
		&product.NumOfReviews,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		return err
	}

	return nil
}

// GetByID retrieves a product by ID
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id = $1 AND deleted_at IS NULL
	`, productColumns)

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &product, nil
}

// List retrieves one page of products matching the criteria. Search,
// filter and pagination constraints translate to WHERE/LIMIT/OFFSET in
// the order the criteria composed them.
func (r *ProductRepository) List(ctx context.Context, c catalog.Criteria) ([]*domain.Product, error) {
	where, args := buildProductWhere(c)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d
	`, productColumns, where, c.Limit(), c.Offset())

	var products []*domain.Product
	err := r.db.SelectContext(ctx, &products, query, args...)
	if err != nil {
		return nil, err
	}

	return products, nil
}

// ListAll retrieves every product for the admin view
func (r *ProductRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
	`, productColumns)

	var products []*domain.Product
	err := r.db.SelectContext(ctx, &products, query)
	if err != nil {
		return nil, err
	}

	return products, nil
}

// Count returns the total unfiltered product count
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM products WHERE deleted_at IS NULL`

	var count int
	err := r.db.GetContext(ctx, &count, query)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Update updates an existing product
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock = $4, category_id = $5, images = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL
		RETURNING ratings, num_of_reviews, updated_at
	`

	product.UpdatedAt = time.Now()

	err := r.db.QueryRowxContext(
		ctx,
		query,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.CategoryID,
		product.Images,
		product.UpdatedAt,
		product.ID,
	).Scan(&product.Ratings, &product.NumOfReviews, &product.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	return nil
}

// Delete soft-deletes a product
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE products
		SET deleted_at = $1
		WHERE id = $2 AND deleted_at IS NULL
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

// buildProductWhere renders the criteria's constraints as a WHERE
// clause with positional arguments. Attribute keys are resolved through
// the catalog whitelist, so no request value ever reaches the SQL text.
func buildProductWhere(c catalog.Criteria) (string, []interface{}) {
	conds := []string{"deleted_at IS NULL"}
	var args []interface{}

	if c.Keyword != "" {
		args = append(args, "%"+escapeLike(c.Keyword)+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}

	if c.MinPrice != nil {
		args = append(args, *c.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if c.MaxPrice != nil {
		args = append(args, *c.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	keys := make([]string, 0, len(c.Equals))
	for key := range c.Equals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		column, ok := catalog.AttributeColumns[key]
		if !ok {
			continue
		}
		args = append(args, c.Equals[key])
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	return strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE metacharacters so a search term matches
// literally instead of acting as a pattern
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

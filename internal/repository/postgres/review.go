package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sneakpeak/storefront/internal/domain"
)

// ReviewRepository implements domain.ReviewRepository for PostgreSQL.
// Every mutation recomputes the owning product's derived aggregates in
// the same transaction, so concurrent reviewers can never observe a
// product whose ratings disagree with its reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new PostgreSQL review repository
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert inserts the review, or overwrites rating and comment in place
// when the user already reviewed the product. The (product_id, user_id)
// unique constraint backs the one-review-per-user invariant.
func (r *ReviewRepository) Upsert(ctx context.Context, review *domain.Review) (*domain.RatingSummary, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Return domain.ErrNotFound instead of a cryptic foreign key violation
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND deleted_at IS NULL)`
	if err := tx.GetContext(ctx, &exists, checkQuery, review.ProductID); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	query := `
		INSERT INTO reviews (product_id, user_id, user_name, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowxContext(
		ctx,
		query,
		review.ProductID,
		review.UserID,
		review.UserName,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, err
	}

	summary, err := recomputeAggregates(ctx, tx, review.ProductID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return summary, nil
}

// Delete removes a review and recomputes the product's aggregates
func (r *ReviewRepository) Delete(ctx context.Context, productID, reviewID uuid.UUID) (*domain.RatingSummary, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1 AND product_id = $2`, reviewID, productID)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	summary, err := recomputeAggregates(ctx, tx, productID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return summary, nil
}

// GetByProductID retrieves all reviews for a product
func (r *ReviewRepository) GetByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	// Product existence is checked so a missing product reads as 404,
	// not an empty review list
	var exists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND deleted_at IS NULL)`
	if err := r.db.GetContext(ctx, &exists, checkQuery, productID); err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	query := `
		SELECT id, product_id, user_id, user_name, rating, comment, created_at, updated_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at DESC
	`

	var reviews []*domain.Review
	if err := r.db.SelectContext(ctx, &reviews, query, productID); err != nil {
		return nil, err
	}

	return reviews, nil
}

// recomputeAggregates rewrites the product's derived fields from the
// surviving reviews. COALESCE pins the mean of an empty set to 0
// instead of letting it surface as NULL/NaN.
func recomputeAggregates(ctx context.Context, tx *sqlx.Tx, productID uuid.UUID) (*domain.RatingSummary, error) {
	query := `
		UPDATE products
		SET
			ratings = COALESCE(
				(SELECT AVG(rating)::float8 FROM reviews WHERE product_id = $1),
				0
			),
			num_of_reviews = (SELECT COUNT(*) FROM reviews WHERE product_id = $1),
			updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ratings, num_of_reviews
	`

	var summary domain.RatingSummary
	err := tx.QueryRowxContext(ctx, query, productID, time.Now()).Scan(&summary.Ratings, &summary.NumOfReviews)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return &summary, nil
}

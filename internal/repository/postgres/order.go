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

// OrderRepository implements domain.OrderRepository for PostgreSQL
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new PostgreSQL order repository
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists the order and its line-item snapshots in one transaction
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (user_id, items_price, tax_price, shipping_price, total_price, payment_id, payment_status, status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	order.Status = domain.OrderStatusProcessing
	order.PaidAt = time.Now()

	err = tx.QueryRowxContext(
		ctx,
		query,
		order.UserID,
		order.ItemsPrice,
		order.TaxPrice,
		order.ShippingPrice,
		order.TotalPrice,
		order.PaymentID,
		order.PaymentStatus,
		order.Status,
		order.PaidAt,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return err
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for _, item := range order.Items {
		item.OrderID = order.ID
		if err := tx.QueryRowxContext(ctx, itemQuery, order.ID, item.ProductID, item.Name, item.Price, item.Quantity).Scan(&item.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves an order with its items and the owner's identity
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT o.id, o.user_id, o.items_price, o.tax_price, o.shipping_price, o.total_price,
		       o.payment_id, o.payment_status, o.status, o.paid_at, o.delivered_at, o.created_at,
		       u.name AS user_name, u.email AS user_email
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.id = $1
	`

	var order domain.Order
	err := r.db.GetContext(ctx, &order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

// ListByUser retrieves all orders owned by a user
func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, items_price, tax_price, shipping_price, total_price,
		       payment_id, payment_status, status, paid_at, delivered_at, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var orders []*domain.Order
	if err := r.db.SelectContext(ctx, &orders, query, userID); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// ListAll retrieves every order for the admin view
func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, user_id, items_price, tax_price, shipping_price, total_price,
		       payment_id, payment_status, status, paid_at, delivered_at, created_at
		FROM orders
		ORDER BY created_at DESC
	`

	var orders []*domain.Order
	if err := r.db.SelectContext(ctx, &orders, query); err != nil {
		return nil, err
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// UpdateStatusWithStock advances the order status and decrements stock
// for every line item inside one transaction, so a mid-operation fault
// can never leave stock inconsistent with the order status.
func (r *OrderRepository) UpdateStatusWithStock(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var currentStatus string
	err = tx.GetContext(ctx, &currentStatus, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if currentStatus == domain.OrderStatusDelivered {
		return nil, domain.ErrAlreadyDelivered
	}

	type stockItem struct {
		ProductID uuid.UUID `db:"product_id"`
		Quantity  int       `db:"quantity"`
	}
	var items []stockItem
	if err := tx.SelectContext(ctx, &items, `SELECT product_id, quantity FROM order_items WHERE order_id = $1`, id); err != nil {
		return nil, err
	}

	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`,
			item.Quantity, time.Now(), item.ProductID)
		if err != nil {
			return nil, err
		}
	}

	var deliveredAt *time.Time
	if status == domain.OrderStatusDelivered {
		now := time.Now()
		deliveredAt = &now
	}

	_, err = tx.ExecContext(ctx, `UPDATE orders SET status = $1, delivered_at = COALESCE($2, delivered_at) WHERE id = $3`, status, deliveredAt, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Delete removes an order; its items cascade at the schema level
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
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

func (r *OrderRepository) loadItems(ctx context.Context, order *domain.Order) error {
	query := `
		SELECT id, order_id, product_id, name, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`
	return r.db.SelectContext(ctx, &order.Items, query, order.ID)
}

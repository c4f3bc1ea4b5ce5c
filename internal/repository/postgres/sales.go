package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/sneakpeak/storefront/internal/domain"
)

// SalesRepository implements domain.SalesRepository for PostgreSQL.
// All queries are full scans over the order tables; the reports are
// admin-facing and the collection stays small at this scale.
type SalesRepository struct {
	db *sqlx.DB
}

// NewSalesRepository creates a new PostgreSQL sales repository
func NewSalesRepository(db *sqlx.DB) *SalesRepository {
	return &SalesRepository{db: db}
}

// ProductSales groups line items by the snapshotted product name and
// sums price * quantity per group
func (r *SalesRepository) ProductSales(ctx context.Context) ([]*domain.ProductRevenue, error) {
	query := `
		SELECT name, SUM(price * quantity) AS revenue
		FROM order_items
		GROUP BY name
		ORDER BY revenue DESC
	`

	var rows []*domain.ProductRevenue
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	return rows, nil
}

// ItemsGrandTotal sums items_price across all orders
func (r *SalesRepository) ItemsGrandTotal(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(items_price), 0) FROM orders`)
	if err != nil {
		return 0, err
	}

	return total, nil
}

// CustomerSales groups orders by owning user, sums total_price and
// joins the customer's display name. Equal totals order by name so the
// report is stable across runs.
func (r *SalesRepository) CustomerSales(ctx context.Context) ([]*domain.CustomerRevenue, error) {
	query := `
		SELECT u.name AS user_name, SUM(o.total_price) AS total
		FROM orders o
		JOIN users u ON u.id = o.user_id
		GROUP BY u.id, u.name
		ORDER BY total DESC, user_name ASC
	`

	var rows []*domain.CustomerRevenue
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	return rows, nil
}

// SalesPerMonth groups orders by (year, month) of paid_at and sums
// total_price per bucket. Ordering is applied by the service.
func (r *SalesRepository) SalesPerMonth(ctx context.Context) ([]*domain.MonthlyRevenue, error) {
	query := `
		SELECT EXTRACT(YEAR FROM paid_at)::int AS year,
		       EXTRACT(MONTH FROM paid_at)::int AS month,
		       SUM(total_price) AS total
		FROM orders
		GROUP BY 1, 2
	`

	var rows []*domain.MonthlyRevenue
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	return rows, nil
}

// TotalOrders counts all orders
func (r *SalesRepository) TotalOrders(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders`); err != nil {
		return 0, err
	}

	return count, nil
}

// TotalSales sums total_price across all orders
func (r *SalesRepository) TotalSales(ctx context.Context) (float64, error) {
	var total float64
	if err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(total_price), 0) FROM orders`); err != nil {
		return 0, err
	}

	return total, nil
}

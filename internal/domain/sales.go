package domain

import "context"

// ProductRevenue is the summed revenue of one product across all order
// line items, grouped by the snapshotted product name.
type ProductRevenue struct {
	Name    string  `json:"name" db:"name"`
	Revenue float64 `json:"revenue" db:"revenue"`
	Percent float64 `json:"percent"`
}

// CustomerRevenue is the summed order total of one customer.
type CustomerRevenue struct {
	UserName string  `json:"user_name" db:"user_name"`
	Total    float64 `json:"total" db:"total"`
}

// MonthlyRevenue is the summed order total of one (year, month) bucket
// of paid_at. Label carries the month abbreviation for display.
type MonthlyRevenue struct {
	Year  int     `json:"-" db:"year"`
	Month int     `json:"-" db:"month"`
	Label string  `json:"month"`
	Total float64 `json:"total" db:"total"`
}

// SalesRepository defines the read-only aggregation queries over the
// order collection.
type SalesRepository interface {
	// ProductSales groups order line items by product name and sums
	// price * quantity per group
	ProductSales(ctx context.Context) ([]*ProductRevenue, error)

	// ItemsGrandTotal sums items_price across all orders
	ItemsGrandTotal(ctx context.Context) (float64, error)

	// CustomerSales groups orders by owning user, sums total_price and
	// joins the user's display name
	CustomerSales(ctx context.Context) ([]*CustomerRevenue, error)

	// SalesPerMonth groups orders by (year, month) of paid_at and sums
	// total_price per bucket
	SalesPerMonth(ctx context.Context) ([]*MonthlyRevenue, error)

	// TotalOrders counts all orders
	TotalOrders(ctx context.Context) (int, error)

	// TotalSales sums total_price across all orders
	TotalSales(ctx context.Context) (float64, error)
}

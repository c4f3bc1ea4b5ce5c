package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order statuses form a forward-only lifecycle.
const (
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
)

// OrderItem is a snapshot of a purchased product. Name and price are
// copied at order time; later catalog changes never alter past orders.
type OrderItem struct {
	ID        int64     `json:"id" db:"id"`
	OrderID   uuid.UUID `json:"order_id" db:"order_id"`
	ProductID uuid.UUID `json:"product_id" db:"product_id" validate:"required"`
	Name      string    `json:"name" db:"name" validate:"required"`
	Price     float64   `json:"price" db:"price" validate:"gte=0"`
	Quantity  int       `json:"quantity" db:"quantity" validate:"required,gt=0"`
}

// Order represents a customer order with its line-item snapshots.
// The price breakdown is computed at creation and never recomputed.
type Order struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	UserID        uuid.UUID    `json:"user_id" db:"user_id"`
	Items         []*OrderItem `json:"order_items" validate:"required,min=1,dive"`
	ItemsPrice    float64      `json:"items_price" db:"items_price" validate:"gte=0"`
	TaxPrice      float64      `json:"tax_price" db:"tax_price" validate:"gte=0"`
	ShippingPrice float64      `json:"shipping_price" db:"shipping_price" validate:"gte=0"`
	TotalPrice    float64      `json:"total_price" db:"total_price" validate:"gte=0"`
	PaymentID     string       `json:"payment_id" db:"payment_id"`
	PaymentStatus string       `json:"payment_status" db:"payment_status"`
	Status        string       `json:"status" db:"status"`
	PaidAt        time.Time    `json:"paid_at" db:"paid_at"`
	DeliveredAt   *time.Time   `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`

	// Joined user identity, populated on single-order reads.
	UserName  string `json:"user_name,omitempty" db:"user_name"`
	UserEmail string `json:"user_email,omitempty" db:"user_email"`
}

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	// Create persists the order and its line items in one transaction
	Create(ctx context.Context, order *Order) error

	// GetByID retrieves an order with its items and the owner's name/email
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// ListByUser retrieves all orders owned by a user
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Order, error)

	// ListAll retrieves every order (admin view)
	ListAll(ctx context.Context) ([]*Order, error)

	// UpdateStatusWithStock sets the order status (stamping delivered_at)
	// and decrements stock for every line item in one transaction.
	// Returns ErrAlreadyDelivered if the order was already delivered.
	UpdateStatusWithStock(ctx context.Context, id uuid.UUID, status string) (*Order, error)

	// Delete removes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error
}

package order

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	pkgvalidator "github.com/sneakpeak/storefront/internal/pkg/validator"
)

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// OrderEvent represents an event related to an order
type OrderEvent struct {
	EventType string        `json:"event_type"`
	Timestamp time.Time     `json:"timestamp"`
	OrderID   uuid.UUID     `json:"order_id"`
	Order     *domain.Order `json:"order"`
}

// Service handles order business logic
type Service struct {
	repo      domain.OrderRepository
	publisher EventPublisher
	validate  *validator.Validate
	logger    *logger.Logger
}

// NewService creates a new order service
func NewService(repo domain.OrderRepository, publisher EventPublisher, log *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		validate:  pkgvalidator.Get(),
		logger:    log,
	}
}

// Create persists a new order. Line items are snapshots priced at
// order time; the breakdown arrives computed and is stored as-is.
func (s *Service) Create(ctx context.Context, order *domain.Order) error {
	if err := s.validate.Struct(order); err != nil {
		s.logger.Error("Order validation failed", err)
		return domain.ErrInvalidInput
	}

	if err := s.repo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", err)
		return err
	}

	// The receipt needs the owner's address; the insert returns only ids
	if stored, err := s.repo.GetByID(ctx, order.ID); err == nil {
		order.UserName = stored.UserName
		order.UserEmail = stored.UserEmail
	} else {
		s.logger.Warnf("Failed to load owner identity for order %s: %v", order.ID, err)
	}

	s.publishEvent(ctx, "order.created", order)

	s.logger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.TotalPrice,
	}).Info("Order created successfully")

	return nil
}

// GetByID retrieves an order with its owner's identity
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrNotFound {
			s.logger.Debugf("Order not found: %s", id)
		} else {
			s.logger.Error("Failed to get order", err)
		}
		return nil, err
	}

	return order, nil
}

// ListByUser retrieves the caller's own orders
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list user orders", err)
		return nil, err
	}

	return orders, nil
}

// ListAll retrieves every order plus the running total amount
func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, float64, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list orders", err)
		return nil, 0, err
	}

	var totalAmount float64
	for _, order := range orders {
		totalAmount += order.TotalPrice
	}

	return orders, totalAmount, nil
}

// UpdateStatus advances an order's status and decrements stock for its
// line items in one transaction. A delivered order cannot be updated
// again. The receipt notification rides on the published event and
// never fails the update.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	switch status {
	case domain.OrderStatusProcessing, domain.OrderStatusShipped, domain.OrderStatusDelivered:
	default:
		s.logger.Warnf("Rejected unknown order status %q", status)
		return nil, domain.ErrInvalidInput
	}

	order, err := s.repo.UpdateStatusWithStock(ctx, id, status)
	if err != nil {
		s.logger.Error("Failed to update order status", err)
		return nil, err
	}

	s.publishEvent(ctx, "order.updated", order)

	s.logger.WithFields(map[string]interface{}{
		"order_id": order.ID,
		"status":   order.Status,
	}).Info("Order status updated successfully")

	return order, nil
}

// Delete removes an order
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete order", err)
		return err
	}

	s.logger.WithFields(map[string]interface{}{
		"order_id": id,
	}).Info("Order deleted successfully")

	return nil
}

// publishEvent publishes an order event (non-blocking)
func (s *Service) publishEvent(ctx context.Context, eventType string, order *domain.Order) {
	event := OrderEvent{
		EventType: eventType,
		Timestamp: time.Now(),
		OrderID:   order.ID,
		Order:     order,
	}

	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Errorf(err, "Failed to marshal event for order %s", order.ID)
		return
	}

	// Publish in background to avoid blocking
	go func() {
		if err := s.publisher.Publish(context.Background(), "orders.events", data); err != nil {
			s.logger.Errorf(err, "Failed to publish event for order %s", order.ID)
		}
	}()
}

package notifier

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	"github.com/sneakpeak/storefront/internal/usecase/order"
)

// fakeSender counts deliveries and can be programmed to fail or stall.
// A stalled send ignores cancellation, like an SMTP dial stuck in a
// kernel-level connect.
type fakeSender struct {
	mu       sync.Mutex
	sent     []*domain.Order
	failures int
	delay    time.Duration
}

func (s *fakeSender) SendReceipt(ctx context.Context, o *domain.Order) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failures > 0 {
		s.failures--
		return assert.AnError
	}

	s.sent = append(s.sent, o)
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *fakeSender) lastOrder() *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		return nil
	}
	return s.sent[len(s.sent)-1]
}

func setupTestWorker() (*Worker, *fakeSender) {
	sender := &fakeSender{}
	return NewWorker(sender, logger.New("test")), sender
}

func orderEvent(o *domain.Order, ts time.Time) []byte {
	data, _ := json.Marshal(order.OrderEvent{
		EventType: "order.created",
		Timestamp: ts,
		OrderID:   o.ID,
		Order:     o,
	})
	return data
}

func TestWorker_HandleEvent_Success(t *testing.T) {
	worker, sender := setupTestWorker()

	o := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusProcessing, UserEmail: "shopper@example.com"}

	err := worker.HandleEvent(orderEvent(o, time.Now()))
	require.NoError(t, err)

	// Verify the receipt was scheduled
	assert.Equal(t, 1, worker.GetPendingCount())

	// Wait for debounce window + processing time
	time.Sleep(debounceWindow + 100*time.Millisecond)

	assert.Equal(t, 0, worker.GetPendingCount())
	assert.Equal(t, 1, sender.sentCount())
}

func TestWorker_HandleEvent_InvalidJSON(t *testing.T) {
	worker, _ := setupTestWorker()

	err := worker.HandleEvent([]byte(`{invalid json}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestWorker_HandleEvent_NilPayload(t *testing.T) {
	worker, sender := setupTestWorker()

	data, _ := json.Marshal(order.OrderEvent{
		EventType: "order.created",
		Timestamp: time.Now(),
		OrderID:   uuid.New(),
	})

	// Event without an order payload is skipped, not an error
	err := worker.HandleEvent(data)
	assert.NoError(t, err)
	assert.Equal(t, 0, worker.GetPendingCount())
	assert.Equal(t, 0, sender.sentCount())
}

func TestWorker_HandleEvent_NoRecipientSkipped(t *testing.T) {
	worker, sender := setupTestWorker()

	// An order persisted without its owner's email joined in
	o := &domain.Order{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Items: []*domain.OrderItem{
			{ProductID: uuid.New(), Name: "Air Max", Price: 120.0, Quantity: 1},
		},
		TotalPrice: 130.0,
		Status:     domain.OrderStatusProcessing,
	}

	err := worker.HandleEvent(orderEvent(o, time.Now()))
	assert.NoError(t, err)

	// Nothing scheduled, nothing retried
	assert.Equal(t, 0, worker.GetPendingCount())
	time.Sleep(debounceWindow + 100*time.Millisecond)
	assert.Equal(t, 0, sender.sentCount())
}

func TestWorker_Debouncing_MultipleEvents(t *testing.T) {
	worker, sender := setupTestWorker()

	o := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusProcessing, UserEmail: "shopper@example.com"}

	// Send 5 events for the same order within the debounce window
	for i := 0; i < 5; i++ {
		o.Status = domain.OrderStatusShipped
		err := worker.HandleEvent(orderEvent(o, time.Now()))
		assert.NoError(t, err)
		time.Sleep(50 * time.Millisecond)
	}

	// Should still have 1 pending receipt (debounced)
	assert.Equal(t, 1, worker.GetPendingCount())

	// Wait for debounce window + processing time
	time.Sleep(debounceWindow + 200*time.Millisecond)

	// Only one email, carrying the latest state
	assert.Equal(t, 1, sender.sentCount())
	assert.Equal(t, domain.OrderStatusShipped, sender.lastOrder().Status)
}

func TestWorker_EventOrdering_IgnoreStaleEvents(t *testing.T) {
	worker, sender := setupTestWorker()

	orderID := uuid.New()
	now := time.Now()

	// Newer event first
	newer := &domain.Order{ID: orderID, Status: domain.OrderStatusDelivered, UserEmail: "shopper@example.com"}
	err := worker.HandleEvent(orderEvent(newer, now.Add(10*time.Second)))
	require.NoError(t, err)

	// Older event should be ignored
	older := &domain.Order{ID: orderID, Status: domain.OrderStatusProcessing, UserEmail: "shopper@example.com"}
	err = worker.HandleEvent(orderEvent(older, now))
	require.NoError(t, err)

	assert.Equal(t, 1, worker.GetPendingCount())

	time.Sleep(debounceWindow + 200*time.Millisecond)

	require.Equal(t, 1, sender.sentCount())
	assert.Equal(t, domain.OrderStatusDelivered, sender.lastOrder().Status)
}

func TestWorker_MultipleOrders(t *testing.T) {
	worker, sender := setupTestWorker()

	for i := 0; i < 3; i++ {
		o := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusProcessing, UserEmail: "shopper@example.com"}
		err := worker.HandleEvent(orderEvent(o, time.Now()))
		assert.NoError(t, err)
	}

	assert.Equal(t, 3, worker.GetPendingCount())

	time.Sleep(debounceWindow + 300*time.Millisecond)

	assert.Equal(t, 0, worker.GetPendingCount())
	assert.Equal(t, 3, sender.sentCount())
}

func TestWorker_GracefulShutdown(t *testing.T) {
	worker, sender := setupTestWorker()

	o := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusProcessing, UserEmail: "shopper@example.com"}
	err := worker.HandleEvent(orderEvent(o, time.Now()))
	require.NoError(t, err)

	// Wait for processing to start
	time.Sleep(debounceWindow + 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = worker.Shutdown(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, worker.GetPendingCount())
	assert.Equal(t, 1, sender.sentCount())
}

func TestWorker_ShutdownCancelsPendingReceipts(t *testing.T) {
	worker, sender := setupTestWorker()

	o := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusProcessing, UserEmail: "shopper@example.com"}
	err := worker.HandleEvent(orderEvent(o, time.Now()))
	require.NoError(t, err)

	assert.Equal(t, 1, worker.GetPendingCount())

	// Shutdown immediately, before the debounce window elapses
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err = worker.Shutdown(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, worker.GetPendingCount())
	assert.Equal(t, 0, sender.sentCount())
}

func TestWorker_ShutdownAtDispatchBoundary(t *testing.T) {
	worker, _ := setupTestWorker()

	// Timers fire right as Shutdown drains the pending map; an already
	// fired timer must not be counted down a second time.
	for i := 0; i < 10; i++ {
		o := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusProcessing, UserEmail: "shopper@example.com"}
		require.NoError(t, worker.HandleEvent(orderEvent(o, time.Now())))
	}

	time.Sleep(debounceWindow)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := worker.Shutdown(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, worker.GetPendingCount())
}

func TestWorker_ShutdownTimeout(t *testing.T) {
	worker, sender := setupTestWorker()
	sender.delay = 10 * time.Second

	o := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusProcessing, UserEmail: "shopper@example.com"}
	err := worker.HandleEvent(orderEvent(o, time.Now()))
	require.NoError(t, err)

	// Wait for processing to start
	time.Sleep(debounceWindow + 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = worker.Shutdown(ctx)
	assert.Error(t, err)
	assert.Equal(t, context.DeadlineExceeded, err)
}

func TestWorker_RetryLogic(t *testing.T) {
	worker, sender := setupTestWorker()
	sender.failures = 2

	o := &domain.Order{ID: uuid.New(), Status: domain.OrderStatusProcessing, UserEmail: "shopper@example.com"}
	err := worker.HandleEvent(orderEvent(o, time.Now()))
	require.NoError(t, err)

	// Wait for debounce + 3 attempts with backoff
	time.Sleep(debounceWindow + 1*time.Second)

	assert.Equal(t, 1, sender.sentCount())
}

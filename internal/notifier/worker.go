package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sneakpeak/storefront/internal/domain"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
	"github.com/sneakpeak/storefront/internal/usecase/order"
)

const (
	// Debounce window - collect events for same order within this duration
	debounceWindow = 1 * time.Second

	// Retry configuration
	maxRetries     = 3
	initialBackoff = 100 * time.Millisecond
)

// Sender delivers a receipt for an order
type Sender interface {
	SendReceipt(ctx context.Context, order *domain.Order) error
}

// Worker processes order events and sends receipt emails asynchronously.
// Status flaps within the debounce window collapse into one email
// carrying the latest state.
type Worker struct {
	sender Sender
	logger *logger.Logger

	// Debouncing state
	mu          sync.Mutex
	pendingJobs map[uuid.UUID]*pendingJob
	shutdownCh  chan struct{}
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

type pendingJob struct {
	order     *domain.Order
	timestamp time.Time
	timer     *time.Timer
}

// NewWorker creates a new receipt worker
func NewWorker(sender Sender, log *logger.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		sender:      sender,
		logger:      log,
		pendingJobs: make(map[uuid.UUID]*pendingJob),
		shutdownCh:  make(chan struct{}),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// HandleEvent processes an order event
func (w *Worker) HandleEvent(data []byte) error {
	var event order.OrderEvent
	if err := json.Unmarshal(data, &event); err != nil {
		w.logger.Error("Failed to unmarshal order event", err)
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.Order == nil {
		w.logger.Warnf("Order event %s for %s carries no payload, skipping", event.EventType, event.OrderID)
		return nil
	}

	// No recipient means no receipt; retrying would never help
	if event.Order.UserEmail == "" {
		w.logger.Warnf("Order event %s for %s carries no recipient email, skipping", event.EventType, event.OrderID)
		return nil
	}

	w.logger.WithFields(map[string]interface{}{
		"event_type": event.EventType,
		"order_id":   event.OrderID.String(),
		"timestamp":  event.Timestamp,
	}).Info("Received order event")

	w.scheduleReceipt(event.Order, event.Timestamp)

	return nil
}

// scheduleReceipt implements debouncing logic.
// Multiple events for the same order within the window result in one email.
func (w *Worker) scheduleReceipt(o *domain.Order, timestamp time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.shutdownCh:
		w.logger.Info("Worker shutting down, ignoring new event")
		return
	default:
	}

	existing, found := w.pendingJobs[o.ID]

	if found {
		// Ignore stale events
		if timestamp.Before(existing.timestamp) {
			w.logger.WithFields(map[string]interface{}{
				"order_id":    o.ID.String(),
				"existing_ts": existing.timestamp,
				"event_ts":    timestamp,
			}).Debug("Ignoring stale event")
			return
		}

		existing.timer.Stop()
		w.logger.WithFields(map[string]interface{}{
			"order_id": o.ID.String(),
		}).Debug("Debouncing: resetting timer for order")
	} else {
		w.wg.Add(1)
	}

	orderID := o.ID
	timer := time.AfterFunc(debounceWindow, func() {
		w.processReceipt(orderID)
	})

	w.pendingJobs[o.ID] = &pendingJob{
		order:     o,
		timestamp: timestamp,
		timer:     timer,
	}
}

// processReceipt sends the receipt with retry logic
func (w *Worker) processReceipt(orderID uuid.UUID) {
	defer w.wg.Done()

	w.mu.Lock()
	job, ok := w.pendingJobs[orderID]
	delete(w.pendingJobs, orderID)
	w.mu.Unlock()

	if !ok {
		return
	}

	w.logger.WithFields(map[string]interface{}{
		"order_id": orderID.String(),
	}).Info("Sending order receipt")

	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			w.logger.WithFields(map[string]interface{}{
				"order_id":   orderID.String(),
				"attempt":    attempt + 1,
				"backoff_ms": backoff.Milliseconds(),
			}).Warn("Retrying receipt delivery")

			select {
			case <-time.After(backoff):
			case <-w.ctx.Done():
				w.logger.Info("Worker context cancelled, aborting retry")
				return
			}

			backoff *= 2
		}

		ctx, cancel := context.WithTimeout(w.ctx, 10*time.Second)
		err := w.sender.SendReceipt(ctx, job.order)
		cancel()

		if err == nil {
			return
		}

		lastErr = err
		w.logger.WithFields(map[string]interface{}{
			"order_id": orderID.String(),
			"attempt":  attempt + 1,
			"error":    err.Error(),
		}).Error("Failed to send receipt", err)
	}

	// Receipts are best-effort: exhausted retries are logged, never re-queued
	w.logger.WithFields(map[string]interface{}{
		"order_id":    orderID.String(),
		"max_retries": maxRetries,
		"error":       lastErr.Error(),
	}).Error("Receipt delivery failed after all retries", lastErr)
}

// Shutdown gracefully shuts down the worker.
// Cancels pending timers and waits for in-flight sends to complete.
func (w *Worker) Shutdown(ctx context.Context) error {
	w.logger.Info("Shutting down receipt worker...")

	close(w.shutdownCh)
	w.cancel()

	// A timer that already fired owns its wg.Done via processReceipt;
	// only undrained timers may be counted down here.
	w.mu.Lock()
	pendingCount := 0
	for _, job := range w.pendingJobs {
		if job.timer.Stop() {
			w.wg.Done()
			pendingCount++
		}
	}
	w.pendingJobs = make(map[uuid.UUID]*pendingJob)
	w.mu.Unlock()

	w.logger.WithFields(map[string]interface{}{
		"cancelled_receipts": pendingCount,
	}).Info("Cancelled pending receipts")

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("All in-flight receipts completed")
		return nil
	case <-ctx.Done():
		w.logger.Warn("Shutdown timeout reached, forcing exit")
		return ctx.Err()
	}
}

// GetPendingCount returns the number of pending receipts (used for monitoring/testing)
func (w *Worker) GetPendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pendingJobs)
}

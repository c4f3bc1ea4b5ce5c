package events

import (
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/sneakpeak/storefront/internal/config"
	"github.com/sneakpeak/storefront/internal/pkg/logger"
)

// Consumer handles consuming events from NATS JetStream
type Consumer struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	logger *logger.Logger
	sub    *nats.Subscription
}

// NewConsumer creates a new NATS JetStream consumer
func NewConsumer(cfg *config.Config, log *logger.Logger) (*Consumer, error) {
	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	log.Infof("Connected to NATS at %s", cfg.NATS.URL)

	return &Consumer{
		nc:     nc,
		js:     js,
		logger: log,
	}, nil
}

// JetStream returns the JetStream context for stream management
func (c *Consumer) JetStream() nats.JetStreamContext {
	return c.js
}

// Subscribe binds the durable consumer and processes messages with the
// handler. Messages are acked on success and left for redelivery on
// failure.
func (c *Consumer) Subscribe(handler func(data []byte) error) error {
	sub, err := c.js.Subscribe(StreamSubjects, func(msg *nats.Msg) {
		c.logger.Debugf("Received message on subject %s", msg.Subject)

		if err := handler(msg.Data); err != nil {
			c.logger.Errorf(err, "Failed to handle message on subject %s", msg.Subject)
			return
		}

		if err := msg.Ack(); err != nil {
			c.logger.Errorf(err, "Failed to ack message on subject %s", msg.Subject)
		}
	}, nats.Durable(ConsumerName), nats.ManualAck())

	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", StreamSubjects, err)
	}

	c.sub = sub
	c.logger.Infof("Subscribed to NATS subject: %s", StreamSubjects)
	return nil
}

// Close closes the NATS connection
func (c *Consumer) Close() {
	if c.sub != nil {
		if err := c.sub.Unsubscribe(); err != nil {
			c.logger.Warnf("Failed to unsubscribe from NATS: %v", err)
		}
	}
	if c.nc != nil {
		c.nc.Close()
		c.logger.Info("NATS consumer connection closed")
	}
}

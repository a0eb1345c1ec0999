package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nerrad567/telemetry-core/internal/infrastructure/config"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/logging"
)

// prefetchCount limits unacknowledged deliveries to one at a time, so a
// reading is settled before the next is handed over.
const prefetchCount = 1

// Client wraps the AMQP connection and channel with Telemetry Core-specific
// topology and reconnect handling.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	cfg    config.RabbitMQConfig
	logger *logging.Logger

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	closed  bool
}

// Connect establishes a connection to the broker with bounded retries.
//
// Each attempt dials, opens a channel and declares the topology. Attempts
// are spaced by the configured startup delay; exhausting them fails startup.
//
// Parameters:
//   - ctx: Context for cancellation between attempts
//   - cfg: RabbitMQ configuration from config.yaml
//   - logger: Structured logger
//
// Returns:
//   - *Client: Connected client with declared topology
//   - error: ErrConnectionFailed after the last attempt, or ctx.Err()
func Connect(ctx context.Context, cfg config.RabbitMQConfig, logger *logging.Logger) (*Client, error) {
	c := &Client{
		cfg:    cfg,
		logger: logger.With("component", "rabbitmq"),
	}

	attempts := cfg.Connect.StartupAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(cfg.Connect.StartupDelay) * time.Second

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.dial(); err != nil {
			lastErr = err
			c.logger.Warn("broker connection attempt failed",
				"attempt", attempt,
				"max_attempts", attempts,
				"error", err,
			)
			if attempt == attempts {
				break
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		c.logger.Info("connected to broker",
			"exchange", cfg.Exchange,
			"queue", cfg.Queue,
			"routing_key", cfg.RoutingKey,
		)
		return c, nil
	}

	return nil, fmt.Errorf("%w: after %d attempts: %w", ErrConnectionFailed, attempts, lastErr)
}

// dial opens a fresh connection, channel and topology, replacing any
// previous ones.
func (c *Client) dial() error {
	conn, err := amqp.Dial(c.cfg.URL)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("channel open: %w", err)
	}

	if err := declareTopology(channel, c.cfg); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return err
	}

	c.mu.Lock()
	c.closeLocked()
	c.conn = conn
	c.channel = channel
	c.closed = false
	c.mu.Unlock()
	return nil
}

// declareTopology declares the durable topic exchange and queue, binds them
// and applies the prefetch window.
func declareTopology(channel *amqp.Channel, cfg config.RabbitMQConfig) error {
	if err := channel.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := channel.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	if err := channel.QueueBind(cfg.Queue, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("queue bind: %w", err)
	}
	if err := channel.Qos(prefetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}
	return nil
}

// consume starts delivering messages from the configured queue with manual
// acknowledgements.
func (c *Client) consume(consumerTag string) (<-chan amqp.Delivery, error) {
	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()

	if channel == nil {
		return nil, ErrNotConnected
	}
	deliveries, err := channel.Consume(c.cfg.Queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume setup: %w", err)
	}
	return deliveries, nil
}

// reconnect tears down the current connection and dials again. Used for
// steady-state channel faults; there is no attempt bound here.
func (c *Client) reconnect() error {
	return c.dial()
}

// Close shuts down the channel and connection. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	c.closed = true
}

func (c *Client) closeLocked() {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Debug("channel close failed", "error", err)
		}
		c.channel = nil
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Debug("connection close failed", "error", err)
		}
		c.conn = nil
	}
}

package mongodb

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nerrad567/telemetry-core/internal/infrastructure/config"
)

// defaultConnectTimeout is used when the config does not specify one.
const defaultConnectTimeout = 10 * time.Second

// Client wraps the MongoDB driver client with Telemetry Core-specific
// connection management.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client *mongo.Client
	cfg    config.MongoConfig

	connected bool
	mu        sync.RWMutex
}

// Connect establishes a connection to the MongoDB server.
//
// It performs the following setup:
//  1. Connects using the configured URI
//  2. Verifies connectivity with a ping
//
// Parameters:
//   - ctx: Context for cancellation
//   - cfg: Mongo configuration from config.yaml
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: If the connection or ping fails within the timeout
func Connect(ctx context.Context, cfg config.MongoConfig) (*Client, error) {
	timeout := defaultConnectTimeout
	if cfg.ConnectTimeout > 0 {
		timeout = time.Duration(cfg.ConnectTimeout) * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: ping failed: %w", ErrConnectionFailed, err)
	}

	return &Client{
		client:    client,
		cfg:       cfg,
		connected: true,
	}, nil
}

// Collection returns the configured readings collection.
func (c *Client) Collection() *mongo.Collection {
	return c.client.Database(c.cfg.Database).Collection(c.cfg.Collection)
}

// HealthCheck verifies the MongoDB connection is alive and functioning.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (c *Client) HealthCheck(ctx context.Context) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	if err := c.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongodb health check: %w", err)
	}
	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Close gracefully disconnects from MongoDB.
//
// Returns:
//   - error: If the disconnect fails
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()

	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongodb disconnect: %w", err)
	}
	return nil
}

package rabbitmq

import "errors"

// Domain-specific errors for broker operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnectionFailed indicates the broker could not be reached within
	// the bounded startup retry budget.
	ErrConnectionFailed = errors.New("rabbitmq: connection failed")

	// ErrChannelClosed indicates the deliveries channel closed outside of a
	// requested shutdown.
	ErrChannelClosed = errors.New("rabbitmq: deliveries channel closed")

	// ErrNotConnected indicates an operation on a closed client.
	ErrNotConnected = errors.New("rabbitmq: not connected")
)

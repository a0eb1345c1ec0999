package mongodb

import "errors"

// Sentinel errors for MongoDB operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnectionFailed indicates the initial connection or ping failed.
	ErrConnectionFailed = errors.New("mongodb: connection failed")

	// ErrNotConnected indicates the client has been closed.
	ErrNotConnected = errors.New("mongodb: not connected")
)

// Package mongodb provides MongoDB connectivity for Telemetry Core.
//
// It wraps the official mongo-driver with the connection lifecycle pattern
// used by the other infrastructure packages:
//
//	client, err := mongodb.Connect(ctx, cfg.Mongo)
//	if err != nil {
//	    return err
//	}
//	defer client.Close(ctx)
//
// Concurrency is delegated to the driver's own pooling: a single writer
// (the message consumer) and many readers (request handlers) share the
// same client safely.
package mongodb

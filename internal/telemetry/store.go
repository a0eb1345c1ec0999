package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nerrad567/telemetry-core/internal/infrastructure/logging"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/mongodb"
)

// Store persists Readings in a MongoDB collection, append-only.
//
// Insert reports failure to the caller so the consumer can classify it for
// acknowledgment. All read paths swallow storage errors into empty results
// with a log entry: a reachable but empty collection and a failing collection
// look the same to request handlers.
type Store struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

// NewStore creates a Store over the configured readings collection.
func NewStore(client *mongodb.Client, logger *logging.Logger) *Store {
	return &Store{
		collection: client.Collection(),
		logger:     logger.With("component", "reading_store"),
	}
}

// Insert appends a Reading and assigns its storage identifier.
//
// Duplicate device/timestamp pairs are stored as separate documents; the
// store performs no deduplication.
//
// Returns:
//   - error: If the write fails. The caller decides what that means for
//     message acknowledgment.
func (s *Store) Insert(ctx context.Context, r *Reading) error {
	res, err := s.collection.InsertOne(ctx, r)
	if err != nil {
		s.logger.Error("insert failed", "device_id", r.DeviceID, "error", err)
		return fmt.Errorf("inserting reading: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		r.ID = id
	}
	s.logger.Debug("reading stored", "device_id", r.DeviceID, "timestamp", r.Timestamp)
	return nil
}

// ListAll returns up to limit readings across all devices, newest first.
func (s *Store) ListAll(ctx context.Context, limit int) []Reading {
	return s.find(ctx, bson.D{}, limit)
}

// ListForDevice returns up to limit readings for one device, newest first.
func (s *Store) ListForDevice(ctx context.Context, deviceID string, limit int) []Reading {
	return s.find(ctx, bson.D{{Key: "device_id", Value: deviceID}}, limit)
}

// LatestForDevice returns the most recent reading for a device, or nil when
// the device has none.
func (s *Store) LatestForDevice(ctx context.Context, deviceID string) *Reading {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})

	var r Reading
	err := s.collection.FindOne(ctx, bson.D{{Key: "device_id", Value: deviceID}}, opts).Decode(&r)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Error("latest query failed", "device_id", deviceID, "error", err)
		}
		return nil
	}
	return &r
}

// RangeForDevice returns readings for a device whose timestamp lies within
// [start, end], newest first.
//
// Bounds are compared as strings against the stored timestamps. Callers must
// supply normalised RFC3339 UTC bounds; see the package documentation.
func (s *Store) RangeForDevice(ctx context.Context, deviceID, start, end string) []Reading {
	filter := bson.D{
		{Key: "device_id", Value: deviceID},
		{Key: "timestamp", Value: bson.D{
			{Key: "$gte", Value: start},
			{Key: "$lte", Value: end},
		}},
	}
	return s.find(ctx, filter, 0)
}

// find runs a filtered query sorted newest first. A limit of 0 means no limit.
func (s *Store) find(ctx context.Context, filter bson.D, limit int) []Reading {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		s.logger.Error("find failed", "error", err)
		return []Reading{}
	}
	defer cursor.Close(ctx)

	readings := []Reading{}
	if err := cursor.All(ctx, &readings); err != nil {
		s.logger.Error("cursor decode failed", "error", err)
		return []Reading{}
	}
	return readings
}

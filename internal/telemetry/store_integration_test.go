//go:build integration

package telemetry

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/nerrad567/telemetry-core/internal/infrastructure/config"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/logging"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/mongodb"
)

// Integration tests for the MongoDB reading store.
// These tests require a running MongoDB instance.
//
// Run with:
//   go test -tags=integration -v ./internal/telemetry/...
//
// Override the default URI with TELEMETRY_TEST_MONGO_URI.

func setupStore(t *testing.T) *Store {
	t.Helper()

	uri := os.Getenv("TELEMETRY_TEST_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, config.MongoConfig{
		URI:        uri,
		Database:   "telemetry_core_test",
		Collection: "device_data_test",
	})
	if err != nil {
		t.Skipf("mongodb not available: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Collection().Drop(context.Background())
		_ = client.Close(context.Background())
	})

	return NewStore(client, logging.Default())
}

func TestStore_InsertAssignsID(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	r := Reading{
		DeviceID:    "sensor-1",
		Temperature: floatPtr(21.5),
		Timestamp:   "2025-01-28T10:00:00Z",
		EventType:   "device.data",
	}
	if err := store.Insert(ctx, &r); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if r.ID.IsZero() {
		t.Error("Insert() did not assign a storage identifier")
	}
}

func TestStore_DuplicatesBothStored(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	// Two identical envelopes must both be stored; the pipeline never dedupes.
	for i := 0; i < 2; i++ {
		r := Reading{
			DeviceID:    "sensor-dup",
			Temperature: floatPtr(19.0),
			Timestamp:   "2025-01-28T10:00:00Z",
		}
		if err := store.Insert(ctx, &r); err != nil {
			t.Fatalf("Insert() #%d error = %v", i+1, err)
		}
	}

	got := store.ListForDevice(ctx, "sensor-dup", 10)
	if len(got) != 2 {
		t.Errorf("ListForDevice() returned %d readings, want 2", len(got))
	}
}

func TestStore_ListOrderingAndLimit(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	stamps := []string{
		"2025-01-28T10:00:00Z",
		"2025-01-28T11:00:00Z",
		"2025-01-28T09:00:00Z",
	}
	for _, ts := range stamps {
		r := Reading{DeviceID: "sensor-ord", Temperature: floatPtr(20.0), Timestamp: ts}
		if err := store.Insert(ctx, &r); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got := store.ListForDevice(ctx, "sensor-ord", 2)
	if len(got) != 2 {
		t.Fatalf("ListForDevice() returned %d readings, want 2", len(got))
	}
	if got[0].Timestamp != "2025-01-28T11:00:00Z" {
		t.Errorf("first reading timestamp = %q, want newest", got[0].Timestamp)
	}
	if got[1].Timestamp != "2025-01-28T10:00:00Z" {
		t.Errorf("second reading timestamp = %q, want second newest", got[1].Timestamp)
	}
}

func TestStore_LatestForDevice(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if got := store.LatestForDevice(ctx, "missing-device"); got != nil {
		t.Errorf("LatestForDevice() for unknown device = %+v, want nil", got)
	}

	for _, ts := range []string{"2025-01-28T10:00:00Z", "2025-01-28T12:00:00Z"} {
		r := Reading{DeviceID: "sensor-latest", Temperature: floatPtr(22.0), Timestamp: ts}
		if err := store.Insert(ctx, &r); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got := store.LatestForDevice(ctx, "sensor-latest")
	if got == nil {
		t.Fatal("LatestForDevice() = nil, want reading")
	}
	if got.Timestamp != "2025-01-28T12:00:00Z" {
		t.Errorf("LatestForDevice().Timestamp = %q, want newest", got.Timestamp)
	}
}

func TestStore_RangeForDevice(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, ts := range []string{
		"2025-01-28T09:00:00Z",
		"2025-01-28T10:30:00Z",
		"2025-01-28T12:00:00Z",
	} {
		r := Reading{DeviceID: "sensor-range", Temperature: floatPtr(20.0), Timestamp: ts}
		if err := store.Insert(ctx, &r); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}

	got := store.RangeForDevice(ctx, "sensor-range", "2025-01-28T10:00:00Z", "2025-01-28T11:00:00Z")
	if len(got) != 1 {
		t.Fatalf("RangeForDevice() returned %d readings, want 1", len(got))
	}
	if got[0].Timestamp != "2025-01-28T10:30:00Z" {
		t.Errorf("RangeForDevice()[0].Timestamp = %q, want in-range reading", got[0].Timestamp)
	}
}

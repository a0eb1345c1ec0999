// Package telemetry defines the Reading document and its MongoDB-backed store.
//
// A Reading is one ingested sensor sample. Readings are sparse by design:
// absent fields are omitted on the wire and in storage, never defaulted to
// zero. Once stored a Reading is immutable; the store is append-only and has
// no update or delete path.
//
// # Timestamp Ordering
//
// Timestamps are stored as the ISO-8601 strings the devices supplied and range
// queries compare them as strings. This is a string-ordering contract, not a
// true datetime comparison: callers must supply a single normalised format
// (RFC3339 UTC) for the comparison to be meaningful. The HTTP boundary
// normalises range bounds before querying.
//
// # Error Handling
//
// Read operations never fail towards the caller: a storage error is logged
// and converted into an empty result. Insert returns an explicit error so the
// message consumer can decide acknowledgment based on persistence outcome.
package telemetry

package telemetry

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reading is one ingested telemetry sample for a device.
//
// Optional fields are pointers with omitempty tags so that absent values are
// omitted from both the stored document and the JSON wire form, matching the
// sparse payloads the devices send. End-device agents additionally report
// host metrics (cpu, memory, disk).
type Reading struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DeviceID      string             `bson:"device_id" json:"device_id"`
	Temperature   *float64           `bson:"temperature,omitempty" json:"temperature,omitempty"`
	Humidity      *float64           `bson:"humidity,omitempty" json:"humidity,omitempty"`
	CPU           *float64           `bson:"cpu,omitempty" json:"cpu,omitempty"`
	MemoryPercent *float64           `bson:"memory_percent,omitempty" json:"memory_percent,omitempty"`
	DiskPercent   *float64           `bson:"disk_percent,omitempty" json:"disk_percent,omitempty"`
	Status        *string            `bson:"status,omitempty" json:"status,omitempty"`
	Timestamp     string             `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
	EventType     string             `bson:"event_type,omitempty" json:"event_type,omitempty"`
}

// timestampLayouts are accepted on top of RFC3339. Devices occasionally send
// naive timestamps without a zone suffix; those are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp string as the devices send them.
//
// A trailing "Z" and numeric offsets are handled via RFC3339; zone-less
// timestamps are treated as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// NormalizeTimestamp converts any accepted timestamp form to RFC3339 UTC,
// the single format range-query bounds must use for string ordering to hold.
func NormalizeTimestamp(s string) (string, error) {
	t, err := ParseTimestamp(s)
	if err != nil {
		return "", err
	}
	return t.Format(time.RFC3339), nil
}

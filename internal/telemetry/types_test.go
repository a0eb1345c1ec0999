package telemetry

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func floatPtr(v float64) *float64 { return &v }

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // RFC3339 UTC, empty means error expected
	}{
		{name: "zulu suffix", input: "2025-01-28T10:00:00Z", want: "2025-01-28T10:00:00Z"},
		{name: "numeric offset", input: "2025-01-28T12:00:00+02:00", want: "2025-01-28T10:00:00Z"},
		{name: "naive treated as UTC", input: "2025-01-28T10:00:00", want: "2025-01-28T10:00:00Z"},
		{name: "fractional seconds", input: "2025-01-28T10:00:00.500Z", want: "2025-01-28T10:00:00Z"},
		{name: "empty", input: "", want: ""},
		{name: "garbage", input: "yesterday", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.want == "" {
				if err == nil {
					t.Fatalf("ParseTimestamp(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) error = %v", tt.input, err)
			}
			if got.Truncate(time.Second).Format(time.RFC3339) != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTimestamp(t *testing.T) {
	got, err := NormalizeTimestamp("2025-01-28T12:30:00+02:00")
	if err != nil {
		t.Fatalf("NormalizeTimestamp() error = %v", err)
	}
	if got != "2025-01-28T10:30:00Z" {
		t.Errorf("NormalizeTimestamp() = %q, want %q", got, "2025-01-28T10:30:00Z")
	}
}

func TestReading_JSONOmitsAbsentFields(t *testing.T) {
	r := Reading{
		DeviceID:    "sensor-1",
		Temperature: floatPtr(21.5),
		Timestamp:   "2025-01-28T10:00:00Z",
		EventType:   "device.data",
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	s := string(data)
	for _, absent := range []string{"humidity", "cpu", "memory_percent", "disk_percent", "status"} {
		if strings.Contains(s, absent) {
			t.Errorf("marshalled reading contains absent field %q: %s", absent, s)
		}
	}
	if !strings.Contains(s, `"temperature":21.5`) {
		t.Errorf("marshalled reading missing temperature: %s", s)
	}
}

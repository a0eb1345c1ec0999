package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/telemetry-core/internal/telemetry"
)

// WriteReading mirrors the numeric fields of a reading as one point in the
// device_metrics measurement, tagged by device. Absent fields are not
// written. Readings with no numeric field at all are skipped.
//
// The point carries the reading's own timestamp when it parses, otherwise
// the current time. The write is non-blocking; data is batched and sent
// asynchronously.
func (c *Client) WriteReading(r telemetry.Reading) {
	if !c.IsConnected() {
		return
	}

	fields := map[string]interface{}{}
	add := func(name string, v *float64) {
		if v != nil {
			fields[name] = *v
		}
	}
	add("temperature", r.Temperature)
	add("humidity", r.Humidity)
	add("cpu", r.CPU)
	add("memory_percent", r.MemoryPercent)
	add("disk_percent", r.DiskPercent)

	if len(fields) == 0 {
		return
	}

	ts, err := telemetry.ParseTimestamp(r.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}

	point := write.NewPoint(
		"device_metrics",
		map[string]string{
			"device_id": r.DeviceID,
		},
		fields,
		ts,
	)

	c.writeAPI.WritePoint(point)
}

// WriteDeviceMetric writes a single named device measurement.
//
// Use this for values that are not part of a stored reading, such as
// derived metrics.
//
// Example:
//
//	client.WriteDeviceMetric("pi-01", "predicted_temperature", 21.5)
func (c *Client) WriteDeviceMetric(deviceID string, measurement string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_metrics",
		map[string]string{
			"device_id":   deviceID,
			"measurement": measurement,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

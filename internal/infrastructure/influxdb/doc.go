// Package influxdb mirrors numeric reading fields into InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. MongoDB remains the
// system of record; this mirror exists for dashboarding and retention-based
// downsampling of device metrics. The mirror is optional and best-effort:
// when disabled or unreachable the telemetry pipeline runs without it, and
// write failures never affect message settlement.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    // run without the mirror
//	}
//	defer client.Close()
//
//	client.WriteReading(reading)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes; errors are
// delivered via the SetOnError callback.
package influxdb

package analytics

import (
	"math"
	"sort"

	"github.com/nerrad567/telemetry-core/internal/telemetry"
)

// Compare measures how far each device's recent temperature readings deviate
// from the current outdoor weather.
//
// Readings are grouped by device in the order supplied, capped at
// MaxReadingsPerDevice per device, and entries without a temperature are
// ignored. A device is anomalous when its average deviates from the weather
// temperature by strictly more than AnomalyThreshold degrees. The device list
// is sorted by device ID.
//
// With no current weather available the result is the defined empty shape:
// nil city and temperatures, empty device list.
func Compare(current *CurrentConditions, readings []telemetry.Reading) WeatherAnalysis {
	result := WeatherAnalysis{
		AnomalyThresholdCelsius: AnomalyThreshold,
		Devices:                 []DeviceComparison{},
	}
	if current == nil {
		return result
	}

	city := current.City
	result.City = &city
	result.WeatherTemp = current.Temperature
	result.WeatherHumidity = current.Humidity

	// A missing weather temperature degrades to 0.0 rather than aborting,
	// so device averages still come back.
	weatherTemp := 0.0
	if current.Temperature != nil {
		weatherTemp = *current.Temperature
	}

	perDevice := map[string][]float64{}
	var order []string
	for _, r := range readings {
		if r.Temperature == nil || r.DeviceID == "" {
			continue
		}
		temps, seen := perDevice[r.DeviceID]
		if !seen {
			order = append(order, r.DeviceID)
		}
		if len(temps) >= MaxReadingsPerDevice {
			continue
		}
		perDevice[r.DeviceID] = append(temps, *r.Temperature)
	}

	for _, id := range order {
		temps := perDevice[id]

		var sum, absErr float64
		for _, t := range temps {
			sum += t
			absErr += math.Abs(t - weatherTemp)
		}
		avg := sum / float64(len(temps))
		deviation := avg - weatherTemp

		result.Devices = append(result.Devices, DeviceComparison{
			DeviceID:     id,
			AvgTemp:      round2(avg),
			Deviation:    round2(deviation),
			IsAnomaly:    math.Abs(deviation) > AnomalyThreshold,
			MeanAbsError: round2(absErr / float64(len(temps))),
			SampleCount:  len(temps),
		})
	}

	sort.Slice(result.Devices, func(i, j int) bool {
		return result.Devices[i].DeviceID < result.Devices[j].DeviceID
	})
	return result
}

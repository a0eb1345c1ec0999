package analytics

import (
	"github.com/nerrad567/telemetry-core/internal/telemetry"
)

// secondsPerHour spaces the 24 model evaluation points.
const secondsPerHour = 3600.0

// Blend24h forecasts the next 24 hours by combining the fitted device model
// with the external hourly weather forecast.
//
// For hour i (1-based) the model is evaluated at lastTimestamp + i*3600s,
// clipped to that hour's weather temperature ± WeatherAnchorMargin, and
// blended as blendFactor*model + (1-blendFactor)*weather. Hours whose weather
// entry carries no usable time cannot be resolved; fewer than 24 resolved
// hours fails the whole forecast.
//
// Returns:
//   - *BlendedForecast: Exactly 24 hourly entries
//   - error: ErrInsufficientData (under two usable sensor points or under 24
//     weather hours) or ErrIncompleteForecast (unresolvable hours)
func (e *Engine) Blend24h(points []telemetry.Reading, weatherHours []WeatherHour, blendFactor float64) (*BlendedForecast, error) {
	if len(weatherHours) < 24 {
		return nil, ErrInsufficientData
	}

	times, values := extractSeries(points)
	if len(times) < 2 {
		return nil, ErrInsufficientData
	}

	model := e.forecaster.Fit(times, values)
	lastTS := times[len(times)-1]

	hourly := make([]HourlyBlend, 0, 24)
	for i, wh := range weatherHours[:24] {
		if wh.Time == "" {
			continue
		}

		ourPred := model.Predict(lastTS + float64(i+1)*secondsPerHour)

		// Missing weather temperature anchors the hour to the model itself,
		// which degrades the blend to the clipped model value.
		weatherTemp := ourPred
		if wh.Temperature != nil {
			weatherTemp = *wh.Temperature
		}

		ourClipped, _ := clip(ourPred, &weatherTemp, WeatherAnchorMargin)
		blended := round2(blendFactor*ourClipped + (1.0-blendFactor)*weatherTemp)

		entry := HourlyBlend{
			Time:         wh.Time,
			OurModelTemp: round2(ourClipped),
			BlendedTemp:  blended,
		}
		if wh.Temperature != nil {
			wt := round2(weatherTemp)
			entry.WeatherTemp = &wt
		}
		hourly = append(hourly, entry)
	}

	if len(hourly) < 24 {
		return nil, ErrIncompleteForecast
	}

	return &BlendedForecast{
		Hourly:         hourly,
		Method:         e.forecaster.Name() + "_blended",
		BlendFactor:    blendFactor,
		BasedOnNPoints: len(values),
	}, nil
}

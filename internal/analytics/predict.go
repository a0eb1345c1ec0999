package analytics

import (
	"math"

	"github.com/nerrad567/telemetry-core/internal/telemetry"
)

// Engine computes device forecasts with the Forecaster selected at startup.
type Engine struct {
	forecaster Forecaster
}

// NewEngine creates an Engine using the given Forecaster variant.
func NewEngine(f Forecaster) *Engine {
	return &Engine{forecaster: f}
}

// Method returns the name of the configured forecasting method.
func (e *Engine) Method() string {
	return e.forecaster.Name()
}

// PredictNext forecasts the temperature horizonSeconds after the last
// supplied reading.
//
// Points must be in chronological order; entries without a parseable
// timestamp or a temperature are skipped. The result is clipped to
// [weatherAnchor-anchorMargin, weatherAnchor+anchorMargin] when an anchor is
// given, else to the fixed realistic window, and rounded to two decimals.
// RawPrediction is reported only when clipping changed the value.
//
// Returns:
//   - *Prediction: The forecast
//   - error: ErrInsufficientData when fewer than two usable points remain
func (e *Engine) PredictNext(points []telemetry.Reading, horizonSeconds float64, weatherAnchor *float64, anchorMargin float64) (*Prediction, error) {
	times, values := extractSeries(points)
	if len(times) < 2 {
		return nil, ErrInsufficientData
	}

	model := e.forecaster.Fit(times, values)
	raw := model.Predict(times[len(times)-1] + horizonSeconds)
	clipped, wasClipped := clip(raw, weatherAnchor, anchorMargin)

	p := &Prediction{
		PredictedTemperature: round2(clipped),
		BasedOnNPoints:       len(values),
		HorizonSeconds:       horizonSeconds,
		Method:               e.forecaster.Name(),
		WasClipped:           wasClipped,
	}
	if wasClipped {
		rawRounded := round2(raw)
		p.RawPrediction = &rawRounded
	}
	return p, nil
}

// extractSeries converts readings into parallel (unix seconds, temperature)
// slices, preserving order and skipping unusable entries.
func extractSeries(points []telemetry.Reading) (times, values []float64) {
	for _, p := range points {
		if p.Temperature == nil {
			continue
		}
		ts, err := telemetry.ParseTimestamp(p.Timestamp)
		if err != nil {
			continue
		}
		times = append(times, float64(ts.UnixNano())/1e9)
		values = append(values, *p.Temperature)
	}
	return times, values
}

// clip bounds a prediction to a realistic window.
//
// With an anchor: [anchor-margin, anchor+margin]. Without: the fixed global
// window. Reports whether the raw value fell outside.
func clip(pred float64, weatherAnchor *float64, anchorMargin float64) (float64, bool) {
	low, high := GlobalTempMin, GlobalTempMax
	if weatherAnchor != nil {
		low = *weatherAnchor - anchorMargin
		high = *weatherAnchor + anchorMargin
	}

	wasClipped := pred < low || pred > high
	return math.Max(low, math.Min(high, pred)), wasClipped
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

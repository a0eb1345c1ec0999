package analytics

import "strings"

// Model evaluates a fitted forecast at a point in time.
type Model interface {
	// Predict returns the modelled temperature at the given Unix timestamp
	// (seconds, fractional allowed).
	Predict(unixSeconds float64) float64
}

// Forecaster fits a Model over observed (timestamp, temperature) pairs.
//
// Implementations are stateless and safe for concurrent use; each Fit call
// returns an independent Model.
type Forecaster interface {
	// Name identifies the method in prediction results.
	Name() string

	// Fit builds a model from parallel slices of at least two elements.
	Fit(times, values []float64) Model
}

// NewForecaster selects the Forecaster variant for the configured method.
// Unrecognised methods fall back to the linear variant.
func NewForecaster(method string) Forecaster {
	if strings.EqualFold(method, "mean") {
		return MeanForecaster{}
	}
	return LinearForecaster{}
}

// LinearForecaster fits an ordinary least-squares line of temperature over
// time. When the inputs carry no time variance the fit degenerates to the
// mean, which keeps Predict defined for duplicate timestamps.
type LinearForecaster struct{}

// Name implements Forecaster.
func (LinearForecaster) Name() string { return "linear_regression" }

// Fit implements Forecaster.
func (LinearForecaster) Fit(times, values []float64) Model {
	n := float64(len(times))

	var sumT, sumV float64
	for i := range times {
		sumT += times[i]
		sumV += values[i]
	}
	meanT := sumT / n
	meanV := sumV / n

	var covTV, varT float64
	for i := range times {
		dt := times[i] - meanT
		covTV += dt * (values[i] - meanV)
		varT += dt * dt
	}

	if varT == 0 {
		return flatModel{value: meanV}
	}

	slope := covTV / varT
	return lineModel{
		slope:     slope,
		intercept: meanV - slope*meanT,
	}
}

// MeanForecaster predicts the arithmetic mean of observed temperatures,
// flat across any horizon. It is the fallback when regression is not wanted.
type MeanForecaster struct{}

// Name implements Forecaster.
func (MeanForecaster) Name() string { return "average" }

// Fit implements Forecaster.
func (MeanForecaster) Fit(_, values []float64) Model {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return flatModel{value: sum / float64(len(values))}
}

type lineModel struct {
	slope     float64
	intercept float64
}

func (m lineModel) Predict(unixSeconds float64) float64 {
	return m.slope*unixSeconds + m.intercept
}

type flatModel struct {
	value float64
}

func (m flatModel) Predict(_ float64) float64 {
	return m.value
}

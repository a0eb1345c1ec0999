// Package analytics computes temperature forecasts and weather comparisons
// from stored device readings.
//
// # Forecasting
//
// Device forecasts come from a Forecaster fitted over (elapsed seconds,
// temperature) pairs. Two variants exist: least-squares linear regression and
// a flat mean. The variant is selected once at startup from config, never
// per call.
//
// Predicted values are always clipped to a realistic window: around a weather
// anchor (± the anchor margin) when one is supplied, otherwise the fixed
// range GlobalTempMin..GlobalTempMax. Unclipped extrapolations from a few
// noisy sensor points can otherwise reach triple-digit temperatures.
//
// # Fail-Closed Results
//
// Every operation returns ErrInsufficientData (or ErrIncompleteForecast)
// rather than a partial or best-guess answer when input is insufficient.
// The HTTP boundary maps these to 4xx responses.
//
// # Input Ordering
//
// Callers supply readings in chronological order for forecasts and in
// most-recent-first order for weather analysis. The package never re-sorts
// its input.
package analytics

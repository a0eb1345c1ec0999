package analytics

import "errors"

// Domain-specific errors for forecast operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInsufficientData indicates too few usable points to fit a model.
	// A fit requires at least two points with parseable timestamp and
	// temperature.
	ErrInsufficientData = errors.New("analytics: insufficient data points")

	// ErrIncompleteForecast indicates fewer than 24 resolvable weather hours.
	// The 24h blend is all-or-nothing; no partial forecast is produced.
	ErrIncompleteForecast = errors.New("analytics: incomplete weather forecast")
)

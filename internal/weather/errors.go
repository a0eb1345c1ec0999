package weather

import "errors"

// Domain-specific errors for weather operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrUpstreamUnavailable indicates the Open-Meteo API could not be
	// reached, returned a failure status, or the circuit breaker is open.
	ErrUpstreamUnavailable = errors.New("weather: upstream unavailable")

	// ErrEmptyQuery indicates a city search with a blank query.
	ErrEmptyQuery = errors.New("weather: empty search query")
)

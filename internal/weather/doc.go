// Package weather is an Open-Meteo client for current conditions, hourly and
// daily forecasts, and city geocoding. Open-Meteo needs no API key.
//
// Calls go through a circuit breaker so a degraded upstream fails fast
// instead of tying up request handlers. Every method returns an error when
// the upstream cannot be reached; callers decide how to degrade.
package weather

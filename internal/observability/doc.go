// Package observability exposes Prometheus metrics for the telemetry
// pipeline: bus consumption outcomes, live broadcast fan-out, WebSocket
// client count, Open-Meteo API health and HTTP request statistics.
//
// Metrics live on a private registry so tests and embedding binaries do not
// collide with the default one. Serve them with MetricsHandler.
package observability

package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Consumed bus messages by outcome: stored, ignored, malformed,
	// persist_failed. Watch the malformed and persist_failed rates.
	MessagesConsumedTotal *prometheus.CounterVec

	// Live broadcast fan-out by outcome: sent, dropped. A sustained dropped
	// rate means the hub buffer is undersized or clients are stalled.
	BroadcastsTotal *prometheus.CounterVec

	// Currently connected WebSocket clients.
	WebSocketClients prometheus.Gauge

	// Open-Meteo API calls by endpoint (current, forecast, geocoding) and
	// status (ok, error).
	WeatherAPICallsTotal *prometheus.CounterVec

	// Open-Meteo API latency per endpoint.
	WeatherAPIDuration *prometheus.HistogramVec

	// HTTP request rate by method, route and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	MessagesConsumedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_messages_consumed_total",
			Help: "Bus messages consumed, by outcome",
		},
		[]string{"outcome"},
	)
	BroadcastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_broadcasts_total",
			Help: "Live reading broadcasts, by outcome",
		},
		[]string{"outcome"},
	)
	WebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "telemetry_websocket_clients",
			Help: "Connected WebSocket clients",
		},
	)
	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_weather_api_calls_total",
			Help: "Open-Meteo API calls, by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telemetry_weather_api_duration_seconds",
			Help:    "Open-Meteo API latency in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telemetry_http_requests_total",
			Help: "HTTP requests served, by method, route and status code",
		},
		[]string{"method", "route", "status_code"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "telemetry_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	registry.MustRegister(
		MessagesConsumedTotal, BroadcastsTotal, WebSocketClients,
		WeatherAPICallsTotal, WeatherAPIDuration,
		HTTPRequestsTotal, HTTPRequestDuration,
	)
}

// Message consumption outcomes.
const (
	OutcomeStored        = "stored"
	OutcomeIgnored       = "ignored"
	OutcomeMalformed     = "malformed"
	OutcomePersistFailed = "persist_failed"
)

// MetricsHandler returns an http.Handler serving application and runtime
// metrics in Prometheus exposition format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

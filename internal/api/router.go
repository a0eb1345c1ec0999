package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/telemetry-core/internal/observability"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.metricsMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1/monitoring", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Handle("/metrics", observability.MetricsHandler())

		// Stored readings
		r.Route("/data", func(r chi.Router) {
			r.Get("/", s.handleListData)
			r.Post("/", s.handleCreateData)

			r.Route("/{device_id}", func(r chi.Router) {
				r.Get("/", s.handleDeviceData)
				r.Get("/latest", s.handleDeviceLatest)
				r.Get("/range", s.handleDeviceRange)
				r.Get("/predict", s.handlePredict)
				r.Get("/predict-weather-aware", s.handlePredictWeatherAware)
			})
		})

		// Weather
		r.Route("/weather", func(r chi.Router) {
			r.Get("/current", s.handleWeatherCurrent)
			r.Get("/forecast", s.handleWeatherForecast)
			r.Get("/search-city", s.handleWeatherSearchCity)
			r.Get("/analysis", s.handleWeatherAnalysis)
			r.Get("/prediction-24h", s.handlePrediction24h)
		})

		// Live telemetry feed
		wsPath := s.wsCfg.Path
		if wsPath == "" {
			wsPath = "/ws"
		}
		r.Get(wsPath, s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}

package api

import (
	"errors"
	"net/http"

	"github.com/nerrad567/telemetry-core/internal/analytics"
	"github.com/nerrad567/telemetry-core/internal/weather"
)

// Weather endpoint parameter bounds.
const (
	defaultForecastDays = 7
	minForecastDays     = 1
	maxForecastDays     = 7

	defaultCityCount = 5
	minCityCount     = 1
	maxCityCount     = 10

	defaultAnalysisLimit = 100
	minAnalysisLimit     = 10
	maxAnalysisLimit     = 500
)

// handleWeatherCurrent returns current outdoor conditions for a location.
func (s *Server) handleWeatherCurrent(w http.ResponseWriter, r *http.Request) {
	if s.weather == nil {
		writeUpstreamUnavailable(w, "weather service unavailable")
		return
	}

	lat, lon, city, err := s.location(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	current, err := s.weather.FetchCurrent(r.Context(), lat, lon, city)
	if err != nil {
		s.logger.Warn("current weather fetch failed", "city", city, "error", err)
		writeUpstreamUnavailable(w, "weather service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, current)
}

// handleWeatherForecast returns the daily and hourly outlook for a location.
func (s *Server) handleWeatherForecast(w http.ResponseWriter, r *http.Request) {
	if s.weather == nil {
		writeUpstreamUnavailable(w, "weather service unavailable")
		return
	}

	lat, lon, city, err := s.location(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	days, err := queryInt(r, "days", defaultForecastDays, minForecastDays, maxForecastDays)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	forecast, err := s.weather.FetchForecast(r.Context(), lat, lon, city, days)
	if err != nil {
		s.logger.Warn("weather forecast fetch failed", "city", city, "error", err)
		writeUpstreamUnavailable(w, "weather forecast service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, forecast)
}

// citySearchResponse wraps geocoding results.
type citySearchResponse struct {
	Query   string         `json:"query"`
	Results []weather.City `json:"results"`
}

// handleSearchCity resolves a city name to coordinate candidates.
func (s *Server) handleWeatherSearchCity(w http.ResponseWriter, r *http.Request) {
	if s.weather == nil {
		writeUpstreamUnavailable(w, "weather service unavailable")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" || len(query) > maxQueryParamLen {
		writeBadRequest(w, "q is required")
		return
	}
	count, err := queryInt(r, "count", defaultCityCount, minCityCount, maxCityCount)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cities, err := s.weather.SearchCities(r.Context(), query, count)
	if err != nil {
		if errors.Is(err, weather.ErrEmptyQuery) {
			writeBadRequest(w, "q is required")
			return
		}
		s.logger.Warn("city search failed", "query", query, "error", err)
		writeUpstreamUnavailable(w, "geocoding service unavailable")
		return
	}
	if cities == nil {
		cities = []weather.City{}
	}

	writeJSON(w, http.StatusOK, citySearchResponse{Query: query, Results: cities})
}

// handleWeatherAnalysis compares recent device readings against current
// outdoor weather and flags anomalous devices.
func (s *Server) handleWeatherAnalysis(w http.ResponseWriter, r *http.Request) {
	if s.weather == nil {
		writeUpstreamUnavailable(w, "weather service unavailable")
		return
	}

	lat, lon, city, err := s.location(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	limit, err := queryInt(r, "limit_data", defaultAnalysisLimit, minAnalysisLimit, maxAnalysisLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	current, err := s.weather.FetchCurrent(r.Context(), lat, lon, city)
	if err != nil {
		s.logger.Warn("weather fetch failed for analysis", "city", city, "error", err)
		writeUpstreamUnavailable(w, "weather service unavailable")
		return
	}

	readings := s.store.ListAll(r.Context(), limit)

	analysis := analytics.Compare(&analytics.CurrentConditions{
		City:        current.City,
		Temperature: current.Temperature,
		Humidity:    current.Humidity,
	}, readings)

	writeJSON(w, http.StatusOK, analysis)
}

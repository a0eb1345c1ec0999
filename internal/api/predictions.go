package api

import (
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/telemetry-core/internal/analytics"
	"github.com/nerrad567/telemetry-core/internal/telemetry"
	"github.com/nerrad567/telemetry-core/internal/weather"
)

// Prediction parameter bounds.
const (
	defaultPredictLimit = 30
	minPredictLimit     = 2
	maxPredictLimit     = 100

	defaultHorizonSeconds = 60.0
	minHorizonSeconds     = 1.0
	maxHorizonSeconds     = 3600.0

	defaultWeatherHorizonSeconds = 3600.0
	minWeatherHorizonSeconds     = 60.0
	maxWeatherHorizonSeconds     = 86400.0

	defaultWeatherAwareBlend = 0.6
	defaultBlend24h          = 0.5

	default24hLimit = 50
	min24hLimit     = 5
	max24hLimit     = 200

	// anomalyBlendThreshold is the device-vs-weather gap above which the
	// device model loses most of its blend weight. A sensor predicting
	// 81 degrees against a 4 degree forecast is reporting its own fault,
	// not the room.
	anomalyBlendThreshold = 15.0
	anomalyForcedBlend    = 0.25
)

// chronological reverses newest-first store output into the oldest-first
// order the prediction engine expects.
func chronological(data []telemetry.Reading) []telemetry.Reading {
	points := make([]telemetry.Reading, len(data))
	for i, r := range data {
		points[len(data)-1-i] = r
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// predictionResponse is a device-scoped prediction result.
type predictionResponse struct {
	DeviceID string `json:"device_id"`
	analytics.Prediction
}

// handlePredict forecasts a device's temperature a short horizon ahead,
// from its recent readings alone.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "device_id")
	if deviceID == "" || len(deviceID) > maxQueryParamLen {
		writeBadRequest(w, "invalid device ID")
		return
	}

	horizon, err := queryFloat(r, "horizon_seconds", defaultHorizonSeconds, minHorizonSeconds, maxHorizonSeconds)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", defaultPredictLimit, minPredictLimit, maxPredictLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	data := s.store.ListForDevice(r.Context(), deviceID, limit)
	if len(data) == 0 {
		writeNotFound(w, "no data found for device "+deviceID)
		return
	}

	prediction, err := s.engine.PredictNext(chronological(data), horizon, nil, analytics.WeatherAnchorMargin)
	if err != nil {
		writeBadRequest(w, "not enough data points with temperature for prediction")
		return
	}

	writeJSON(w, http.StatusOK, predictionResponse{
		DeviceID:   deviceID,
		Prediction: *prediction,
	})
}

// weatherAwareResponse blends the device model with the next-hour weather
// forecast.
type weatherAwareResponse struct {
	DeviceID                   string   `json:"device_id"`
	City                       string   `json:"city"`
	DevicePrediction           float64  `json:"device_prediction"`
	WeatherNextHour            *float64 `json:"weather_next_hour"`
	WeatherAwarePrediction     float64  `json:"weather_aware_prediction"`
	BlendFactor                float64  `json:"blend_factor"`
	HorizonSeconds             float64  `json:"horizon_seconds"`
	AnomalyCorrected           bool     `json:"anomaly_corrected"`
	PredictionBoundedByWeather bool     `json:"prediction_bounded_by_weather"`
	RawPredictionBeforeBound   *float64 `json:"raw_prediction_before_bound"`
}

// handlePredictWeatherAware forecasts a device's temperature anchored to and
// blended with the outdoor forecast.
//
// The device model is clipped to the next-hour weather temperature plus or
// minus the anchor margin before blending. When the clipped model still sits
// more than anomalyBlendThreshold away from the weather, the blend weight is
// forced down to anomalyForcedBlend and the response says so. A dead weather
// upstream degrades to a pure device prediction rather than failing.
func (s *Server) handlePredictWeatherAware(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "device_id")
	if deviceID == "" || len(deviceID) > maxQueryParamLen {
		writeBadRequest(w, "invalid device ID")
		return
	}

	lat, lon, city, err := s.location(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	horizon, err := queryFloat(r, "horizon_seconds", defaultWeatherHorizonSeconds, minWeatherHorizonSeconds, maxWeatherHorizonSeconds)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", defaultPredictLimit, minPredictLimit, maxPredictLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	blendFactor, err := queryFloat(r, "blend_factor", defaultWeatherAwareBlend, 0.0, 1.0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	var weatherNextHour *float64
	if s.weather != nil {
		forecast, ferr := s.weather.FetchForecast(r.Context(), lat, lon, city, 1)
		if ferr == nil && forecast.NextHour != nil {
			weatherNextHour = forecast.NextHour.Temperature
		} else if ferr != nil {
			s.logger.Warn("weather unavailable for weather-aware prediction", "error", ferr)
		}
	}

	data := s.store.ListForDevice(r.Context(), deviceID, limit)
	if len(data) == 0 {
		writeNotFound(w, "no data found for device "+deviceID)
		return
	}

	prediction, err := s.engine.PredictNext(chronological(data), horizon, weatherNextHour, analytics.WeatherAnchorMargin)
	if err != nil {
		writeBadRequest(w, "not enough data points with temperature for prediction")
		return
	}

	devicePred := prediction.PredictedTemperature
	effectiveBlend := blendFactor
	blended := devicePred
	if weatherNextHour != nil {
		if math.Abs(devicePred-*weatherNextHour) > anomalyBlendThreshold {
			effectiveBlend = anomalyForcedBlend
		}
		blended = round2(effectiveBlend*devicePred + (1.0-effectiveBlend)**weatherNextHour)
	}

	writeJSON(w, http.StatusOK, weatherAwareResponse{
		DeviceID:                   deviceID,
		City:                       city,
		DevicePrediction:           devicePred,
		WeatherNextHour:            weatherNextHour,
		WeatherAwarePrediction:     blended,
		BlendFactor:                effectiveBlend,
		HorizonSeconds:             horizon,
		AnomalyCorrected:           effectiveBlend != blendFactor,
		PredictionBoundedByWeather: prediction.WasClipped,
		RawPredictionBeforeBound:   prediction.RawPrediction,
	})
}

// blended24hResponse is a device-scoped 24h blended forecast.
type blended24hResponse struct {
	DeviceID string `json:"device_id"`
	City     string `json:"city"`
	analytics.BlendedForecast
}

// handlePrediction24h produces the 24-hour forecast blending the device
// model with the hourly weather outlook. Unlike the single-horizon
// weather-aware endpoint, this one cannot run without the upstream: a dead
// weather service is a 503.
func (s *Server) handlePrediction24h(w http.ResponseWriter, r *http.Request) {
	deviceID := r.URL.Query().Get("device_id")
	if deviceID == "" || len(deviceID) > maxQueryParamLen {
		writeBadRequest(w, "device_id is required")
		return
	}

	lat, lon, city, err := s.location(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	blendFactor, err := queryFloat(r, "blend_factor", defaultBlend24h, 0.0, 1.0)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	limit, err := queryInt(r, "limit", default24hLimit, min24hLimit, max24hLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if s.weather == nil {
		writeUpstreamUnavailable(w, "weather service unavailable")
		return
	}
	forecast, err := s.weather.FetchForecast(r.Context(), lat, lon, city, 2)
	if err != nil || len(forecast.Hourly24) == 0 {
		writeUpstreamUnavailable(w, "weather forecast service unavailable")
		return
	}

	data := s.store.ListForDevice(r.Context(), deviceID, limit)
	if len(data) < 2 {
		writeNotFound(w, "not enough sensor data for device "+deviceID+" (minimum 2 points)")
		return
	}

	blended, err := s.engine.Blend24h(chronological(data), weatherHoursFromForecast(forecast.Hourly24), blendFactor)
	if err != nil {
		writeBadRequest(w, "cannot compute 24h prediction (insufficient data)")
		return
	}

	writeJSON(w, http.StatusOK, blended24hResponse{
		DeviceID:        deviceID,
		City:            city,
		BlendedForecast: *blended,
	})
}

// weatherHoursFromForecast strips the hourly forecast down to the inputs the
// blend needs.
func weatherHoursFromForecast(hours []weather.HourlyEntry) []analytics.WeatherHour {
	out := make([]analytics.WeatherHour, len(hours))
	for i, h := range hours {
		out[i] = analytics.WeatherHour{
			Time:        h.Time,
			Temperature: h.Temperature,
		}
	}
	return out
}

package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/nerrad567/telemetry-core/internal/infrastructure/config"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/logging"
	"github.com/nerrad567/telemetry-core/internal/observability"
)

// defaultTimeout is used when the config does not specify one.
const defaultTimeout = 10 * time.Second

// Forecast day bounds supported by the upstream free tier.
const (
	MinForecastDays = 1
	MaxForecastDays = 7
)

// Client fetches weather data from the Open-Meteo API.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	cfg     config.WeatherConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logging.Logger
}

// NewClient creates an Open-Meteo client with the configured endpoints and
// a circuit breaker shared across all its calls.
func NewClient(cfg config.WeatherConfig, logger *logging.Logger) *Client {
	timeout := defaultTimeout
	if cfg.Timeout > 0 {
		timeout = cfg.GetTimeout()
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "open-meteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
		logger:  logger.With("component", "weather"),
	}
}

// DefaultLocation returns the configured fallback coordinates and city name.
func (c *Client) DefaultLocation() (lat, lon float64, city string) {
	return c.cfg.DefaultLat, c.cfg.DefaultLon, c.cfg.DefaultCity
}

// FetchCurrent retrieves current conditions for the given coordinates.
// The city name is echoed into the result, not resolved from coordinates.
//
// Returns:
//   - *Current: Current conditions
//   - error: ErrUpstreamUnavailable when the API cannot be reached
func (c *Client) FetchCurrent(ctx context.Context, lat, lon float64, city string) (*Current, error) {
	params := url.Values{}
	params.Set("latitude", formatCoord(lat))
	params.Set("longitude", formatCoord(lon))
	params.Set("current", strings.Join([]string{
		"temperature_2m",
		"relative_humidity_2m",
		"weather_code",
		"surface_pressure",
		"wind_speed_10m",
		"wind_direction_10m",
		"precipitation",
	}, ","))

	var payload struct {
		Current struct {
			Temperature   *float64 `json:"temperature_2m"`
			Humidity      *float64 `json:"relative_humidity_2m"`
			WeatherCode   int      `json:"weather_code"`
			Pressure      *float64 `json:"surface_pressure"`
			WindSpeed     *float64 `json:"wind_speed_10m"`
			WindDirection *int     `json:"wind_direction_10m"`
			Precipitation *float64 `json:"precipitation"`
		} `json:"current"`
	}
	if err := c.getJSON(ctx, "current", c.cfg.BaseURL, params, &payload); err != nil {
		return nil, err
	}

	return &Current{
		Temperature:   payload.Current.Temperature,
		Humidity:      payload.Current.Humidity,
		Description:   CodeDescription(payload.Current.WeatherCode),
		City:          city,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
		Pressure:      payload.Current.Pressure,
		WindSpeed:     payload.Current.WindSpeed,
		WindDirection: payload.Current.WindDirection,
		Precipitation: payload.Current.Precipitation,
	}, nil
}

// FetchForecast retrieves the daily and hourly outlook for the given
// coordinates. Days is clamped to the supported range.
//
// Returns:
//   - *Forecast: Daily entries for the requested days, the first 24 and 48
//     hourly entries, and the next future hour
//   - error: ErrUpstreamUnavailable when the API cannot be reached
func (c *Client) FetchForecast(ctx context.Context, lat, lon float64, city string, days int) (*Forecast, error) {
	if days < MinForecastDays {
		days = MinForecastDays
	}
	if days > MaxForecastDays {
		days = MaxForecastDays
	}

	params := url.Values{}
	params.Set("latitude", formatCoord(lat))
	params.Set("longitude", formatCoord(lon))
	params.Set("daily", strings.Join([]string{
		"temperature_2m_max",
		"temperature_2m_min",
		"weather_code",
		"precipitation_sum",
		"wind_speed_10m_max",
	}, ","))
	params.Set("hourly", "temperature_2m,weather_code,precipitation")
	params.Set("forecast_days", strconv.Itoa(days))

	var payload struct {
		Daily struct {
			Time             []string   `json:"time"`
			TempMax          []*float64 `json:"temperature_2m_max"`
			TempMin          []*float64 `json:"temperature_2m_min"`
			WeatherCode      []int      `json:"weather_code"`
			PrecipitationSum []*float64 `json:"precipitation_sum"`
			WindSpeedMax     []*float64 `json:"wind_speed_10m_max"`
		} `json:"daily"`
		Hourly struct {
			Time          []string   `json:"time"`
			Temperature   []*float64 `json:"temperature_2m"`
			WeatherCode   []int      `json:"weather_code"`
			Precipitation []*float64 `json:"precipitation"`
		} `json:"hourly"`
	}
	if err := c.getJSON(ctx, "forecast", c.cfg.BaseURL, params, &payload); err != nil {
		return nil, err
	}

	f := &Forecast{City: city}

	for i, date := range payload.Daily.Time {
		f.Daily = append(f.Daily, DailyEntry{
			Date:             date,
			TempMin:          at(payload.Daily.TempMin, i),
			TempMax:          at(payload.Daily.TempMax, i),
			Description:      CodeDescription(codeAt(payload.Daily.WeatherCode, i)),
			PrecipitationSum: at(payload.Daily.PrecipitationSum, i),
			WindSpeedMax:     at(payload.Daily.WindSpeedMax, i),
		})
	}

	hourly := func(limit int) []HourlyEntry {
		var entries []HourlyEntry
		for i, t := range payload.Hourly.Time {
			if i >= limit {
				break
			}
			entries = append(entries, HourlyEntry{
				Time:          t,
				Temperature:   at(payload.Hourly.Temperature, i),
				Description:   CodeDescription(codeAt(payload.Hourly.WeatherCode, i)),
				Precipitation: at(payload.Hourly.Precipitation, i),
			})
		}
		return entries
	}
	f.Hourly24 = hourly(24)
	f.Hourly48 = hourly(48)

	// The first entry is the hour in progress; index 1 is the next one.
	if len(payload.Hourly.Time) >= 2 {
		f.NextHour = &HourlyEntry{
			Time:        payload.Hourly.Time[1],
			Temperature: at(payload.Hourly.Temperature, 1),
			Description: CodeDescription(codeAt(payload.Hourly.WeatherCode, 1)),
		}
	}

	return f, nil
}

// SearchCities suggests locations matching the query via the Open-Meteo
// geocoding API.
//
// Returns:
//   - []City: Up to count suggestions, possibly empty
//   - error: ErrEmptyQuery on a blank query, ErrUpstreamUnavailable when the
//     API cannot be reached
func (c *Client) SearchCities(ctx context.Context, query string, count int) ([]City, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("name", query)
	params.Set("count", strconv.Itoa(count))
	params.Set("format", "json")

	var payload struct {
		Results []struct {
			Name      string  `json:"name"`
			Country   string  `json:"country"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, "geocoding", c.cfg.GeocodingURL, params, &payload); err != nil {
		return nil, err
	}

	cities := make([]City, 0, len(payload.Results))
	for _, r := range payload.Results {
		cities = append(cities, City{
			Name:      r.Name,
			Country:   r.Country,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		})
	}
	return cities, nil
}

// getJSON performs a GET through the circuit breaker and decodes the body.
func (c *Client) getJSON(ctx context.Context, endpoint, baseURL string, params url.Values, out any) error {
	start := time.Now()

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		return nil, json.NewDecoder(resp.Body).Decode(out)
	})

	observability.WeatherAPIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warn("open-meteo request failed", "endpoint", endpoint, "error", err)
		return fmt.Errorf("%w: %s: %w", ErrUpstreamUnavailable, endpoint, err)
	}

	observability.WeatherAPICallsTotal.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// at indexes a parallel upstream array that may be shorter than the time
// axis.
func at(vals []*float64, i int) *float64 {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

func codeAt(codes []int, i int) int {
	if i < len(codes) {
		return codes[i]
	}
	return 0
}

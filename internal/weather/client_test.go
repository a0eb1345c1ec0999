package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nerrad567/telemetry-core/internal/infrastructure/config"
	"github.com/nerrad567/telemetry-core/internal/infrastructure/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.WeatherConfig{
		BaseURL:      srv.URL,
		GeocodingURL: srv.URL,
		Timeout:      2,
		DefaultLat:   48.8566,
		DefaultLon:   2.3522,
		DefaultCity:  "Paris",
	}, logging.Default())
}

func TestFetchCurrent(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"current":{
			"temperature_2m": 12.5,
			"relative_humidity_2m": 61,
			"weather_code": 2,
			"surface_pressure": 1013.2,
			"wind_speed_10m": 14.0,
			"wind_direction_10m": 220,
			"precipitation": 0.0
		}}`)
	})

	cur, err := client.FetchCurrent(context.Background(), 48.8566, 2.3522, "Paris")
	if err != nil {
		t.Fatalf("FetchCurrent() error = %v", err)
	}

	if cur.Temperature == nil || *cur.Temperature != 12.5 {
		t.Errorf("Temperature = %v, want 12.5", cur.Temperature)
	}
	if cur.Humidity == nil || *cur.Humidity != 61 {
		t.Errorf("Humidity = %v, want 61", cur.Humidity)
	}
	if cur.Description != "Partly cloudy" {
		t.Errorf("Description = %q, want Partly cloudy", cur.Description)
	}
	if cur.City != "Paris" {
		t.Errorf("City = %q, want Paris", cur.City)
	}
	if cur.WindDirection == nil || *cur.WindDirection != 220 {
		t.Errorf("WindDirection = %v, want 220", cur.WindDirection)
	}
	if !strings.Contains(gotQuery, "latitude=48.8566") {
		t.Errorf("query %q missing latitude", gotQuery)
	}
}

func TestFetchCurrent_PartialData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"current":{"weather_code": 0}}`)
	})

	cur, err := client.FetchCurrent(context.Background(), 48.8566, 2.3522, "Paris")
	if err != nil {
		t.Fatalf("FetchCurrent() error = %v", err)
	}
	if cur.Temperature != nil {
		t.Errorf("Temperature = %v, want nil", *cur.Temperature)
	}
	if cur.Description != "Clear sky" {
		t.Errorf("Description = %q, want Clear sky", cur.Description)
	}
}

func TestFetchCurrent_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	if _, err := client.FetchCurrent(context.Background(), 48.8566, 2.3522, "Paris"); !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func forecastPayload(hours int) string {
	var times, temps, codes []string
	for i := 0; i < hours; i++ {
		times = append(times, fmt.Sprintf(`"2025-01-01T%02d:00"`, i%24))
		temps = append(temps, fmt.Sprintf("%.1f", 5.0+float64(i)*0.1))
		codes = append(codes, "1")
	}
	return fmt.Sprintf(`{
		"daily":{
			"time":["2025-01-01","2025-01-02"],
			"temperature_2m_max":[8.0,9.5],
			"temperature_2m_min":[2.0,3.0],
			"weather_code":[61,3],
			"precipitation_sum":[1.2,0.0],
			"wind_speed_10m_max":[22.0,18.0]
		},
		"hourly":{
			"time":[%s],
			"temperature_2m":[%s],
			"weather_code":[%s],
			"precipitation":[]
		}
	}`, strings.Join(times, ","), strings.Join(temps, ","), strings.Join(codes, ","))
}

func TestFetchForecast(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, forecastPayload(48))
	})

	f, err := client.FetchForecast(context.Background(), 48.8566, 2.3522, "Paris", 2)
	if err != nil {
		t.Fatalf("FetchForecast() error = %v", err)
	}

	if len(f.Daily) != 2 {
		t.Errorf("len(Daily) = %d, want 2", len(f.Daily))
	}
	if f.Daily[0].Description != "Light rain" {
		t.Errorf("Daily[0].Description = %q, want Light rain", f.Daily[0].Description)
	}
	if len(f.Hourly24) != 24 {
		t.Errorf("len(Hourly24) = %d, want 24", len(f.Hourly24))
	}
	if len(f.Hourly48) != 48 {
		t.Errorf("len(Hourly48) = %d, want 48", len(f.Hourly48))
	}
	if f.NextHour == nil {
		t.Fatal("NextHour = nil, want second hourly entry")
	}
	if f.NextHour.Temperature == nil || *f.NextHour.Temperature != 5.1 {
		t.Errorf("NextHour.Temperature = %v, want 5.1", f.NextHour.Temperature)
	}
	if !strings.Contains(gotQuery, "forecast_days=2") {
		t.Errorf("query %q missing forecast_days=2", gotQuery)
	}
}

func TestFetchForecast_ClampsDays(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{days: 0, want: "forecast_days=1"},
		{days: -3, want: "forecast_days=1"},
		{days: 10, want: "forecast_days=7"},
	}

	for _, tt := range tests {
		var gotQuery string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			fmt.Fprint(w, forecastPayload(2))
		})

		if _, err := client.FetchForecast(context.Background(), 0, 0, "x", tt.days); err != nil {
			t.Fatalf("FetchForecast(days=%d) error = %v", tt.days, err)
		}
		if !strings.Contains(gotQuery, tt.want) {
			t.Errorf("days=%d: query %q missing %q", tt.days, gotQuery, tt.want)
		}
	}
}

func TestFetchForecast_TooFewHoursForNextHour(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, forecastPayload(1))
	})

	f, err := client.FetchForecast(context.Background(), 0, 0, "x", 1)
	if err != nil {
		t.Fatalf("FetchForecast() error = %v", err)
	}
	if f.NextHour != nil {
		t.Errorf("NextHour = %+v, want nil", f.NextHour)
	}
}

func TestSearchCities(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"name":"Paris","country":"France","latitude":48.8566,"longitude":2.3522},
			{"name":"Paris","country":"United States","latitude":33.66,"longitude":-95.55}
		]}`)
	})

	cities, err := client.SearchCities(context.Background(), "Paris", 5)
	if err != nil {
		t.Fatalf("SearchCities() error = %v", err)
	}
	if len(cities) != 2 {
		t.Fatalf("len(cities) = %d, want 2", len(cities))
	}
	if cities[0].Country != "France" {
		t.Errorf("cities[0].Country = %q, want France", cities[0].Country)
	}
}

func TestSearchCities_EmptyQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream should not be called for a blank query")
	})

	if _, err := client.SearchCities(context.Background(), "   ", 5); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("error = %v, want ErrEmptyQuery", err)
	}
}

func TestSearchCities_NoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	cities, err := client.SearchCities(context.Background(), "zzzz", 5)
	if err != nil {
		t.Fatalf("SearchCities() error = %v", err)
	}
	if len(cities) != 0 {
		t.Errorf("len(cities) = %d, want 0", len(cities))
	}
}

func TestCodeDescription_Unknown(t *testing.T) {
	if got := CodeDescription(42); got != "Code 42" {
		t.Errorf("CodeDescription(42) = %q, want Code 42", got)
	}
}

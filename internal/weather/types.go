package weather

// Current is the current outdoor conditions at a location. Fields the
// upstream did not report are nil.
type Current struct {
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity"`
	Description   string   `json:"description"`
	City          string   `json:"city"`
	UpdatedAt     string   `json:"updated_at"`
	Pressure      *float64 `json:"pressure"`
	WindSpeed     *float64 `json:"wind_speed"`
	WindDirection *int     `json:"wind_direction"`
	Precipitation *float64 `json:"precipitation"`
}

// DailyEntry is one day of the daily forecast.
type DailyEntry struct {
	Date             string   `json:"date"`
	TempMin          *float64 `json:"temp_min"`
	TempMax          *float64 `json:"temp_max"`
	Description      string   `json:"description"`
	PrecipitationSum *float64 `json:"precipitation_sum"`
	WindSpeedMax     *float64 `json:"wind_speed_max"`
}

// HourlyEntry is one hour of the hourly forecast.
type HourlyEntry struct {
	Time          string   `json:"time"`
	Temperature   *float64 `json:"temperature"`
	Description   string   `json:"description"`
	Precipitation *float64 `json:"precipitation,omitempty"`
}

// Forecast bundles the daily and hourly outlook for a location.
// Hourly24 holds the first 24 hours, Hourly48 the first 48. NextHour is the
// first future hour, nil when the upstream returned too little hourly data.
type Forecast struct {
	City     string        `json:"city"`
	Daily    []DailyEntry  `json:"daily"`
	Hourly24 []HourlyEntry `json:"hourly_24"`
	Hourly48 []HourlyEntry `json:"hourly_48"`
	NextHour *HourlyEntry  `json:"next_hour"`
}

// City is one geocoding suggestion.
type City struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

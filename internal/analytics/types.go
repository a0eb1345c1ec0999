package analytics

// Temperature bounds and thresholds, in degrees Celsius.
const (
	// GlobalTempMin and GlobalTempMax bound predictions when no weather
	// anchor is available. Ambient sensors do not read -50 or 109 degrees.
	GlobalTempMin = -30.0
	GlobalTempMax = 70.0

	// WeatherAnchorMargin is the maximum allowed deviation of a model
	// prediction from a weather anchor temperature.
	WeatherAnchorMargin = 15.0

	// AnomalyThreshold is the absolute deviation from current weather above
	// which a device average counts as anomalous. Strictly greater-than.
	AnomalyThreshold = 5.0

	// MaxReadingsPerDevice caps how many readings per device the weather
	// analysis considers, in the order supplied by the caller.
	MaxReadingsPerDevice = 15
)

// Prediction is a single-device temperature forecast at a fixed horizon.
type Prediction struct {
	PredictedTemperature float64  `json:"predicted_temperature"`
	BasedOnNPoints       int      `json:"based_on_n_points"`
	HorizonSeconds       float64  `json:"horizon_seconds"`
	Method               string   `json:"method"`
	WasClipped           bool     `json:"was_clipped"`
	RawPrediction        *float64 `json:"raw_prediction,omitempty"`
}

// WeatherHour is one hour of external forecast input to the 24h blend.
type WeatherHour struct {
	Time        string
	Temperature *float64
}

// HourlyBlend is one resolved hour of the blended forecast.
type HourlyBlend struct {
	Time         string   `json:"time"`
	OurModelTemp float64  `json:"our_model_temp"`
	WeatherTemp  *float64 `json:"weather_temp"`
	BlendedTemp  float64  `json:"blended_temp"`
}

// BlendedForecast is the 24h combination of the device model with the
// external weather forecast. Hourly always holds exactly 24 entries.
type BlendedForecast struct {
	Hourly         []HourlyBlend `json:"hourly"`
	Method         string        `json:"method"`
	BlendFactor    float64       `json:"blend_factor"`
	BasedOnNPoints int           `json:"based_on_n_points"`
}

// CurrentConditions is the subset of current weather the analysis needs.
type CurrentConditions struct {
	City        string
	Temperature *float64
	Humidity    *float64
}

// DeviceComparison is one device's deviation from current weather.
type DeviceComparison struct {
	DeviceID     string  `json:"device_id"`
	AvgTemp      float64 `json:"avg_temp"`
	Deviation    float64 `json:"deviation"`
	IsAnomaly    bool    `json:"is_anomaly"`
	MeanAbsError float64 `json:"mean_abs_error"`
	SampleCount  int     `json:"sample_count"`
}

// WeatherAnalysis compares recent device readings against current weather.
// With no current weather available it is the defined "no data" shape:
// nil city and temperatures, empty device list.
type WeatherAnalysis struct {
	City                    *string            `json:"city"`
	WeatherTemp             *float64           `json:"weather_temp"`
	WeatherHumidity         *float64           `json:"weather_humidity"`
	AnomalyThresholdCelsius float64            `json:"anomaly_threshold_celsius"`
	Devices                 []DeviceComparison `json:"devices"`
}

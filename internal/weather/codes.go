package weather

import "fmt"

// wmoDescriptions maps the WMO weather interpretation codes Open-Meteo
// returns to short human-readable text.
var wmoDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	61: "Light rain",
	71: "Light snow",
	80: "Rain showers",
	95: "Thunderstorm",
}

// CodeDescription converts a WMO weather code to a description. Unknown
// codes fall through to "Code N" rather than an error; the upstream adds
// codes over time.
func CodeDescription(code int) string {
	if desc, ok := wmoDescriptions[code]; ok {
		return desc
	}
	return fmt.Sprintf("Code %d", code)
}

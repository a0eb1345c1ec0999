package api

import (
	"fmt"
	"net/http"
	"strconv"
)

// maxQueryParamLen bounds path and query string parameters.
const maxQueryParamLen = 256

// queryInt parses an integer query parameter with a default and inclusive
// bounds. An absent parameter yields the default; a present one must parse
// and fall in range.
func queryInt(r *http.Request, name string, def, low, high int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v < low || v > high {
		return 0, fmt.Errorf("%s must be between %d and %d", name, low, high)
	}
	return v, nil
}

// queryFloat parses a float query parameter with a default and inclusive
// bounds.
func queryFloat(r *http.Request, name string, def, low, high float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	if v < low || v > high {
		return 0, fmt.Errorf("%s must be between %g and %g", name, low, high)
	}
	return v, nil
}

// queryCoord parses an unbounded coordinate query parameter with a default.
func queryCoord(r *http.Request, name string, def float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}
	return v, nil
}

// queryString returns a string query parameter or its default.
func queryString(r *http.Request, name, def string) string {
	if v := r.URL.Query().Get(name); v != "" {
		return v
	}
	return def
}

// location extracts the lat/lon/city triple shared by the weather endpoints,
// falling back to the configured default location.
func (s *Server) location(r *http.Request) (lat, lon float64, city string, err error) {
	lat, err = queryCoord(r, "lat", s.weatherCfg.DefaultLat)
	if err != nil {
		return 0, 0, "", err
	}
	lon, err = queryCoord(r, "lon", s.weatherCfg.DefaultLon)
	if err != nil {
		return 0, 0, "", err
	}
	city = queryString(r, "city", s.weatherCfg.DefaultCity)
	return lat, lon, city, nil
}

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/telemetry-core/internal/telemetry"
)

// Reading list limits.
const (
	defaultDataLimit = 100
	minDataLimit     = 1
	maxDataLimit     = 1000
)

// handleListData returns the most recent readings across all devices.
func (s *Server) handleListData(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultDataLimit, minDataLimit, maxDataLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, s.store.ListAll(r.Context(), limit))
}

// handleDeviceData returns the most recent readings for one device.
// A device with no stored readings is a 404 at this boundary; the store
// itself makes no such distinction.
func (s *Server) handleDeviceData(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "device_id")
	if deviceID == "" || len(deviceID) > maxQueryParamLen {
		writeBadRequest(w, "invalid device ID")
		return
	}

	limit, err := queryInt(r, "limit", defaultDataLimit, minDataLimit, maxDataLimit)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	data := s.store.ListForDevice(r.Context(), deviceID, limit)
	if len(data) == 0 {
		writeNotFound(w, "no data found for device "+deviceID)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// handleDeviceLatest returns the single most recent reading for a device.
func (s *Server) handleDeviceLatest(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "device_id")
	if deviceID == "" || len(deviceID) > maxQueryParamLen {
		writeBadRequest(w, "invalid device ID")
		return
	}

	reading := s.store.LatestForDevice(r.Context(), deviceID)
	if reading == nil {
		writeNotFound(w, "no data found for device "+deviceID)
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

// handleDeviceRange returns readings within a timestamp range.
//
// Bounds are normalized to RFC3339 UTC before the query so the store's
// string ordering matches chronological ordering. An empty result is a 200
// with an empty list, not a 404; absence of data in a window is an answer.
func (s *Server) handleDeviceRange(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "device_id")
	if deviceID == "" || len(deviceID) > maxQueryParamLen {
		writeBadRequest(w, "invalid device ID")
		return
	}

	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		writeBadRequest(w, "start and end are required")
		return
	}

	startNorm, err := telemetry.NormalizeTimestamp(start)
	if err != nil {
		writeBadRequest(w, "invalid start timestamp, use ISO format (e.g. 2025-01-28T10:00:00Z)")
		return
	}
	endNorm, err := telemetry.NormalizeTimestamp(end)
	if err != nil {
		writeBadRequest(w, "invalid end timestamp, use ISO format (e.g. 2025-01-28T10:00:00Z)")
		return
	}

	writeJSON(w, http.StatusOK, s.store.RangeForDevice(r.Context(), deviceID, startNorm, endNorm))
}

// createDataRequest is the manual insert payload. Telemetry normally arrives
// over the bus; this endpoint exists for backfills and testing.
type createDataRequest struct {
	DeviceID    string   `json:"device_id"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Status      *string  `json:"status"`
	Timestamp   string   `json:"timestamp"`
}

// handleCreateData stores a reading supplied directly over HTTP.
func (s *Server) handleCreateData(w http.ResponseWriter, r *http.Request) {
	var req createDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.DeviceID == "" {
		writeBadRequest(w, "device_id is required")
		return
	}

	ts := req.Timestamp
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339)
	}

	reading := telemetry.Reading{
		DeviceID:    req.DeviceID,
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		Status:      req.Status,
		Timestamp:   ts,
	}
	if err := s.store.Insert(r.Context(), &reading); err != nil {
		s.logger.Error("manual insert failed", "device_id", req.DeviceID, "error", err)
		writeInternalError(w, "failed to save data")
		return
	}

	writeJSON(w, http.StatusCreated, reading)
}

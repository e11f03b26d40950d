package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"skydrift/pkg/core"
	"skydrift/pkg/geo"
)

// ReportController defines the pipeline methods the handlers use.
type ReportController interface {
	Submit(coord geo.Coordinate, themeID string) bool
	Snapshot() core.Snapshot
	Log() []core.RunEntry
}

// DriftController defines the auto-drift methods the handlers use.
type DriftController interface {
	Active() bool
	Toggle() bool
	SetTheme(id string)
}

// ReportHandler handles report generation and state endpoints.
type ReportHandler struct {
	pipeline ReportController
	drifter  DriftController
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(pipeline ReportController, drifter DriftController) *ReportHandler {
	return &ReportHandler{
		pipeline: pipeline,
		drifter:  drifter,
	}
}

// SubmitRequest is a report request. Clients send either a geographic
// coordinate directly or a click position on the flat map view.
type SubmitRequest struct {
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
	X      *float64 `json:"x,omitempty"`
	Y      *float64 `json:"y,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`
	Theme  string   `json:"theme,omitempty"`
}

// coordinate resolves the request to a geographic coordinate.
func (r *SubmitRequest) coordinate() (geo.Coordinate, bool) {
	if r.Lat != nil && r.Lng != nil {
		return geo.Coordinate{Lat: *r.Lat, Lon: *r.Lng}, true
	}
	if r.X != nil && r.Y != nil && r.Width != nil && r.Height != nil {
		return geo.ScreenToGeo(*r.X, *r.Y, *r.Width, *r.Height), true
	}
	return geo.Coordinate{}, false
}

// HandleSubmit handles POST /api/report
func (h *ReportHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("API: HandleSubmit decode error", "error", err)
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	coord, ok := req.coordinate()
	if !ok {
		http.Error(w, "request needs lat/lng or x/y/width/height", http.StatusBadRequest)
		return
	}
	if !coord.Valid() {
		http.Error(w, "coordinate out of range", http.StatusBadRequest)
		return
	}

	accepted := h.pipeline.Submit(coord, req.Theme)
	status := "accepted"
	code := http.StatusAccepted
	if !accepted {
		// A run is generating; the request is dropped, not queued.
		status = "busy"
		code = http.StatusConflict
	}

	slog.Info("API: report requested", "coord", coord.String(), "theme", req.Theme, "status", status)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":     status,
		"coordinate": coord,
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// StateResponse is the full client-facing state.
type StateResponse struct {
	core.Snapshot
	DriftActive bool `json:"driftActive"`
}

// HandleState handles GET /api/state
func (h *ReportHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	resp := StateResponse{
		Snapshot:    h.pipeline.Snapshot(),
		DriftActive: h.drifter.Active(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// DriftRequest optionally pins the drift theme.
type DriftRequest struct {
	Theme string `json:"theme,omitempty"`
}

// HandleDrift handles POST /api/drift, toggling auto-drift.
func (h *ReportHandler) HandleDrift(w http.ResponseWriter, r *http.Request) {
	var req DriftRequest
	// An empty body is a plain toggle.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.Theme != "" {
		h.drifter.SetTheme(req.Theme)
	}
	active := h.drifter.Toggle()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]bool{
		"driftActive": active,
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// HandleRunLog handles GET /api/log/runs
func (h *ReportHandler) HandleRunLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"runs": h.pipeline.Log(),
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// VolumeController defines methods for controlling playback volume.
type VolumeController interface {
	IsPlaying() bool
	SetVolume(vol float64)
	Volume() float64
}

// AudioHandler handles audio control endpoints.
type AudioHandler struct {
	audio VolumeController
}

// NewAudioHandler creates a new AudioHandler.
func NewAudioHandler(audio VolumeController) *AudioHandler {
	return &AudioHandler{audio: audio}
}

// VolumeRequest sets the playback volume.
type VolumeRequest struct {
	Volume float64 `json:"volume"`
}

// HandleVolume handles POST /api/audio/volume
func (h *AudioHandler) HandleVolume(w http.ResponseWriter, r *http.Request) {
	var req VolumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Volume < 0 || req.Volume > 1 {
		http.Error(w, "volume must be between 0 and 1", http.StatusBadRequest)
		return
	}

	h.audio.SetVolume(req.Volume)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]float64{
		"volume": h.audio.Volume(),
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// HandleStatus handles GET /api/audio/status
func (h *AudioHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"playing": h.audio.IsPlaying(),
		"volume":  h.audio.Volume(),
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

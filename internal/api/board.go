package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"skydrift/pkg/solar"
	"skydrift/pkg/weather"
)

// CityBoard provides the reference city readings.
type CityBoard interface {
	Cities() []weather.CityWeather
}

// SolarSource provides the current subsolar point.
type SolarSource interface {
	Current() solar.Position
}

// BoardHandler serves the ambient dashboard data: the reference city
// strip and the subsolar point.
type BoardHandler struct {
	board CityBoard
	solar SolarSource
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(board CityBoard, solarSvc SolarSource) *BoardHandler {
	return &BoardHandler{
		board: board,
		solar: solarSvc,
	}
}

// HandleCities handles GET /api/cities
func (h *BoardHandler) HandleCities(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"cities": h.board.Cities(),
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// SolarResponse places the subsolar point both geographically and on the
// flat map view.
type SolarResponse struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lng"`
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// HandleSolar handles GET /api/solar
func (h *BoardHandler) HandleSolar(w http.ResponseWriter, r *http.Request) {
	pos := h.solar.Current()
	screen := pos.Screen()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(SolarResponse{
		Lat:  pos.Lat,
		Lon:  pos.Lon,
		Left: screen.Left,
		Top:  screen.Top,
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

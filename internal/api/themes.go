package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"skydrift/pkg/theme"
)

// ThemeHandler serves the broadcast persona catalog.
type ThemeHandler struct {
	registry *theme.Registry
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(registry *theme.Registry) *ThemeHandler {
	return &ThemeHandler{registry: registry}
}

// HandleList handles GET /api/themes
func (h *ThemeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"themes":  h.registry.List(),
		"default": h.registry.Default().ID,
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

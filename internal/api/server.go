package api

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"skydrift/internal/ui"
	"skydrift/pkg/version"
)

// NewServer creates and configures the HTTP server.
// It accepts handlers for all API endpoints and a shutdownFunc for graceful shutdown.
func NewServer(addr string, report *ReportHandler, board *BoardHandler, themes *ThemeHandler, stream *StreamHandler, audioH *AudioHandler, shutdown func()) *http.Server {
	mux := http.NewServeMux()

	// 1. Health Endpoint
	mux.HandleFunc("GET /health", handleHealth)

	// 2. Version Endpoint
	mux.HandleFunc("GET /api/version", handleVersion)

	// 3. Report Endpoints
	mux.HandleFunc("POST /api/report", report.HandleSubmit)
	mux.HandleFunc("GET /api/state", report.HandleState)
	mux.HandleFunc("POST /api/drift", report.HandleDrift)
	mux.HandleFunc("GET /api/log/runs", report.HandleRunLog)

	// 4. Board Endpoints
	mux.HandleFunc("GET /api/cities", board.HandleCities)
	mux.HandleFunc("GET /api/solar", board.HandleSolar)

	// 5. Theme Endpoint
	mux.HandleFunc("GET /api/themes", themes.HandleList)

	// 6. Audio Endpoints
	if audioH != nil {
		mux.HandleFunc("POST /api/audio/volume", audioH.HandleVolume)
		mux.HandleFunc("GET /api/audio/status", audioH.HandleStatus)
	}

	// 7. Logs Endpoint
	mux.HandleFunc("GET /api/log/latest", handleLatestLog)

	// 8. Live Stream Endpoint
	mux.HandleFunc("GET /ws", stream.HandleWS)

	// 9. Shutdown Endpoint
	mux.HandleFunc("POST /api/shutdown", func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Graceful shutdown initiated via API")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("Shutting down...")); err != nil {
			slog.Error("Failed to write shutdown response", "error", err)
		}
		// Call shutdown in a goroutine to allow response to flush
		go func() {
			time.Sleep(100 * time.Millisecond)
			shutdown()
		}()
	})

	// 10. Static Frontend Serving (SPA)
	distFS, err := fs.Sub(ui.DistFS, "dist")
	if err != nil {
		panic(fmt.Sprintf("Failed to subtree dist from embedded assets: %v", err))
	}

	spaFS := &spaFileSystem{root: http.FS(distFS)}
	mux.Handle("/", http.FileServer(spaFS))

	return &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Failed to write health response", "error", err)
	}
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := fmt.Fprintf(w, `{"version": "%s"}`, version.Version); err != nil {
		slog.Error("Failed to write version response", "error", err)
	}
}

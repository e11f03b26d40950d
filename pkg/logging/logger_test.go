package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skydrift/pkg/config"
)

func TestInitAndRotate(t *testing.T) {
	dir := t.TempDir()
	serverLog := filepath.Join(dir, "server.log")
	requestLog := filepath.Join(dir, "requests.log")

	cfg := &config.LogConfig{
		Server:   config.LogSettings{Path: serverLog, Level: "INFO"},
		Requests: config.LogSettings{Path: requestLog, Level: "INFO"},
	}

	cleanup, err := Init(cfg)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	slog.Info("hello from test")
	cleanup()

	data, err := os.ReadFile(serverLog)
	if err != nil {
		t.Fatalf("read server log: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Error("expected log line in server log")
	}

	// Second init rotates the previous file to .old
	cleanup2, err := Init(cfg)
	if err != nil {
		t.Fatalf("second Init: %v", err)
	}
	defer cleanup2()

	if _, err := os.Stat(serverLog + ".old"); err != nil {
		t.Errorf("expected rotated .old file: %v", err)
	}
}

func TestLogCaptureWriter(t *testing.T) {
	w := &LogCaptureWriter{}
	if w.GetLastLine() != "" {
		t.Error("expected empty initial line")
	}

	if _, err := w.Write([]byte("first")); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("second")); err != nil {
		t.Fatal(err)
	}

	if w.GetLastLine() != "second" {
		t.Errorf("GetLastLine = %q, want %q", w.GetLastLine(), "second")
	}
}

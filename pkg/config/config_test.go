package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Address == "" {
		t.Error("default server address empty")
	}
	if cfg.Weather.BaseURL == "" {
		t.Error("default weather base url empty")
	}
	if time.Duration(cfg.Drift.Interval) != 60*time.Second {
		t.Errorf("default drift interval = %v, want 60s", time.Duration(cfg.Drift.Interval))
	}
	if time.Duration(cfg.Ticker.SolarRefresh) != 10*time.Minute {
		t.Errorf("default solar refresh = %v, want 10m", time.Duration(cfg.Ticker.SolarRefresh))
	}
}

func TestLoadCreatesDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skydrift.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != DefaultConfig().Server.Address {
		t.Error("expected defaults on first load")
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected config file to be created: %v", err)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skydrift.yaml")

	content := "server:\n  address: \"localhost:9999\"\ndrift:\n  interval: 2m\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != "localhost:9999" {
		t.Errorf("address = %q, want localhost:9999", cfg.Server.Address)
	}
	if time.Duration(cfg.Drift.Interval) != 2*time.Minute {
		t.Errorf("drift interval = %v, want 2m", time.Duration(cfg.Drift.Interval))
	}
	// Untouched keys keep defaults.
	if cfg.Weather.BaseURL != DefaultConfig().Weather.BaseURL {
		t.Error("expected untouched keys to keep defaults")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"5m", 5 * time.Minute},
		{"2h45m", 2*time.Hour + 45*time.Minute},
		{"1d", Day},
		{"2w", 2 * Week},
		{"", 0},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if err != nil {
			t.Errorf("ParseDuration(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseDuration("xyz"); err == nil {
		t.Error("expected error for invalid duration")
	}
}

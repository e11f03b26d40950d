// Package config loads the application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	DB      DBConfig      `yaml:"db"`
	Weather WeatherConfig `yaml:"weather"`
	LLM     LLMConfig     `yaml:"llm"`
	TTS     TTSConfig     `yaml:"tts"`
	Image   ImageConfig   `yaml:"image"`
	Theme   ThemeConfig   `yaml:"theme"`
	Drift   DriftConfig   `yaml:"drift"`
	Ticker  TickerConfig  `yaml:"ticker"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Server   LogSettings `yaml:"server"`
	Requests LogSettings `yaml:"requests"`
	Gemini   LogSettings `yaml:"gemini"`
}

// LogSettings holds settings for a specific logger.
type LogSettings struct {
	Path  string `yaml:"path"`
	Level string `yaml:"level"`
}

// DBConfig holds database settings.
type DBConfig struct {
	Path string `yaml:"path"`
}

// WeatherConfig holds settings for the weather gateway.
type WeatherConfig struct {
	BaseURL  string   `yaml:"base_url"`
	Timeout  Duration `yaml:"timeout"`
	CacheTTL Duration `yaml:"cache_ttl"`
}

// LLMConfig holds settings for the narrative model.
type LLMConfig struct {
	Model    string            `yaml:"model"`
	Profiles map[string]string `yaml:"profiles"` // Map of intent -> model
}

// TTSConfig holds speech synthesis settings.
type TTSConfig struct {
	Model string `yaml:"model"`
	Voice string `yaml:"voice"` // Fallback voice when a theme names none
}

// ImageConfig holds scene image generation settings.
type ImageConfig struct {
	Model   string `yaml:"model"`
	Enabled bool   `yaml:"enabled"`
}

// ThemeConfig selects the default theme.
type ThemeConfig struct {
	Default string `yaml:"default"`
}

// DriftConfig holds auto-drift settings.
type DriftConfig struct {
	Interval Duration `yaml:"interval"`
}

// TickerConfig holds the periodic refresh cadences.
type TickerConfig struct {
	CityRefresh  Duration `yaml:"city_refresh"`
	SolarRefresh Duration `yaml:"solar_refresh"`
	ClockTick    Duration `yaml:"clock_tick"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: "localhost:1977",
		},
		Log: LogConfig{
			Server: LogSettings{
				Path:  "./logs/server.log",
				Level: "INFO",
			},
			Requests: LogSettings{
				Path:  "./logs/requests.log",
				Level: "INFO",
			},
			Gemini: LogSettings{
				Path:  "./logs/gemini.log",
				Level: "INFO",
			},
		},
		DB: DBConfig{
			Path: "./data/skydrift.db",
		},
		Weather: WeatherConfig{
			BaseURL:  "https://api.open-meteo.com/v1/forecast",
			Timeout:  Duration(15 * time.Second),
			CacheTTL: Duration(10 * time.Minute),
		},
		LLM: LLMConfig{
			Model: "gemini-2.5-flash-lite",
			Profiles: map[string]string{
				"report": "gemini-2.5-flash",
			},
		},
		TTS: TTSConfig{
			Model: "gemini-2.5-flash-preview-tts",
			Voice: "Kore",
		},
		Image: ImageConfig{
			Model:   "imagen-3.0-generate-002",
			Enabled: true,
		},
		Theme: ThemeConfig{
			Default: "vaporwave",
		},
		Drift: DriftConfig{
			Interval: Duration(60 * time.Second),
		},
		Ticker: TickerConfig{
			CityRefresh:  Duration(5 * time.Minute),
			SolarRefresh: Duration(10 * time.Minute),
			ClockTick:    Duration(1 * time.Minute),
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, defaults are used and the file is created.
// If the file exists, values merge over the defaults; the file is not
// rewritten, to preserve user formatting and comments.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := cfg.save(path); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

func (c *Config) save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Package weather fetches current conditions from the Open-Meteo gateway.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	h3 "github.com/uber/h3-go/v4"

	"skydrift/pkg/cache"
	"skydrift/pkg/geo"
)

// cacheCellResolution is the H3 resolution used to key cached lookups.
// Res 5 cells are ~250 km2, coarse enough that re-clicking the same region
// reuses the previous answer within the TTL.
const cacheCellResolution = 5

// Snapshot is the current weather at a coordinate.
type Snapshot struct {
	TemperatureC  float64 `json:"temperature"`
	WindSpeedKmh  float64 `json:"windSpeed"`
	ConditionCode int     `json:"conditionCode"`
}

// Client talks to the Open-Meteo current-weather API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	circuit    *gobreaker.CircuitBreaker
	cache      cache.Cacher
}

// NewClient creates a weather client. The cache may be a cache.NullCache.
func NewClient(baseURL string, timeout time.Duration, c cache.Cacher) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "open-meteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		circuit:    cb,
		cache:      c,
	}
}

type currentWeatherPayload struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// Current fetches the weather snapshot for a coordinate.
// Non-2xx responses and transport errors are returned as errors.
func (c *Client) Current(ctx context.Context, coord geo.Coordinate) (Snapshot, error) {
	key := cacheKey(coord)

	if val, hit := c.cache.GetCache(ctx, key); hit {
		var snap Snapshot
		if err := json.Unmarshal(val, &snap); err == nil {
			slog.Debug("Weather: Cache hit", "key", key)
			return snap, nil
		}
		// A corrupt entry falls through to a live fetch.
	}

	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.4f", coord.Lat))
	values.Set("longitude", fmt.Sprintf("%.4f", coord.Lon))
	values.Set("current_weather", "true")

	body, err := c.get(ctx, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()))
	if err != nil {
		return Snapshot{}, fmt.Errorf("weather fetch failed: %w", err)
	}

	var payload currentWeatherPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Snapshot{}, fmt.Errorf("weather decode failed: %w", err)
	}

	snap := Snapshot{
		TemperatureC:  payload.CurrentWeather.Temperature,
		WindSpeedKmh:  payload.CurrentWeather.WindSpeed,
		ConditionCode: payload.CurrentWeather.WeatherCode,
	}

	if data, err := json.Marshal(snap); err == nil {
		if err := c.cache.SetCache(ctx, key, data); err != nil {
			slog.Debug("Weather: Cache write failed", "key", key, "error", err)
		}
	}

	return snap, nil
}

// get runs the request through the circuit breaker.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func cacheKey(coord geo.Coordinate) string {
	cell, err := h3.LatLngToCell(h3.LatLng{Lat: coord.Lat, Lng: coord.Lon}, cacheCellResolution)
	if err != nil {
		// Degenerate coordinates fall back to a literal key.
		return fmt.Sprintf("weather:raw:%s", strings.ReplaceAll(coord.String(), " ", ""))
	}
	return "weather:h3:" + cell.String()
}

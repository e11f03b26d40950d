package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"skydrift/pkg/geo"
)

// City is a reference city offered as an alternate click target.
type City struct {
	Name       string         `json:"name"`
	Coordinate geo.Coordinate `json:"coordinate"`
	UTCOffset  int            `json:"utcOffset"` // Whole hours; a display approximation, not tz-correct
}

// CityWeather is a city plus its latest fetched temperature.
type CityWeather struct {
	City
	TemperatureC float64 `json:"temperature"`
	LocalTime    string  `json:"localTime"`
}

// ReferenceCities is the fixed city list, in display order.
var ReferenceCities = []City{
	{Name: "Tokyo", Coordinate: geo.Coordinate{Lat: 35.6762, Lon: 139.6503}, UTCOffset: 9},
	{Name: "Sydney", Coordinate: geo.Coordinate{Lat: -33.8688, Lon: 151.2093}, UTCOffset: 10},
	{Name: "Cairo", Coordinate: geo.Coordinate{Lat: 30.0444, Lon: 31.2357}, UTCOffset: 2},
	{Name: "London", Coordinate: geo.Coordinate{Lat: 51.5074, Lon: -0.1278}, UTCOffset: 0},
	{Name: "Reykjavik", Coordinate: geo.Coordinate{Lat: 64.1466, Lon: -21.9426}, UTCOffset: 0},
	{Name: "New York", Coordinate: geo.Coordinate{Lat: 40.7128, Lon: -74.0060}, UTCOffset: -5},
	{Name: "Mexico City", Coordinate: geo.Coordinate{Lat: 19.4326, Lon: -99.1332}, UTCOffset: -6},
	{Name: "Sao Paulo", Coordinate: geo.Coordinate{Lat: -23.5505, Lon: -46.6333}, UTCOffset: -3},
}

// BatchTemperatures fetches current temperatures for all reference cities in
// a single request. Any failure returns an empty list, never an error:
// callers treat empty as "unavailable", not as "no cities".
func (c *Client) BatchTemperatures(ctx context.Context) []CityWeather {
	results, err := c.fetchBatch(ctx, ReferenceCities)
	if err != nil {
		slog.Warn("Weather: Batch city fetch failed", "error", err)
		return nil
	}
	return results
}

func (c *Client) fetchBatch(ctx context.Context, cities []City) ([]CityWeather, error) {
	if len(cities) == 0 {
		return nil, nil
	}

	lats := make([]string, len(cities))
	lons := make([]string, len(cities))
	for i, city := range cities {
		lats[i] = fmt.Sprintf("%.4f", city.Coordinate.Lat)
		lons[i] = fmt.Sprintf("%.4f", city.Coordinate.Lon)
	}

	values := url.Values{}
	values.Set("latitude", strings.Join(lats, ","))
	values.Set("longitude", strings.Join(lons, ","))
	values.Set("current_weather", "true")

	body, err := c.get(ctx, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("batch fetch failed: %w", err)
	}

	// The multi-coordinate endpoint answers with a JSON array, one entry
	// per requested coordinate, in request order. A bare object means the
	// upstream treated this as a single-location query; that shape is an
	// explicit error rather than a guess.
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "{") {
		return nil, fmt.Errorf("unexpected single-result response for batch query")
	}

	var payloads []currentWeatherPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		return nil, fmt.Errorf("batch decode failed: %w", err)
	}
	if len(payloads) != len(cities) {
		return nil, fmt.Errorf("batch result count mismatch: got %d, want %d", len(payloads), len(cities))
	}

	now := time.Now().UTC()
	results := make([]CityWeather, len(cities))
	for i, city := range cities {
		results[i] = CityWeather{
			City:         city,
			TemperatureC: payloads[i].CurrentWeather.Temperature,
			LocalTime:    localClock(now, city.UTCOffset),
		}
	}
	return results, nil
}

// localClock formats the approximate local wall-clock time for a city.
func localClock(utc time.Time, offsetHours int) string {
	return utc.Add(time.Duration(offsetHours) * time.Hour).Format("15:04")
}

// Board holds the latest city weather for display. Refreshed by the
// scheduler; read by the API layer.
type Board struct {
	mu     sync.RWMutex
	cities []CityWeather
}

// NewBoard creates an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Update replaces the board contents.
func (b *Board) Update(cities []CityWeather) {
	b.mu.Lock()
	b.cities = cities
	b.mu.Unlock()
}

// TickClocks recomputes only the local-time fields, keeping temperatures.
func (b *Board) TickClocks() {
	now := time.Now().UTC()

	b.mu.Lock()
	for i := range b.cities {
		b.cities[i].LocalTime = localClock(now, b.cities[i].UTCOffset)
	}
	b.mu.Unlock()
}

// Cities returns a copy of the current board.
func (b *Board) Cities() []CityWeather {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]CityWeather, len(b.cities))
	copy(out, b.cities)
	return out
}

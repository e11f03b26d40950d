package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skydrift/pkg/cache"
	"skydrift/pkg/geo"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient(srv.URL, 5*time.Second, cache.NullCache{})
	return c, srv
}

func TestCurrent(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("current_weather") != "true" {
			t.Errorf("missing current_weather param")
		}
		w.Write([]byte(`{"current_weather":{"temperature":21.5,"windspeed":14.2,"weathercode":63}}`))
	})
	defer srv.Close()

	snap, err := c.Current(context.Background(), geo.Coordinate{Lat: 52.52, Lon: 13.41})
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if snap.TemperatureC != 21.5 || snap.WindSpeedKmh != 14.2 || snap.ConditionCode != 63 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestCurrentNonSuccessStatus(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	defer srv.Close()

	if _, err := c.Current(context.Background(), geo.Coordinate{}); err == nil {
		t.Fatal("expected error on non-2xx status")
	}
}

func TestCurrentUsesCache(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"current_weather":{"temperature":10,"windspeed":5,"weathercode":0}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, newMemCache())
	coord := geo.Coordinate{Lat: 48.8566, Lon: 2.3522}

	for i := 0; i < 3; i++ {
		if _, err := c.Current(context.Background(), coord); err != nil {
			t.Fatalf("Current #%d: %v", i, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", calls)
	}
}

func TestBatchTemperatures(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		// One entry per requested coordinate, request order.
		w.Write([]byte(`[
			{"current_weather":{"temperature":1,"windspeed":0,"weathercode":0}},
			{"current_weather":{"temperature":2,"windspeed":0,"weathercode":0}},
			{"current_weather":{"temperature":3,"windspeed":0,"weathercode":0}},
			{"current_weather":{"temperature":4,"windspeed":0,"weathercode":0}},
			{"current_weather":{"temperature":5,"windspeed":0,"weathercode":0}},
			{"current_weather":{"temperature":6,"windspeed":0,"weathercode":0}},
			{"current_weather":{"temperature":7,"windspeed":0,"weathercode":0}},
			{"current_weather":{"temperature":8,"windspeed":0,"weathercode":0}}
		]`))
	})
	defer srv.Close()

	results := c.BatchTemperatures(context.Background())
	if len(results) != len(ReferenceCities) {
		t.Fatalf("got %d results, want %d", len(results), len(ReferenceCities))
	}
	// Ordering follows the reference list.
	if results[0].Name != "Tokyo" || results[0].TemperatureC != 1 {
		t.Errorf("first result = %+v, want Tokyo at 1C", results[0])
	}
	if results[7].Name != "Sao Paulo" || results[7].TemperatureC != 8 {
		t.Errorf("last result = %+v, want Sao Paulo at 8C", results[7])
	}
}

func TestBatchTemperaturesFailureIsEmpty(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	if results := c.BatchTemperatures(context.Background()); len(results) != 0 {
		t.Errorf("expected empty list on failure, got %d", len(results))
	}
}

func TestBatchTemperaturesSingleObjectShape(t *testing.T) {
	// A bare object means the upstream answered a single-location query;
	// that is an explicit error, surfaced to callers as the empty list.
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current_weather":{"temperature":1,"windspeed":0,"weathercode":0}}`))
	})
	defer srv.Close()

	if results := c.BatchTemperatures(context.Background()); len(results) != 0 {
		t.Errorf("expected empty list for object-shaped response, got %d", len(results))
	}
}

func TestConditionLabel(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "clear sky"},
		{3, "overcast"},
		{63, "moderate rain"},
		{95, "thunderstorm"},
		{42, "Unknown"},
		{-1, "Unknown"},
	}

	for _, tt := range tests {
		if got := ConditionLabel(tt.code); got != tt.want {
			t.Errorf("ConditionLabel(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestBoard(t *testing.T) {
	b := NewBoard()
	if len(b.Cities()) != 0 {
		t.Error("expected empty board")
	}

	b.Update([]CityWeather{
		{City: City{Name: "Tokyo", UTCOffset: 9}, TemperatureC: 20},
	})

	cities := b.Cities()
	if len(cities) != 1 || cities[0].Name != "Tokyo" {
		t.Fatalf("unexpected board contents: %+v", cities)
	}

	b.TickClocks()
	if b.Cities()[0].LocalTime == "" {
		t.Error("expected clock tick to populate local time")
	}

	// Cities returns a copy, not the backing slice.
	cities[0].Name = "Mutated"
	if b.Cities()[0].Name != "Tokyo" {
		t.Error("Cities must return a copy")
	}
}

// memCache is a minimal in-memory Cacher for tests.
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) GetCache(ctx context.Context, key string) ([]byte, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memCache) SetCache(ctx context.Context, key string, val []byte) error {
	m.data[key] = val
	return nil
}

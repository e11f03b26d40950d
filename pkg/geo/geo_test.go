package geo

import (
	"math"
	"testing"
)

func TestGeoToScreenPercentCorners(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		left     float64
		top      float64
	}{
		{"North-West Corner", 90, -180, 0, 0},
		{"South-East Corner", -90, 180, 100, 100},
		{"Null Island", 0, 0, 50, 50},
		{"Equator Date Line", 0, 180, 100, 50},
		{"North Pole Greenwich", 90, 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GeoToScreenPercent(tt.lat, tt.lon)
			if math.Abs(p.Left-tt.left) > 1e-9 || math.Abs(p.Top-tt.top) > 1e-9 {
				t.Errorf("GeoToScreenPercent(%v, %v) = {%v, %v}, want {%v, %v}",
					tt.lat, tt.lon, p.Left, p.Top, tt.left, tt.top)
			}
		})
	}
}

func TestScreenToGeoRoundTrip(t *testing.T) {
	const width, height = 1920.0, 960.0

	for lat := -90.0; lat <= 90.0; lat += 7.5 {
		for lon := -180.0; lon <= 180.0; lon += 15.0 {
			p := GeoToScreenPercent(lat, lon)
			// Scale percentages back to pixels, then invert.
			got := ScreenToGeo(p.Left/100*width, p.Top/100*height, width, height)

			if math.Abs(got.Lat-lat) > 1e-9 {
				t.Fatalf("round trip lat mismatch: want %v, got %v", lat, got.Lat)
			}
			if math.Abs(got.Lon-lon) > 1e-9 {
				t.Fatalf("round trip lon mismatch: want %v, got %v", lon, got.Lon)
			}
		}
	}
}

func TestScreenToGeoNoClamping(t *testing.T) {
	// Out-of-viewport pixels map to out-of-range coordinates, by contract.
	c := ScreenToGeo(-100, -100, 1000, 500)
	if c.Valid() {
		t.Errorf("expected out-of-range coordinate, got %v", c)
	}

	p := GeoToScreenPercent(120, 200)
	if p.Top >= 0 || p.Left <= 100 {
		t.Errorf("expected out-of-viewport percentages, got %+v", p)
	}
}

func TestDistance(t *testing.T) {
	// London to Paris, roughly 344 km.
	london := Coordinate{Lat: 51.5074, Lon: -0.1278}
	paris := Coordinate{Lat: 48.8566, Lon: 2.3522}

	d := Distance(london, paris)
	if d < 330000 || d > 360000 {
		t.Errorf("expected ~344km, got %.0fm", d)
	}

	if Distance(london, london) != 0 {
		t.Error("distance to self should be 0")
	}
}

func TestTerrainLabel(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     string
	}{
		{"High Latitude North", 70, 0, TerrainTundra},
		{"High Latitude South", -75, 20, TerrainTundra},
		{"Equatorial Near Meridian", 10, 10, TerrainJungle},
		{"Mid Latitude Far East", 30, 120, TerrainDesert},
		{"Tundra Wins Over Desert", 70, 120, TerrainTundra},
		{"Generic Fallback", 0, 150, TerrainWasteland},
		{"Jungle Southern Hemisphere", -5, -25, TerrainJungle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TerrainLabel(Coordinate{Lat: tt.lat, Lon: tt.lon})
			if got != tt.want {
				t.Errorf("TerrainLabel(%v, %v) = %q, want %q", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

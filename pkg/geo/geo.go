// Package geo provides coordinate types and the screen/geographic
// transforms for the equirectangular world map.
package geo

import (
	"fmt"
	"math"
)

// Coordinate represents a geographic position in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// Valid reports whether the coordinate lies within the lat/lon domain.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String formats the coordinate for log lines.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}

// ScreenPercent is a position on the map viewport expressed as CSS-style
// percentages from the top-left corner.
type ScreenPercent struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
}

// ScreenToGeo converts a pixel position within a viewport of the given size
// to a geographic coordinate under the equirectangular projection.
func ScreenToGeo(x, y, width, height float64) Coordinate {
	return Coordinate{
		Lon: (x/width)*360 - 180,
		Lat: 90 - (y/height)*180,
	}
}

// GeoToScreenPercent converts a coordinate to viewport percentages.
// Inputs are not clamped: out-of-range coordinates produce out-of-viewport
// percentages, which callers treat as "off the map", not as an error.
func GeoToScreenPercent(lat, lon float64) ScreenPercent {
	return ScreenPercent{
		Left: (lon + 180) / 360 * 100,
		Top:  (90 - lat) / 180 * 100,
	}
}

// Distance calculates the Haversine distance between two coordinates in meters.
func Distance(a, b Coordinate) float64 {
	const R = 6371000 // Earth radius in meters
	dLat := (b.Lat - a.Lat) * (math.Pi / 180.0)
	dLon := (b.Lon - a.Lon) * (math.Pi / 180.0)
	lat1 := a.Lat * (math.Pi / 180.0)
	lat2 := b.Lat * (math.Pi / 180.0)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return R * c
}

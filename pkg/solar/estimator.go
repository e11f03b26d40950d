// Package solar estimates the subsolar point for the day/night overlay.
package solar

import (
	"math"
	"time"

	"skydrift/pkg/geo"
)

// Position is the instantaneous subsolar point: the coordinate where the sun
// is directly overhead.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

const (
	axialTilt   = 23.44 // degrees
	equinoxDay  = 81    // approximate day-of-year of the spring equinox
	daysPerYear = 365.0
	degPerHour  = 15.0
)

// Screen projects the position onto the flat map view.
func (p Position) Screen() geo.ScreenPercent {
	return geo.GeoToScreenPercent(p.Lat, p.Lon)
}

// Subsolar computes the subsolar point at the given instant.
// This is a single-harmonic approximation, good enough to draw a terminator,
// not an ephemeris.
func Subsolar(now time.Time) Position {
	utc := now.UTC()

	utcHours := float64(utc.Hour()) + float64(utc.Minute())/60.0

	lon := (12 - utcHours) * degPerHour
	// One wrap is always enough: utcHours in [0,24) bounds the raw value
	// to [-180, 180].
	if lon > 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}

	startOfYear := time.Date(utc.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	dayOfYear := math.Floor(utc.Sub(startOfYear).Hours() / 24)

	declination := axialTilt * math.Sin(2*math.Pi/daysPerYear*(dayOfYear-equinoxDay))

	return Position{Lat: declination, Lon: lon}
}

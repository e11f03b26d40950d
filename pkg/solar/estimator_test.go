package solar

import (
	"math"
	"testing"
	"time"
)

func TestSubsolarLongitude(t *testing.T) {
	tests := []struct {
		name string
		hour int
		min  int
		want float64
	}{
		{"UTC Noon", 12, 0, 0},
		{"UTC Six AM", 6, 0, 90},
		{"UTC Six PM", 18, 0, -90},
		{"Half Past Noon", 12, 30, -7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Date is arbitrary, longitude depends only on time of day.
			now := time.Date(2024, time.June, 15, tt.hour, tt.min, 0, 0, time.UTC)
			pos := Subsolar(now)
			if math.Abs(pos.Lon-tt.want) > 1e-9 {
				t.Errorf("Subsolar(%02d:%02d).Lon = %v, want %v", tt.hour, tt.min, pos.Lon, tt.want)
			}
		})
	}
}

func TestSubsolarMidnightWrap(t *testing.T) {
	// At exactly 00:00 UTC the raw value is 180; the wrap must keep it on
	// the antimeridian, either sign is acceptable.
	pos := Subsolar(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(math.Abs(pos.Lon)-180) > 1e-9 {
		t.Errorf("midnight subsolar longitude = %v, want +-180", pos.Lon)
	}
}

func TestSubsolarDeclination(t *testing.T) {
	// Near the spring equinox (day 81) declination crosses zero.
	equinox := time.Date(2024, time.March, 22, 12, 0, 0, 0, time.UTC)
	pos := Subsolar(equinox)
	if math.Abs(pos.Lat) > 1.5 {
		t.Errorf("equinox declination = %v, want ~0", pos.Lat)
	}

	// Northern summer: declination positive, bounded by the axial tilt.
	june := Subsolar(time.Date(2024, time.June, 21, 12, 0, 0, 0, time.UTC))
	if june.Lat <= 0 || june.Lat > axialTilt {
		t.Errorf("june declination = %v, want in (0, %v]", june.Lat, axialTilt)
	}

	// Northern winter: negative.
	dec := Subsolar(time.Date(2024, time.December, 21, 12, 0, 0, 0, time.UTC))
	if dec.Lat >= 0 || dec.Lat < -axialTilt {
		t.Errorf("december declination = %v, want in [-%v, 0)", dec.Lat, axialTilt)
	}
}

func TestSubsolarUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	local := time.Date(2024, time.June, 15, 21, 0, 0, 0, loc) // 12:00 UTC
	pos := Subsolar(local)
	if math.Abs(pos.Lon) > 1e-9 {
		t.Errorf("expected UTC conversion before estimation, got lon %v", pos.Lon)
	}
}

func TestServiceRefresh(t *testing.T) {
	s := NewService()
	pos := s.Current()
	if pos.Lon < -180 || pos.Lon > 180 {
		t.Errorf("longitude out of range: %v", pos.Lon)
	}
	if pos.Lat < -axialTilt || pos.Lat > axialTilt {
		t.Errorf("declination out of range: %v", pos.Lat)
	}
}

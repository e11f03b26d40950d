package api

import (
	"testing"
)

func TestFormatLogLine(t *testing.T) {
	input := `time=2026-08-30T06:50:46.074+01:00 level=INFO msg="Pipeline: report on air" runId=abc123 theme=vaporwave coord="12.5000, -25.2500" longparam=thisiswaytooLongtobedisplayed`
	expected := `06:50:46 Pipeline: report on air (coord=12.5000, -25.2500, theme=vaporwave, runId=abc123)`

	result := formatLogLine(input)
	if result != expected {
		t.Errorf("Expected '%s', got '%s'", expected, result)
	}
}

func TestFormatLogLineSkipsSource(t *testing.T) {
	input := `time=2026-08-30T06:50:46.074+01:00 level=ERROR source=pipeline.go:211 msg="Pipeline: run failed" category=WEATHER_FAILED coord="0.0000, 0.0000"`
	expected := `06:50:46 Pipeline: run failed (coord=0.0000, 0.0000, category=WEATHER_FAILED)`

	if got := formatLogLine(input); got != expected {
		t.Errorf("Expected '%s', got '%s'", expected, got)
	}
}

func TestFormatLogLinePassthrough(t *testing.T) {
	input := "not a structured line"
	if got := formatLogLine(input); got != input {
		t.Errorf("Expected passthrough, got '%s'", got)
	}
}

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"skydrift/pkg/geo"
	"skydrift/pkg/solar"
	"skydrift/pkg/weather"
)

type fakeBoard struct {
	cities []weather.CityWeather
}

func (f *fakeBoard) Cities() []weather.CityWeather { return f.cities }

type fakeSolar struct {
	pos solar.Position
}

func (f *fakeSolar) Current() solar.Position { return f.pos }

func TestHandleCities(t *testing.T) {
	board := &fakeBoard{cities: []weather.CityWeather{
		{City: weather.City{Name: "Tokyo", Coordinate: geo.Coordinate{Lat: 35.68, Lon: 139.69}}, TemperatureC: 27.5, LocalTime: "23:10"},
	}}
	h := NewBoardHandler(board, &fakeSolar{})

	rec := httptest.NewRecorder()
	h.HandleCities(rec, httptest.NewRequest(http.MethodGet, "/api/cities", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Cities []weather.CityWeather `json:"cities"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Cities, 1)
	assert.Equal(t, "Tokyo", resp.Cities[0].Name)
	assert.Equal(t, 27.5, resp.Cities[0].TemperatureC)
}

func TestHandleSolarProjectsToScreen(t *testing.T) {
	h := NewBoardHandler(&fakeBoard{}, &fakeSolar{pos: solar.Position{Lat: 0, Lon: 0}})

	rec := httptest.NewRecorder()
	h.HandleSolar(rec, httptest.NewRequest(http.MethodGet, "/api/solar", nil))

	var resp SolarResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	// The subsolar point at the origin sits in the center of the view.
	assert.InDelta(t, 50.0, resp.Left, 1e-9)
	assert.InDelta(t, 50.0, resp.Top, 1e-9)
}

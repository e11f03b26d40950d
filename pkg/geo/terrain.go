package geo

// Terrain labels used to flavor generation prompts.
const (
	TerrainTundra    = "frozen tundra"
	TerrainJungle    = "dense jungle"
	TerrainDesert    = "lonely desert highway"
	TerrainWasteland = "industrial wasteland"
)

// TerrainLabel derives a coarse terrain description from a coordinate.
// Rules are evaluated in priority order, first match wins: the tundra check
// takes precedence over everything else at high latitude.
func TerrainLabel(c Coordinate) string {
	absLat := c.Lat
	if absLat < 0 {
		absLat = -absLat
	}
	absLon := c.Lon
	if absLon < 0 {
		absLon = -absLon
	}

	switch {
	case absLat > 60:
		return TerrainTundra
	case absLat < 20 && absLon < 30:
		return TerrainJungle
	case absLat > 20 && absLat < 40 && absLon > 100:
		return TerrainDesert
	default:
		return TerrainWasteland
	}
}

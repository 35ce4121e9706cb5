package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itemtrace/custody-backend-go/internal/models"
)

func TestHaversineDistance(t *testing.T) {
	// Paris to London, roughly 344 km.
	d := HaversineDistance(48.8566, 2.3522, 51.5074, -0.1278)
	assert.InDelta(t, 344000, d, 5000)

	assert.Zero(t, HaversineDistance(10, 20, 10, 20))
}

func TestPathLength(t *testing.T) {
	markers := []models.Marker{
		{Lat: 48.8566, Lon: 2.3522},
		{Lat: 51.5074, Lon: -0.1278},
		{Lat: 52.3676, Lon: 4.9041},
	}

	direct := HaversineDistance(48.8566, 2.3522, 51.5074, -0.1278) +
		HaversineDistance(51.5074, -0.1278, 52.3676, 4.9041)
	assert.InDelta(t, direct, PathLength(markers), 1)

	assert.Zero(t, PathLength(nil))
	assert.Zero(t, PathLength(markers[:1]))
}

func TestCentroid(t *testing.T) {
	_, _, ok := Centroid(nil)
	assert.False(t, ok)

	lat, lon, ok := Centroid([]models.Marker{{Lat: 10, Lon: 20}})
	assert.True(t, ok)
	assert.InDelta(t, 10, lat, 1e-9)
	assert.InDelta(t, 20, lon, 1e-9)

	// Symmetric pair straddling a midpoint.
	lat, lon, ok = Centroid([]models.Marker{
		{Lat: 10, Lon: 20},
		{Lat: 12, Lon: 20},
	})
	assert.True(t, ok)
	assert.InDelta(t, 11, lat, 0.01)
	assert.InDelta(t, 20, lon, 0.01)
}

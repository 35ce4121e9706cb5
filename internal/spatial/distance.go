package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/itemtrace/custody-backend-go/internal/models"
)

// EarthRadiusMeters is Earth's mean radius in meters.
const EarthRadiusMeters = 6371000.0

// HaversineDistance calculates the great-circle distance between two points
// in meters.
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lon1)
	p2 := s2.LatLngFromDegrees(lat2, lon2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// PathLength sums the great-circle legs between consecutive markers, in
// meters. Fewer than two markers yields 0.
func PathLength(markers []models.Marker) float64 {
	var total float64
	for i := 1; i < len(markers); i++ {
		total += HaversineDistance(
			markers[i-1].Lat, markers[i-1].Lon,
			markers[i].Lat, markers[i].Lon,
		)
	}
	return total
}

// Centroid returns the spherical centroid of the marker coordinates as
// lat/lon degrees. ok is false for an empty slice.
func Centroid(markers []models.Marker) (lat, lon float64, ok bool) {
	if len(markers) == 0 {
		return 0, 0, false
	}

	var sum s2.Point
	for _, m := range markers {
		p := s2.PointFromLatLng(s2.LatLngFromDegrees(m.Lat, m.Lon))
		sum = s2.Point{Vector: sum.Add(p.Vector)}
	}

	ll := s2.LatLngFromPoint(s2.Point{Vector: sum.Normalize()})
	return ll.Lat.Degrees(), ll.Lng.Degrees(), true
}

package geo

import (
	"math"

	"biocareer/opportunity-service/internal/model"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the great-circle distance in kilometres between a and b
// using the haversine formula. It is defined for every valid coordinate pair.
func Distance(a, b model.Coordinates) float64 {
	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h just outside [0,1] for antipodal points.
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

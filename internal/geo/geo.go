package geo

import (
	"math"
)

const earthRadiusKM = 6371.0

// Distance returns the great-circle distance in kilometers between two
// points given as (latitude, longitude) in degrees, using the haversine
// formula. The atan2 form keeps the result stable for near-antipodal
// points where asin would hit its domain boundary.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

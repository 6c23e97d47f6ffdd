// Package geo provides great-circle distance computation between
// geographic coordinates.
package geo

import (
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the haversine formula.
const EarthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance in kilometers between
// (lat1, lon1) and (lat2, lon2), given in decimal degrees.
//
//	a = sin²(Δlat/2) + cos(lat1)·cos(lat2)·sin²(Δlon/2)
//	d = 2·R·atan2(√a, √(1-a))
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	latDelta := toRadians(lat2 - lat1)
	lonDelta := toRadians(lon2 - lon1)

	a := math.Sin(latDelta/2)*math.Sin(latDelta/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(lonDelta/2)*math.Sin(lonDelta/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

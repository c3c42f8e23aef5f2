// Package geo holds the one distance model shared by every geofence call
// site. Containment checks, booth creation and booth edits must all agree
// on how far two coordinates are apart; reimplementing distance math per
// operation is how drift creeps in.
package geo

import "math"

const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// lat/lng points, using the spherical haversine formula. Accurate to well
// under a meter at booth-radius scales.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lng2 - lng1) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Within reports whether the point lies inside (or exactly on the edge of)
// the circular geofence around the center.
func Within(lat, lng, centerLat, centerLng, radiusMeters float64) bool {
	return Distance(lat, lng, centerLat, centerLng) <= radiusMeters
}

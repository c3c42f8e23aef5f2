package util

import "fmt"

// ValidateLatitude checks a latitude in degrees.
func ValidateLatitude(lat float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude out of range: %f", lat)
	}
	return nil
}

// ValidateLongitude checks a longitude in degrees.
func ValidateLongitude(lng float64) error {
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude out of range: %f", lng)
	}
	return nil
}

// ValidateRadius checks a geofence radius in meters. Zero is allowed (a
// point-only fence); negative is not.
func ValidateRadius(radius float64) error {
	if radius < 0 {
		return fmt.Errorf("radius must not be negative, got %f", radius)
	}
	if radius > 100000 {
		return fmt.Errorf("radius too large, got %f", radius)
	}
	return nil
}

// ValidateAccuracy checks a reported GPS accuracy in meters.
func ValidateAccuracy(accuracy float64) error {
	if accuracy < 0 {
		return fmt.Errorf("accuracy must not be negative, got %f", accuracy)
	}
	return nil
}

package geo

import (
	"math"
	"testing"
)

func TestDistance_ZeroAtSamePoint(t *testing.T) {
	if d := Distance(12.9, 77.6, 12.9, 77.6); d != 0 {
		t.Errorf("Distance(same point) = %f, want 0", d)
	}
}

func TestDistance_KnownValue(t *testing.T) {
	// One degree of latitude is about 111.19 km on the sphere.
	d := Distance(12.0, 77.6, 13.0, 77.6)
	if math.Abs(d-111195) > 200 {
		t.Errorf("Distance for 1 degree latitude = %f, want ~111195", d)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := Distance(12.9, 77.6, 13.1, 77.8)
	b := Distance(13.1, 77.8, 12.9, 77.6)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("Distance not symmetric: %f vs %f", a, b)
	}
}

func TestWithin_CenterAlwaysInside(t *testing.T) {
	// Point exactly at the center is within the fence for any radius >= 0.
	for _, radius := range []float64{0, 1, 50, 100000} {
		if !Within(12.9, 77.6, 12.9, 77.6, radius) {
			t.Errorf("center point not within radius %f", radius)
		}
	}
}

func TestWithin_EdgeCases(t *testing.T) {
	center := struct{ lat, lng float64 }{12.9, 77.6}

	// Roughly 80m north of center.
	near := center.lat + 80.0/111195.0
	if !Within(near, center.lng, center.lat, center.lng, 100) {
		t.Error("point ~80m away should be within 100m geofence")
	}

	// Roughly 150m north of center.
	far := center.lat + 150.0/111195.0
	if Within(far, center.lng, center.lat, center.lng, 100) {
		t.Error("point ~150m away should not be within 100m geofence")
	}
}

func TestWithin_JustBeyondRadius(t *testing.T) {
	// A point at radius + epsilon must never be inside.
	const radius = 50.0
	lat := 12.9 + (radius+5)/111195.0
	if Within(lat, 77.6, 12.9, 77.6, radius) {
		t.Error("point beyond radius reported as inside")
	}
}

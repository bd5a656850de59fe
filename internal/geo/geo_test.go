package geo

import (
	"math"
	"testing"
)

const tolerance = 1e-6

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	if d := DistanceKm(48.423, -123.370, 48.423, -123.370); d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	ab := DistanceKm(48.423, -123.370, 49.282, -123.120)
	ba := DistanceKm(49.282, -123.120, 48.423, -123.370)
	if math.Abs(ab-ba) > tolerance {
		t.Fatalf("distance not symmetric: %f vs %f", ab, ba)
	}
}

func TestDistanceKmKnownValue(t *testing.T) {
	// Victoria Harbour to Vancouver Harbour is roughly 97 km.
	d := DistanceKm(48.423, -123.370, 49.282, -123.120)
	if d < 90 || d > 105 {
		t.Fatalf("unexpected distance %f", d)
	}
}

func TestInterpolateEndpoints(t *testing.T) {
	lat1, lon1 := 48.423, -123.370
	lat2, lon2 := 49.282, -123.120

	lat, lon := Interpolate(lat1, lon1, lat2, lon2, 0)
	if math.Abs(lat-lat1) > tolerance || math.Abs(lon-lon1) > tolerance {
		t.Fatalf("fraction 0: got (%f,%f), want (%f,%f)", lat, lon, lat1, lon1)
	}

	lat, lon = Interpolate(lat1, lon1, lat2, lon2, 1)
	if math.Abs(lat-lat2) > tolerance || math.Abs(lon-lon2) > tolerance {
		t.Fatalf("fraction 1: got (%f,%f), want (%f,%f)", lat, lon, lat2, lon2)
	}
}

func TestInterpolateCoincidentPoints(t *testing.T) {
	for _, fraction := range []float64{0, 0.25, 0.5, 1} {
		lat, lon := Interpolate(48.423, -123.370, 48.423, -123.370, fraction)
		if lat != 48.423 || lon != -123.370 {
			t.Fatalf("fraction %f: got (%f,%f)", fraction, lat, lon)
		}
	}
}

func TestInterpolateMidpointOnSegment(t *testing.T) {
	lat1, lon1 := 48.423, -123.370
	lat2, lon2 := 49.282, -123.120

	lat, lon := Interpolate(lat1, lon1, lat2, lon2, 0.5)
	toMid := DistanceKm(lat1, lon1, lat, lon)
	fromMid := DistanceKm(lat, lon, lat2, lon2)
	if math.Abs(toMid-fromMid) > 1e-3 {
		t.Fatalf("midpoint not equidistant: %f vs %f", toMid, fromMid)
	}
}

// Package geo provides great-circle math for positions given in degrees.
package geo

import "math"

const earthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance between two points.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := degreesToRadians(lat1)
	phi2 := degreesToRadians(lat2)
	dPhi := degreesToRadians(lat2 - lat1)
	dLambda := degreesToRadians(lon2 - lon1)

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)

	a := sinPhi*sinPhi + math.Cos(phi1)*math.Cos(phi2)*sinLambda*sinLambda
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// Interpolate returns the point a given fraction of the way along the great
// circle from (lat1,lon1) to (lat2,lon2), via spherical linear interpolation.
// Fraction is not clamped here; callers keep it in [0,1].
func Interpolate(lat1, lon1, lat2, lon2, fraction float64) (float64, float64) {
	phi1 := degreesToRadians(lat1)
	lambda1 := degreesToRadians(lon1)
	phi2 := degreesToRadians(lat2)
	lambda2 := degreesToRadians(lon2)

	x1 := math.Cos(phi1) * math.Cos(lambda1)
	y1 := math.Cos(phi1) * math.Sin(lambda1)
	z1 := math.Sin(phi1)

	x2 := math.Cos(phi2) * math.Cos(lambda2)
	y2 := math.Cos(phi2) * math.Sin(lambda2)
	z2 := math.Sin(phi2)

	// Clamp the dot product so floating-point drift cannot push it outside
	// the Acos domain.
	dot := x1*x2 + y1*y2 + z1*z2
	dot = math.Max(-1, math.Min(1, dot))
	angular := math.Acos(dot)

	// Near-coincident points: sin(angular) would vanish.
	if angular < 1e-10 {
		return lat1, lon1
	}

	sinAngular := math.Sin(angular)
	a := math.Sin((1-fraction)*angular) / sinAngular
	b := math.Sin(fraction*angular) / sinAngular

	x := a*x1 + b*x2
	y := a*y1 + b*y2
	z := a*z1 + b*z2

	return radiansToDegrees(math.Asin(z)), radiansToDegrees(math.Atan2(y, x))
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

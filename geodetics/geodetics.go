// Package geodetics provides the ellipsoidal distance and azimuth
// primitives the geometry engine consumes.
//
// Inverse and Direct implement Vincenty's solutions on the WGS84
// ellipsoid. Angular epicentral distance uses the spherical mean Earth
// radius, matching common seismological practice.
package geodetics

import (
	"errors"
	"math"
)

// WGS84 ellipsoid and mean Earth radius.
const (
	semiMajorM    = 6378137.0
	flattening    = 1 / 298.257223563
	meanRadiusKm  = 6371.0
	convergence   = 1e-12
	maxIterations = 200
)

// ErrNoConvergence indicates the inverse solution failed to converge,
// which happens for nearly antipodal points.
var ErrNoConvergence = errors.New("geodetics: inverse solution did not converge")

// Inverse solves the geodetic inverse problem between two points given
// in degrees. It returns the geodesic distance in meters, the forward
// azimuth at the first point and the back azimuth at the second point,
// both in degrees in [0, 360).
func Inverse(lat1, lon1, lat2, lon2 float64) (distM, azimuth, backAzimuth float64, err error) {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dLon := radians(lon2 - lon1)

	b := semiMajorM * (1 - flattening)

	u1 := math.Atan((1 - flattening) * math.Tan(phi1))
	u2 := math.Atan((1 - flattening) * math.Tan(phi2))

	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := dLon

	var (
		sinSigma, cosSigma, sigma   float64
		sinAlpha, cosSqAlpha, cos2M float64
	)

	for i := 0; ; i++ {
		if i >= maxIterations {
			return 0, 0, 0, ErrNoConvergence
		}

		sinLambda, cosLambda := math.Sincos(lambda)

		sinSigma = math.Hypot(cosU2*sinLambda,
			cosU1*sinU2-sinU1*cosU2*cosLambda)
		if sinSigma == 0 {
			// Coincident points.
			return 0, 0, 0, nil
		}

		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha = 1 - sinAlpha*sinAlpha

		if cosSqAlpha == 0 {
			cos2M = 0 // equatorial line
		} else {
			cos2M = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		cc := flattening / 16 * cosSqAlpha * (4 + flattening*(4-3*cosSqAlpha))
		prev := lambda
		lambda = dLon + (1-cc)*flattening*sinAlpha*
			(sigma+cc*sinSigma*(cos2M+cc*cosSigma*(-1+2*cos2M*cos2M)))

		if math.Abs(lambda-prev) < convergence {
			break
		}
	}

	uSq := cosSqAlpha * (semiMajorM*semiMajorM - b*b) / (b * b)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	deltaSigma := bigB * sinSigma * (cos2M + bigB/4*
		(cosSigma*(-1+2*cos2M*cos2M)-
			bigB/6*cos2M*(-3+4*sinSigma*sinSigma)*(-3+4*cos2M*cos2M)))

	distM = b * bigA * (sigma - deltaSigma)

	sinLambda, cosLambda := math.Sincos(lambda)

	azimuth = degrees(math.Atan2(cosU2*sinLambda,
		cosU1*sinU2-sinU1*cosU2*cosLambda))
	backAzimuth = degrees(math.Atan2(-cosU1*sinLambda,
		cosU2*sinU1-sinU2*cosU1*cosLambda))

	return distM, norm360(azimuth), norm360(backAzimuth), nil
}

// Direct solves the geodetic direct problem: the point reached from
// (lat, lon) along the given azimuth (degrees) after distM meters.
func Direct(lat, lon, azimuth, distM float64) (lat2, lon2 float64) {
	phi1 := radians(lat)
	alpha1 := radians(azimuth)

	b := semiMajorM * (1 - flattening)

	sinAlpha1, cosAlpha1 := math.Sincos(alpha1)

	tanU1 := (1 - flattening) * math.Tan(phi1)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha

	uSq := cosSqAlpha * (semiMajorM*semiMajorM - b*b) / (b * b)
	bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))

	sigma := distM / (b * bigA)

	var sinSigma, cosSigma, cos2M float64

	for i := 0; i < maxIterations; i++ {
		cos2M = math.Cos(2*sigma1 + sigma)
		sinSigma, cosSigma = math.Sincos(sigma)

		deltaSigma := bigB * sinSigma * (cos2M + bigB/4*
			(cosSigma*(-1+2*cos2M*cos2M)-
				bigB/6*cos2M*(-3+4*sinSigma*sinSigma)*(-3+4*cos2M*cos2M)))

		prev := sigma
		sigma = distM/(b*bigA) + deltaSigma

		if math.Abs(sigma-prev) < convergence {
			break
		}
	}

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1

	lat2 = degrees(math.Atan2(sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-flattening)*math.Hypot(sinAlpha, tmp)))

	lambda := math.Atan2(sinSigma*sinAlpha1,
		cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	cc := flattening / 16 * cosSqAlpha * (4 + flattening*(4-3*cosSqAlpha))
	l := lambda - (1-cc)*flattening*sinAlpha*
		(sigma+cc*sinSigma*(cos2M+cc*cosSigma*(-1+2*cos2M*cos2M)))

	lon2 = lon + degrees(l)
	if lon2 > 180 {
		lon2 -= 360
	} else if lon2 < -180 {
		lon2 += 360
	}

	return lat2, lon2
}

// KilometerToDegree converts a great-circle distance in kilometers to
// angular degrees using the mean Earth radius.
func KilometerToDegree(km float64) float64 {
	return km / (math.Pi * meanRadiusKm / 180)
}

// DegreeToKilometer is the inverse of KilometerToDegree.
func DegreeToKilometer(deg float64) float64 {
	return deg * math.Pi * meanRadiusKm / 180
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func norm360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}

	return deg
}

package astro

import (
	"math"
	"time"
)

// MoonEquatorial computes the Moon's equatorial coordinates at Julian Day jd from
// its mean orbital elements plus the largest periodic perturbations. Accuracy is
// a few tenths of a degree, adequate for pointing a camera.
func MoonEquatorial(jd float64) Equatorial {
	// Julian centuries since J2000.0
	T := (jd - J2000) / 36525.0

	// Mean elements (degrees)
	L1 := NormalizeDegrees(218.3164477 + 481267.88123421*T) // mean longitude
	D := NormalizeDegrees(297.8501921 + 445267.1114034*T)   // mean elongation
	M1 := NormalizeDegrees(134.9633964 + 477198.8675055*T)  // mean anomaly
	F := NormalizeDegrees(93.2720950 + 483202.0175233*T)    // argument of latitude
	Msun := 357.529 + 35999.05*T                            // Sun's mean anomaly

	lonDeg := L1 +
		6.289*math.Sin(degToRad(M1)) +
		1.274*math.Sin(degToRad(2*D-M1)) +
		0.658*math.Sin(degToRad(2*D)) +
		0.214*math.Sin(degToRad(2*M1)) -
		0.186*math.Sin(degToRad(Msun))

	latDeg := 5.128*math.Sin(degToRad(F)) +
		0.280*math.Sin(degToRad(M1+F)) +
		0.277*math.Sin(degToRad(M1-F)) +
		0.173*math.Sin(degToRad(2*D-F))

	eps := degToRad(23.439291 - 0.0000137*T)

	// Ecliptic -> equatorial via direction cosines
	eq := eclipticToEquatorial(unitFromSpherical(degToRad(lonDeg), degToRad(latDeg)), eps)
	ra, dec := sphericalFromUnit(eq)

	return Equatorial{
		RAdeg:          NormalizeDegrees(radToDeg(ra)),
		DecDeg:         radToDeg(dec),
		EclipticLonDeg: NormalizeDegrees(lonDeg),
	}
}

// MoonPosition returns the Moon's altitude and azimuth for an observer at
// latDeg/lonDeg (east positive) at the UTC instant dt.
func MoonPosition(latDeg, lonDeg float64, dt UTCDateTime) (HorizontalPosition, error) {
	if err := (Observer{LatDeg: latDeg, LonDeg: lonDeg}).Validate(); err != nil {
		return HorizontalPosition{}, err
	}
	if err := dt.Validate(); err != nil {
		return HorizontalPosition{}, err
	}

	jd := julianDay(dt)
	eq := MoonEquatorial(jd)
	return equatorialToHorizontal(degToRad(eq.RAdeg), degToRad(eq.DecDeg), latDeg, lonDeg, jd), nil
}

// MoonPositionAt is MoonPosition for an Observer and a time.Time.
func MoonPositionAt(obs Observer, t time.Time) (HorizontalPosition, error) {
	return MoonPosition(obs.LatDeg, obs.LonDeg, FromTime(t))
}

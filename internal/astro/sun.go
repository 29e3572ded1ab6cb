package astro

import (
	"math"
	"time"
)

// Equatorial holds a body's geocentric equatorial coordinates together with
// the ecliptic longitude they were derived from.
type Equatorial struct {
	RAdeg          float64 // Right Ascension in degrees (0-360)
	DecDeg         float64 // Declination in degrees (-90 to +90)
	EclipticLonDeg float64 // Apparent ecliptic longitude in degrees (0-360)
}

// SunEquatorial computes the Sun's equatorial coordinates at Julian Day jd using
// the low-precision solar longitude series (first two equation-of-center terms).
func SunEquatorial(jd float64) Equatorial {
	n := jd - J2000

	// Mean longitude and mean anomaly (degrees)
	L := NormalizeDegrees(280.460 + 0.9856474*n)
	g := degToRad(NormalizeDegrees(357.528 + 0.9856003*n))

	// Ecliptic longitude
	lambda := degToRad(L + 1.915*math.Sin(g) + 0.020*math.Sin(2*g))

	// Obliquity of the ecliptic
	eps := degToRad(23.439 - 0.0000004*n)

	ra := math.Atan2(math.Cos(eps)*math.Sin(lambda), math.Cos(lambda))
	dec := math.Asin(math.Sin(eps) * math.Sin(lambda))

	return Equatorial{
		RAdeg:          NormalizeDegrees(radToDeg(ra)),
		DecDeg:         radToDeg(dec),
		EclipticLonDeg: NormalizeDegrees(radToDeg(lambda)),
	}
}

// SunPosition returns the Sun's altitude and azimuth for an observer at
// latDeg/lonDeg (east positive) at the UTC instant dt.
func SunPosition(latDeg, lonDeg float64, dt UTCDateTime) (HorizontalPosition, error) {
	if err := (Observer{LatDeg: latDeg, LonDeg: lonDeg}).Validate(); err != nil {
		return HorizontalPosition{}, err
	}
	if err := dt.Validate(); err != nil {
		return HorizontalPosition{}, err
	}

	jd := julianDay(dt)
	eq := SunEquatorial(jd)
	return equatorialToHorizontal(degToRad(eq.RAdeg), degToRad(eq.DecDeg), latDeg, lonDeg, jd), nil
}

// SunPositionAt is SunPosition for an Observer and a time.Time.
func SunPositionAt(obs Observer, t time.Time) (HorizontalPosition, error) {
	return SunPosition(obs.LatDeg, obs.LonDeg, FromTime(t))
}

// Package astro computes apparent Sun and Moon positions for a ground observer.
//
// Every function here is a pure function of its inputs: there is no cache and no
// state carried between calls, so the package is safe for concurrent use.
package astro

import (
	"fmt"
	"math"
	"time"
)

// HorizontalPosition is a body's position in the observer's local horizon frame.
type HorizontalPosition struct {
	AltitudeDeg float64 `json:"altitude_deg"` // -90..90, positive above the horizon
	AzimuthDeg  float64 `json:"azimuth_deg"`  // [0,360), clockwise from true north
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 `json:"lat" validate:"min=-90,max=90"`   // Latitude in degrees (north positive)
	LonDeg float64 `json:"lon" validate:"min=-180,max=180"` // Longitude in degrees (east positive)
	Name   string  `json:"name,omitempty"`                  // Optional name for the site
}

// Validate rejects non-finite or out-of-range coordinates.
func (o Observer) Validate() error {
	if math.IsNaN(o.LatDeg) || math.IsNaN(o.LonDeg) || math.IsInf(o.LatDeg, 0) || math.IsInf(o.LonDeg, 0) {
		return fmt.Errorf("%w: observer coordinates must be finite", ErrInvalidInput)
	}
	if err := validate.Struct(o); err != nil {
		return invalidInput(err)
	}
	return nil
}

// zenithEpsilon bounds cos(alt)*cos(lat) below which azimuth is undefined.
const zenithEpsilon = 1e-12

// equatorialToHorizontal converts RA/Dec (radians) to altitude/azimuth for an
// observer at latDeg/lonDeg at Julian Day jd. It is the single place where the
// sign conventions live: azimuth clockwise from north, altitude positive up.
//
// At the zenith, the nadir or a geographic pole the azimuth is undefined and
// is reported as 0.
func equatorialToHorizontal(ra, dec, latDeg, lonDeg, jd float64) HorizontalPosition {
	lst := localSiderealTime(jd, lonDeg)
	lat := degToRad(latDeg)

	// Hour angle = LST - RA
	ha := degToRad(lst) - ra

	// Floating point can push the identity a hair past ±1
	sinAlt := clamp(math.Sin(lat)*math.Sin(dec)+math.Cos(lat)*math.Cos(dec)*math.Cos(ha), -1, 1)
	alt := math.Asin(sinAlt)

	den := math.Cos(alt) * math.Cos(lat)
	if math.Abs(den) < zenithEpsilon {
		return HorizontalPosition{AltitudeDeg: radToDeg(alt), AzimuthDeg: 0}
	}

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / den
	sinAz := -math.Cos(dec) * math.Sin(ha) / math.Cos(alt)
	az := math.Atan2(sinAz, cosAz)

	return HorizontalPosition{
		AltitudeDeg: radToDeg(alt),
		AzimuthDeg:  NormalizeDegrees(radToDeg(az)),
	}
}

// greenwichSiderealTime returns GST in degrees [0,360) for Julian Day jd.
// Linear term of the IAU 1982 formula, matching the low-precision models.
func greenwichSiderealTime(jd float64) float64 {
	return NormalizeDegrees(280.46061837 + 360.98564736629*(jd-J2000))
}

// localSiderealTime returns LST in degrees [0,360) for an east-positive longitude.
func localSiderealTime(jd, lonDeg float64) float64 {
	return NormalizeDegrees(greenwichSiderealTime(jd) + lonDeg)
}

// NormalizeDegrees maps any finite angle into [0, 360).
func NormalizeDegrees(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	// -1e-15 + 360 rounds to exactly 360
	if a >= 360 {
		a = 0
	}
	return a
}

// AngularSeparation returns the great-circle angle in degrees between two
// horizontal positions.
func AngularSeparation(a, b HorizontalPosition) float64 {
	alt1, alt2 := degToRad(a.AltitudeDeg), degToRad(b.AltitudeDeg)
	dAz := degToRad(b.AzimuthDeg - a.AzimuthDeg)
	dAlt := alt2 - alt1

	// Haversine
	h := math.Sin(dAlt/2)*math.Sin(dAlt/2) +
		math.Cos(alt1)*math.Cos(alt2)*math.Sin(dAz/2)*math.Sin(dAz/2)

	return radToDeg(2 * math.Asin(math.Sqrt(clamp(h, 0, 1))))
}

// Body identifies a tracked celestial body.
type Body int

const (
	Sun Body = iota
	Moon
)

// Bodies lists every tracked body in display order.
var Bodies = []Body{Sun, Moon}

func (b Body) String() string {
	switch b {
	case Sun:
		return "sun"
	case Moon:
		return "moon"
	default:
		return "unknown"
	}
}

// BodyPosition dispatches to SunPositionAt or MoonPositionAt.
func BodyPosition(b Body, obs Observer, t time.Time) (HorizontalPosition, error) {
	switch b {
	case Sun:
		return SunPositionAt(obs, t)
	case Moon:
		return MoonPositionAt(obs, t)
	default:
		return HorizontalPosition{}, fmt.Errorf("%w: unknown body %d", ErrInvalidInput, int(b))
	}
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

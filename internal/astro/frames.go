package astro

import (
	"math"
)

// vec3 is a direction in any of the frames below.
type vec3 struct {
	X, Y, Z float64
}

// unitFromSpherical returns the unit vector for longitude/latitude in radians.
// Works for ecliptic (λ, β) and equatorial (α, δ) alike.
func unitFromSpherical(lon, lat float64) vec3 {
	return vec3{
		X: math.Cos(lat) * math.Cos(lon),
		Y: math.Cos(lat) * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// sphericalFromUnit returns longitude in (-π, π] and latitude in [-π/2, π/2]
// for a unit vector. Z is clamped so rounding cannot push asin out of domain.
func sphericalFromUnit(v vec3) (lon, lat float64) {
	return math.Atan2(v.Y, v.X), math.Asin(clamp(v.Z, -1, 1))
}

// eclipticToEquatorial rotates an ecliptic vector about the X axis by the
// obliquity eps (radians) into the equatorial frame.
func eclipticToEquatorial(ecl vec3, eps float64) vec3 {
	cosE := math.Cos(eps)
	sinE := math.Sin(eps)

	return vec3{
		X: ecl.X,
		Y: ecl.Y*cosE - ecl.Z*sinE,
		Z: ecl.Y*sinE + ecl.Z*cosE,
	}
}

package astro

import (
	"math"
)

// SynodicMonth is the mean length of the lunar cycle in days.
const SynodicMonth = 29.530588853

// Phase describes the Moon's illumination as seen from Earth.
type Phase struct {
	ElongationDeg float64 `json:"elongation_deg"` // Sun→Moon ecliptic longitude difference [0,360)
	Illumination  float64 `json:"illumination"`   // Illuminated fraction [0,1]
	AgeDays       float64 `json:"age_days"`       // Days since new moon
	Waxing        bool    `json:"waxing"`
	Name          string  `json:"name"`
}

// MoonPhase computes the Moon's phase at dt from the same Sun and Moon series
// used for positions.
func MoonPhase(dt UTCDateTime) (Phase, error) {
	jd, err := JulianDay(dt)
	if err != nil {
		return Phase{}, err
	}
	return moonPhase(jd), nil
}

func moonPhase(jd float64) Phase {
	sun := SunEquatorial(jd)
	moon := MoonEquatorial(jd)

	elong := NormalizeDegrees(moon.EclipticLonDeg - sun.EclipticLonDeg)
	illum := (1 - math.Cos(degToRad(elong))) / 2
	waxing := elong < 180

	return Phase{
		ElongationDeg: elong,
		Illumination:  illum,
		AgeDays:       elong / 360 * SynodicMonth,
		Waxing:        waxing,
		Name:          phaseName(elong),
	}
}

// phaseName buckets elongation into the eight traditional phase names; the
// principal phases get a ±6° window (about half a day).
func phaseName(elong float64) string {
	switch {
	case elong < 6 || elong >= 354:
		return "New Moon"
	case elong < 84:
		return "Waxing Crescent"
	case elong < 96:
		return "First Quarter"
	case elong < 174:
		return "Waxing Gibbous"
	case elong < 186:
		return "Full Moon"
	case elong < 264:
		return "Waning Gibbous"
	case elong < 276:
		return "Last Quarter"
	default:
		return "Waning Crescent"
	}
}

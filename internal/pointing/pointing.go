// Package pointing compares where a device is aimed with where the Sun or
// Moon actually is. Readings come from the caller; nothing here talks to
// sensors.
package pointing

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/litescript/ls-solarkit/internal/astro"
)

// Default match tolerances in degrees.
const (
	DefaultAzimuthTolerance  = 10.0
	DefaultAltitudeTolerance = 5.0
)

// Tolerance bounds how far a reading may be from a body and still match.
type Tolerance struct {
	AzimuthDeg  float64 `json:"azimuth_deg"`
	AltitudeDeg float64 `json:"altitude_deg"`
}

// DefaultTolerance returns the default azimuth and altitude tolerances.
func DefaultTolerance() Tolerance {
	return Tolerance{
		AzimuthDeg:  DefaultAzimuthTolerance,
		AltitudeDeg: DefaultAltitudeTolerance,
	}
}

// Reading is a device pointing direction in true (not magnetic) terms.
type Reading struct {
	HeadingDeg   float64 `json:"heading_deg"`   // true heading [0,360)
	ElevationDeg float64 `json:"elevation_deg"` // [0,90]
}

// FromDevice builds a Reading from a raw magnetic heading and pitch.
func FromDevice(magneticHeadingDeg, pitchDeg, declinationDeg float64) Reading {
	return Reading{
		HeadingDeg:   TrueHeading(magneticHeadingDeg, declinationDeg),
		ElevationDeg: DeviceElevation(pitchDeg),
	}
}

// AzimuthDiff returns the smallest absolute difference between two azimuths,
// in [0,180].
func AzimuthDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// DeviceElevation maps a device pitch to an elevation above the horizon.
// The sign of pitch is ignored.
func DeviceElevation(pitchDeg float64) float64 {
	return math.Min(math.Max(math.Abs(pitchDeg), 0), 90)
}

// TrueHeading corrects a magnetic heading by the local declination (east positive).
func TrueHeading(magneticHeadingDeg, declinationDeg float64) float64 {
	return astro.NormalizeDegrees(magneticHeadingDeg + declinationDeg)
}

// Result is the outcome of comparing a reading with a body position.
type Result struct {
	AzimuthDiffDeg  float64 `json:"azimuth_diff_deg"`
	AltitudeDiffDeg float64 `json:"altitude_diff_deg"`
	SeparationDeg   float64 `json:"separation_deg"` // great-circle distance
	AzimuthOK       bool    `json:"azimuth_ok"`
	AltitudeOK      bool    `json:"altitude_ok"`
}

// Matched reports whether both axes are within tolerance.
func (r Result) Matched() bool {
	return r.AzimuthOK && r.AltitudeOK
}

func (r Result) String() string {
	return fmt.Sprintf("Δaz=%.1f° (ok=%v) Δalt=%.1f° (ok=%v) sep=%.1f°",
		r.AzimuthDiffDeg, r.AzimuthOK, r.AltitudeDiffDeg, r.AltitudeOK, r.SeparationDeg)
}

// Direction returns the reading as a horizontal position.
func (r Reading) Direction() astro.HorizontalPosition {
	return astro.HorizontalPosition{AltitudeDeg: r.ElevationDeg, AzimuthDeg: r.HeadingDeg}
}

// Check compares reading against target. Tolerances are inclusive and apply
// per axis; SeparationDeg is informational.
func Check(reading Reading, target astro.HorizontalPosition, tol Tolerance) Result {
	azDiff := AzimuthDiff(reading.HeadingDeg, target.AzimuthDeg)
	altDiff := math.Abs(reading.ElevationDeg - target.AltitudeDeg)

	return Result{
		AzimuthDiffDeg:  azDiff,
		AltitudeDiffDeg: altDiff,
		SeparationDeg:   astro.AngularSeparation(reading.Direction(), target),
		AzimuthOK:       azDiff <= tol.AzimuthDeg,
		AltitudeOK:      altDiff <= tol.AltitudeDeg,
	}
}

// Detection is emitted once each time a body comes into tolerance.
type Detection struct {
	Body    astro.Body               `json:"-"`
	Time    time.Time                `json:"time"`
	Reading Reading                  `json:"reading"`
	Target  astro.HorizontalPosition `json:"target"`
	Result  Result                   `json:"result"`
}

// Detector turns a stream of readings into one-shot detections per body.
// A body fires on the first matching reading, then stays quiet until a
// non-matching reading rearms it.
type Detector struct {
	mu       sync.Mutex
	tol      Tolerance
	detected map[astro.Body]bool
}

// NewDetector creates a detector with the given tolerance.
func NewDetector(tol Tolerance) *Detector {
	return &Detector{
		tol:      tol,
		detected: make(map[astro.Body]bool),
	}
}

// Tolerance returns the detector's tolerance.
func (d *Detector) Tolerance() Tolerance {
	return d.tol
}

// Observe checks one reading against body's position at time at. The bool is
// true only when this reading produced a new detection.
func (d *Detector) Observe(body astro.Body, reading Reading, target astro.HorizontalPosition, at time.Time) (Detection, bool) {
	res := Check(reading, target, d.tol)

	d.mu.Lock()
	defer d.mu.Unlock()

	if !res.Matched() {
		d.detected[body] = false
		return Detection{}, false
	}
	if d.detected[body] {
		return Detection{}, false
	}
	d.detected[body] = true

	return Detection{
		Body:    body,
		Time:    at,
		Reading: reading,
		Target:  target,
		Result:  res,
	}, true
}

// Detected reports whether body is currently latched.
func (d *Detector) Detected(body astro.Body) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.detected[body]
}

// Reset rearms every body.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	clear(d.detected)
}

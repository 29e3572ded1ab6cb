package astro

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// HorizonAltitude is the altitude threshold for rise and set. Geometric horizon;
// refraction and the apparent disc radius are not modelled.
const HorizonAltitude = 0.0

// DefaultTrackStep is the sampling interval used for day tracks.
const DefaultTrackStep = 5 * time.Minute

// ErrInsufficientSamples is returned when a track window holds fewer than three samples.
var ErrInsufficientSamples = errors.New("insufficient samples for visibility calculation")

// TrackSample is a body position at one instant.
type TrackSample struct {
	Time     time.Time          `json:"time"`
	Position HorizontalPosition `json:"position"`
}

// Track is a body's altitude history over a window, with rise, transit and set.
// Rise and Set are zero when no crossing falls inside the window.
type Track struct {
	Body           Body          `json:"-"`
	Observer       Observer      `json:"observer"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	Samples        []TrackSample `json:"-"`
	Rise           time.Time     `json:"rise,omitempty"`
	Transit        time.Time     `json:"transit"`
	Set            time.Time     `json:"set,omitempty"`
	MaxAltitudeDeg float64       `json:"max_altitude_deg"`
	AlwaysUp       bool          `json:"always_up"` // never below the horizon in the window
	NeverUp        bool          `json:"never_up"`  // never above the horizon in the window
}

// DayTrack samples body every step from start through start+window and finds
// horizon crossings by linear interpolation between samples. The transit is
// refined with a parabola through the highest sample and its neighbours.
func DayTrack(body Body, obs Observer, start time.Time, window, step time.Duration) (Track, error) {
	if window <= 0 || step <= 0 {
		return Track{}, fmt.Errorf("%w: window and step must be positive", ErrInvalidInput)
	}
	if err := obs.Validate(); err != nil {
		return Track{}, err
	}

	n := int(window/step) + 1
	if n < 3 {
		return Track{}, ErrInsufficientSamples
	}

	start = start.UTC()
	samples := make([]TrackSample, n)
	maxIdx := 0
	minAlt := 90.0

	for i := range samples {
		t := start.Add(time.Duration(i) * step)
		pos, err := BodyPosition(body, obs, t)
		if err != nil {
			return Track{}, err
		}
		samples[i] = TrackSample{Time: t, Position: pos}

		if pos.AltitudeDeg > samples[maxIdx].Position.AltitudeDeg {
			maxIdx = i
		}
		if pos.AltitudeDeg < minAlt {
			minAlt = pos.AltitudeDeg
		}
	}

	track := Track{
		Body:     body,
		Observer: obs,
		Start:    start,
		End:      samples[n-1].Time,
		Samples:  samples,
	}
	track.Transit, track.MaxAltitudeDeg = refineTransit(samples, maxIdx)

	switch {
	case minAlt > HorizonAltitude:
		track.AlwaysUp = true
		return track, nil
	case track.MaxAltitudeDeg <= HorizonAltitude:
		track.NeverUp = true
		return track, nil
	}

	for i := 1; i < n; i++ {
		prev, curr := samples[i-1], samples[i]
		prevAlt, currAlt := prev.Position.AltitudeDeg, curr.Position.AltitudeDeg

		if track.Rise.IsZero() && prevAlt <= HorizonAltitude && currAlt > HorizonAltitude {
			track.Rise = interpolateCrossing(prev.Time, curr.Time, prevAlt, currAlt, HorizonAltitude)
		}
		if track.Set.IsZero() && prevAlt > HorizonAltitude && currAlt <= HorizonAltitude {
			track.Set = interpolateCrossing(prev.Time, curr.Time, prevAlt, currAlt, HorizonAltitude)
		}
	}

	return track, nil
}

// IsUp reports whether the body is above the horizon at the sample nearest t.
func (tr Track) IsUp(t time.Time) bool {
	s := tr.Nearest(t)
	return s != nil && s.Position.AltitudeDeg > HorizonAltitude
}

// Nearest returns the sample closest to t, or nil for an empty track.
func (tr Track) Nearest(t time.Time) *TrackSample {
	var closest *TrackSample
	var minDelta time.Duration = math.MaxInt64

	for i := range tr.Samples {
		delta := tr.Samples[i].Time.Sub(t)
		if delta < 0 {
			delta = -delta
		}
		if delta < minDelta {
			minDelta = delta
			closest = &tr.Samples[i]
		}
	}
	return closest
}

// refineTransit fits a parabola through the highest sample and its neighbours.
// At the window edges, or when the curve does not open downward, the discrete
// maximum is returned.
func refineTransit(samples []TrackSample, maxIdx int) (time.Time, float64) {
	peak := samples[maxIdx]
	if maxIdx == 0 || maxIdx == len(samples)-1 {
		return peak.Time, peak.Position.AltitudeDeg
	}

	// Normalized time: t = -1 (prev), t = 0 (peak), t = +1 (next)
	y0 := samples[maxIdx-1].Position.AltitudeDeg
	y1 := peak.Position.AltitudeDeg
	y2 := samples[maxIdx+1].Position.AltitudeDeg

	c := y1
	a := (y0+y2)/2 - c
	b := (y2 - y0) / 2

	if a >= 0 {
		return peak.Time, y1
	}

	tMax := clamp(-b/(2*a), -1, 1)
	dt := peak.Time.Sub(samples[maxIdx-1].Time)

	return peak.Time.Add(time.Duration(float64(dt) * tMax)), a*tMax*tMax + b*tMax + c
}

// interpolateCrossing finds the time when altitude crosses a threshold.
func interpolateCrossing(t1, t2 time.Time, alt1, alt2, threshold float64) time.Time {
	if math.Abs(alt2-alt1) < 0.0001 {
		return t1
	}

	fraction := clamp((threshold-alt1)/(alt2-alt1), 0, 1)
	return t1.Add(time.Duration(float64(t2.Sub(t1)) * fraction))
}

// Tier categorizes altitude for display.
type Tier int

const (
	TierNone   Tier = iota // Below horizon
	TierLow                // 0-15 degrees
	TierMedium             // 15-45 degrees
	TierHigh               // 45+ degrees
)

func (t Tier) String() string {
	switch t {
	case TierNone:
		return "below horizon"
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "?"
	}
}

// ElevationTier returns the tier for a given altitude.
func ElevationTier(altDeg float64) Tier {
	switch {
	case altDeg <= 0:
		return TierNone
	case altDeg < 15:
		return TierLow
	case altDeg < 45:
		return TierMedium
	default:
		return TierHigh
	}
}

// Package tracker samples the Sun and Moon on a fixed interval and feeds the
// results into the state manager.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/logging"
	"github.com/litescript/ls-solarkit/internal/pointing"
	"github.com/litescript/ls-solarkit/internal/state"
)

// DefaultInterval is used when neither an option nor the state manager sets one.
const DefaultInterval = 5 * time.Second

// ErrNoSample is returned by Point before the first sample has been taken.
var ErrNoSample = errors.New("no sample yet")

// Tracker owns the sampling loop for one observer.
type Tracker struct {
	obs      astro.Observer
	state    *state.Manager
	now      func() time.Time
	interval time.Duration
	logger   *logging.Logger
	detector *pointing.Detector
	onSample func(state.Sample)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source. Defaults to time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithInterval pins the sampling interval. Without it the tracker follows
// the state manager's refresh interval.
func WithInterval(d time.Duration) Option {
	return func(t *Tracker) {
		t.interval = d
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Tracker) {
		t.logger = l
	}
}

// WithDetector enables pointing detection through Point.
func WithDetector(d *pointing.Detector) Option {
	return func(t *Tracker) {
		t.detector = d
	}
}

// OnSample registers a callback invoked after every stored sample.
func OnSample(fn func(state.Sample)) Option {
	return func(t *Tracker) {
		t.onSample = fn
	}
}

// New creates a tracker for obs that writes into mgr.
func New(obs astro.Observer, mgr *state.Manager, opts ...Option) (*Tracker, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	if mgr == nil {
		return nil, fmt.Errorf("tracker: nil state manager")
	}

	t := &Tracker{
		obs:    obs,
		state:  mgr,
		now:    time.Now,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.detector == nil {
		t.detector = pointing.NewDetector(pointing.DefaultTolerance())
	}
	return t, nil
}

// Observer returns the tracked observer.
func (t *Tracker) Observer() astro.Observer {
	return t.obs
}

// Interval returns the current sampling interval.
func (t *Tracker) Interval() time.Duration {
	if t.interval > 0 {
		return t.interval
	}
	if d := t.state.RefreshInterval(); d > 0 {
		return d
	}
	return DefaultInterval
}

// Tolerance returns the pointing tolerance of the tracker's detector.
func (t *Tracker) Tolerance() pointing.Tolerance {
	return t.detector.Tolerance()
}

// Sample computes Sun, Moon and moon phase at now without storing anything.
func (t *Tracker) Sample(now time.Time) (state.Sample, error) {
	dt := astro.FromTime(now)

	jd, err := astro.JulianDay(dt)
	if err != nil {
		return state.Sample{}, err
	}
	sun, err := astro.SunPosition(t.obs.LatDeg, t.obs.LonDeg, dt)
	if err != nil {
		return state.Sample{}, fmt.Errorf("sun position: %w", err)
	}
	moon, err := astro.MoonPosition(t.obs.LatDeg, t.obs.LonDeg, dt)
	if err != nil {
		return state.Sample{}, fmt.Errorf("moon position: %w", err)
	}
	phase, err := astro.MoonPhase(dt)
	if err != nil {
		return state.Sample{}, fmt.Errorf("moon phase: %w", err)
	}

	return state.Sample{
		Time:      dt.Time(),
		Observer:  t.obs,
		JulianDay: jd,
		Sun:       sun,
		Moon:      moon,
		Phase:     phase,
	}, nil
}

// Step takes one sample at the current clock time and stores it.
func (t *Tracker) Step() (state.Sample, error) {
	s, err := t.Sample(t.now())
	if err != nil {
		t.logger.Error("Sample failed: %v", err)
		t.state.RecordError(err)
		return state.Sample{}, err
	}

	t.logger.Debug("Sampled %s: sun alt=%.2f az=%.2f, moon alt=%.2f az=%.2f",
		s.Time.Format(time.RFC3339), s.Sun.AltitudeDeg, s.Sun.AzimuthDeg, s.Moon.AltitudeDeg, s.Moon.AzimuthDeg)

	t.state.Update(s)
	if t.onSample != nil {
		t.onSample(s)
	}
	return s, nil
}

// Run samples immediately and then on every tick until ctx is done. A change
// to the refresh interval takes effect after the next tick.
func (t *Tracker) Run(ctx context.Context) error {
	_, _ = t.Step()

	interval := t.Interval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.logger.Debug("Sampling loop shutting down")
			return nil
		case <-ticker.C:
			_, _ = t.Step()
			if d := t.Interval(); d != interval {
				t.logger.Debug("Sampling interval %s -> %s", interval, d)
				interval = d
				ticker.Reset(d)
			}
		}
	}
}

// Point checks a device reading against the latest sample and records any
// new detections in state.
func (t *Tracker) Point(reading pointing.Reading) ([]pointing.Detection, error) {
	snap := t.state.Snapshot()
	if snap.Current == nil {
		return nil, ErrNoSample
	}

	var out []pointing.Detection
	for _, body := range astro.Bodies {
		det, ok := t.detector.Observe(body, reading, snap.Current.Position(body), snap.Current.Time)
		if !ok {
			continue
		}
		t.logger.Info("%s detected (%s)", body, det.Result)
		t.state.RecordDetection(det)
		out = append(out, det)
	}
	return out, nil
}

// Detected reports whether body is latched, that is, the last reading
// matched it and it will not fire again until a miss.
func (t *Tracker) Detected(body astro.Body) bool {
	return t.detector.Detected(body)
}

// ResetDetections rearms every body so the next matching reading fires again.
func (t *Tracker) ResetDetections() {
	t.detector.Reset()
	t.logger.Debug("Detections rearmed")
}

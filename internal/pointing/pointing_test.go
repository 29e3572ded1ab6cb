package pointing

import (
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/litescript/ls-solarkit/internal/astro"
)

func TestAzimuthDiff(t *testing.T) {
	tests := []struct {
		a, b float64
		want float64
	}{
		{0, 0, 0},
		{10, 20, 10},
		{359, 1, 2},
		{1, 359, 2},
		{0, 180, 180},
		{90, 271, 179},
		{720, 5, 5},
	}

	for _, tt := range tests {
		if got := AzimuthDiff(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("AzimuthDiff(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDeviceElevation(t *testing.T) {
	tests := []struct {
		pitch float64
		want  float64
	}{
		{0, 0},
		{-35, 35},
		{35, 35},
		{-120, 90},
		{95, 90},
	}

	for _, tt := range tests {
		if got := DeviceElevation(tt.pitch); got != tt.want {
			t.Errorf("DeviceElevation(%v) = %v, want %v", tt.pitch, got, tt.want)
		}
	}
}

func TestTrueHeading(t *testing.T) {
	tests := []struct {
		mag, decl float64
		want      float64
	}{
		{100, 4, 104},
		{358, 4, 2},
		{2, -4, 358},
	}

	for _, tt := range tests {
		if got := TrueHeading(tt.mag, tt.decl); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TrueHeading(%v, %v) = %v, want %v", tt.mag, tt.decl, got, tt.want)
		}
	}
}

func TestCheck(t *testing.T) {
	target := astro.HorizontalPosition{AltitudeDeg: 40, AzimuthDeg: 355}
	tol := DefaultTolerance()

	tests := []struct {
		name      string
		reading   Reading
		wantAz    bool
		wantAlt   bool
		wantMatch bool
	}{
		{"dead on", Reading{HeadingDeg: 355, ElevationDeg: 40}, true, true, true},
		{"across north", Reading{HeadingDeg: 4, ElevationDeg: 43}, true, true, true},
		{"edge of tolerance", Reading{HeadingDeg: 5, ElevationDeg: 45}, true, true, true},
		{"azimuth off", Reading{HeadingDeg: 10, ElevationDeg: 40}, false, true, false},
		{"altitude off", Reading{HeadingDeg: 355, ElevationDeg: 30}, true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Check(tt.reading, target, tol)
			if res.AzimuthOK != tt.wantAz || res.AltitudeOK != tt.wantAlt || res.Matched() != tt.wantMatch {
				t.Errorf("Check() = %v, want az=%v alt=%v match=%v", res, tt.wantAz, tt.wantAlt, tt.wantMatch)
			}
		})
	}
}

func TestCheck_Separation(t *testing.T) {
	tests := []struct {
		name    string
		reading Reading
		target  astro.HorizontalPosition
		want    float64
	}{
		{"dead on", Reading{HeadingDeg: 355, ElevationDeg: 40}, astro.HorizontalPosition{AltitudeDeg: 40, AzimuthDeg: 355}, 0},
		{"straight up the same azimuth", Reading{HeadingDeg: 90, ElevationDeg: 30}, astro.HorizontalPosition{AltitudeDeg: 40, AzimuthDeg: 90}, 10},
		{"along the horizon across north", Reading{HeadingDeg: 355, ElevationDeg: 0}, astro.HorizontalPosition{AltitudeDeg: 0, AzimuthDeg: 5}, 10},
		// Near the zenith a large azimuth error is a short distance
		{"near zenith", Reading{HeadingDeg: 180, ElevationDeg: 89}, astro.HorizontalPosition{AltitudeDeg: 89, AzimuthDeg: 0}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Check(tt.reading, tt.target, DefaultTolerance())
			if math.Abs(res.SeparationDeg-tt.want) > 1e-6 {
				t.Errorf("SeparationDeg = %.6f, want %.6f", res.SeparationDeg, tt.want)
			}
			if !strings.Contains(res.String(), "sep=") {
				t.Errorf("String() = %q, want separation", res.String())
			}
		})
	}
}

func TestFromDevice(t *testing.T) {
	r := FromDevice(357, -30, 4)
	if math.Abs(r.HeadingDeg-1) > 1e-9 || r.ElevationDeg != 30 {
		t.Errorf("FromDevice() = %+v, want heading 1 elevation 30", r)
	}
}

func TestDetector_EdgeTriggered(t *testing.T) {
	d := NewDetector(DefaultTolerance())
	sun := astro.HorizontalPosition{AltitudeDeg: 20, AzimuthDeg: 120}
	on := Reading{HeadingDeg: 121, ElevationDeg: 21}
	off := Reading{HeadingDeg: 200, ElevationDeg: 21}
	now := time.Date(2024, 6, 21, 7, 0, 0, 0, time.UTC)

	steps := []struct {
		reading Reading
		fires   bool
	}{
		{off, false},
		{on, true},
		{on, false},
		{on, false},
		{off, false},
		{on, true},
	}

	for i, s := range steps {
		det, fired := d.Observe(astro.Sun, s.reading, sun, now.Add(time.Duration(i)*time.Second))
		if fired != s.fires {
			t.Fatalf("step %d: fired = %v, want %v", i, fired, s.fires)
		}
		if fired && (det.Body != astro.Sun || !det.Result.Matched()) {
			t.Errorf("step %d: detection = %+v", i, det)
		}
	}

	if !d.Detected(astro.Sun) {
		t.Error("Sun should be latched")
	}
	if d.Detected(astro.Moon) {
		t.Error("Moon latch is independent of Sun")
	}

	d.Reset()
	if d.Detected(astro.Sun) {
		t.Error("Reset did not rearm Sun")
	}
}

func TestDetector_BodiesIndependent(t *testing.T) {
	d := NewDetector(DefaultTolerance())
	pos := astro.HorizontalPosition{AltitudeDeg: 10, AzimuthDeg: 90}
	r := Reading{HeadingDeg: 90, ElevationDeg: 10}
	now := time.Now()

	if _, ok := d.Observe(astro.Sun, r, pos, now); !ok {
		t.Fatal("Sun should fire")
	}
	if _, ok := d.Observe(astro.Moon, r, pos, now); !ok {
		t.Fatal("Moon should fire independently")
	}
}

func TestDetector_Concurrent(t *testing.T) {
	d := NewDetector(DefaultTolerance())
	pos := astro.HorizontalPosition{AltitudeDeg: 10, AzimuthDeg: 90}
	r := Reading{HeadingDeg: 90, ElevationDeg: 10}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fires int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := d.Observe(astro.Moon, r, pos, time.Now()); ok {
				mu.Lock()
				fires++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if fires != 1 {
		t.Errorf("concurrent matching readings fired %d times, want 1", fires)
	}
}

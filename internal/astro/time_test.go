package astro

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestJulianDay(t *testing.T) {
	tests := []struct {
		name     string
		dt       UTCDateTime
		expected float64
		tol      float64
	}{
		{
			name:     "Unix epoch",
			dt:       UTCDateTime{1970, 1, 1, 0, 0, 0},
			expected: 2440587.5,
			tol:      1e-9,
		},
		{
			name:     "Known date 2024-01-01 00:00 UTC",
			dt:       UTCDateTime{2024, 1, 1, 0, 0, 0},
			expected: 2460310.5,
			tol:      1e-9,
		},
		{
			name:     "Leap day 2024-02-29 06:30 UTC",
			dt:       UTCDateTime{2024, 2, 29, 6, 30, 0},
			expected: 2460369.7708333335,
			tol:      1e-9,
		},
		{
			name:     "Day after leap day",
			dt:       UTCDateTime{2024, 3, 1, 0, 0, 0},
			expected: 2460370.5,
			tol:      1e-9,
		},
		{
			name:     "One second before midnight, end of 1999",
			dt:       UTCDateTime{1999, 12, 31, 23, 59, 59},
			expected: 2451544.499988426,
			tol:      1e-8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JulianDay(tt.dt)
			if err != nil {
				t.Fatalf("JulianDay() error = %v", err)
			}
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("JulianDay() = %.9f, want %.9f (±%v)", got, tt.expected, tt.tol)
			}
		})
	}
}

func TestJulianDay_J2000IsExact(t *testing.T) {
	got, err := JulianDay(UTCDateTime{2000, 1, 1, 12, 0, 0})
	if err != nil {
		t.Fatalf("JulianDay() error = %v", err)
	}
	if got != J2000 {
		t.Errorf("JulianDay(J2000) = %.10f, want exactly %.1f", got, J2000)
	}
}

func TestJulianDay_MatchesUnixClock(t *testing.T) {
	// JD = unix days + 2440587.5 for any whole-second instant
	for _, ts := range []time.Time{
		time.Date(1987, 4, 10, 19, 21, 0, 0, time.UTC),
		time.Date(2031, 11, 2, 3, 4, 5, 0, time.UTC),
		time.Date(2100, 3, 1, 0, 0, 0, 0, time.UTC),
	} {
		got, err := JulianDay(FromTime(ts))
		if err != nil {
			t.Fatalf("JulianDay(%v) error = %v", ts, err)
		}
		want := float64(ts.Unix())/86400 + 2440587.5
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("JulianDay(%v) = %.8f, want %.8f", ts, got, want)
		}
	}
}

func TestUTCDateTime_ValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		dt   UTCDateTime
	}{
		{"month 13", UTCDateTime{2024, 13, 1, 0, 0, 0}},
		{"month 0", UTCDateTime{2024, 0, 1, 0, 0, 0}},
		{"day 0", UTCDateTime{2024, 5, 0, 0, 0, 0}},
		{"day 32", UTCDateTime{2024, 1, 32, 0, 0, 0}},
		{"Feb 29 in a common year", UTCDateTime{2023, 2, 29, 0, 0, 0}},
		{"April 31", UTCDateTime{2024, 4, 31, 0, 0, 0}},
		{"hour 24", UTCDateTime{2024, 1, 1, 24, 0, 0}},
		{"minute 60", UTCDateTime{2024, 1, 1, 0, 60, 0}},
		{"second 60", UTCDateTime{2024, 1, 1, 0, 0, 60}},
		{"negative second", UTCDateTime{2024, 1, 1, 0, 0, -1}},
		{"year 0", UTCDateTime{0, 1, 1, 0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.dt.Validate(); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Validate() = %v, want ErrInvalidInput", err)
			}
			if _, err := JulianDay(tt.dt); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("JulianDay() error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestUTCDateTime_ValidateAccepts(t *testing.T) {
	for _, dt := range []UTCDateTime{
		{2024, 2, 29, 0, 0, 0},
		{2000, 2, 29, 23, 59, 59},
		{1583, 1, 1, 0, 0, 0},
		{2024, 12, 31, 12, 30, 45},
	} {
		if err := dt.Validate(); err != nil {
			t.Errorf("Validate(%v) = %v, want nil", dt, err)
		}
	}
}

func TestFromTime(t *testing.T) {
	// 05:30 +05:30 is midnight UTC; nanoseconds are dropped
	ist := time.FixedZone("IST", 5*3600+1800)
	dt := FromTime(time.Date(2024, 3, 1, 5, 30, 15, 999_000_000, ist))

	want := UTCDateTime{2024, 3, 1, 0, 0, 15}
	if dt != want {
		t.Errorf("FromTime() = %+v, want %+v", dt, want)
	}
	if !dt.Time().Equal(time.Date(2024, 3, 1, 0, 0, 15, 0, time.UTC)) {
		t.Errorf("Time() = %v", dt.Time())
	}
	if got := dt.String(); got != "2024-03-01T00:00:15Z" {
		t.Errorf("String() = %q", got)
	}
}

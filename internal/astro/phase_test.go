package astro

import (
	"errors"
	"math"
	"testing"
)

func TestMoonPhase(t *testing.T) {
	tests := []struct {
		name      string
		dt        UTCDateTime
		wantIllum float64
		illumTol  float64
		wantName  string
		waxing    bool
	}{
		{
			name:      "new moon of the April 2024 eclipse",
			dt:        UTCDateTime{2024, 4, 8, 18, 18, 0},
			wantIllum: 0,
			illumTol:  0.01,
			wantName:  "New Moon",
			waxing:    true,
		},
		{
			name:      "first quarter",
			dt:        UTCDateTime{2024, 4, 15, 19, 13, 0},
			wantIllum: 0.5006,
			illumTol:  0.01,
			wantName:  "First Quarter",
			waxing:    true,
		},
		{
			name:      "full moon",
			dt:        UTCDateTime{2024, 4, 23, 23, 49, 0},
			wantIllum: 1,
			illumTol:  0.01,
			wantName:  "Full Moon",
			waxing:    false,
		},
		{
			name:      "last quarter",
			dt:        UTCDateTime{2024, 5, 1, 11, 27, 0},
			wantIllum: 0.5017,
			illumTol:  0.01,
			wantName:  "Last Quarter",
			waxing:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := MoonPhase(tt.dt)
			if err != nil {
				t.Fatalf("MoonPhase() error = %v", err)
			}
			if math.Abs(p.Illumination-tt.wantIllum) > tt.illumTol {
				t.Errorf("Illumination = %.4f, want %.4f", p.Illumination, tt.wantIllum)
			}
			if p.Name != tt.wantName {
				t.Errorf("Name = %q, want %q (elongation %.2f)", p.Name, tt.wantName, p.ElongationDeg)
			}
			if p.Waxing != tt.waxing && tt.wantName != "New Moon" {
				t.Errorf("Waxing = %v, want %v", p.Waxing, tt.waxing)
			}
			if p.AgeDays < 0 || p.AgeDays >= SynodicMonth {
				t.Errorf("AgeDays = %v out of range", p.AgeDays)
			}
		})
	}
}

func TestPhaseName(t *testing.T) {
	tests := []struct {
		elong float64
		want  string
	}{
		{0, "New Moon"},
		{355, "New Moon"},
		{45, "Waxing Crescent"},
		{90, "First Quarter"},
		{135, "Waxing Gibbous"},
		{180, "Full Moon"},
		{225, "Waning Gibbous"},
		{270, "Last Quarter"},
		{315, "Waning Crescent"},
	}

	for _, tt := range tests {
		if got := phaseName(tt.elong); got != tt.want {
			t.Errorf("phaseName(%v) = %q, want %q", tt.elong, got, tt.want)
		}
	}
}

func TestMoonPhase_InvalidInput(t *testing.T) {
	if _, err := MoonPhase(UTCDateTime{2024, 2, 30, 0, 0, 0}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("MoonPhase() error = %v, want ErrInvalidInput", err)
	}
}

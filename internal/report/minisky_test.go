package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestProject(t *testing.T) {
	cfg := DefaultMiniSkyConfig()

	tests := []struct {
		name    string
		alt, az float64
		wantX   int
		wantY   int
	}{
		{"zenith", 90, 0, 20, 10},
		{"north horizon", 0, 0, 20, 0},
		{"south horizon", 0, 180, 20, 20},
		{"east horizon", 0, 90, 0, 10},
		{"west horizon", 0, 270, 40, 10},
		{"below horizon pinned to rim", -30, 180, 20, 20},
		{"halfway up in the south", 45, 180, 20, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := project(cfg, tt.alt, tt.az)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("project(%v, %v) = (%d, %d), want (%d, %d)", tt.alt, tt.az, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestWriteMiniSky(t *testing.T) {
	var buf bytes.Buffer
	WriteMiniSky(&buf, testSample(), DefaultMiniSkyConfig())
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// 21 grid rows plus a legend line per body
	if len(lines) != 21+2 {
		t.Fatalf("lines = %d, want 23:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "N") || !strings.Contains(lines[20], "S") {
		t.Error("cardinal labels missing")
	}

	grid := strings.Join(lines[:21], "\n")
	if strings.ContainsRune(grid, sunGlyph) {
		t.Error("Sun is below the horizon and should not be plotted")
	}
	if !strings.ContainsRune(grid, moonGlyph) {
		t.Error("Moon is up and should be plotted")
	}
	if !strings.Contains(lines[21], "below horizon") {
		t.Errorf("sun legend = %q", lines[21])
	}
}

func TestWriteMiniSky_NilSampleAndTinyConfig(t *testing.T) {
	var buf bytes.Buffer
	WriteMiniSky(&buf, nil, MiniSkyConfig{Width: 3, Height: 2})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != DefaultMiniSkyConfig().Height {
		t.Errorf("tiny config should fall back to default, got %d lines", len(lines))
	}
}

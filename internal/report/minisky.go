package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/state"
)

// MiniSkyConfig sizes the ASCII sky. Width should be about twice Height so
// the horizon draws as a circle in a typical terminal cell.
type MiniSkyConfig struct {
	Width  int
	Height int
}

// DefaultMiniSkyConfig returns the default mini sky size.
func DefaultMiniSkyConfig() MiniSkyConfig {
	return MiniSkyConfig{Width: 41, Height: 21}
}

// Glyphs used in the mini sky.
const (
	sunGlyph     = '@'
	moonGlyph    = 'C'
	horizonGlyph = '.'
	zenithGlyph  = '+'
)

// WriteMiniSky draws a zenith-centred polar plot: north up, east left (as
// seen looking up), horizon on the rim.
func WriteMiniSky(w io.Writer, s *state.Sample, cfg MiniSkyConfig) {
	if cfg.Width < 11 || cfg.Height < 7 {
		cfg = DefaultMiniSkyConfig()
	}

	grid := make([][]rune, cfg.Height)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cfg.Width))
	}

	// Horizon ring
	for deg := 0; deg < 360; deg += 3 {
		x, y := project(cfg, 0, float64(deg))
		grid[y][x] = horizonGlyph
	}
	cx, cy := project(cfg, 90, 0)
	grid[cy][cx] = zenithGlyph

	for _, c := range []struct {
		label rune
		az    float64
	}{{'N', 0}, {'E', 90}, {'S', 180}, {'W', 270}} {
		x, y := project(cfg, 0, c.az)
		grid[y][x] = c.label
	}

	var legend []string
	if s != nil {
		for _, body := range astro.Bodies {
			pos := s.Position(body)
			glyph := sunGlyph
			if body == astro.Moon {
				glyph = moonGlyph
			}

			note := ""
			if pos.AltitudeDeg > astro.HorizonAltitude {
				x, y := project(cfg, pos.AltitudeDeg, pos.AzimuthDeg)
				grid[y][x] = glyph
			} else {
				note = " (below horizon)"
			}
			legend = append(legend, fmt.Sprintf("%c %-4s alt %6.1f° az %5.1f°%s",
				glyph, body, pos.AltitudeDeg, pos.AzimuthDeg, note))
		}
	}

	for _, row := range grid {
		fmt.Fprintln(w, strings.TrimRight(string(row), " "))
	}
	for _, l := range legend {
		fmt.Fprintln(w, l)
	}
}

// project maps altitude/azimuth to a grid cell. Radius is linear in zenith
// distance; altitudes below the horizon are pinned to the rim.
func project(cfg MiniSkyConfig, altDeg, azDeg float64) (int, int) {
	alt := math.Max(altDeg, 0)
	r := (90 - alt) / 90

	rx := float64(cfg.Width-1) / 2
	ry := float64(cfg.Height-1) / 2

	az := azDeg * math.Pi / 180
	x := int(math.Round(rx - r*rx*math.Sin(az)))
	y := int(math.Round(ry - r*ry*math.Cos(az)))

	return clampInt(x, 0, cfg.Width-1), clampInt(y, 0, cfg.Height-1)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

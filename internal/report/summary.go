package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/state"
)

// SummaryRow represents one row in the summary table.
type SummaryRow struct {
	Body     string
	Altitude float64
	Azimuth  float64
	Compass  string
	Status   string
	Tier     astro.Tier
}

// GenerateSummaryRows creates summary rows from a sample.
func GenerateSummaryRows(s *state.Sample) []SummaryRow {
	if s == nil {
		return nil
	}

	rows := make([]SummaryRow, 0, len(astro.Bodies))
	for _, body := range astro.Bodies {
		pos := s.Position(body)
		status := "down"
		if pos.AltitudeDeg > astro.HorizonAltitude {
			status = "up"
		}
		rows = append(rows, SummaryRow{
			Body:     body.String(),
			Altitude: pos.AltitudeDeg,
			Azimuth:  pos.AzimuthDeg,
			Compass:  CompassPoint(pos.AzimuthDeg),
			Status:   status,
			Tier:     astro.ElevationTier(pos.AltitudeDeg),
		})
	}
	return rows
}

// WriteSummaryTable writes a text table to the given writer.
func WriteSummaryTable(w io.Writer, snap state.Snapshot) {
	s := snap.Current
	if s == nil {
		fmt.Fprintln(w, "No sample yet")
		return
	}

	fmt.Fprintf(w, "Sky @ %s  (%s)\n", s.Time.Format(time.RFC3339), observerLabel(s.Observer))
	fmt.Fprintln(w, strings.Repeat("─", 60))

	fmt.Fprintf(w, "%-6s %9s %9s %-4s %-5s %-14s\n",
		"Body", "Alt", "Az", "Dir", "State", "Tier")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, r := range GenerateSummaryRows(s) {
		fmt.Fprintf(w, "%-6s %8.2f° %8.2f° %-4s %-5s %-14s\n",
			r.Body, r.Altitude, r.Azimuth, r.Compass, r.Status, r.Tier)
	}

	p := s.Phase
	fmt.Fprintf(w, "\nMoon: %s, %.0f%% lit, %.1f days old\n", p.Name, p.Illumination*100, p.AgeDays)
	fmt.Fprintf(w, "JD %.5f\n", s.JulianDay)
}

// WriteNow writes a single status line.
func WriteNow(w io.Writer, s *state.Sample) {
	if s == nil {
		fmt.Fprintln(w, "☀ --  ☾ --")
		return
	}
	fmt.Fprintf(w, "%s  ☀ %s  ☾ %s  %s %.0f%%\n",
		s.Time.Format("15:04:05Z"),
		nowPart(s.Sun),
		nowPart(s.Moon),
		s.Phase.Name,
		s.Phase.Illumination*100,
	)
}

func nowPart(p astro.HorizontalPosition) string {
	arrow := "↓"
	if p.AltitudeDeg > astro.HorizonAltitude {
		arrow = "↑"
	}
	return fmt.Sprintf("%s alt %.1f° az %.1f° %s", arrow, p.AltitudeDeg, p.AzimuthDeg, CompassPoint(p.AzimuthDeg))
}

// WriteEvents writes the most recent events, newest last.
func WriteEvents(w io.Writer, events []state.Event, limit int) {
	fmt.Fprintln(w, "Events")
	fmt.Fprintln(w, strings.Repeat("─", 60))

	if len(events) == 0 {
		fmt.Fprintln(w, "No events")
		return
	}
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	for _, e := range events {
		line := fmt.Sprintf("%s  %-10s %-5s alt %6.2f° az %6.2f°",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Body, e.AltitudeDeg, e.AzimuthDeg)
		if e.Message != "" {
			line += "  " + e.Message
		}
		fmt.Fprintln(w, line)
	}
}

func observerLabel(o astro.Observer) string {
	coords := fmt.Sprintf("%.4f, %.4f", o.LatDeg, o.LonDeg)
	if o.Name == "" {
		return coords
	}
	return truncateStr(o.Name, 24) + " " + coords
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}

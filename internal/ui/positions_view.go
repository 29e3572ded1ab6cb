package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/report"
	"github.com/litescript/ls-solarkit/internal/state"
)

// Elevation tier colors
const (
	colorVisHigh   = "#7CFC00" // Lawn green - high elevation
	colorVisMedium = "#FFD700" // Gold - medium elevation
	colorVisLow    = "#FF6347" // Tomato - low elevation
	colorVisNone   = "#444444" // Dark gray - below horizon
)

// positionsEventLimit caps the events listed under the table.
const positionsEventLimit = 8

// PositionsModel shows a table of current positions, today's tracks and
// recent events.
type PositionsModel struct {
	width  int
	height int

	sample *state.Sample
	events []state.Event

	// Day tracks, recomputed when the UTC date or observer changes
	tracks    []astro.Track
	trackDay  time.Time
	trackObs  astro.Observer
	trackErr  error
	showTrack bool

	// Recent sampled altitudes, oldest first
	sunHistory  []float64
	moonHistory []float64
}

// NewPositionsModel creates a new positions panel.
func NewPositionsModel() PositionsModel {
	return PositionsModel{showTrack: true}
}

// SetSize updates the viewport size.
func (m PositionsModel) SetSize(width, height int) PositionsModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with a new snapshot.
func (m PositionsModel) UpdateData(snapshot state.Snapshot) PositionsModel {
	m.sample = snapshot.Current
	m.events = snapshot.Events
	if m.sample == nil {
		return m
	}

	day := m.sample.Time.UTC().Truncate(24 * time.Hour)
	if day.Equal(m.trackDay) && m.sample.Observer == m.trackObs && m.tracks != nil {
		return m
	}

	m.trackDay = day
	m.trackObs = m.sample.Observer
	m.tracks, m.trackErr = dayTracks(m.sample.Observer, day)
	return m
}

func dayTracks(obs astro.Observer, day time.Time) ([]astro.Track, error) {
	tracks := make([]astro.Track, 0, len(astro.Bodies))
	for _, body := range astro.Bodies {
		tr, err := astro.DayTrack(body, obs, day, 24*time.Hour, astro.DefaultTrackStep)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, tr)
	}
	return tracks, nil
}

// WithHistory sets the recently sampled altitudes of each body.
func (m PositionsModel) WithHistory(sun, moon []float64) PositionsModel {
	m.sunHistory = sun
	m.moonHistory = moon
	return m
}

// Update handles messages.
func (m PositionsModel) Update(msg tea.Msg) (PositionsModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "t" {
		m.showTrack = !m.showTrack
	}
	return m, nil
}

// View renders the panel.
func (m PositionsModel) View() string {
	if m.sample == nil {
		return "  Waiting for first sample"
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)

	var b strings.Builder

	b.WriteString("  " + titleStyle.Render("Positions") + " " +
		dimStyle.Render(fmt.Sprintf("%s | %.4f°, %.4f° | JD %.5f",
			m.sample.Time.UTC().Format(time.RFC3339), m.sample.Observer.LatDeg, m.sample.Observer.LonDeg, m.sample.JulianDay)))
	b.WriteString("\n\n")

	b.WriteString(dimStyle.Render(fmt.Sprintf("  %-6s %9s %9s %-4s  %-4s  %s", "BODY", "ALT", "AZ", "DIR", "TIER", "STATUS")))
	b.WriteString("\n")
	for _, row := range report.GenerateSummaryRows(m.sample) {
		line := fmt.Sprintf("%-6s %8.2f° %8.2f° %-4s  ",
			strings.ToUpper(row.Body), row.Altitude, row.Azimuth, row.Compass)
		b.WriteString("  " + labelStyle.Render(line[:7]) + line[7:])
		b.WriteString(renderTierBar(row.Tier))
		b.WriteString("  " + colorByTier(row.Tier, row.Tier.String()))
		b.WriteString("\n")
	}

	p := m.sample.Phase
	b.WriteString("\n  ")
	b.WriteString(labelStyle.Render("Moon  "))
	b.WriteString(fmt.Sprintf("%c %s, %.0f%% lit, %.1f days old", moonGlyph(p), p.Name, p.Illumination*100, p.AgeDays))
	b.WriteString("\n")

	if recent := m.renderRecent(); recent != "" {
		b.WriteString("\n")
		b.WriteString(recent)
	}

	if m.showTrack {
		b.WriteString("\n")
		b.WriteString(m.renderTracks())
	}

	if len(m.events) > 0 {
		b.WriteString("\n\n  " + titleStyle.Render("Events") + "\n")
		b.WriteString(renderEvents(m.events, positionsEventLimit))
	}

	return b.String()
}

func (m PositionsModel) renderTracks() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)

	if m.trackErr != nil {
		return "  " + dimStyle.Render("Tracks unavailable: "+m.trackErr.Error())
	}

	width := report.SparklineWidth
	if m.width > 0 && m.width-10 < width {
		width = m.width - 10
	}

	var lines []string
	for _, tr := range m.tracks {
		line := labelStyle.Render(fmt.Sprintf("%-6s", strings.ToUpper(tr.Body.String())))

		switch {
		case tr.AlwaysUp:
			line += colorByTier(astro.ElevationTier(tr.MaxAltitudeDeg), fmt.Sprintf("Always up, peak %s @ %.0f°", clock(tr.Transit), tr.MaxAltitudeDeg))
		case tr.NeverUp:
			line += dimStyle.Render("Below horizon all day")
		default:
			var parts []string
			if !tr.Rise.IsZero() {
				parts = append(parts, "Rise "+clock(tr.Rise))
			}
			parts = append(parts, fmt.Sprintf("Peak %s @ %.0f°", clock(tr.Transit), tr.MaxAltitudeDeg))
			if !tr.Set.IsZero() {
				parts = append(parts, "Set "+clock(tr.Set))
			}
			line += colorByTier(astro.ElevationTier(tr.MaxAltitudeDeg), strings.Join(parts, "   "))
		}
		lines = append(lines, "  "+line)

		if width > 0 {
			spark := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMoon))
			if tr.Body == astro.Sun {
				spark = spark.Foreground(lipgloss.Color(colorSun))
			}
			lines = append(lines, "        "+spark.Render(report.Sparkline(tr, width)))
		}
	}
	return strings.Join(lines, "\n")
}

// renderRecent draws the sampled altitude history, newest on the right.
func (m PositionsModel) renderRecent() string {
	if len(m.sunHistory) < 2 && len(m.moonHistory) < 2 {
		return ""
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	width := report.SparklineWidth
	if m.width > 0 && m.width-10 < width {
		width = m.width - 10
	}
	if width <= 0 {
		return ""
	}

	lines := []string{"  " + dimStyle.Render(fmt.Sprintf("Recent samples (%d)", max(len(m.sunHistory), len(m.moonHistory))))}
	for _, h := range []struct {
		label string
		color string
		alts  []float64
	}{
		{"SUN", colorSun, m.sunHistory},
		{"MOON", colorMoon, m.moonHistory},
	} {
		alts := h.alts
		if len(alts) > width {
			alts = alts[len(alts)-width:]
		}
		spark := lipgloss.NewStyle().Foreground(lipgloss.Color(h.color))
		lines = append(lines, fmt.Sprintf("  %-6s", h.label)+spark.Render(report.AltitudeSparkline(alts)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func renderEvents(events []state.Event, limit int) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}

	var lines []string
	// Newest first
	for i := len(events) - 1; i >= start; i-- {
		e := events[i]
		lines = append(lines, "  "+dimStyle.Render(e.Timestamp.UTC().Format("15:04:05"))+"  "+
			eventStyle(e.Type).Render(fmt.Sprintf("%-10s", e.Type))+"  "+e.Message)
	}
	return strings.Join(lines, "\n")
}

func eventStyle(t state.EventType) lipgloss.Style {
	switch t {
	case state.EventDetection:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorReticle)).Bold(true)
	case state.EventSunRise, state.EventMoonRise:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorVisMedium))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorVisLow))
	}
}

func clock(t time.Time) string {
	if t.IsZero() {
		return "--:--"
	}
	return t.UTC().Format("15:04")
}

// tierToBar converts elevation tier to a 4-character bar representation.
func tierToBar(tier astro.Tier) string {
	switch tier {
	case astro.TierHigh:
		return "████"
	case astro.TierMedium:
		return "██░░"
	case astro.TierLow:
		return "█░░░"
	default:
		return "░░░░"
	}
}

// tierToColor returns the color for an elevation tier.
func tierToColor(tier astro.Tier) string {
	switch tier {
	case astro.TierHigh:
		return colorVisHigh
	case astro.TierMedium:
		return colorVisMedium
	case astro.TierLow:
		return colorVisLow
	default:
		return colorVisNone
	}
}

func renderTierBar(tier astro.Tier) string {
	return colorByTier(tier, tierToBar(tier))
}

// colorByTier applies tier-based coloring to text.
func colorByTier(tier astro.Tier, text string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier)))
	return style.Render(text)
}

// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/pointing"
	"github.com/litescript/ls-solarkit/internal/state"
	"github.com/litescript/ls-solarkit/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewSky ViewMode = iota
	ViewPositions
)

const viewCount = 2

// Bounds for the sampling interval adjusted with + and -
const (
	minRefresh = time.Second
	maxRefresh = 5 * time.Minute
)

// Pointer checks a device reading against the current sky.
type Pointer interface {
	Point(reading pointing.Reading) ([]pointing.Detection, error)
	Tolerance() pointing.Tolerance
	Detected(body astro.Body) bool
	ResetDetections()
}

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// DataUpdateMsg signals a new sample is available.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}

	// ErrorMsg signals a sampling error.
	ErrorMsg struct {
		Error error
	}

	// pointResultMsg carries the outcome of a pointing check.
	pointResultMsg struct {
		reading    pointing.Reading
		detections []pointing.Detection
		err        error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state   *state.Manager
	pointer Pointer

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int // Animation tick for shimmer effects

	// Sub-models
	sky       SkyViewModel
	positions PositionsModel

	// Data snapshot (updated on DataUpdateMsg and TickMsg)
	snapshot state.Snapshot
}

// New creates a new root UI model. pointer may be nil, which disables
// pointing checks.
func New(stateMgr *state.Manager, pointer Pointer) Model {
	return Model{
		state:     stateMgr,
		pointer:   pointer,
		viewMode:  ViewSky,
		sky:       NewSkyViewModel(),
		positions: NewPositionsModel(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "s":
			m.viewMode = ViewSky
		case "2", "p":
			m.viewMode = ViewPositions

		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		case "+", "=":
			m = m.scaleRefresh(0.5)
		case "-":
			m = m.scaleRefresh(2)

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo takes ~10 lines, footer ~2 lines
		contentHeight := msg.Height - 13
		m.sky = m.sky.SetSize(msg.Width, contentHeight)
		m.positions = m.positions.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd())
		if m.state != nil {
			snap := m.state.Snapshot()
			if !snap.LastUpdate.Equal(m.snapshot.LastUpdate) || len(snap.Events) != len(m.snapshot.Events) {
				m = m.applySnapshot(snap)
			} else {
				m.snapshot = snap
			}
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case DataUpdateMsg:
		m = m.applySnapshot(msg.Snapshot)

	case PointRequestMsg:
		if m.pointer == nil {
			m.statusMsg = "Pointing unavailable"
			break
		}
		cmds = append(cmds, pointCmd(m.pointer, msg.Reading))

	case pointResultMsg:
		m.statusMsg = m.describePointResult(msg)
		if m.state != nil {
			m = m.applySnapshot(m.state.Snapshot())
		}

	case ResetDetectionsMsg:
		if m.pointer == nil {
			break
		}
		m.pointer.ResetDetections()
		m.sky = m.sky.WithDetections(m.detections())
		m.statusMsg = "Detections rearmed"

	case ErrorMsg:
		m.statusMsg = "Error: " + msg.Error.Error()

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m Model) applySnapshot(snap state.Snapshot) Model {
	m.snapshot = snap
	m.sky = m.sky.UpdateData(snap)
	m.sky = m.sky.WithDetections(m.detections())
	m.positions = m.positions.UpdateData(snap)
	if m.state != nil {
		m.positions = m.positions.WithHistory(m.state.AltitudeHistory(astro.Sun), m.state.AltitudeHistory(astro.Moon))
	}
	return m
}

// scaleRefresh multiplies the sampling interval by factor within bounds.
// The tracker picks the new interval up after its next tick.
func (m Model) scaleRefresh(factor float64) Model {
	if m.state == nil {
		return m
	}
	d := time.Duration(float64(m.state.RefreshInterval()) * factor).Round(time.Second)
	d = min(max(d, minRefresh), maxRefresh)
	m.state.SetRefreshInterval(d)
	m.statusMsg = "Sampling every " + d.String()
	return m
}

// detections returns the bodies the pointer currently has latched.
func (m Model) detections() map[astro.Body]bool {
	if m.pointer == nil {
		return nil
	}
	out := make(map[astro.Body]bool, len(astro.Bodies))
	for _, body := range astro.Bodies {
		if m.pointer.Detected(body) {
			out[body] = true
		}
	}
	return out
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewSky:
		m.sky, cmd = m.sky.Update(msg)
	case ViewPositions:
		m.positions, cmd = m.positions.Update(msg)
	}
	return cmd
}

func (m Model) describePointResult(msg pointResultMsg) string {
	if msg.err != nil {
		return "Pointing failed: " + msg.err.Error()
	}
	if len(msg.detections) > 0 {
		names := make([]string, 0, len(msg.detections))
		for _, d := range msg.detections {
			names = append(names, strings.ToUpper(d.Body.String()))
		}
		return "Detected " + strings.Join(names, " and ") + "!"
	}

	s := m.snapshot.Current
	if s == nil {
		return "No sample yet"
	}
	body := m.sky.FocusedBody()
	res := pointing.Check(msg.reading, s.Position(body), m.pointer.Tolerance())
	if res.Matched() {
		return fmt.Sprintf("Still on the %s", body)
	}
	return fmt.Sprintf("No match for the %s: %s", body, res)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewSky:
		content = m.sky.View()
	case ViewPositions:
		content = m.positions.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	logo := []string{
		`  ███████╗ ██████╗ ██╗      █████╗ ██████╗ ██╗  ██╗██╗████████╗`,
		`  ██╔════╝██╔═══██╗██║     ██╔══██╗██╔══██╗██║ ██╔╝██║╚══██╔══╝`,
		`  ███████╗██║   ██║██║     ███████║██████╔╝█████╔╝ ██║   ██║   `,
		`  ╚════██║██║   ██║██║     ██╔══██║██╔══██╗██╔═██╗ ██║   ██║   `,
		`  ███████║╚██████╔╝███████╗██║  ██║██║  ██║██║  ██╗██║   ██║   `,
		`  ╚══════╝ ╚═════╝ ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝   ╚═╝   `,
	}

	var b strings.Builder
	b.WriteString("\n")

	for row, line := range logo {
		runes := []rune(line)
		for col, r := range runes {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, row, len(runes), len(logo))))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Sun & Moon Finder · v%s", version.Version)))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient:
// deep orange -> gold -> pale yellow, darker toward the bottom.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	if xRatio < 0.5 {
		// Orange to gold
		t := xRatio / 0.5
		r = 255
		g = 99 + t*(215-99)
		b = 71 + t*(0-71)
	} else {
		// Gold to pale yellow
		t := (xRatio - 0.5) / 0.5
		r = 255
		g = 215 + t*(250-215)
		b = 0 + t*(205-0)
	}

	brightnessFactor := 1.0 - (yRatio * 0.5)
	return fmt.Sprintf("#%02X%02X%02X",
		clampByte(r*brightnessFactor), clampByte(g*brightnessFactor), clampByte(b*brightnessFactor))
}

func clampByte(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	default:
		return int(v)
	}
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Sky", "[2] Positions"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastUpdate.IsZero():
		var interval time.Duration
		if m.state != nil {
			interval = m.state.RefreshInterval()
		}
		countdown := time.Until(m.snapshot.LastUpdate.Add(interval)).Round(time.Second)
		if countdown < 0 {
			countdown = 0
		}
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" next sample in %ds", int(countdown.Seconds())))
	default:
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("Waiting for data...")
	}

	var help string
	switch m.viewMode {
	case ViewSky:
		help = dimStyle.Render("j/k: focus | l: labels | arrows: reticle | enter: point | r: reset & rearm")
	case ViewPositions:
		help = dimStyle.Render("t: tracks | +/-: sample rate | tab: switch view")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help
	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	pos := m.animTick % (len(runes) + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 255, 236, 150
		case dist <= 3:
			r8, g8, b8 = 220, 190, 110
		case dist <= 5:
			r8, g8, b8 = 170, 140, 80
		default:
			r8, g8, b8 = 120, 100, 70
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

func pointCmd(p Pointer, reading pointing.Reading) tea.Cmd {
	return func() tea.Msg {
		dets, err := p.Point(reading)
		return pointResultMsg{reading: reading, detections: dets, err: err}
	}
}

// SendDataUpdate creates a command that sends a data update message.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}

// SendError creates a command that sends an error message.
func SendError(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Error: err}
	}
}

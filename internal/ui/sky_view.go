package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/pointing"
	"github.com/litescript/ls-solarkit/internal/report"
	"github.com/litescript/ls-solarkit/internal/state"
)

const (
	// Field of view in degrees
	fovAz = 120.0 // horizontal FOV
	fovEl = 60.0  // vertical FOV

	// Animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	// Reticle step per key press, in degrees
	reticleStep = 1.0

	glyphSun      = '☼'
	glyphReticle  = '+'
	glyphDetected = '✓'

	colorSun     = "#FFD700" // gold
	colorMoon    = "#d0c8ff" // soft lavender
	colorReticle = "#7CFC00"
	colorFocused = "229" // bright gold
)

// LabelMode controls how body labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only focused body
	LabelAll                      // All bodies
)

// PointRequestMsg asks the root model to check the reticle against the sky.
type PointRequestMsg struct {
	Reading pointing.Reading
}

// ResetDetectionsMsg asks the root model to rearm pointing detections.
type ResetDetectionsMsg struct{}

// SkyViewModel renders the sky dome with Sun and Moon positions.
type SkyViewModel struct {
	width  int
	height int

	// Camera position (center of view)
	camAz float64
	camEl float64

	// Animation state
	animating   bool
	animStartAz float64
	animStartEl float64
	animTargAz  float64
	animTargEl  float64
	animStart   time.Time

	focusIdx  int
	sample    *state.Sample
	labelMode LabelMode

	// Simulated device pointing
	reticle  pointing.Reading
	detected map[astro.Body]bool
}

// NewSkyViewModel creates a new sky view model.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{
		camAz:     180,
		camEl:     fovEl / 2,
		labelMode: LabelAll,
		reticle:   pointing.Reading{HeadingDeg: 180, ElevationDeg: 30},
	}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates with a new snapshot.
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	m.sample = snapshot.Current

	// If not animating, snap camera to focused body
	if !m.animating && m.sample != nil {
		m.camAz, m.camEl = cameraFor(m.focusedPosition())
	}
	return m
}

// FocusedBody returns the body the camera follows.
func (m SkyViewModel) FocusedBody() astro.Body {
	return astro.Bodies[m.focusIdx%len(astro.Bodies)]
}

// WithDetections replaces the set of bodies currently latched by the detector.
func (m SkyViewModel) WithDetections(detected map[astro.Body]bool) SkyViewModel {
	m.detected = detected
	return m
}

// Reticle returns the simulated device reading.
func (m SkyViewModel) Reticle() pointing.Reading {
	return m.reticle
}

func (m SkyViewModel) focusedPosition() astro.HorizontalPosition {
	if m.sample == nil {
		return astro.HorizontalPosition{}
	}
	return m.sample.Position(m.FocusedBody())
}

// cameraFor centres the camera on pos, keeping the view between the horizon
// and the zenith.
func cameraFor(pos astro.HorizontalPosition) (az, el float64) {
	el = pos.AltitudeDeg
	if el < fovEl/2 {
		el = fovEl / 2
	}
	if el > 90-fovEl/2 {
		el = 90 - fovEl/2
	}
	return pos.AzimuthDeg, el
}

// animTickMsg is sent during animation
type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "k":
			return m.focusPrev()
		case "j":
			return m.focusNext()
		case "l":
			m.labelMode = (m.labelMode + 1) % 3
		case "left":
			m.reticle.HeadingDeg = astro.NormalizeDegrees(m.reticle.HeadingDeg - reticleStep)
		case "right":
			m.reticle.HeadingDeg = astro.NormalizeDegrees(m.reticle.HeadingDeg + reticleStep)
		case "up":
			m.reticle.ElevationDeg = pointing.DeviceElevation(m.reticle.ElevationDeg + reticleStep)
		case "down":
			m.reticle.ElevationDeg = math.Max(m.reticle.ElevationDeg-reticleStep, 0)
		case "r":
			// Reticle back to the camera centre, detections rearmed
			m.reticle = pointing.Reading{HeadingDeg: m.camAz, ElevationDeg: m.camEl}
			return m, func() tea.Msg {
				return ResetDetectionsMsg{}
			}
		case "enter", " ":
			reading := m.reticle
			return m, func() tea.Msg {
				return PointRequestMsg{Reading: reading}
			}
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

func (m SkyViewModel) focusNext() (SkyViewModel, tea.Cmd) {
	m.focusIdx = (m.focusIdx + 1) % len(astro.Bodies)
	return m.startAnimation()
}

func (m SkyViewModel) focusPrev() (SkyViewModel, tea.Cmd) {
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(astro.Bodies) - 1
	}
	return m.startAnimation()
}

func (m SkyViewModel) startAnimation() (SkyViewModel, tea.Cmd) {
	if m.sample == nil {
		return m, nil
	}

	m.animating = true
	m.animStartAz = m.camAz
	m.animStartEl = m.camEl
	m.animTargAz, m.animTargEl = cameraFor(m.focusedPosition())
	m.animStart = time.Now()

	return m, animTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	elapsed := time.Since(m.animStart)
	t := float64(elapsed) / float64(animDuration)

	if t >= 1.0 {
		m.animating = false
		m.camAz = m.animTargAz
		m.camEl = m.animTargEl
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)

	m.camAz = astro.NormalizeDegrees(lerpAngle(m.animStartAz, m.animTargAz, t))
	m.camEl = lerp(m.animStartEl, m.animTargEl, t)

	return m, animTick()
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}

	// Reserve lines for header and status
	viewHeight := m.height - 4
	viewWidth := m.width

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSkyCanvas(viewWidth, viewHeight))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")) // violet
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))               // muted purple
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorMoon))

	title := titleStyle.Render("Sky View")
	focus := accentStyle.Render("Focus: " + strings.ToUpper(m.FocusedBody().String()))

	var labelStr string
	switch m.labelMode {
	case LabelNone:
		labelStr = dimStyle.Render("Labels: off")
	case LabelFocused:
		labelStr = accentStyle.Render("Labels: focus")
	case LabelAll:
		labelStr = accentStyle.Render("Labels: all")
	}

	compass := dimStyle.Render(fmt.Sprintf("Az:%.0f° El:%.0f°", m.camAz, m.camEl))

	return fmt.Sprintf("%s | %s | %s | %s", title, focus, labelStr, compass)
}

func (m SkyViewModel) renderStatus() string {
	if m.sample == nil {
		return "Waiting for first sample"
	}

	body := m.FocusedBody()
	pos := m.sample.Position(body)

	where := fmt.Sprintf("Alt:%.1f° Az:%.1f° %s", pos.AltitudeDeg, pos.AzimuthDeg, report.CompassPoint(pos.AzimuthDeg))
	if pos.AltitudeDeg <= astro.HorizonAltitude {
		where += " (below horizon)"
	}

	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFocused))
	status := accentStyle.Render(fmt.Sprintf(">>> %s | %s", strings.ToUpper(body.String()), where))
	if m.detected[body] {
		status += " " + lipgloss.NewStyle().Foreground(lipgloss.Color(colorReticle)).Bold(true).Render(string(glyphDetected)+" DETECTED")
	}

	res := pointing.Check(m.reticle, pos, pointing.DefaultTolerance())
	reticleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorReticle))
	status += "\n" + reticleStyle.Render(fmt.Sprintf("    reticle Az:%.0f° El:%.0f° | Δaz %.1f° Δalt %.1f° | %.1f° away",
		m.reticle.HeadingDeg, m.reticle.ElevationDeg, res.AzimuthDiffDeg, res.AltitudeDiffDeg, res.SeparationDeg))

	return status
}

// bodyPos tracks a body's screen position for label rendering
type bodyPos struct {
	x, y      int
	name      string
	isFocused bool
	detected  bool
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236" // very dark background
		}
	}

	horizonY := height - 2

	// Horizon line, only when it falls inside the view
	if _, y, visible := m.projectToScreen(m.camAz, 0, width, height); visible && y <= horizonY {
		for x := 0; x < width; x++ {
			canvas[y][x] = '─'
			colors[y][x] = "60" // muted purple
		}
		m.drawCardinal(canvas, colors, width, y, "N", 0)
		m.drawCardinal(canvas, colors, width, y, "E", 90)
		m.drawCardinal(canvas, colors, width, y, "S", 180)
		m.drawCardinal(canvas, colors, width, y, "W", 270)
	}

	if x, y, visible := m.projectToScreen(m.reticle.HeadingDeg, m.reticle.ElevationDeg, width, height); visible && inCanvas(x, y, width, horizonY) {
		canvas[y][x] = glyphReticle
		colors[y][x] = colorReticle
	}

	var positions []bodyPos
	if m.sample != nil {
		for i, body := range astro.Bodies {
			pos := m.sample.Position(body)
			if pos.AltitudeDeg <= astro.HorizonAltitude {
				continue
			}

			x, y, visible := m.projectToScreen(pos.AzimuthDeg, pos.AltitudeDeg, width, height)
			if !visible || !inCanvas(x, y, width, horizonY) {
				continue
			}

			sym, color := bodyGlyph(body, m.sample.Phase)
			canvas[y][x] = sym
			colors[y][x] = color

			positions = append(positions, bodyPos{
				x:         x,
				y:         y,
				name:      strings.ToUpper(body.String()),
				isFocused: i == m.focusIdx%len(astro.Bodies),
				detected:  m.detected[body],
			})
		}
	}

	m.renderLabels(canvas, colors, width, horizonY, positions)

	// Observer marker at bottom center
	stationX := width / 2
	stationY := height - 1
	if stationY >= 0 && stationX >= 0 && stationX < width {
		canvas[stationY][stationX] = '▲'
		colors[stationY][stationX] = "46"
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func inCanvas(x, y, width, horizonY int) bool {
	return x >= 0 && x < width && y >= 0 && y < horizonY
}

// bodyGlyph returns the glyph and colour for a body. The Moon glyph follows its phase.
func bodyGlyph(body astro.Body, phase astro.Phase) (rune, lipgloss.Color) {
	if body == astro.Sun {
		return glyphSun, colorSun
	}
	return moonGlyph(phase), colorMoon
}

func moonGlyph(p astro.Phase) rune {
	switch {
	case p.Illumination < 0.25:
		return '○'
	case p.Illumination > 0.75:
		return '●'
	case p.Waxing:
		return '◐'
	default:
		return '◑'
	}
}

// renderLabels draws body labels to the right of each glyph. The focused
// body's label wins where labels overlap.
func (m SkyViewModel) renderLabels(canvas [][]rune, colors [][]lipgloss.Color, width, horizonY int, positions []bodyPos) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}

	// Draw unfocused first so the focused label overwrites
	for _, focusedPass := range []bool{false, true} {
		for _, pos := range positions {
			if pos.isFocused != focusedPass {
				continue
			}
			if m.labelMode == LabelFocused && !pos.isFocused {
				continue
			}

			labelColor := lipgloss.Color(colorMoon)
			labelText := pos.name
			if pos.isFocused {
				labelColor = colorFocused
				labelText = "◄ " + pos.name
			}
			if pos.detected {
				labelColor = colorReticle
				labelText += " " + string(glyphDetected)
			}

			for i, r := range []rune(labelText) {
				x := pos.x + 2 + i
				if !inCanvas(x, pos.y, width, horizonY) {
					continue
				}
				canvas[pos.y][x] = r
				colors[pos.y][x] = labelColor
			}
		}
	}
}

func (m SkyViewModel) drawCardinal(canvas [][]rune, colors [][]lipgloss.Color, width, y int, label string, az float64) {
	x, _, visible := m.projectToScreen(az, 0, width, len(canvas))
	if !visible {
		return
	}
	if x >= 0 && x < width {
		canvas[y][x] = rune(label[0])
		colors[y][x] = "252"
	}
}

// projectToScreen converts az/el to screen coordinates relative to camera
func (m SkyViewModel) projectToScreen(az, el float64, width, height int) (int, int, bool) {
	dAz := normalizeAngle(az - m.camAz)
	dEl := el - m.camEl

	if dAz < -fovAz/2 || dAz > fovAz/2 {
		return 0, 0, false
	}
	if dEl < -fovEl/2 || dEl > fovEl/2 {
		return 0, 0, false
	}

	// X: -fovAz/2..+fovAz/2 -> 0..width
	// Y: +fovEl/2..-fovEl/2 -> 0..horizonY (inverted, higher el = higher on screen)
	horizonY := height - 2

	x := int((dAz + fovAz/2) / fovAz * float64(width))
	y := int((fovEl/2 - dEl) / fovEl * float64(horizonY))
	if x == width {
		x = width - 1
	}

	return x, y, true
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	diff := normalizeAngle(b - a)
	return a + diff*t
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/pointing"
	"github.com/litescript/ls-solarkit/internal/state"
)

type fakePointer struct {
	dets     []pointing.Detection
	err      error
	called   int
	latched  map[astro.Body]bool
	rearmed  int
}

func (f *fakePointer) Point(pointing.Reading) ([]pointing.Detection, error) {
	f.called++
	return f.dets, f.err
}

func (f *fakePointer) Tolerance() pointing.Tolerance {
	return pointing.DefaultTolerance()
}

func (f *fakePointer) Detected(body astro.Body) bool {
	return f.latched[body]
}

func (f *fakePointer) ResetDetections() {
	f.rearmed++
	f.latched = nil
}

func sized(m Model) Model {
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 50})
	return next.(Model)
}

func TestModel_InitializingUntilSized(t *testing.T) {
	m := New(state.NewManager(state.DefaultConfig()), nil)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View() = %q", got)
	}
	if m.Init() == nil {
		t.Error("Init() should schedule ticks")
	}
}

func TestModel_ViewSwitching(t *testing.T) {
	m := sized(New(state.NewManager(state.DefaultConfig()), nil))

	tests := []struct {
		key  string
		want ViewMode
	}{
		{"2", ViewPositions},
		{"1", ViewSky},
		{"p", ViewPositions},
		{"s", ViewSky},
		{"tab", ViewPositions},
		{"tab", ViewSky},
	}

	for _, tt := range tests {
		var msg tea.KeyMsg
		if tt.key == "tab" {
			msg = tea.KeyMsg{Type: tea.KeyTab}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
		if m.viewMode != tt.want {
			t.Errorf("after %q view = %v, want %v", tt.key, m.viewMode, tt.want)
		}
	}
}

func TestModel_Quit(t *testing.T) {
	m := sized(New(nil, nil))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_TickPullsSnapshot(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	m := sized(New(mgr, nil))

	mgr.Update(*testSnapshot(
		astro.HorizontalPosition{AltitudeDeg: 40, AzimuthDeg: 180},
		astro.HorizontalPosition{AltitudeDeg: -10, AzimuthDeg: 20},
	).Current)

	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)

	if m.snapshot.Current == nil {
		t.Fatal("tick should pull a snapshot")
	}
	if m.sky.sample == nil || m.positions.sample == nil {
		t.Error("tick with new data should update sub-views")
	}

	view := m.View()
	if !strings.Contains(view, "Sky View") || !strings.Contains(view, "next sample in") {
		t.Errorf("unexpected view:\n%s", view)
	}
}

func TestModel_DataUpdate(t *testing.T) {
	m := sized(New(nil, nil))
	snap := testSnapshot(
		astro.HorizontalPosition{AltitudeDeg: 40, AzimuthDeg: 180},
		astro.HorizontalPosition{AltitudeDeg: -10, AzimuthDeg: 20},
	)

	next, _ := m.Update(DataUpdateMsg{Snapshot: snap})
	m = next.(Model)
	if m.sky.sample != snap.Current {
		t.Error("DataUpdateMsg should reach the sky view")
	}
}

func TestModel_PointFlow(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	mgr.Update(*testSnapshot(
		astro.HorizontalPosition{AltitudeDeg: 40, AzimuthDeg: 180},
		astro.HorizontalPosition{AltitudeDeg: -10, AzimuthDeg: 20},
	).Current)

	fp := &fakePointer{dets: []pointing.Detection{{Body: astro.Sun}}}
	m := sized(New(mgr, fp))

	next, cmd := m.Update(PointRequestMsg{Reading: pointing.Reading{HeadingDeg: 180, ElevationDeg: 40}})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("point request should return a command")
	}

	next, _ = m.Update(cmd())
	m = next.(Model)
	if fp.called != 1 {
		t.Errorf("Point called %d times, want 1", fp.called)
	}
	if m.statusMsg != "Detected SUN!" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestModel_DetectionMarkerAndRearm(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	mgr.Update(*testSnapshot(
		astro.HorizontalPosition{AltitudeDeg: 40, AzimuthDeg: 180},
		astro.HorizontalPosition{AltitudeDeg: -10, AzimuthDeg: 20},
	).Current)

	fp := &fakePointer{latched: map[astro.Body]bool{astro.Sun: true}}
	m := sized(New(mgr, fp))
	next, _ := m.Update(DataUpdateMsg{Snapshot: mgr.Snapshot()})
	m = next.(Model)

	if view := m.View(); !strings.Contains(view, "DETECTED") || !strings.Contains(view, "SUN ✓") {
		t.Error("latched sun should be marked in the sky view")
	}

	// r in the sky view resets the reticle and asks for a rearm
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	if cmd == nil {
		t.Fatal("r should return a command")
	}
	next, _ = m.Update(cmd())
	m = next.(Model)

	if fp.rearmed != 1 {
		t.Errorf("ResetDetections called %d times, want 1", fp.rearmed)
	}
	if m.statusMsg != "Detections rearmed" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
	if strings.Contains(m.View(), "DETECTED") {
		t.Error("marker should clear after rearm")
	}
}

func TestModel_SnapshotCarriesHistory(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	base := testSnapshot(
		astro.HorizontalPosition{AltitudeDeg: 40, AzimuthDeg: 180},
		astro.HorizontalPosition{AltitudeDeg: -10, AzimuthDeg: 20},
	).Current
	for i := 0; i < 3; i++ {
		s := *base
		s.Time = s.Time.Add(time.Duration(i) * time.Minute)
		s.Sun.AltitudeDeg += float64(i)
		mgr.Update(s)
	}

	m := sized(New(mgr, nil))
	next, _ := m.Update(DataUpdateMsg{Snapshot: mgr.Snapshot()})
	m = next.(Model)

	if got := m.positions.sunHistory; len(got) != 3 || got[2] != 42 {
		t.Errorf("sun history = %v, want 3 samples ending at 42", got)
	}
}

func TestModel_RefreshKeys(t *testing.T) {
	cfg := state.DefaultConfig()
	cfg.RefreshInterval = 4 * time.Second
	mgr := state.NewManager(cfg)
	m := sized(New(mgr, nil))

	tests := []struct {
		key  string
		want time.Duration
	}{
		{"+", 2 * time.Second},
		{"+", time.Second},
		{"+", time.Second},
		{"-", 2 * time.Second},
		{"=", time.Second},
	}
	for _, tt := range tests {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.key)})
		m = next.(Model)
		if got := mgr.RefreshInterval(); got != tt.want {
			t.Errorf("after %q: interval = %v, want %v", tt.key, got, tt.want)
		}
	}

	mgr.SetRefreshInterval(4 * time.Minute)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m = next.(Model)
	if got := mgr.RefreshInterval(); got != 5*time.Minute {
		t.Errorf("interval = %v, want capped at 5m", got)
	}
	if m.statusMsg != "Sampling every 5m0s" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestModel_PointMissAndError(t *testing.T) {
	mgr := state.NewManager(state.DefaultConfig())
	mgr.Update(*testSnapshot(
		astro.HorizontalPosition{AltitudeDeg: 40, AzimuthDeg: 180},
		astro.HorizontalPosition{AltitudeDeg: -10, AzimuthDeg: 20},
	).Current)

	fp := &fakePointer{}
	m := sized(New(mgr, fp))
	next, _ := m.Update(TickMsg(time.Now()))
	m = next.(Model)

	next, _ = m.Update(pointResultMsg{reading: pointing.Reading{HeadingDeg: 0, ElevationDeg: 10}})
	m = next.(Model)
	if !strings.HasPrefix(m.statusMsg, "No match for the sun") {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}

	next, _ = m.Update(pointResultMsg{reading: pointing.Reading{HeadingDeg: 182, ElevationDeg: 41}})
	m = next.(Model)
	if m.statusMsg != "Still on the sun" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}

	next, _ = m.Update(pointResultMsg{err: errors.New("no sample yet")})
	m = next.(Model)
	if m.statusMsg != "Pointing failed: no sample yet" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
}

func TestModel_PointWithoutPointer(t *testing.T) {
	m := sized(New(nil, nil))
	next, cmd := m.Update(PointRequestMsg{})
	m = next.(Model)
	if m.statusMsg != "Pointing unavailable" {
		t.Errorf("statusMsg = %q", m.statusMsg)
	}
	if cmd != nil {
		if msg := cmd(); msg != nil {
			t.Errorf("unexpected message %T", msg)
		}
	}
}

func TestModel_ErrorShowsInFooter(t *testing.T) {
	m := sized(New(nil, nil))
	next, _ := m.Update(SendError(errors.New("boom"))())
	m = next.(Model)
	if !strings.Contains(m.View(), "Error: boom") {
		t.Error("error should appear in the footer")
	}
}

func TestGradientColor(t *testing.T) {
	tests := []struct {
		col, row int
		want     string
	}{
		{0, 0, "#FF6347"},
		{50, 0, "#FFD700"},
		{0, 3, "#BF4A35"},
	}

	for _, tt := range tests {
		if got := gradientColor(tt.col, tt.row, 100, 6); got != tt.want {
			t.Errorf("gradientColor(%d, %d) = %s, want %s", tt.col, tt.row, got, tt.want)
		}
	}
}

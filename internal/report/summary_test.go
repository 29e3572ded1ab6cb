package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-solarkit/internal/state"
)

func TestWriteSummaryTable(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryTable(&buf, testSnapshot())
	out := buf.String()

	for _, want := range []string{
		"Sky @ 2025-03-15T18:30:00Z",
		"Lahore",
		"sun",
		"moon",
		"-58.78°",
		"143.32°",
		"Waning Gibbous, 98% lit",
		"JD 2460750.27083",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSummaryTable_NoSample(t *testing.T) {
	var buf bytes.Buffer
	WriteSummaryTable(&buf, state.Snapshot{})
	if !strings.Contains(buf.String(), "No sample yet") {
		t.Errorf("got %q", buf.String())
	}
}

func TestGenerateSummaryRows(t *testing.T) {
	rows := GenerateSummaryRows(testSample())
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Status != "down" || rows[1].Status != "up" {
		t.Errorf("status = %q/%q, want down/up", rows[0].Status, rows[1].Status)
	}
	if GenerateSummaryRows(nil) != nil {
		t.Error("nil sample should produce no rows")
	}
}

func TestWriteNow(t *testing.T) {
	var buf bytes.Buffer
	WriteNow(&buf, testSample())
	out := buf.String()

	if strings.Count(out, "\n") != 1 {
		t.Errorf("WriteNow should write one line, got %q", out)
	}
	for _, want := range []string{"18:30:00Z", "↓ alt -58.8°", "↑ alt 45.8°", "Waning Gibbous 98%"} {
		if !strings.Contains(out, want) {
			t.Errorf("now line missing %q: %q", want, out)
		}
	}

	buf.Reset()
	WriteNow(&buf, nil)
	if !strings.Contains(buf.String(), "--") {
		t.Errorf("nil sample line = %q", buf.String())
	}
}

func TestWriteEvents(t *testing.T) {
	base := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	events := []state.Event{
		{Type: state.EventSunRise, Timestamp: base.Add(1 * time.Hour), Body: "sun"},
		{Type: state.EventSunSet, Timestamp: base.Add(13 * time.Hour), Body: "sun"},
		{Type: state.EventDetection, Timestamp: base.Add(14 * time.Hour), Body: "moon", Message: "moon detected"},
	}

	var buf bytes.Buffer
	WriteEvents(&buf, events, 2)
	out := buf.String()

	if strings.Contains(out, "SUN_RISE") {
		t.Error("limit should drop the oldest event")
	}
	if !strings.Contains(out, "SUN_SET") || !strings.Contains(out, "moon detected") {
		t.Errorf("events output:\n%s", out)
	}

	buf.Reset()
	WriteEvents(&buf, nil, 5)
	if !strings.Contains(buf.String(), "No events") {
		t.Errorf("empty events output = %q", buf.String())
	}
}

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much too long", 8, "much t.."},
		{"Tromsø Observatory", 7, "Troms.."},
		{"Tromsø Observatory", 8, "Tromsø.."},
		{"abc", 2, "ab"},
	}

	for _, tt := range tests {
		if got := truncateStr(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

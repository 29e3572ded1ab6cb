// Package report renders state snapshots for headless output: JSON export,
// text tables, a one-line status and an ASCII sky.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/state"
)

// SnapshotExport is the JSON-serializable representation of tracker state.
type SnapshotExport struct {
	Timestamp time.Time      `json:"timestamp"`
	UpdatedAt time.Time      `json:"updated_at"`
	Observer  astro.Observer `json:"observer"`
	JulianDay float64        `json:"julian_day"`
	Bodies    []BodyExport   `json:"bodies"`
	MoonPhase *astro.Phase   `json:"moon_phase,omitempty"`
	Events    []state.Event  `json:"events,omitempty"`
	LastError string         `json:"last_error,omitempty"`
}

// BodyExport is one body's position with derived fields.
type BodyExport struct {
	Name        string  `json:"name"`
	AltitudeDeg float64 `json:"altitude_deg"`
	AzimuthDeg  float64 `json:"azimuth_deg"`
	Compass     string  `json:"compass"`
	AboveHoriz  bool    `json:"above_horizon"`
	Tier        string  `json:"tier"`
}

// ExportSnapshot converts a state snapshot to an exportable format.
func ExportSnapshot(snap state.Snapshot) *SnapshotExport {
	export := &SnapshotExport{
		UpdatedAt: snap.LastUpdate,
		Events:    snap.Events,
	}
	if snap.LastError != nil {
		export.LastError = snap.LastError.Error()
	}

	s := snap.Current
	if s == nil {
		return export
	}

	export.Timestamp = s.Time
	export.Observer = s.Observer
	export.JulianDay = s.JulianDay
	phase := s.Phase
	export.MoonPhase = &phase

	for _, body := range astro.Bodies {
		export.Bodies = append(export.Bodies, exportBody(body, s.Position(body)))
	}
	return export
}

func exportBody(body astro.Body, pos astro.HorizontalPosition) BodyExport {
	return BodyExport{
		Name:        body.String(),
		AltitudeDeg: pos.AltitudeDeg,
		AzimuthDeg:  pos.AzimuthDeg,
		Compass:     CompassPoint(pos.AzimuthDeg),
		AboveHoriz:  pos.AltitudeDeg > astro.HorizonAltitude,
		Tier:        astro.ElevationTier(pos.AltitudeDeg).String(),
	}
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SnapshotExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSnapshotFile writes the export to path, gzip-compressed when path ends
// in ".gz". A path of "-" writes plain JSON to stdout.
func WriteSnapshotFile(path string, export *SnapshotExport) (err error) {
	if path == "-" {
		return export.WriteJSON(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close snapshot file: %w", cerr)
		}
	}()

	if !strings.HasSuffix(path, ".gz") {
		return export.WriteJSON(f)
	}

	zw := gzip.NewWriter(f)
	zw.Name = strings.TrimSuffix(filepath.Base(path), ".gz")
	zw.ModTime = export.Timestamp
	if err := export.WriteJSON(zw); err != nil {
		_ = zw.Close()
		return fmt.Errorf("write gzip snapshot: %w", err)
	}
	return zw.Close()
}

// compassPoints are the 16 compass directions clockwise from north.
var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassPoint returns the 16-point compass direction for an azimuth.
func CompassPoint(azDeg float64) string {
	idx := int(astro.NormalizeDegrees(azDeg+11.25)/22.5) % 16
	return compassPoints[idx]
}

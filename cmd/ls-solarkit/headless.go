package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/logging"
	"github.com/litescript/ls-solarkit/internal/pointing"
	"github.com/litescript/ls-solarkit/internal/report"
	"github.com/litescript/ls-solarkit/internal/state"
	"github.com/litescript/ls-solarkit/internal/tracker"
)

// headlessEventLimit caps the events printed by -events.
const headlessEventLimit = 10

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, trk *tracker.Tracker, stateMgr *state.Manager, reading *pointing.Reading, logger *logging.Logger) {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	var lastEventID string

	outputOnce := func() error {
		if _, err := trk.Step(); err != nil {
			return err
		}

		// Pointing check
		if reading != nil {
			if err := writePoint(os.Stdout, trk, stateMgr, *reading); err != nil {
				return err
			}
		}

		snap := stateMgr.Snapshot()

		// One-line mode
		if nowMode {
			report.WriteNow(os.Stdout, snap.Current)
			return nil
		}

		// Export JSON if requested
		if snapshotPath != "" {
			if err := report.WriteSnapshotFile(snapshotPath, report.ExportSnapshot(snap)); err != nil {
				return err
			}
			if snapshotPath != "-" {
				logger.Debug("Wrote snapshot to %s", snapshotPath)
			}
		}

		// Print summary table if requested
		if summaryMode {
			report.WriteSummaryTable(os.Stdout, snap)
		}

		// Mini sky view
		if miniSkyMode {
			fmt.Println()
			report.WriteMiniSky(os.Stdout, snap.Current, report.DefaultMiniSkyConfig())
		}

		// Day tracks
		if tracksMode {
			fmt.Println()
			tracks, err := dayTracks(trk.Observer(), snap.Current.Time)
			if err != nil {
				return err
			}
			report.WriteTracks(os.Stdout, tracks)
		}

		// Events log
		if eventsMode {
			fmt.Println()
			report.WriteEvents(os.Stdout, stateMgr.RecentEvents(headlessEventLimit), headlessEventLimit)
		}

		// Beep when an event arrived since the last output
		if latest := stateMgr.RecentEvents(1); len(latest) == 1 {
			if beepMode && isTTY && latest[0].ID != lastEventID {
				fmt.Print("\a")
			}
			lastEventID = latest[0].ID
		}

		return nil
	}

	// Single run
	if watchInterval == 0 {
		if err := outputOnce(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Watch mode: repeat at interval
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !nowMode {
				fmt.Println() // Blank line between outputs (except now mode)
			}
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

// writePoint compares reading with both bodies and reports any new detection.
func writePoint(w io.Writer, trk *tracker.Tracker, stateMgr *state.Manager, reading pointing.Reading) error {
	dets, err := trk.Point(reading)
	if err != nil {
		return err
	}

	s := stateMgr.Snapshot().Current
	fmt.Fprintf(w, "Pointing az %.1f° alt %.1f°\n", reading.HeadingDeg, reading.ElevationDeg)
	for _, body := range astro.Bodies {
		res := pointing.Check(reading, s.Position(body), trk.Tolerance())
		mark := " "
		if res.Matched() {
			mark = "*"
		}
		fmt.Fprintf(w, " %s %-5s %s\n", mark, strings.ToUpper(body.String()), res)
	}
	for _, d := range dets {
		fmt.Fprintf(w, "%s detected!\n", strings.ToUpper(d.Body.String()))
	}
	return nil
}

// dayTracks computes both bodies' tracks for the UTC day containing t.
func dayTracks(obs astro.Observer, t time.Time) ([]astro.Track, error) {
	day := t.UTC().Truncate(24 * time.Hour)

	tracks := make([]astro.Track, 0, len(astro.Bodies))
	for _, body := range astro.Bodies {
		tr, err := astro.DayTrack(body, obs, day, 24*time.Hour, astro.DefaultTrackStep)
		if err != nil {
			return nil, fmt.Errorf("%s track: %w", body, err)
		}
		tracks = append(tracks, tr)
	}
	return tracks, nil
}

// Command ls-solarkit shows where the Sun and Moon are in the sky for an observer.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-solarkit/internal/config"
	"github.com/litescript/ls-solarkit/internal/logging"
	"github.com/litescript/ls-solarkit/internal/pointing"
	"github.com/litescript/ls-solarkit/internal/state"
	"github.com/litescript/ls-solarkit/internal/tracker"
	"github.com/litescript/ls-solarkit/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	watchInterval time.Duration
	snapshotPath  string
	miniSkyMode   bool
	nowMode       bool
	tracksMode    bool
	eventsMode    bool
	beepMode      bool
	pointArg      string
	atArg         string
	serveMode     bool
)

const (
	minRefresh = 1 * time.Second
	maxRefresh = 5 * time.Minute
)

func main() {
	// The env file has to be read before flag defaults are taken from cfg
	envFile := envFileArg(os.Args[1:])

	var cfg *config.Config
	var err error
	if envFile != "" {
		cfg, err = config.LoadFiles(envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Parse flags; defaults come from the environment
	lat := flag.Float64("lat", cfg.Lat, "Observer latitude in degrees, north positive")
	lon := flag.Float64("lon", cfg.Lon, "Observer longitude in degrees, east positive")
	name := flag.String("name", cfg.Name, "Observer site name")
	refresh := flag.Duration("refresh", cfg.Refresh, "Sampling interval (e.g., 5s, 1m)")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", cfg.LogFile, "Write logs to file (TUI mode discards logs otherwise)")
	httpAddr := flag.String("http-addr", cfg.HTTPAddr, "Listen address for -serve")
	flag.String("env-file", envFile, "Load SOLARKIT_* settings from this dotenv file instead of ./.env")
	flag.StringVar(&atArg, "at", "", "Evaluate at a fixed RFC3339 instant instead of the clock")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat output at interval (e.g., 30s)")
	flag.StringVar(&snapshotPath, "snapshot-path", "", "Export JSON snapshot to file (use - for stdout, .gz to compress)")
	flag.BoolVar(&miniSkyMode, "mini-sky", false, "Show ASCII mini sky view")
	flag.BoolVar(&nowMode, "now", false, "Single-line status mode")
	flag.BoolVar(&tracksMode, "tracks", false, "Show today's rise, transit and set for both bodies")
	flag.BoolVar(&eventsMode, "events", false, "Show event log")
	flag.BoolVar(&beepMode, "beep", false, "Beep on new events (TTY only)")
	flag.StringVar(&pointArg, "point", "", "Check a device reading given as magnetic-heading,pitch in degrees")
	flag.BoolVar(&serveMode, "serve", false, "Serve the HTTP API alongside the sampling loop")
	flag.Parse()

	cfg.Lat, cfg.Lon, cfg.Name = *lat, *lon, *name
	cfg.Refresh = clampRefresh(*refresh)
	cfg.LogLevel = *logLevel
	cfg.LogFile = *logFile
	cfg.HTTPAddr = *httpAddr
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	clock := time.Now
	if atArg != "" {
		at, err := time.Parse(time.RFC3339, atArg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -at must be an RFC3339 timestamp: %v\n", err)
			os.Exit(2)
		}
		clock = func() time.Time { return at }
	}

	var reading *pointing.Reading
	if pointArg != "" {
		r, err := parsePoint(pointArg, cfg.MagneticDeclination)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		reading = &r
	}

	headless := summaryMode || snapshotPath != "" || miniSkyMode || nowMode || tracksMode || eventsMode || reading != nil

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
	} else if !headless && !serveMode {
		// Stderr would corrupt the TUI
		logger.SetOutput(io.Discard)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Initialize components
	stateMgr := state.NewManager(cfg.StateConfig())
	detector := pointing.NewDetector(cfg.Tolerance())

	opts := []tracker.Option{
		tracker.WithClock(clock),
		tracker.WithLogger(logger),
		tracker.WithDetector(detector),
	}

	if serveMode {
		trk, err := tracker.New(cfg.Observer(), stateMgr, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		if err := runServe(ctx, cfg.HTTPAddr, trk, stateMgr, clock, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if headless {
		trk, err := tracker.New(cfg.Observer(), stateMgr, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		runHeadless(ctx, trk, stateMgr, reading, logger)
		return
	}

	// The sampling callback needs the program, which needs the model
	var p *tea.Program
	opts = append(opts, tracker.OnSample(func(state.Sample) {
		p.Send(ui.DataUpdateMsg{Snapshot: stateMgr.Snapshot()})
	}))

	trk, err := tracker.New(cfg.Observer(), stateMgr, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	model := ui.New(stateMgr, trk)
	p = tea.NewProgram(model, tea.WithAltScreen())

	// Start sampling loop in background
	go func() {
		_ = trk.Run(ctx)
	}()

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// envFileArg finds -env-file in args ahead of flag.Parse. It accepts the
// same spellings as the flag package and stops at "--".
func envFileArg(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			return ""
		}
		if !strings.HasPrefix(a, "-") {
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(a, "-"), "=")
		if name != "env-file" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
		return ""
	}
	return ""
}

func clampRefresh(d time.Duration) time.Duration {
	if d < minRefresh {
		return minRefresh
	}
	if d > maxRefresh {
		return maxRefresh
	}
	return d
}

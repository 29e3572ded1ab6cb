package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-solarkit/internal/api"
	"github.com/litescript/ls-solarkit/internal/logging"
	"github.com/litescript/ls-solarkit/internal/state"
	"github.com/litescript/ls-solarkit/internal/tracker"
)

// runServe runs the sampling loop and the HTTP API until ctx is cancelled
// or either of them fails.
func runServe(ctx context.Context, addr string, trk *tracker.Tracker, stateMgr *state.Manager, clock func() time.Time, logger *logging.Logger) error {
	srv := api.NewServer(
		api.WithLogger(logger.With("component", "api")),
		api.WithClock(clock),
		api.WithState(stateMgr),
	)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Slog().Handler(), slog.LevelError),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return trk.Run(gCtx)
	})

	g.Go(func() error {
		logger.Info("HTTP server listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		// Graceful shutdown with a 10-second deadline.
		logger.Info("Initiating graceful shutdown")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

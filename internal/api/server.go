// Package api exposes Sun and Moon positions over HTTP.
//
// Routes:
//   - GET /healthz
//   - GET /v1/positions?lat=&lon=&at=
//   - GET /v1/tracks?lat=&lon=&date=&step=
//   - GET /v1/state (only when a state manager is attached)
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/litescript/ls-solarkit/internal/logging"
	"github.com/litescript/ls-solarkit/internal/state"
)

// Server owns the router and its dependencies.
type Server struct {
	router   *chi.Mux
	logger   *logging.Logger
	validate *validator.Validate
	now      func() time.Time
	state    *state.Manager
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithClock sets the time source used when a request omits the instant.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithState mounts GET /v1/state backed by mgr.
func WithState(mgr *state.Manager) Option {
	return func(s *Server) {
		s.state = mgr
	}
}

// NewServer builds the router with all routes mounted.
func NewServer(opts ...Option) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		logger:   logging.Discard(),
		validate: validator.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mountRoutes()
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) mountRoutes() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, codeNotFound, "route not found")
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
	})

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/positions", s.handlePositions)
		r.Get("/tracks", s.handleTracks)
		if s.state != nil {
			r.Get("/state", s.handleState)
		}
	})
}

// requestLogger logs one line per request at debug level.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("%s %s -> %d (%s) req=%s",
			r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context()))
	})
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/report"
	"github.com/litescript/ls-solarkit/internal/version"
)

// locationQuery holds the observer parameters shared by every endpoint.
type locationQuery struct {
	Lat *float64 `validate:"required,min=-90,max=90"`
	Lon *float64 `validate:"required,min=-180,max=180"`
}

type positionsQuery struct {
	locationQuery
	At time.Time
}

type tracksQuery struct {
	locationQuery
	Date time.Time
	Step time.Duration `validate:"min=1m,max=1h"`
}

type positionsResponse struct {
	JulianDay float64                  `json:"julian_day"`
	At        string                   `json:"at"`
	Observer  astro.Observer           `json:"observer"`
	Sun       astro.HorizontalPosition `json:"sun"`
	Moon      astro.HorizontalPosition `json:"moon"`
	MoonPhase astro.Phase              `json:"moon_phase"`
}

type trackResponse struct {
	Rise           *time.Time `json:"rise,omitempty"`
	Transit        time.Time  `json:"transit"`
	Set            *time.Time `json:"set,omitempty"`
	MaxAltitudeDeg float64    `json:"max_altitude_deg"`
	AlwaysUp       bool       `json:"always_up"`
	NeverUp        bool       `json:"never_up"`
	UpNow          *bool      `json:"up_now,omitempty"` // only when now is inside the track
}

type tracksResponse struct {
	Date     string         `json:"date"`
	Observer astro.Observer `json:"observer"`
	Step     string         `json:"step"`
	Sun      trackResponse  `json:"sun"`
	Moon     trackResponse  `json:"moon"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sampling bool   `json:"sampling"` // a sample has been stored
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Version:  version.Version,
		Sampling: s.state != nil && s.state.HasData(),
	})
}

// handlePositions handles GET /v1/positions.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	var q positionsQuery
	if err := s.parseLocation(r, &q.locationQuery); err != nil {
		writeErr(w, r, err)
		return
	}

	q.At = s.now().UTC()
	if v := r.URL.Query().Get("at"); v != "" {
		at, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeErr(w, r, fmt.Errorf("%w: at must be an RFC3339 timestamp", astro.ErrInvalidInput))
			return
		}
		q.At = at.UTC()
	}

	if err := s.check(q); err != nil {
		writeErr(w, r, err)
		return
	}

	dt := astro.FromTime(q.At)
	jd, err := astro.JulianDay(dt)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	sun, err := astro.SunPosition(*q.Lat, *q.Lon, dt)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	moon, err := astro.MoonPosition(*q.Lat, *q.Lon, dt)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	phase, err := astro.MoonPhase(dt)
	if err != nil {
		writeErr(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, positionsResponse{
		JulianDay: jd,
		At:        dt.String(),
		Observer:  astro.Observer{LatDeg: *q.Lat, LonDeg: *q.Lon},
		Sun:       sun,
		Moon:      moon,
		MoonPhase: phase,
	})
}

// handleTracks handles GET /v1/tracks.
func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	var q tracksQuery
	if err := s.parseLocation(r, &q.locationQuery); err != nil {
		writeErr(w, r, err)
		return
	}

	query := r.URL.Query()
	q.Date = s.now().UTC().Truncate(24 * time.Hour)
	if v := query.Get("date"); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			writeErr(w, r, fmt.Errorf("%w: date must be YYYY-MM-DD", astro.ErrInvalidInput))
			return
		}
		q.Date = d
	}

	q.Step = astro.DefaultTrackStep
	if v := query.Get("step"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			writeErr(w, r, fmt.Errorf("%w: step must be a duration such as 5m", astro.ErrInvalidInput))
			return
		}
		q.Step = d
	}

	if err := s.check(q); err != nil {
		writeErr(w, r, err)
		return
	}

	obs := astro.Observer{LatDeg: *q.Lat, LonDeg: *q.Lon}
	now := s.now()
	resp := tracksResponse{
		Date:     q.Date.Format(time.DateOnly),
		Observer: obs,
		Step:     q.Step.String(),
	}
	for _, body := range astro.Bodies {
		tr, err := astro.DayTrack(body, obs, q.Date, 24*time.Hour, q.Step)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		if body == astro.Sun {
			resp.Sun = toTrackResponse(tr, now)
		} else {
			resp.Moon = toTrackResponse(tr, now)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleState handles GET /v1/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, report.ExportSnapshot(s.state.Snapshot()))
}

// parseLocation reads lat and lon. Missing values are left nil for the
// validator to report.
func (s *Server) parseLocation(r *http.Request, q *locationQuery) error {
	query := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  **float64
	}{
		{"lat", &q.Lat},
		{"lon", &q.Lon},
	} {
		v := query.Get(p.name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a valid number", astro.ErrInvalidInput, p.name)
		}
		*p.dst = &f
	}
	return nil
}

// check runs struct validation and flattens failures into one input error.
func (s *Server) check(q any) error {
	err := s.validate.Struct(q)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		if fe.Tag() == "required" {
			msgs = append(msgs, name+" is required")
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s fails %s=%s", name, fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("%w: %s", astro.ErrInvalidInput, strings.Join(msgs, "; "))
}

func toTrackResponse(tr astro.Track, now time.Time) trackResponse {
	resp := trackResponse{
		Transit:        tr.Transit,
		MaxAltitudeDeg: tr.MaxAltitudeDeg,
		AlwaysUp:       tr.AlwaysUp,
		NeverUp:        tr.NeverUp,
	}
	if !tr.Rise.IsZero() {
		rise := tr.Rise
		resp.Rise = &rise
	}
	if !tr.Set.IsZero() {
		set := tr.Set
		resp.Set = &set
	}
	if !now.Before(tr.Start) && !now.After(tr.End) {
		up := tr.IsUp(now)
		resp.UpNow = &up
	}
	return resp
}

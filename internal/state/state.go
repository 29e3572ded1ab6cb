// Package state provides thread-safe state management for the application.
package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/pointing"
)

// EventType represents the type of state change event.
type EventType string

const (
	EventSunRise   EventType = "SUN_RISE"
	EventSunSet    EventType = "SUN_SET"
	EventMoonRise  EventType = "MOON_RISE"
	EventMoonSet   EventType = "MOON_SET"
	EventDetection EventType = "DETECTION"
)

// Event represents a horizon crossing or a pointing detection.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Body        string    `json:"body"`
	AltitudeDeg float64   `json:"altitude_deg"`
	AzimuthDeg  float64   `json:"azimuth_deg"`
	Message     string    `json:"message,omitempty"`
}

// Sample is one evaluation of the sky for an observer.
type Sample struct {
	Time      time.Time                `json:"time"`
	Observer  astro.Observer           `json:"observer"`
	JulianDay float64                  `json:"julian_day"`
	Sun       astro.HorizontalPosition `json:"sun"`
	Moon      astro.HorizontalPosition `json:"moon"`
	Phase     astro.Phase              `json:"moon_phase"`
}

// Position returns the sampled position of body.
func (s Sample) Position(body astro.Body) astro.HorizontalPosition {
	if body == astro.Moon {
		return s.Moon
	}
	return s.Sun
}

// Manager handles all shared application state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Current state
	current    *Sample
	lastUpdate time.Time
	lastError  error

	// History (ring buffer)
	history        []Sample
	maxHistoryLen  int
	historyWriteAt int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	// Configuration
	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120, // 10 minutes at 5 s
		MaxEvents:       50,
		RefreshInterval: 5 * time.Second,
	}
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	maxHistory := cfg.MaxHistoryLen
	if maxHistory <= 0 {
		maxHistory = 1
	}
	return &Manager{
		history:         make([]Sample, 0, maxHistory),
		maxHistoryLen:   maxHistory,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// Update stores a new sample, appends it to history and emits rise/set events
// for any body whose altitude crossed the horizon since the previous sample.
func (m *Manager) Update(sample Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastUpdate = time.Now()
	m.lastError = nil

	if m.current != nil && sample.Time.After(m.current.Time) {
		m.detectCrossings(*m.current, sample)
	}

	s := sample
	m.current = &s

	if len(m.history) < m.maxHistoryLen {
		m.history = append(m.history, sample)
	} else {
		m.history[m.historyWriteAt] = sample
		m.historyWriteAt = (m.historyWriteAt + 1) % m.maxHistoryLen
	}
}

// RecordError notes a failed sampling attempt without touching the current sample.
func (m *Manager) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastUpdate = time.Now()
	m.lastError = err
}

// RecordDetection logs a pointing detection as an event.
func (m *Manager) RecordDetection(d pointing.Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addEvent(Event{
		Type:        EventDetection,
		Timestamp:   d.Time,
		Body:        d.Body.String(),
		AltitudeDeg: d.Target.AltitudeDeg,
		AzimuthDeg:  d.Target.AzimuthDeg,
		Message:     fmt.Sprintf("%s detected: %s", d.Body, d.Result),
	})
}

// detectCrossings compares consecutive samples and generates events.
func (m *Manager) detectCrossings(prev, curr Sample) {
	for _, body := range astro.Bodies {
		p, c := prev.Position(body), curr.Position(body)

		var typ EventType
		switch {
		case p.AltitudeDeg <= astro.HorizonAltitude && c.AltitudeDeg > astro.HorizonAltitude:
			typ = riseEvent(body)
		case p.AltitudeDeg > astro.HorizonAltitude && c.AltitudeDeg <= astro.HorizonAltitude:
			typ = setEvent(body)
		default:
			continue
		}

		// Crossing time by linear interpolation between the two samples
		frac := (astro.HorizonAltitude - p.AltitudeDeg) / (c.AltitudeDeg - p.AltitudeDeg)
		at := prev.Time.Add(time.Duration(float64(curr.Time.Sub(prev.Time)) * frac))

		m.addEvent(Event{
			Type:        typ,
			Timestamp:   at,
			Body:        body.String(),
			AltitudeDeg: c.AltitudeDeg,
			AzimuthDeg:  c.AzimuthDeg,
		})
	}
}

func riseEvent(b astro.Body) EventType {
	if b == astro.Moon {
		return EventMoonRise
	}
	return EventSunRise
}

func setEvent(b astro.Body) EventType {
	if b == astro.Moon {
		return EventMoonSet
	}
	return EventSunSet
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Current    *Sample
	LastUpdate time.Time
	LastError  error
	History    []Sample
	Events     []Event
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var current *Sample
	if m.current != nil {
		c := *m.current
		current = &c
	}

	return Snapshot{
		Current:    current,
		LastUpdate: m.lastUpdate,
		LastError:  m.lastError,
		History:    ringOrdered(m.history, m.maxHistoryLen, m.historyWriteAt),
		Events:     m.getEventsOrdered(),
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	return ringOrdered(m.events, m.maxEvents, m.eventWriteAt)
}

// ringOrdered copies a ring buffer out oldest first. writeAt is the next slot
// to overwrite once the buffer holds size items.
func ringOrdered[T any](buf []T, size, writeAt int) []T {
	if len(buf) == 0 {
		return nil
	}

	// If buffer isn't full yet, just copy
	if len(buf) < size {
		result := make([]T, len(buf))
		copy(result, buf)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]T, size)
	for i := 0; i < size; i++ {
		result[i] = buf[(writeAt+i)%size]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// AltitudeHistory returns the recorded altitudes of body, oldest first.
func (m *Manager) AltitudeHistory(body astro.Body) []float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := ringOrdered(m.history, m.maxHistoryLen, m.historyWriteAt)
	out := make([]float64, len(history))
	for i, s := range history {
		out[i] = s.Position(body).AltitudeDeg
	}
	return out
}

// RefreshInterval returns the configured refresh interval.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// SetRefreshInterval updates the refresh interval.
func (m *Manager) SetRefreshInterval(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refreshInterval = d
}

// HasData returns true once at least one sample has been stored.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil
}

// Package config loads runtime settings from the environment.
//
// Values are resolved in priority order:
//
//	OS Environment (Highest) -> Dotenv File -> struct defaults (Lowest)
//
// All variables share the SOLARKIT_ prefix. Command-line flags in cmd/
// override whatever is loaded here.
package config

import (
	"time"

	"github.com/litescript/ls-solarkit/internal/astro"
	"github.com/litescript/ls-solarkit/internal/pointing"
	"github.com/litescript/ls-solarkit/internal/state"
)

// EnvPrefix is prepended (with an underscore) to every variable name.
const EnvPrefix = "SOLARKIT"

// Config is the application configuration.
type Config struct {
	// Observer
	Lat  float64 `envconfig:"LAT" default:"31.46" validate:"min=-90,max=90"`
	Lon  float64 `envconfig:"LON" default:"74.31" validate:"min=-180,max=180"`
	Name string  `envconfig:"NAME"`

	// Runtime
	Refresh  time.Duration `envconfig:"REFRESH" default:"5s" validate:"min=1s,max=5m"`
	LogLevel string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	LogFile  string        `envconfig:"LOG_FILE"`
	HTTPAddr string        `envconfig:"HTTP_ADDR" default:":8080" validate:"required"`

	// Pointing
	MagneticDeclination float64 `envconfig:"MAGNETIC_DECLINATION" default:"4.0" validate:"min=-180,max=180"`
	AzTolerance         float64 `envconfig:"AZ_TOLERANCE" default:"10" validate:"gt=0,max=180"`
	AltTolerance        float64 `envconfig:"ALT_TOLERANCE" default:"5" validate:"gt=0,max=90"`

	// State buffers
	History   int `envconfig:"HISTORY" default:"120" validate:"min=1,max=100000"`
	MaxEvents int `envconfig:"MAX_EVENTS" default:"50" validate:"min=1,max=10000"`
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrDotenv indicates an explicitly requested dotenv file could not be read.
	ErrDotenv ConfigErrorType = "DOTENV_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
)

// Observer returns the configured observing site.
func (c *Config) Observer() astro.Observer {
	return astro.Observer{LatDeg: c.Lat, LonDeg: c.Lon, Name: c.Name}
}

// Tolerance returns the pointing tolerance.
func (c *Config) Tolerance() pointing.Tolerance {
	return pointing.Tolerance{AzimuthDeg: c.AzTolerance, AltitudeDeg: c.AltTolerance}
}

// StateConfig returns the state manager configuration.
func (c *Config) StateConfig() state.Config {
	return state.Config{
		MaxHistoryLen:   c.History,
		MaxEvents:       c.MaxEvents,
		RefreshInterval: c.Refresh,
	}
}

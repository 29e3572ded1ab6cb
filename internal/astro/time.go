package astro

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// J2000 is the Julian Day of the J2000.0 epoch (2000-01-01 12:00 UTC).
const J2000 = 2451545.0

// ErrInvalidInput is returned (wrapped) for calendar fields or observer
// coordinates outside their allowed ranges.
var ErrInvalidInput = errors.New("invalid input")

// validate is shared; validator caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// UTCDateTime is a calendar instant interpreted strictly as UTC.
type UTCDateTime struct {
	Year   int `json:"year" validate:"min=1,max=9999"`
	Month  int `json:"month" validate:"min=1,max=12"`
	Day    int `json:"day" validate:"min=1,max=31"`
	Hour   int `json:"hour" validate:"min=0,max=23"`
	Minute int `json:"minute" validate:"min=0,max=59"`
	Second int `json:"second" validate:"min=0,max=59"`
}

// FromTime converts t to UTC and drops sub-second precision.
func FromTime(t time.Time) UTCDateTime {
	t = t.UTC()
	return UTCDateTime{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Now returns the current system time as a UTCDateTime.
func Now() UTCDateTime {
	return FromTime(time.Now())
}

// Time returns dt as a time.Time in UTC.
func (dt UTCDateTime) Time() time.Time {
	return time.Date(dt.Year, time.Month(dt.Month), dt.Day, dt.Hour, dt.Minute, dt.Second, 0, time.UTC)
}

// String formats dt as RFC 3339.
func (dt UTCDateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ", dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second)
}

// Validate checks every field range and that the day exists in the month.
func (dt UTCDateTime) Validate() error {
	if err := validate.Struct(dt); err != nil {
		return invalidInput(err)
	}
	// time.Date normalizes Feb 30 into March; a changed day means it did not exist.
	if dt.Time().Day() != dt.Day {
		return fmt.Errorf("%w: day %d does not exist in %04d-%02d", ErrInvalidInput, dt.Day, dt.Year, dt.Month)
	}
	return nil
}

// JulianDay converts a UTC calendar instant to a Julian Day number.
//
// This is the standard low-precision civil calendar algorithm, valid for
// Gregorian dates. Leap seconds are ignored.
func JulianDay(dt UTCDateTime) (float64, error) {
	if err := dt.Validate(); err != nil {
		return 0, err
	}
	return julianDay(dt), nil
}

// julianDay assumes dt has already been validated.
func julianDay(dt UTCDateTime) float64 {
	y := float64(dt.Year)
	m := float64(dt.Month)

	// January/February count as months 13/14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	jdDay := math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + float64(dt.Day) + B - 1524.5
	jdTime := (float64(dt.Hour) + float64(dt.Minute)/60 + float64(dt.Second)/3600) / 24

	return jdDay + jdTime
}

// invalidInput flattens validator errors into a single ErrInvalidInput.
func invalidInput(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s=%v fails %s=%s", strings.ToLower(fe.Field()), fe.Value(), fe.Tag(), fe.Param()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(parts, ", "))
}

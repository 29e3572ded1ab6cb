package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/litescript/ls-solarkit/internal/pointing"
)

// parsePoint parses "heading,pitch" (magnetic heading and device pitch in
// degrees) into a reading corrected by the magnetic declination.
func parsePoint(s string, declinationDeg float64) (pointing.Reading, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return pointing.Reading{}, fmt.Errorf("-point must be heading,pitch, got %q", s)
	}

	vals := make([]float64, 2)
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return pointing.Reading{}, fmt.Errorf("-point: %q is not a number", part)
		}
		vals[i] = v
	}

	return pointing.FromDevice(vals[0], vals[1], declinationDeg), nil
}

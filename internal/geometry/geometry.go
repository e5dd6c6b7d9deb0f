// Package geometry holds the pure circle arithmetic shared by the public
// API and the script runtime.
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidRadius is returned by ParseRadius for non-numeric input.
var ErrInvalidRadius = errors.New("invalid radius")

// Area returns π·r². Input is not validated.
func Area(r float64) float64 {
	return math.Pi * r * r
}

// Circumference returns 2·π·r.
func Circumference(r float64) float64 {
	return 2 * math.Pi * r
}

// FormatArea renders v with Go's default float formatting: the shortest
// representation that round-trips.
func FormatArea(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ParseRadius parses a textual radius. "NaN", "Inf" and "-Inf" are accepted
// and propagate through Area unchanged.
func ParseRadius(s string) (float64, error) {
	r, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			// Out-of-range literals saturate to ±Inf or 0.
			return r, nil
		}
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidRadius, s)
	}
	return r, nil
}

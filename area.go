package circle

import "github.com/jward/circle/internal/geometry"

// DefaultRadius is the radius used when the binary runs with no arguments.
const DefaultRadius = 2.0

// ErrInvalidRadius is returned by ParseRadius for non-numeric input.
var ErrInvalidRadius = geometry.ErrInvalidRadius

// Area returns π·r². The input is not validated: negative radii give the
// same area as their absolute value, NaN yields NaN and ±Inf yields +Inf.
func Area(r float64) float64 {
	return geometry.Area(r)
}

// Circumference returns 2·π·r.
func Circumference(r float64) float64 {
	return geometry.Circumference(r)
}

// FormatArea renders v the way the binary prints it: the shortest decimal
// that round-trips, e.g. "12.566370614359172".
func FormatArea(v float64) string {
	return geometry.FormatArea(v)
}

// ParseRadius parses a textual radius. Non-numeric input yields an error
// wrapping ErrInvalidRadius; "NaN" and "±Inf" are accepted.
func ParseRadius(s string) (float64, error) {
	return geometry.ParseRadius(s)
}

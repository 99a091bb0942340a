// Package units converts linear measurements into the canonical unit
// used throughout stowplan (meters).
//
// All geometry downstream of this package is unit-agnostic: container and
// item dimensions are normalized exactly once, at the input boundary, and
// every later computation works in meters.
package units

import "strings"

// Unit is a supported linear measurement unit.
type Unit string

// Supported units.
const (
	Meters      Unit = "m"
	Centimeters Unit = "cm"
	Millimeters Unit = "mm"
	Inches      Unit = "in"
)

// metersPerInch is the exact definition of the international inch.
const metersPerInch = 0.0254

// Parse maps a unit label to a Unit. Matching is case-insensitive and
// tolerant of surrounding whitespace. Unknown or empty labels resolve to
// Meters so that normalization is always total.
func Parse(s string) Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cm", "centimeter", "centimeters":
		return Centimeters
	case "mm", "millimeter", "millimeters":
		return Millimeters
	case "in", "inch", "inches":
		return Inches
	default:
		return Meters
	}
}

// ToMeters converts v expressed in u into meters.
func (u Unit) ToMeters(v float64) float64 {
	switch u {
	case Centimeters:
		return v / 100
	case Millimeters:
		return v / 1000
	case Inches:
		return v * metersPerInch
	default:
		return v
	}
}

// Normalize converts a (value, unit-label) pair into meters. It never
// fails: unknown labels are treated as meters and NaN-free numeric input
// passes through unchanged.
func Normalize(v float64, unit string) float64 {
	return Parse(unit).ToMeters(v)
}

package analysis

import (
	"fmt"

	"github.com/philipparndt/roomgeo/pkg/geometry"
)

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.3f %s", value, unit)
}

// FormatEstimate formats an estimate and flags non-exact values
func FormatEstimate(e Estimate, unit string) string {
	s := FormatMeasurement(e.Value, unit)
	if e.Quality != Exact {
		s += fmt.Sprintf(" (%s)", e.Quality)
	}
	return s
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// Package units holds the closed enumeration of axis units supported by
// the renderer. Units are validated at argument-parsing time, so a bad
// unit never reaches the render workers.
package units

import "fmt"

// AxisUnit names a physical unit for axis extents. Simulation output is
// in plasma units (lengths in c/omega_p); conversion to metric units needs
// the plasma skin depth derived from the configured density.
type AxisUnit string

const (
	// Plasma leaves extents in simulation units.
	Plasma AxisUnit = "kp"

	// Micron converts extents to micrometers.
	Micron AxisUnit = "um"

	// Millimeter converts extents to millimeters.
	Millimeter AxisUnit = "mm"
)

// Parse validates s as an axis unit.
func Parse(s string) (AxisUnit, error) {
	switch AxisUnit(s) {
	case Plasma, Micron, Millimeter:
		return AxisUnit(s), nil
	}
	return "", fmt.Errorf("unknown axis unit %q (want kp, um or mm)", s)
}

// Label returns the human-readable unit label for axis annotations.
func (u AxisUnit) Label() string {
	switch u {
	case Micron:
		return "µm"
	case Millimeter:
		return "mm"
	default:
		return "c/ω_p"
	}
}

// Multiplier returns the factor converting a length in plasma units to
// this unit, given the skin depth c/omega_p in micrometers.
func (u AxisUnit) Multiplier(skinDepthMicrons float64) float64 {
	switch u {
	case Micron:
		return skinDepthMicrons
	case Millimeter:
		return skinDepthMicrons / 1000
	default:
		return 1
	}
}

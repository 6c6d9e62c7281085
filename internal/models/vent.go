package models

import "strings"

// VentState is the actuator position reported by the backend.
type VentState string

const (
	VentOpen    VentState = "OPEN"
	VentClose   VentState = "CLOSE"
	VentUnknown VentState = "UNKNOWN"
)

// ParseVentState maps a raw backend value onto a VentState.
// Anything other than OPEN/CLOSE (case-insensitive) is UNKNOWN.
func ParseVentState(raw string) VentState {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(VentOpen):
		return VentOpen
	case string(VentClose), "CLOSED":
		return VentClose
	default:
		return VentUnknown
	}
}

// Valid reports whether s is a commandable state (OPEN or CLOSE).
func (s VentState) Valid() bool {
	return s == VentOpen || s == VentClose
}

// HazardKind names a simulated hazard flag that can be toggled on the backend.
type HazardKind string

const (
	HazardRain  HazardKind = "rain"
	HazardSmoke HazardKind = "smoke"
)

// SeriesKind selects one of the binary hazard series.
type SeriesKind = HazardKind

// HumidityHazardThreshold is the relative humidity (%) at or above which the vent auto-closes.
const HumidityHazardThreshold = 85.0

// HighTemperatureThreshold triggers the high-temperature warning on the alert panel.
const HighTemperatureThreshold = 35.0

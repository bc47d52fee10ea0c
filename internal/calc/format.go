package calc

import (
	"math"
	"strings"
)

// Display limits.
const (
	// MaxDisplayLength is the number of characters shown before slicing.
	MaxDisplayLength = 12

	// MaxFractionDigits caps the fraction part kept when slicing.
	MaxFractionDigits = 11

	// ExponentialDigits is the fraction length of exponent notation.
	ExponentialDigits = 3
)

// Magnitude bounds outside which the display switches to exponent form.
const (
	largeMagnitude = 1e12
	smallMagnitude = 1e-12
)

// FormatForDisplay converts stored display text to the text shown on
// screen. It is cosmetic only: slicing never rounds, and the result is
// never written back into the state.
func FormatForDisplay(text string) string {
	if text == "0" || text == "0." {
		return text
	}

	v := ParseNumber(text)
	abs := math.Abs(v)
	if abs >= largeMagnitude || (abs > 0 && abs < smallMagnitude) {
		return formatExponential(v, ExponentialDigits)
	}

	if len(text) > MaxDisplayLength {
		intPart, frac, found := strings.Cut(text, ".")
		if found && frac != "" {
			fracLen := min(len(frac), MaxFractionDigits)
			intLen := min(len(intPart), MaxDisplayLength-fracLen)
			return intPart[:intLen] + "." + frac[:fracLen]
		}
		return text[:MaxDisplayLength]
	}

	return text
}

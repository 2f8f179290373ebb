// Package optics computes the scalar optical quantities of a camera and
// lens pairing: field of view, circle of confusion, hyperfocal distance,
// and depth-of-field limits. Everything here is a pure function over plain
// numbers, usable standalone for validation against published lens tables.
package optics

import "math"

// CircleOfConfusion returns the standard circle of confusion in mm for
// acceptable sharpness on a sensor with the given diagonal in mm,
// using the industry convention of diagonal / 1500.
func CircleOfConfusion(sensorDiagonalMM float64) float64 {
	return sensorDiagonalMM / 1500.0
}

// FOV returns the field of view in degrees across an aperture dimension
// (sensor width for horizontal FOV, height for vertical), adjusted by the
// lens's breathing shift at the current focus: a positive shift percent
// widens the FOV.
func FOV(focalLengthMM, apertureMM, breathingShiftPct float64) float64 {
	if focalLengthMM <= 0 || apertureMM <= 0 {
		return 0.0
	}
	baseFOV := 2.0 * (180.0 / math.Pi) * math.Atan(apertureMM/(2.0*focalLengthMM))
	return baseFOV * (1.0 + breathingShiftPct/100.0)
}

// Hyperfocal returns the hyperfocal distance in meters:
//
//	H = f²/(N·c) + f
//
// where f is focal length, N the f-number and c the circle of confusion,
// all in mm. Non-positive N or c yield +Inf (everything is in focus only
// at infinity).
func Hyperfocal(focalLengthMM, fNumber, cocMM float64) float64 {
	if fNumber <= 0 || cocMM <= 0 {
		return math.Inf(1)
	}
	hMM := (focalLengthMM*focalLengthMM)/(fNumber*cocMM) + focalLengthMM
	return hMM / 1000.0
}

// DepthOfField returns the near and far limits of acceptable sharpness in
// meters for the given focus distance. The far limit is +Inf when focus is
// at or beyond the hyperfocal distance; a non-positive focus distance
// yields (0, 0).
func DepthOfField(focalLengthMM, fNumber, focusDistanceM, cocMM float64) (float64, float64) {
	if focusDistanceM <= 0 {
		return 0.0, 0.0
	}

	hyperfocalMM := Hyperfocal(focalLengthMM, fNumber, cocMM) * 1000.0
	focusMM := focusDistanceM * 1000.0

	nearM := 0.0
	if denom := hyperfocalMM + focusMM - 2.0*focalLengthMM; denom > 0 {
		nearM = (focusMM * (hyperfocalMM - focalLengthMM)) / denom / 1000.0
	}

	farM := math.Inf(1)
	if denom := hyperfocalMM - focusMM; denom > 0 {
		farM = (focusMM * (hyperfocalMM - focalLengthMM)) / denom / 1000.0
	}

	return math.Max(0.0, nearM), farM
}

package lens

import "github.com/cinelens/lenskit/utils"

// SqueezeCurve is a piecewise-linear map from focus distance to effective
// anamorphic squeeze. Front-anamorphic lenses only reach their nominal
// squeeze at infinity focus; as focus approaches minimum object distance the
// effective squeeze drops (the "mumps"). Control points are stored as two
// parallel slices sorted ascending by focus distance.
//
// The curve degrades rather than fails: with no points, or with parallel
// slices of unequal length, every evaluation returns NominalSqueeze.
type SqueezeCurve struct {
	FocusM         []float64
	Squeeze        []float64
	NominalSqueeze float64
}

// Evaluate returns the effective squeeze at the given focus distance in
// meters, clamping outside the curve's focus range and linearly
// interpolating between bracketing control points.
func (sc *SqueezeCurve) Evaluate(focusM float64) float64 {
	if sc == nil {
		return 1.0
	}
	return evaluateCurve(sc.FocusM, sc.Squeeze, focusM, sc.NominalSqueeze)
}

// BreathingCurve is a piecewise-linear map from focus distance to the
// percent FOV shift caused by focus breathing. At infinity focus the shift
// is 0%; at close focus it is positive (wider FOV). Same storage and
// fallback rules as SqueezeCurve, with a fallback shift of 0.
type BreathingCurve struct {
	FocusM      []float64
	FOVShiftPct []float64
}

// Evaluate returns the FOV shift percent at the given focus distance in meters.
func (bc *BreathingCurve) Evaluate(focusM float64) float64 {
	if bc == nil {
		return 0.0
	}
	return evaluateCurve(bc.FocusM, bc.FOVShiftPct, focusM, 0.0)
}

// evaluateCurve interpolates parallel (focus, value) slices at focusM,
// returning fallback when the curve is empty or malformed. The scan is O(n),
// which is fine for real lens curves of at most a few tens of points.
func evaluateCurve(focus, values []float64, focusM, fallback float64) float64 {
	n := len(focus)
	if n == 0 || n != len(values) {
		return fallback
	}
	if focusM <= focus[0] {
		return values[0]
	}
	if focusM >= focus[n-1] {
		return values[n-1]
	}
	for i := 0; i < n-1; i++ {
		f0, f1 := focus[i], focus[i+1]
		if f0 <= focusM && focusM <= f1 {
			t := (focusM - f0) / (f1 - f0)
			return utils.Lerp(values[i], values[i+1], t)
		}
	}
	// Unsorted or non-finite focus values can leave focusM unbracketed.
	return fallback
}

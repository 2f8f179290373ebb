// Package lens holds the value records describing a physical cinema lens:
// Brown-Conrady distortion coefficients, focus-dependent squeeze and
// breathing curves, and the iris geometry, along with JSON loading and the
// validation boundary for them.
//
// The records are plain immutable values constructed once per shot or frame
// and shared read-only across render workers; none own resources and none
// are mutated after construction. Validation happens here, at the loading
// boundary, so that the per-pixel math in the distortion and bokeh packages
// can stay total and check-free.
package lens

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/cinelens/lenskit/distortion"
)

// infinityFocusM stands in for infinity focus in curve data; lens data files
// write it as the string "infinity".
const infinityFocusM = 1e10

// focusDistance is a focus distance in meters that unmarshals either a JSON
// number or the string "infinity".
type focusDistance float64

// UnmarshalJSON implements json.Unmarshaler.
func (fd *focusDistance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.EqualFold(s, "infinity") {
			*fd = infinityFocusM
			return nil
		}
		return errors.Errorf("unknown focus distance %q", s)
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*fd = focusDistance(f)
	return nil
}

// SqueezePoint is one control point of a squeeze-breathing curve.
type SqueezePoint struct {
	FocusM           focusDistance `json:"focus_m"`
	EffectiveSqueeze float64       `json:"effective_squeeze"`
}

// BreathingPoint is one control point of a FOV-breathing curve.
type BreathingPoint struct {
	FocusM      focusDistance `json:"focus_m"`
	FOVShiftPct float64       `json:"fov_shift_pct"`
}

// Spec is the physical specification of a cinema lens as parsed from its
// data file.
type Spec struct {
	LensID           string                  `json:"lens_id"`
	Manufacturer     string                  `json:"manufacturer"`
	Series           string                  `json:"series"`
	FocalLengthMM    float64                 `json:"focal_length_mm"`
	TStopRange       []float64               `json:"t_stop_range"`
	IrisBlades       int                     `json:"iris_blades"`
	CloseFocusM      float64                 `json:"close_focus_m"`
	ImageCircleMM    float64                 `json:"image_circle_mm"`
	SqueezeRatio     float64                 `json:"squeeze_ratio"`
	Distortion       distortion.BrownConrady `json:"distortion"`
	Breathing        []BreathingPoint        `json:"breathing"`
	SqueezeBreathing []SqueezePoint          `json:"squeeze_breathing"`
}

// NewSpecFromJSONFile takes in a file path to a JSON lens data file and turns
// it into a Spec. Spherical (v3) files without squeeze-breathing data load
// cleanly; their curves are simply empty and evaluate to the fallbacks.
func NewSpecFromJSONFile(jsonPath string) (*Spec, error) {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening lens JSON file")
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)
	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, errors.Wrap(err, "error reading lens JSON data")
	}
	// Defaults for keys older data files omit; unmarshal overrides present ones.
	spec := &Spec{SqueezeRatio: 1.0}
	spec.Distortion.SqueezeUniformity = 1.0
	if err := json.Unmarshal(byteValue, spec); err != nil {
		return nil, errors.Wrap(err, "error parsing lens JSON string")
	}
	return spec, nil
}

// SqueezeCurve builds the focus-to-effective-squeeze curve from the spec's
// squeeze-breathing points, sorted ascending by focus distance, with the
// lens's nominal squeeze ratio as fallback.
func (s *Spec) SqueezeCurve() *SqueezeCurve {
	pts := make([]SqueezePoint, len(s.SqueezeBreathing))
	copy(pts, s.SqueezeBreathing)
	sort.Slice(pts, func(i, j int) bool { return pts[i].FocusM < pts[j].FocusM })
	curve := &SqueezeCurve{NominalSqueeze: s.SqueezeRatio}
	for _, pt := range pts {
		curve.FocusM = append(curve.FocusM, float64(pt.FocusM))
		curve.Squeeze = append(curve.Squeeze, pt.EffectiveSqueeze)
	}
	return curve
}

// BreathingCurve builds the focus-to-FOV-shift curve from the spec's
// breathing points, sorted ascending by focus distance.
func (s *Spec) BreathingCurve() *BreathingCurve {
	pts := make([]BreathingPoint, len(s.Breathing))
	copy(pts, s.Breathing)
	sort.Slice(pts, func(i, j int) bool { return pts[i].FocusM < pts[j].FocusM })
	curve := &BreathingCurve{}
	for _, pt := range pts {
		curve.FocusM = append(curve.FocusM, float64(pt.FocusM))
		curve.FOVShiftPct = append(curve.FOVShiftPct, pt.FOVShiftPct)
	}
	return curve
}

// CheckValid checks the spec at the loading boundary and reports every
// problem found, not just the first. The per-pixel distortion math
// deliberately propagates garbage, so this is the one place malformed or
// non-finite lens data gets caught.
func (s *Spec) CheckValid() error {
	if s == nil {
		return errors.New("lens spec not provided")
	}
	var err error
	if s.FocalLengthMM <= 0 {
		err = multierr.Combine(err, errors.Errorf("invalid focal length %v mm", s.FocalLengthMM))
	}
	if s.SqueezeRatio <= 0 {
		err = multierr.Combine(err, errors.Errorf("invalid squeeze ratio %v", s.SqueezeRatio))
	}
	if s.IrisBlades != 0 && s.IrisBlades < 3 {
		err = multierr.Combine(err, errors.Errorf("iris needs at least 3 blades, got %d", s.IrisBlades))
	}
	if u := s.Distortion.SqueezeUniformity; !(u > 0 && u <= 1) {
		err = multierr.Combine(err, errors.Errorf("squeeze uniformity %v outside (0, 1]", u))
	}
	for i, p := range s.Distortion.Parameters() {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			err = multierr.Combine(err, errors.Errorf("distortion parameter %d is not finite", i))
		}
	}
	err = multierr.Combine(err, checkCurvePoints("squeeze_breathing", squeezeFoci(s.SqueezeBreathing)))
	err = multierr.Combine(err, checkCurvePoints("breathing", breathingFoci(s.Breathing)))
	return err
}

func squeezeFoci(pts []SqueezePoint) []float64 {
	foci := make([]float64, 0, len(pts))
	for _, pt := range pts {
		foci = append(foci, float64(pt.FocusM))
	}
	return foci
}

func breathingFoci(pts []BreathingPoint) []float64 {
	foci := make([]float64, 0, len(pts))
	for _, pt := range pts {
		foci = append(foci, float64(pt.FocusM))
	}
	return foci
}

func checkCurvePoints(name string, foci []float64) error {
	var err error
	for i, f := range foci {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			err = multierr.Combine(err, errors.Errorf("%s point %d focus distance is not finite", name, i))
		} else if f < 0 {
			err = multierr.Combine(err, errors.Errorf("%s point %d focus distance %v is negative", name, i, f))
		}
	}
	return err
}

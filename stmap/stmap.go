// Package stmap generates dense two-channel coordinate maps (ST maps) from
// a distortion model. Downstream compositing tools consume these images to
// apply or remove lens distortion: each pixel stores, in its red and green
// channels, the normalized source coordinate the pixel should be sampled
// from.
package stmap

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	viamutils "go.viam.com/utils"

	"github.com/cinelens/lenskit/distortion"
	"github.com/cinelens/lenskit/utils"
)

// Mode selects the direction of the generated map.
type Mode string

const (
	// ModeUndistort maps clean plate coordinates to distorted ones, used to
	// put lens character back onto undistorted footage.
	ModeUndistort = Mode("undistort")
	// ModeRedistort maps distorted coordinates back to clean ones via the
	// numeric inverse of the model.
	ModeRedistort = Mode("redistort")
)

// anamorphicThreshold: squeezes this close to 1 are treated as spherical so
// spherical lenses do not pay for the anamorphic path.
const anamorphicThreshold = 1.01

// NewDistorterForMode returns the Distorter that a map of the given mode
// should evaluate per pixel: the forward model (anamorphic when the
// effective squeeze is meaningfully above 1) for ModeUndistort, the
// iterative inverse for ModeRedistort.
func NewDistorterForMode(mode Mode, coeffs distortion.BrownConrady, effectiveSqueeze float64) (distortion.Distorter, error) {
	switch mode {
	case ModeUndistort:
		if effectiveSqueeze > anamorphicThreshold {
			return &distortion.Anamorphic{BrownConrady: coeffs, EffectiveSqueeze: effectiveSqueeze}, nil
		}
		return &coeffs, nil
	case ModeRedistort:
		return &distortion.InverseBrownConrady{BrownConrady: coeffs}, nil
	default:
		return nil, errors.Errorf("do not know how to generate an ST map for mode %q", mode)
	}
}

// Map is a dense per-pixel coordinate remapping. Channel values are stored
// in the [0, 1] ST convention: (0, 0) at the lower-left pixel of the
// normalized frame, 0.5 at the optical center.
type Map struct {
	Width  int
	Height int
	s      []float64
	t      []float64
}

// At returns the (s, t) source coordinate for the output pixel (x, y).
func (m *Map) At(x, y int) r2.Point {
	i := y*m.Width + x
	return r2.Point{X: m.s[i], Y: m.t[i]}
}

// GenerateMap evaluates the Distorter at the center of every pixel of a
// width x height grid and records the remapped coordinate. Pixel centers
// are normalized to the centered [-1, 1] convention before evaluation and
// the results remapped to [0, 1] ST space. Rows are generated in parallel;
// ctx only gates startup since the per-pixel work is bounded and fast.
func GenerateMap(ctx context.Context, d distortion.Distorter, width, height int) (*Map, error) {
	if d == nil {
		return nil, errors.New("cannot generate an ST map without a distortion model")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid ST map dimensions (%d, %d)", width, height)
	}
	m := &Map{
		Width:  width,
		Height: height,
		s:      make([]float64, width*height),
		t:      make([]float64, width*height),
	}
	err := utils.GroupWorkParallel(
		ctx,
		height,
		func(groupSize int) {},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {
				y := workNum
				cy := (float64(y)+0.5)/float64(height)*2.0 - 1.0
				for x := 0; x < width; x++ {
					cx := (float64(x)+0.5)/float64(width)*2.0 - 1.0
					outX, outY := d.Transform(cx, cy)
					i := y*width + x
					m.s[i] = outX*0.5 + 0.5
					m.t[i] = outY*0.5 + 0.5
				}
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ToImage encodes the map as a 16-bit image with S in red and T in green,
// the layout Nuke-style ST map nodes expect. Coordinates that fall outside
// [0, 1] clamp at the channel limits, losing overscan information; keep the
// float Map when exact values matter.
func (m *Map) ToImage() *image.NRGBA64 {
	img := image.NewNRGBA64(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			pt := m.At(x, y)
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: channel16(pt.X),
				G: channel16(pt.Y),
				B: 0,
				A: math.MaxUint16,
			})
		}
	}
	return img
}

// WriteToFile writes the map to a 16-bit PNG at the given path.
func (m *Map) WriteToFile(path string) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "error creating ST map file")
	}
	defer viamutils.UncheckedErrorFunc(f.Close)
	if err := png.Encode(f, m.ToImage()); err != nil {
		return errors.Wrap(err, "error encoding ST map PNG")
	}
	return nil
}

func channel16(v float64) uint16 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return math.MaxUint16
	}
	return uint16(math.Round(v * math.MaxUint16))
}

// Package bokeh synthesizes the intensity field of a polygonal lens iris,
// used as a convolution kernel for out-of-focus highlight and flare
// rendering. The iris is a regular polygon with a configurable blade count,
// rotated and anamorphically squeezed, with a smooth anti-aliased edge.
package bokeh

import (
	"image"
	"image/color"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/cinelens/lenskit/utils"
)

// DefaultEdgeSoftness is the half-width of the anti-aliasing band around the
// iris edge, as a fraction of the normalized kernel radius.
const DefaultEdgeSoftness = 0.02

// minSqueeze floors the squeeze divisor so a zero or negative squeeze cannot
// blow up the horizontal axis.
const minSqueeze = 0.01

// KernelParams describe the iris shape of a lens.
type KernelParams struct {
	// Blades is the number of iris blades, at least 3 for a physical iris
	// (e.g. 11 for a Cooke anamorphic).
	Blades int
	// Squeeze is the anamorphic squeeze applied to the horizontal axis,
	// 1.0 for spherical lenses. Values at or below minSqueeze are floored.
	Squeeze float64
	// RotationDeg rotates the blade pattern.
	RotationDeg float64
	// EdgeSoftness overrides the anti-aliasing band half-width; the zero
	// value selects DefaultEdgeSoftness. Callers rendering at unusual
	// resolutions should set it to roughly one pixel of normalized radius.
	EdgeSoftness float64
}

func (p KernelParams) softness() float64 {
	if p.EdgeSoftness <= 0 {
		return DefaultEdgeSoftness
	}
	return p.EdgeSoftness
}

// smoothstep is the standard cubic Hermite ease between edge0 and edge1.
func smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3.0 - 2.0*t)
}

// Intensity returns the iris intensity at the centered normalized coordinate
// (cx, cy): 1 fully inside the iris, 0 fully outside, smoothly blended
// across the anti-aliasing band at the polygon edge. Coordinates follow the
// same convention as the distortion package, centered and roughly [-1, 1];
// callers working in pixel space must pre-normalize.
func Intensity(cx, cy float64, params KernelParams) float64 {
	sx := cx / math.Max(params.Squeeze, minSqueeze)
	sy := cy

	r := math.Sqrt(sx*sx + sy*sy)
	theta := math.Atan2(sy, sx) + utils.DegToRad(params.RotationDeg)

	// Fold theta into the nearest blade sector and evaluate the regular
	// polygon's edge radius at that angle.
	bladeAngle := 2.0 * math.Pi / float64(params.Blades)
	sector := theta - bladeAngle*math.Floor(theta/bladeAngle+0.5)
	edge := math.Cos(math.Pi/float64(params.Blades)) / math.Cos(sector)

	soft := params.softness()
	return 1.0 - smoothstep(edge-soft, edge+soft, r)
}

// RenderKernel evaluates Intensity over a size x size grid covering the
// centered [-1, 1] square, sampling at pixel centers. The resulting matrix
// is indexed (row, col) = (y, x).
func RenderKernel(size int, params KernelParams) (*mat.Dense, error) {
	if size <= 0 {
		return nil, errors.Errorf("kernel size must be positive, got %d", size)
	}
	kernel := mat.NewDense(size, size, nil)
	utils.ParallelForEachPixel(image.Point{size, size}, func(x, y int) {
		cx := (float64(x)+0.5)/float64(size)*2.0 - 1.0
		cy := (float64(y)+0.5)/float64(size)*2.0 - 1.0
		kernel.Set(y, x, Intensity(cx, cy, params))
	})
	return kernel, nil
}

// Normalize scales the kernel in place so its entries sum to 1, the form an
// FFT convolution expects. A kernel with no coverage at all cannot be
// normalized.
func Normalize(kernel *mat.Dense) error {
	sum := mat.Sum(kernel)
	if sum <= 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return errors.Errorf("cannot normalize kernel with total intensity %v", sum)
	}
	kernel.Scale(1.0/sum, kernel)
	return nil
}

// ToImage converts an intensity kernel to a 16-bit grayscale image, clamping
// values to [0, 1]. Intended for writing kernels out for inspection or for
// image-based compositing tools.
func ToImage(kernel *mat.Dense) *image.Gray16 {
	rows, cols := kernel.Dims()
	img := image.NewGray16(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := kernel.At(y, x)
			if math.IsNaN(v) || v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(math.Round(v * math.MaxUint16))})
		}
	}
	return img
}

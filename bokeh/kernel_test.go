package bokeh

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func cookeIris() KernelParams {
	return KernelParams{Blades: 11, Squeeze: 1.0}
}

func TestIntensityInsideAndOutside(t *testing.T) {
	test.That(t, Intensity(0, 0, cookeIris()), test.ShouldEqual, 1.0)
	test.That(t, Intensity(10, 0, cookeIris()), test.ShouldEqual, 0.0)
	test.That(t, Intensity(0, -10, cookeIris()), test.ShouldEqual, 0.0)
}

func TestIntensityRotationalPeriod(t *testing.T) {
	// a regular 11-gon repeats every 2π/11
	period := 2.0 * math.Pi / 11.0
	for _, angle := range []float64{0, 0.3, 1.2, 2.5} {
		for _, r := range []float64{0.3, 0.9, 0.95, 0.97} {
			a := Intensity(r*math.Cos(angle), r*math.Sin(angle), cookeIris())
			b := Intensity(r*math.Cos(angle+period), r*math.Sin(angle+period), cookeIris())
			test.That(t, a, test.ShouldAlmostEqual, b, 1e-9)
		}
	}
}

func TestIntensityEdgeBand(t *testing.T) {
	// along theta = 0 the polygon edge radius is cos(π/11); the smoothstep
	// midpoint sits exactly on it
	edge := math.Cos(math.Pi / 11.0)
	test.That(t, Intensity(edge, 0, cookeIris()), test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, Intensity(edge-DefaultEdgeSoftness, 0, cookeIris()), test.ShouldEqual, 1.0)
	test.That(t, Intensity(edge+DefaultEdgeSoftness, 0, cookeIris()), test.ShouldEqual, 0.0)

	// a wider band starts falling off earlier
	soft := cookeIris()
	soft.EdgeSoftness = 0.1
	test.That(t, Intensity(edge-0.05, 0, soft), test.ShouldBeLessThan, 1.0)
	test.That(t, Intensity(edge-0.05, 0, cookeIris()), test.ShouldEqual, 1.0)
}

func TestIntensitySqueeze(t *testing.T) {
	// a 2x squeeze stretches the reachable iris along x
	squeezed := KernelParams{Blades: 11, Squeeze: 2.0}
	test.That(t, Intensity(1.5, 0, squeezed), test.ShouldEqual, 1.0)
	test.That(t, Intensity(1.5, 0, cookeIris()), test.ShouldEqual, 0.0)
	// but leaves y untouched
	test.That(t, Intensity(0, 1.5, squeezed), test.ShouldEqual, 0.0)

	// non-positive squeeze floors at 0.01 instead of dividing by zero
	degenerate := KernelParams{Blades: 11, Squeeze: 0}
	v := Intensity(0.5, 0, degenerate)
	test.That(t, math.IsNaN(v), test.ShouldBeFalse)
	test.That(t, v, test.ShouldEqual, Intensity(0.5, 0, KernelParams{Blades: 11, Squeeze: -3}))
}

func TestIntensityRotation(t *testing.T) {
	// rotating by a full sector reproduces the same iris
	rotated := KernelParams{Blades: 11, Squeeze: 1.0, RotationDeg: 360.0 / 11.0}
	for _, pt := range [][2]float64{{0.95, 0}, {0.4, 0.8}, {-0.9, 0.2}} {
		test.That(t, Intensity(pt[0], pt[1], rotated),
			test.ShouldAlmostEqual, Intensity(pt[0], pt[1], cookeIris()), 1e-9)
	}
	// rotating by half a sector does not
	half := KernelParams{Blades: 11, Squeeze: 1.0, RotationDeg: 180.0 / 11.0}
	test.That(t, Intensity(0.955, 0, half), test.ShouldNotAlmostEqual, Intensity(0.955, 0, cookeIris()), 1e-3)
}

func TestRenderKernel(t *testing.T) {
	kernel, err := RenderKernel(64, KernelParams{Blades: 6, Squeeze: 1.0})
	test.That(t, err, test.ShouldBeNil)
	rows, cols := kernel.Dims()
	test.That(t, rows, test.ShouldEqual, 64)
	test.That(t, cols, test.ShouldEqual, 64)

	// center is inside the iris, corners are outside
	test.That(t, kernel.At(32, 32), test.ShouldEqual, 1.0)
	test.That(t, kernel.At(0, 0), test.ShouldEqual, 0.0)
	test.That(t, kernel.At(63, 63), test.ShouldEqual, 0.0)

	_, err = RenderKernel(0, cookeIris())
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNormalize(t *testing.T) {
	kernel, err := RenderKernel(64, KernelParams{Blades: 8, Squeeze: 1.8})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, Normalize(kernel), test.ShouldBeNil)
	test.That(t, mat.Sum(kernel), test.ShouldAlmostEqual, 1.0, 1e-9)

	empty := mat.NewDense(4, 4, nil)
	test.That(t, Normalize(empty), test.ShouldNotBeNil)
}

func TestToImage(t *testing.T) {
	kernel, err := RenderKernel(32, cookeIris())
	test.That(t, err, test.ShouldBeNil)
	img := ToImage(kernel)
	bounds := img.Bounds()
	test.That(t, bounds.Dx(), test.ShouldEqual, 32)
	test.That(t, bounds.Dy(), test.ShouldEqual, 32)
	test.That(t, img.Gray16At(16, 16).Y, test.ShouldEqual, uint16(math.MaxUint16))
	test.That(t, img.Gray16At(0, 0).Y, test.ShouldEqual, uint16(0))
}

package distortion

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestUndistortRoundTrip(t *testing.T) {
	bc := &BrownConrady{RadialK1: -0.015, RadialK2: 0.002, SqueezeUniformity: 1.0}
	// points within the normalized image circle round-trip to 1e-4
	for _, pt := range [][2]float64{
		{0, 0},
		{0.5, 0.3},
		{-0.7, 0.7},
		{0.9, -0.4},
		{1, 0},
		{0, -1},
	} {
		xd, yd := bc.Transform(pt[0], pt[1])
		xu, yu := bc.Undistort(xd, yd)
		test.That(t, xu, test.ShouldAlmostEqual, pt[0], 1e-4)
		test.That(t, yu, test.ShouldAlmostEqual, pt[1], 1e-4)
	}
}

func TestUndistortResidual(t *testing.T) {
	bc := &BrownConrady{RadialK1: -0.015, RadialK2: 0.002, SqueezeUniformity: 1.0}
	xd, yd := bc.Transform(0.5, 0.3)
	_, _, residual := bc.UndistortWithOptions(xd, yd, InverseOptions{})
	test.That(t, residual, test.ShouldBeLessThan, DefaultTolerance)

	// identity model converges on the first residual check
	ident := &BrownConrady{SqueezeUniformity: 1.0}
	xu, yu, residual := ident.UndistortWithOptions(0.25, -0.75, InverseOptions{})
	test.That(t, xu, test.ShouldEqual, 0.25)
	test.That(t, yu, test.ShouldEqual, -0.75)
	test.That(t, residual, test.ShouldEqual, 0.0)
}

func TestUndistortOptions(t *testing.T) {
	bc := &BrownConrady{RadialK1: -0.015, RadialK2: 0.002, SqueezeUniformity: 1.0}
	xd, yd := bc.Transform(0.9, 0.4)

	// a tolerance looser than the initial error returns the seed unchanged
	xu, yu, _ := bc.UndistortWithOptions(xd, yd, InverseOptions{Tolerance: 10})
	test.That(t, xu, test.ShouldEqual, xd)
	test.That(t, yu, test.ShouldEqual, yd)

	// a single iteration leaves more error than the default ten
	x1, _, res1 := bc.UndistortWithOptions(xd, yd, InverseOptions{MaxIterations: 1})
	x10, _, res10 := bc.UndistortWithOptions(xd, yd, InverseOptions{})
	test.That(t, res10, test.ShouldBeLessThan, res1)
	test.That(t, math.Abs(x10-0.9), test.ShouldBeLessThan, math.Abs(x1-0.9))
}

func TestUndistortResidualMatchesGuess(t *testing.T) {
	bc := &BrownConrady{RadialK1: -0.015, RadialK2: 0.002, SqueezeUniformity: 1.0}
	xd, yd := bc.Transform(0.9, 0.4)

	// even when iterations run out, the residual describes the returned guess
	xu, yu, residual := bc.UndistortWithOptions(xd, yd, InverseOptions{MaxIterations: 1})
	fx, fy := bc.Transform(xu, yu)
	test.That(t, residual, test.ShouldEqual, math.Hypot(fx-xd, fy-yd))
	test.That(t, residual, test.ShouldBeGreaterThan, 0)
}

func TestInverseBrownConradyDistorter(t *testing.T) {
	ibc := &InverseBrownConrady{BrownConrady: BrownConrady{RadialK1: -0.015, RadialK2: 0.002, SqueezeUniformity: 1.0}}
	test.That(t, ibc.ModelType(), test.ShouldEqual, InverseBrownConradyModelType)
	test.That(t, ibc.CheckValid(), test.ShouldBeNil)

	xd, yd := ibc.BrownConrady.Transform(0.5, 0.3)
	xu, yu := ibc.Transform(xd, yd)
	test.That(t, xu, test.ShouldAlmostEqual, 0.5, 1e-4)
	test.That(t, yu, test.ShouldAlmostEqual, 0.3, 1e-4)
}

package distortion

import "math"

// InverseOptions configure the fixed-point inversion of the forward model.
// The zero value selects the defaults.
type InverseOptions struct {
	// MaxIterations bounds the refinement loop. Defaults to 10.
	MaxIterations int
	// Tolerance is the convergence threshold on the error norm between the
	// re-distorted guess and the target point. Defaults to 1e-6.
	Tolerance float64
}

// Defaults for InverseOptions.
const (
	DefaultMaxIterations = 10
	DefaultTolerance     = 1e-6
)

func (opts InverseOptions) withDefaults() InverseOptions {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	return opts
}

// Undistort recovers the undistorted coordinate that the forward model maps
// to (xd, yd), using the default InverseOptions.
func (bc *BrownConrady) Undistort(xd, yd float64) (float64, float64) {
	xu, yu, _ := bc.UndistortWithOptions(xd, yd, InverseOptions{})
	return xu, yu
}

// UndistortWithOptions recovers the undistorted coordinate that the forward
// model maps to (xd, yd) by fixed-point (Picard) iteration seeded at the
// distorted point: each round re-distorts the current guess and subtracts
// the raw error, which treats the local Jacobian of the forward map as
// identity. That first-order scheme converges quickly for the small
// coefficient magnitudes typical of cinema lenses but is not guaranteed to
// converge for strong distortion or points far outside the image circle.
//
// The last guess is always returned together with the norm of the error
// left when re-distorting it; non-convergence is not an error, so callers
// needing a guarantee must inspect the residual against their own
// threshold.
func (bc *BrownConrady) UndistortWithOptions(xd, yd float64, opts InverseOptions) (float64, float64, float64) {
	if bc == nil {
		return xd, yd, 0
	}
	opts = opts.withDefaults()

	// Start with the distorted point as initial guess.
	xu, yu := xd, yd
	for i := 0; i < opts.MaxIterations; i++ {
		fx, fy := bc.Transform(xu, yu)
		errX := fx - xd
		errY := fy - yd
		residual := math.Hypot(errX, errY)
		if residual < opts.Tolerance {
			return xu, yu, residual
		}
		xu -= errX
		yu -= errY
	}
	// Iterations exhausted: measure the error at the guess actually returned.
	fx, fy := bc.Transform(xu, yu)
	return xu, yu, math.Hypot(fx-xd, fy-yd)
}

// InverseBrownConrady applies the inverse of the Brown-Conrady distortion
// model: given distorted points, its Transform computes the corresponding
// undistorted points.
type InverseBrownConrady struct {
	BrownConrady
	Options InverseOptions
}

// CheckValid checks if the fields for InverseBrownConrady have valid inputs.
func (ibc *InverseBrownConrady) CheckValid() error {
	if ibc == nil {
		return InvalidDistortionError("InverseBrownConrady shaped distortion parameters not provided")
	}
	return nil
}

// ModelType returns the type of distortion model.
func (ibc *InverseBrownConrady) ModelType() ModelType {
	return InverseBrownConradyModelType
}

// Transform converts the distorted point (xd, yd) to its undistorted
// coordinates.
func (ibc *InverseBrownConrady) Transform(xd, yd float64) (float64, float64) {
	if ibc == nil {
		return xd, yd
	}
	xu, yu, _ := ibc.BrownConrady.UndistortWithOptions(xd, yd, ibc.Options)
	return xu, yu
}

package distortion

import "github.com/pkg/errors"

// BrownConrady is the forward radial+tangential distortion model.
//
//	x_d = x * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p1*x*y + p2*(r² + 2*x²)
//	y_d = y * (1 + k1*r² + k2*r⁴ + k3*r⁶) + p1*(r² + 2*y²) + 2*p2*x*y
//
// SqueezeUniformity describes how constant the anamorphic squeeze is across
// the frame: 1.0 means constant, values below 1.0 mean it falls off with
// radial distance. It is ignored by the spherical Transform and only
// consulted by the Anamorphic model.
type BrownConrady struct {
	RadialK1          float64 `json:"k1"`
	RadialK2          float64 `json:"k2"`
	RadialK3          float64 `json:"k3"`
	TangentialP1      float64 `json:"p1"`
	TangentialP2      float64 `json:"p2"`
	SqueezeUniformity float64 `json:"squeeze_uniformity"`
}

// NewBrownConrady takes in a slice of floats that will be passed into the
// struct in order: k1, k2, k3, p1, p2, squeeze uniformity. Missing radial
// and tangential terms default to 0, missing squeeze uniformity to 1.
func NewBrownConrady(inp []float64) (*BrownConrady, error) {
	if len(inp) > 6 {
		return nil, errors.Errorf("list of parameters too long, expected max 6, got %d", len(inp))
	}
	for i := len(inp); i < 5; i++ { // fill missing values with 0.0
		inp = append(inp, 0.0)
	}
	if len(inp) == 5 {
		inp = append(inp, 1.0)
	}
	return &BrownConrady{inp[0], inp[1], inp[2], inp[3], inp[4], inp[5]}, nil
}

// CheckValid checks if the fields for BrownConrady have valid inputs.
// Coefficient magnitudes are deliberately not range-checked here; the
// model is a garbage-in garbage-out contract and range validation
// belongs to the lens-specification loading boundary.
func (bc *BrownConrady) CheckValid() error {
	if bc == nil {
		return InvalidDistortionError("BrownConrady shaped distortion parameters not provided")
	}
	return nil
}

// ModelType returns the type of distortion model.
func (bc *BrownConrady) ModelType() ModelType {
	return BrownConradyModelType
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (bc *BrownConrady) Parameters() []float64 {
	if bc == nil {
		return []float64{}
	}
	return []float64{bc.RadialK1, bc.RadialK2, bc.RadialK3, bc.TangentialP1, bc.TangentialP2, bc.SqueezeUniformity}
}

// distort computes the radial+tangential remapping of (x, y) and returns the
// distorted coordinate along with r², which the anamorphic model reuses for
// its squeeze falloff.
func (bc *BrownConrady) distort(x, y float64) (float64, float64, float64) {
	r2 := x*x + y*y
	r4 := r2 * r2
	r6 := r4 * r2

	radial := 1.0 + bc.RadialK1*r2 + bc.RadialK2*r4 + bc.RadialK3*r6
	tanX := 2.0*bc.TangentialP1*x*y + bc.TangentialP2*(r2+2.0*x*x)
	tanY := bc.TangentialP1*(r2+2.0*y*y) + 2.0*bc.TangentialP2*x*y

	return x*radial + tanX, y*radial + tanY, r2
}

// Transform distorts the undistorted input point (x, y) according to the model.
// It is a total function: NaN and Inf inputs propagate through the arithmetic
// unchanged.
func (bc *BrownConrady) Transform(x, y float64) (float64, float64) {
	if bc == nil {
		return x, y
	}
	xd, yd, _ := bc.distort(x, y)
	return xd, yd
}

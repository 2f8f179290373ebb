package distortion

import "github.com/pkg/errors"

// Anamorphic composes the Brown-Conrady model with an anamorphic squeeze.
// The effective squeeze scales the horizontal axis only, consistent with
// front-anamorphic optics; squeeze non-uniformity modulates the vertical
// axis, growing with radial distance from the optical center:
//
//	sqVar = lerp(1.0, squeezeUniformity, r²)
//	x_out = (x*radial + dx) * effectiveSqueeze
//	y_out = (y*radial + dy) * sqVar
//
// EffectiveSqueeze is the focus-dependent squeeze value, typically produced
// by evaluating a lens's squeeze-breathing curve; this model does not itself
// consult focus distance.
type Anamorphic struct {
	BrownConrady
	EffectiveSqueeze float64 `json:"effective_squeeze"`
}

// NewAnamorphic takes in a slice of floats that will be passed into the struct
// in order: k1, k2, k3, p1, p2, squeeze uniformity, effective squeeze. A
// missing effective squeeze defaults to 1.
func NewAnamorphic(inp []float64) (*Anamorphic, error) {
	if len(inp) > 7 {
		return nil, errors.Errorf("list of parameters too long, expected max 7, got %d", len(inp))
	}
	squeeze := 1.0
	if len(inp) == 7 {
		squeeze = inp[6]
		inp = inp[:6]
	}
	bc, err := NewBrownConrady(inp)
	if err != nil {
		return nil, err
	}
	return &Anamorphic{BrownConrady: *bc, EffectiveSqueeze: squeeze}, nil
}

// CheckValid checks if the fields for Anamorphic have valid inputs.
func (a *Anamorphic) CheckValid() error {
	if a == nil {
		return InvalidDistortionError("Anamorphic shaped distortion parameters not provided")
	}
	return nil
}

// ModelType returns the type of distortion model.
func (a *Anamorphic) ModelType() ModelType {
	return AnamorphicModelType
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (a *Anamorphic) Parameters() []float64 {
	if a == nil {
		return []float64{}
	}
	return append(a.BrownConrady.Parameters(), a.EffectiveSqueeze)
}

// Transform distorts the undistorted input point (x, y) according to the
// model. With EffectiveSqueeze == 1 and SqueezeUniformity == 1 it reduces
// exactly to the spherical Brown-Conrady Transform.
func (a *Anamorphic) Transform(x, y float64) (float64, float64) {
	if a == nil {
		return x, y
	}
	xd, yd, r2 := a.distort(x, y)
	sqVar := 1.0 + (a.SqueezeUniformity-1.0)*r2
	return xd * a.EffectiveSqueeze, yd * sqVar
}

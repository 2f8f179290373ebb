// Package distortion implements the Brown-Conrady lens distortion model,
// its anamorphic extension, and the numeric inverse used to recover
// undistorted image-plane coordinates.
//
// All coordinates are centered, dimensionless normalized image-plane
// coordinates, nominally in [-1, 1] per axis. Every Transform is a pure,
// total function: non-finite inputs propagate to outputs unchanged, and
// validation of upstream lens data is the loader's responsibility, not
// the hot path's.
package distortion

import "github.com/pkg/errors"

// ModelType is the name of the distortion model.
type ModelType string

const (
	// BrownConradyModelType is the spherical radial+tangential polynomial model.
	BrownConradyModelType = ModelType("brown_conrady")
	// AnamorphicModelType is Brown-Conrady composed with a horizontal squeeze.
	AnamorphicModelType = ModelType("anamorphic")
	// InverseBrownConradyModelType maps distorted points back to undistorted points.
	InverseBrownConradyModelType = ModelType("inverse_brown_conrady")
)

// Distorter defines a model that remaps a centered normalized image-plane
// coordinate according to the lens it describes.
type Distorter interface {
	ModelType() ModelType
	CheckValid() error
	Parameters() []float64
	Transform(x, y float64) (float64, float64)
}

// InvalidDistortionError is used when the distortion parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrap(errors.New("invalid distortion parameters"), msg)
}

// NewDistorter returns a Distorter given a valid ModelType and its parameters.
func NewDistorter(modelType ModelType, parameters []float64) (Distorter, error) {
	switch modelType {
	case BrownConradyModelType:
		return NewBrownConrady(parameters)
	case AnamorphicModelType:
		return NewAnamorphic(parameters)
	case InverseBrownConradyModelType:
		bc, err := NewBrownConrady(parameters)
		if err != nil {
			return nil, err
		}
		return &InverseBrownConrady{BrownConrady: *bc}, nil
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion model", modelType)
	}
}

package transform

import (
	"github.com/pkg/errors"
)

var (
	// ErrShapeMismatch is returned when a matrix or point cloud does not have the shape an operation requires.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
	ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")
	// ErrSingularPose is returned when a camera pose cannot be inverted into an extrinsic matrix.
	ErrSingularPose = errors.New("camera pose is singular")
	// ErrZeroDepth is returned by the depth-checked projections when a point is not in front of the camera.
	ErrZeroDepth = errors.New("point has non-positive depth")
	// ErrTooFewPoints is returned when there are not enough correspondences to solve for a camera matrix.
	ErrTooFewPoints = errors.New("not enough point correspondences")
)

// NewShapeMismatchError is used when an argument does not have the expected dimensions.
func NewShapeMismatchError(what string, wantRows, wantCols, gotRows, gotCols int) error {
	return errors.Wrapf(ErrShapeMismatch, "%s: expected %dx%d, got %dx%d", what, wantRows, wantCols, gotRows, gotCols)
}

// NewPointCountMismatchError is used when two point clouds that should correspond differ in size.
func NewPointCountMismatchError(worldPoints, imagePoints int) error {
	return errors.Wrapf(ErrShapeMismatch, "%d world points but %d image points", worldPoints, imagePoints)
}

// NewNoIntrinsicsError is used when the intriniscs are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

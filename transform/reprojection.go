package transform

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// FlattenCameraMatrix returns the 12 entries of a 3x4 camera matrix in row-major order.
func FlattenCameraMatrix(m mat.Matrix) ([]float64, error) {
	if rows, cols := m.Dims(); rows != 3 || cols != 4 {
		return nil, NewShapeMismatchError("camera matrix", 3, 4, rows, cols)
	}
	flat := make([]float64, 0, 12)
	for i := 0; i < 3; i++ {
		for j := 0; j < 4; j++ {
			flat = append(flat, m.At(i, j))
		}
	}
	return flat, nil
}

// ReshapeCameraMatrix is the inverse of FlattenCameraMatrix. The slice is copied.
func ReshapeCameraMatrix(m []float64) (*mat.Dense, error) {
	if len(m) != 12 {
		return nil, errors.Wrapf(ErrShapeMismatch, "camera matrix needs 12 parameters, got %d", len(m))
	}
	data := make([]float64, 12)
	copy(data, m)
	return mat.NewDense(3, 4, data), nil
}

// ReprojectionResiduals projects the 3xn world points with the camera matrix m and returns, for each
// point, the Euclidean distance in pixels to the observed 2xn image point.
func ReprojectionResiduals(m mat.Matrix, world, image mat.Matrix) ([]float64, error) {
	if rows, cols := m.Dims(); rows != 3 || cols != 4 {
		return nil, NewShapeMismatchError("camera matrix", 3, 4, rows, cols)
	}
	n, err := checkCorrespondences(world, image)
	if err != nil {
		return nil, err
	}
	projected, err := WorldToImage(world, m, false)
	if err != nil {
		return nil, err
	}
	residuals := make([]float64, n)
	for j := range residuals {
		residuals[j] = math.Hypot(image.At(0, j)-projected.At(0, j), image.At(1, j)-projected.At(1, j))
	}
	return residuals, nil
}

// GeometricError returns the geometric reprojection error of the flattened camera matrix m
// (12 parameters, row-major) on the given correspondences: the sum, not the mean, of the
// per-point pixel distances between projected world points and observed image points.
// Any optimizer convergence threshold has to account for it growing with the number of points.
func GeometricError(m []float64, world, image mat.Matrix) (float64, error) {
	cam, err := ReshapeCameraMatrix(m)
	if err != nil {
		return 0, err
	}
	residuals, err := ReprojectionResiduals(cam, world, image)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, r := range residuals {
		total += r
	}
	return total, nil
}

// GeometricErrorProblem returns an optimization problem over the 12 camera matrix parameters whose
// objective is GeometricError on the given correspondences. Shapes are checked once here, so Func
// only sees parameter vectors; a vector of the wrong length evaluates to +Inf.
func GeometricErrorProblem(world, image mat.Matrix) (optimize.Problem, error) {
	if _, err := checkCorrespondences(world, image); err != nil {
		return optimize.Problem{}, err
	}
	w, i := mat.DenseCopyOf(world), mat.DenseCopyOf(image)
	return optimize.Problem{
		Func: func(x []float64) float64 {
			e, err := GeometricError(x, w, i)
			if err != nil {
				return math.Inf(1)
			}
			return e
		},
	}, nil
}

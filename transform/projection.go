package transform

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ToCameraCoordinates performs the change of basis from world to camera coordinates using the 3x4
// extrinsic matrix e. world is 3xn, or 4xn when isHomogeneous is set. The 3xn result is not
// perspective divided.
func ToCameraCoordinates(world mat.Matrix, e mat.Matrix, isHomogeneous bool) (*mat.Dense, error) {
	if rows, cols := e.Dims(); rows != 3 || cols != 4 {
		return nil, NewShapeMismatchError("extrinsic matrix", 3, 4, rows, cols)
	}
	pts, err := homogeneousWorldPoints(world, isHomogeneous)
	if err != nil {
		return nil, err
	}
	var camera mat.Dense
	camera.Mul(e, pts)
	return &camera, nil
}

// ProjectToImage projects points onto the image plane. transform is either an intrinsic matrix K
// (3x3, points in camera coordinates, 3xn) or a camera matrix M (3x4, homogeneous world points, 4xn).
// Rows 0 and 1 of the product are divided by row 2 before row 2 is dropped. Points with zero
// depth come out as ±Inf or NaN; see ProjectToImageWithDepthCheck.
func ProjectToImage(points mat.Matrix, transform mat.Matrix) (*mat.Dense, error) {
	h, err := projectHomogeneous(points, transform)
	if err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(DehomogenizeInPlace(h)), nil
}

// ProjectToImageWithDepthCheck is ProjectToImage, but fails with ErrZeroDepth instead of
// returning non-finite pixels when a point does not lie in front of the camera.
func ProjectToImageWithDepthCheck(points mat.Matrix, transform mat.Matrix) (*mat.Dense, error) {
	h, err := projectHomogeneous(points, transform)
	if err != nil {
		return nil, err
	}
	if err := checkDepth(h); err != nil {
		return nil, err
	}
	return mat.DenseCopyOf(DehomogenizeInPlace(h)), nil
}

// WorldToImage projects world points onto the image with the 3x4 camera matrix M = K·E. world is
// 3xn, or 4xn when isHomogeneous is set. The result is 2xn pixel coordinates and matches
// ProjectToImage(ToCameraCoordinates(world, E, isHomogeneous), K).
func WorldToImage(world mat.Matrix, m mat.Matrix, isHomogeneous bool) (*mat.Dense, error) {
	pts, err := homogeneousWorldPoints(world, isHomogeneous)
	if err != nil {
		return nil, err
	}
	return ProjectToImage(pts, m)
}

// WorldToImageWithDepthCheck is WorldToImage, but fails with ErrZeroDepth when a point does not
// lie in front of the camera. The third row of M·X is read as depth, which holds for K·E and for
// the positively scaled matrices returned by SolveDLT.
func WorldToImageWithDepthCheck(world mat.Matrix, m mat.Matrix, isHomogeneous bool) (*mat.Dense, error) {
	pts, err := homogeneousWorldPoints(world, isHomogeneous)
	if err != nil {
		return nil, err
	}
	return ProjectToImageWithDepthCheck(pts, m)
}

// projectHomogeneous checks shapes and returns the freshly allocated 3xn product transform·points.
func projectHomogeneous(points mat.Matrix, transform mat.Matrix) (*mat.Dense, error) {
	tRows, tCols := transform.Dims()
	if tRows != 3 || (tCols != 3 && tCols != 4) {
		return nil, NewShapeMismatchError("projection matrix", 3, 4, tRows, tCols)
	}
	pRows, n := points.Dims()
	if pRows != tCols {
		return nil, NewShapeMismatchError("points", tCols, n, pRows, n)
	}
	var h mat.Dense
	h.Mul(transform, points)
	return &h, nil
}

// checkDepth returns ErrZeroDepth for the first column of a 3xn homogeneous image whose depth is
// not strictly positive.
func checkDepth(h mat.Matrix) error {
	_, n := h.Dims()
	for j := 0; j < n; j++ {
		if d := h.At(2, j); !(d > 0) || isNonFinite(d) {
			return errors.Wrapf(ErrZeroDepth, "point %d has depth %v", j, d)
		}
	}
	return nil
}

func isNonFinite(x float64) bool {
	return math.IsInf(x, 0) || math.IsNaN(x)
}

package transform

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Point clouds are stored one point per column: a world point cloud is 3xn (or 4xn when
// homogeneous, with a last row of ones) and an image point cloud is 2xn.

// NewWorldPoints packs 3D points into a 3xn world point cloud.
func NewWorldPoints(pts []r3.Vector) (*mat.Dense, error) {
	if len(pts) == 0 {
		return nil, errors.Wrap(ErrShapeMismatch, "world point cloud is empty")
	}
	m := mat.NewDense(3, len(pts), nil)
	for i, pt := range pts {
		m.Set(0, i, pt.X)
		m.Set(1, i, pt.Y)
		m.Set(2, i, pt.Z)
	}
	return m, nil
}

// NewImagePoints packs pixel coordinates into a 2xn image point cloud.
func NewImagePoints(pts []r2.Point) (*mat.Dense, error) {
	if len(pts) == 0 {
		return nil, errors.Wrap(ErrShapeMismatch, "image point cloud is empty")
	}
	m := mat.NewDense(2, len(pts), nil)
	for i, pt := range pts {
		m.Set(0, i, pt.X)
		m.Set(1, i, pt.Y)
	}
	return m, nil
}

// WorldPointsToR3 unpacks a 3xn (or homogeneous 4xn) world point cloud.
func WorldPointsToR3(m mat.Matrix) []r3.Vector {
	rows, n := m.Dims()
	pts := make([]r3.Vector, n)
	for i := range pts {
		w := 1.0
		if rows == 4 {
			w = m.At(3, i)
		}
		pts[i] = r3.Vector{X: m.At(0, i) / w, Y: m.At(1, i) / w, Z: m.At(2, i) / w}
	}
	return pts
}

// ImagePointsToR2 unpacks a 2xn image point cloud.
func ImagePointsToR2(m mat.Matrix) []r2.Point {
	_, n := m.Dims()
	pts := make([]r2.Point, n)
	for i := range pts {
		pts[i] = r2.Point{X: m.At(0, i), Y: m.At(1, i)}
	}
	return pts
}

// Homogenize returns a copy of pts with a row of ones appended.
func Homogenize(pts mat.Matrix) *mat.Dense {
	rows, n := pts.Dims()
	h := mat.NewDense(rows+1, n, nil)
	h.Slice(0, rows, 0, n).(*mat.Dense).Copy(pts)
	for j := 0; j < n; j++ {
		h.Set(rows, j, 1)
	}
	return h
}

// DehomogenizeInPlace divides every row of h but the last by the last row, then returns a view
// of h without the last row. h is modified; only call it on buffers the caller owns.
// Points with a zero last coordinate come out as ±Inf or NaN.
func DehomogenizeInPlace(h *mat.Dense) *mat.Dense {
	rows, n := h.Dims()
	for j := 0; j < n; j++ {
		w := h.At(rows-1, j)
		for i := 0; i < rows-1; i++ {
			h.Set(i, j, h.At(i, j)/w)
		}
	}
	return h.Slice(0, rows-1, 0, n).(*mat.Dense)
}

// homogeneousWorldPoints validates a world point cloud and returns it in 4xn form.
// A 3xn input is copied with a row of ones appended; a 4xn input is returned as is.
func homogeneousWorldPoints(world mat.Matrix, isHomogeneous bool) (mat.Matrix, error) {
	rows, n := world.Dims()
	if isHomogeneous {
		if rows != 4 {
			return nil, NewShapeMismatchError("homogeneous world points", 4, n, rows, n)
		}
		return world, nil
	}
	if rows != 3 {
		return nil, NewShapeMismatchError("world points", 3, n, rows, n)
	}
	return Homogenize(world), nil
}

// checkCorrespondences validates a 3xn world and 2xn image point cloud pair and returns n.
func checkCorrespondences(world, image mat.Matrix) (int, error) {
	wRows, wCols := world.Dims()
	iRows, iCols := image.Dims()
	if wRows != 3 {
		return 0, NewShapeMismatchError("world points", 3, wCols, wRows, wCols)
	}
	if iRows != 2 {
		return 0, NewShapeMismatchError("image points", 2, iCols, iRows, iCols)
	}
	if wCols != iCols {
		return 0, NewPointCountMismatchError(wCols, iCols)
	}
	return wCols, nil
}

package transform

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcalib/logging"
)

// MinDLTPoints is the number of correspondences needed to pin down the 11 degrees of freedom of a
// camera matrix.
const MinDLTPoints = 6

// BuildAlgebraicMatrix creates the 2nx12 algebraic matrix A of the Direct Linear Transform from n
// world points (3xn) and their projections (2xn). Each correspondence (X, Y, Z) <-> (u, v) adds
//
//	[X Y Z 1 0 0 0 0 -uX -uY -uZ -u]
//	[0 0 0 0 X Y Z 1 -vX -vY -vZ -v]
//
// The flattened camera matrix lies in the right null space of A. A single correspondence gives a
// 2x12 matrix that is accepted here even though it cannot determine a camera.
func BuildAlgebraicMatrix(world, image mat.Matrix) (*mat.Dense, error) {
	n, err := checkCorrespondences(world, image)
	if err != nil {
		return nil, err
	}
	a := mat.NewDense(2*n, 12, nil)
	for i := 0; i < n; i++ {
		x, y, z := world.At(0, i), world.At(1, i), world.At(2, i)
		u, v := image.At(0, i), image.At(1, i)
		a.SetRow(2*i, []float64{x, y, z, 1, 0, 0, 0, 0, -u * x, -u * y, -u * z, -u})
		a.SetRow(2*i+1, []float64{0, 0, 0, 0, x, y, z, 1, -v * x, -v * y, -v * z, -v})
	}
	return a, nil
}

// SolveDLT estimates the 3x4 camera matrix from world/image correspondences as the right singular
// vector of the algebraic matrix with the smallest singular value. With normalize set, image and
// world points are first translated to their centroid and scaled as described in Multiple View
// Geometry, Alg 7.1, which keeps A well conditioned for pixel-sized coordinates.
// The result is scaled to unit Frobenius norm with det(M[:, :3]) > 0. logger may be nil.
func SolveDLT(world, image mat.Matrix, normalize bool, logger logging.Logger) (*mat.Dense, error) {
	n, err := checkCorrespondences(world, image)
	if err != nil {
		return nil, err
	}
	if n < MinDLTPoints {
		return nil, errors.Wrapf(ErrTooFewPoints, "need at least %d correspondences, got %d", MinDLTPoints, n)
	}

	worldPts, imagePts := mat.Matrix(world), mat.Matrix(image)
	tWorld, tImage := eye(4), eye(3)
	if normalize {
		var wp, ip *mat.Dense
		wp, tWorld = normalizeWorldPoints(world)
		ip, tImage = normalizeImagePoints(image)
		worldPts, imagePts = wp, ip
	}

	a, err := BuildAlgebraicMatrix(worldPts, imagePts)
	if err != nil {
		return nil, err
	}
	mats := performSVD(a)
	if mats == nil {
		return nil, errors.New("failed to factorize algebraic matrix")
	}
	if logger != nil {
		logger.Debugf("DLT singular values: %v", mats.values)
	}
	lastColV := mats.V.ColView(11)
	data := make([]float64, 12)
	for i := range data {
		data[i] = lastColV.AtVec(i)
	}
	m := mat.NewDense(3, 4, data)

	// undo the normalization: M = T_image^-1 · M̃ · T_world
	if normalize {
		var tImageInv mat.Dense
		if err := tImageInv.Inverse(tImage); err != nil {
			return nil, errors.Wrap(err, "image normalization is singular")
		}
		m.Mul(&tImageInv, m)
		m.Mul(m, tWorld)
	}

	if mat.Det(m.Slice(0, 3, 0, 3)) < 0 {
		m.Scale(-1, m)
	}
	m.Scale(1/mat.Norm(m, 2), m)
	return m, nil
}

// SolveDLTFromPoints is SolveDLT for correspondences given as point lists.
func SolveDLTFromPoints(world []r3.Vector, image []r2.Point, normalize bool, logger logging.Logger) (*mat.Dense, error) {
	if len(world) != len(image) {
		return nil, NewPointCountMismatchError(len(world), len(image))
	}
	w, err := NewWorldPoints(world)
	if err != nil {
		return nil, err
	}
	i, err := NewImagePoints(image)
	if err != nil {
		return nil, err
	}
	return SolveDLT(w, i, normalize, logger)
}

// normalizeImagePoints moves the centroid of 2xn image points to the origin and scales them to a mean
// distance of sqrt(2) from it, returning the new points and the 3x3 transform applied.
func normalizeImagePoints(pts mat.Matrix) (*mat.Dense, *mat.Dense) {
	scale, mu := similarityScale(pts, 2)
	t := mat.NewDense(3, 3, []float64{
		scale, 0, -scale * mu[0],
		0, scale, -scale * mu[1],
		0, 0, 1,
	})
	return applySimilarity(pts, scale, mu), t
}

// normalizeWorldPoints does the same for 3xn world points with a mean distance of sqrt(3).
func normalizeWorldPoints(pts mat.Matrix) (*mat.Dense, *mat.Dense) {
	scale, mu := similarityScale(pts, 3)
	t := mat.NewDense(4, 4, []float64{
		scale, 0, 0, -scale * mu[0],
		0, scale, 0, -scale * mu[1],
		0, 0, scale, -scale * mu[2],
		0, 0, 0, 1,
	})
	return applySimilarity(pts, scale, mu), t
}

// similarityScale returns the centroid of the points and the scale that brings their mean distance
// from it to sqrt(dim). Coincident points get a unit scale.
func similarityScale(pts mat.Matrix, dim int) (float64, []float64) {
	_, n := pts.Dims()
	mu := make([]float64, dim)
	for j := 0; j < n; j++ {
		for i := 0; i < dim; i++ {
			mu[i] += pts.At(i, j) / float64(n)
		}
	}
	d := 0.0
	for j := 0; j < n; j++ {
		sq := 0.0
		for i := 0; i < dim; i++ {
			diff := pts.At(i, j) - mu[i]
			sq += diff * diff
		}
		d += math.Sqrt(sq) / float64(n)
	}
	if d == 0 {
		return 1, mu
	}
	return math.Sqrt(float64(dim)) / d, mu
}

func applySimilarity(pts mat.Matrix, scale float64, mu []float64) *mat.Dense {
	rows, n := pts.Dims()
	out := mat.NewDense(rows, n, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, scale*(pts.At(i, j)-mu[i]))
		}
	}
	return out
}

// matsSVD stores the right singular vectors and singular values of a decomposition.
type matsSVD struct {
	V      *mat.Dense
	values []float64
}

// performSVD performs a thin SVD on inputMatrix and returns V and the singular values in
// decreasing order. U is never formed, so the cost stays linear in the number of rows.
func performSVD(inputMatrix mat.Matrix) *matsSVD {
	var svd mat.SVD
	ok := svd.Factorize(inputMatrix, mat.SVDThinV)
	if !ok {
		return nil
	}
	v := &mat.Dense{}
	svd.VTo(v)
	return &matsSVD{V: v, values: svd.Values(nil)}
}

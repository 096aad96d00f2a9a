package transform

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcalib/spatialmath"
)

// CameraPose is the pose of a camera expressed in world coordinates: Rotation holds the camera axes
// and Translation the camera centre.
type CameraPose struct {
	Rotation    *mat.Dense
	Translation r3.Vector
}

// NewCameraPose creates a camera pose from rotation angles (radians) applied in the given axis order
// and a translation. See spatialmath.RotationMatrix for the composition convention.
func NewCameraPose(angles []float64, order string, translation r3.Vector) (*CameraPose, error) {
	rot, err := spatialmath.RotationMatrix(angles, order)
	if err != nil {
		return nil, err
	}
	return &CameraPose{Rotation: rot, Translation: translation}, nil
}

// Extrinsics returns the 3x4 world-to-camera extrinsic matrix of the pose.
func (cp *CameraPose) Extrinsics() (*mat.Dense, error) {
	return ExtrinsicMatrix(cp.Rotation, cp.Translation)
}

// ExtrinsicMatrix creates the 3x4 extrinsic matrix mapping world coordinates to camera coordinates.
// r and t describe the camera in the world, so the 4x4 homogeneous pose [[r t] [0 1]] is inverted
// to get the change of basis, and its last row is dropped.
// An ill-conditioned pose is inverted anyway and the degraded result returned; a pose that cannot
// be inverted at all returns ErrSingularPose.
func ExtrinsicMatrix(r mat.Matrix, t r3.Vector) (*mat.Dense, error) {
	if rows, cols := r.Dims(); rows != 3 || cols != 3 {
		return nil, NewShapeMismatchError("rotation", 3, 3, rows, cols)
	}
	pose := eye(4)
	pose.Slice(0, 3, 0, 3).(*mat.Dense).Copy(r)
	pose.Set(0, 3, t.X)
	pose.Set(1, 3, t.Y)
	pose.Set(2, 3, t.Z)

	var inv mat.Dense
	if err := inv.Inverse(pose); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, errors.Wrap(ErrSingularPose, err.Error())
		}
	}
	return mat.DenseCopyOf(inv.Slice(0, 3, 0, 4)), nil
}

// ExtrinsicMatrixClosedForm computes [rᵗ | -rᵗt], which equals ExtrinsicMatrix when r is orthonormal.
func ExtrinsicMatrixClosedForm(r mat.Matrix, t r3.Vector) (*mat.Dense, error) {
	if rows, cols := r.Dims(); rows != 3 || cols != 3 {
		return nil, NewShapeMismatchError("rotation", 3, 3, rows, cols)
	}
	ext := mat.NewDense(3, 4, nil)
	ext.Slice(0, 3, 0, 3).(*mat.Dense).Copy(r.T())
	var c mat.VecDense
	c.MulVec(r.T(), mat.NewVecDense(3, []float64{t.X, t.Y, t.Z}))
	for i := 0; i < 3; i++ {
		ext.Set(i, 3, -c.AtVec(i))
	}
	return ext, nil
}

// CameraMatrix returns the 3x4 camera matrix M = K·E.
func CameraMatrix(k, e mat.Matrix) (*mat.Dense, error) {
	if rows, cols := k.Dims(); rows != 3 || cols != 3 {
		return nil, NewShapeMismatchError("intrinsic matrix", 3, 3, rows, cols)
	}
	if rows, cols := e.Dims(); rows != 3 || cols != 4 {
		return nil, NewShapeMismatchError("extrinsic matrix", 3, 4, rows, cols)
	}
	var m mat.Dense
	m.Mul(k, e)
	return &m, nil
}

// CameraCenter returns the position of the camera in world coordinates, -Rᵗt, from an extrinsic matrix.
func CameraCenter(e mat.Matrix) r3.Vector {
	t := mat.NewVecDense(3, []float64{e.At(0, 3), e.At(1, 3), e.At(2, 3)})
	rot := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot.Set(i, j, e.At(i, j))
		}
	}
	var c mat.VecDense
	c.MulVec(rot.T(), t)
	return r3.Vector{X: -c.AtVec(0), Y: -c.AtVec(1), Z: -c.AtVec(2)}
}

// DecomposeCameraMatrix splits a 3x4 camera matrix, known only up to scale, into its intrinsic matrix
// k (with k[2][2] = 1 and a positive diagonal), the world-to-camera rotation r (det(r) = 1) and the
// translation t, so that M ∝ k·[r | t].
func DecomposeCameraMatrix(m mat.Matrix) (k, r *mat.Dense, t r3.Vector, err error) {
	if rows, cols := m.Dims(); rows != 3 || cols != 4 {
		return nil, nil, r3.Vector{}, NewShapeMismatchError("camera matrix", 3, 4, rows, cols)
	}
	cam := mat.DenseCopyOf(m)
	left := mat.DenseCopyOf(cam.Slice(0, 3, 0, 3))
	det := mat.Det(left)
	if det == 0 || isNonFinite(det) {
		return nil, nil, r3.Vector{}, errors.Wrap(ErrSingularPose, "camera matrix has rank below 3")
	}
	// M is only defined up to scale; pick the sign that yields a proper rotation
	if det < 0 {
		cam.Scale(-1, cam)
		left.Scale(-1, left)
	}

	// RQ decomposition through QR of the row-reversed transpose
	flip := mat.NewDense(3, 3, []float64{
		0, 0, 1,
		0, 1, 0,
		1, 0, 0,
	})
	var flipped mat.Dense
	flipped.Mul(flip, left)
	var qr mat.QR
	qr.Factorize(transposeDense(&flipped))
	var q, upper mat.Dense
	qr.QTo(&q)
	qr.RTo(&upper)

	k = mat.NewDense(3, 3, nil)
	k.Mul(flip, upper.T())
	k.Mul(k, flip)
	r = mat.NewDense(3, 3, nil)
	r.Mul(flip, q.T())

	// make the diagonal of k positive, moving the signs into r
	signs := make([]float64, 3)
	for i := range signs {
		signs[i] = 1
		if k.At(i, i) < 0 {
			signs[i] = -1
		}
	}
	d := mat.NewDiagDense(3, signs)
	k.Mul(k, d)
	r.Mul(d, r)

	var tv mat.VecDense
	if err := tv.SolveVec(k, cam.ColView(3)); err != nil {
		return nil, nil, r3.Vector{}, errors.Wrap(ErrSingularPose, err.Error())
	}
	k.Scale(1/k.At(2, 2), k)
	return k, r, r3.Vector{X: tv.AtVec(0), Y: tv.AtVec(1), Z: tv.AtVec(2)}, nil
}

// transposeDense returns a new matrix holding the transpose of m.
func transposeDense(m mat.Matrix) *mat.Dense {
	nRows, nCols := m.Dims()
	m2 := mat.NewDense(nCols, nRows, nil)
	m2.Copy(m.T())
	return m2
}

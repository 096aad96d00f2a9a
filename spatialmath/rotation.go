// Package spatialmath builds the rotation matrices used to pose a camera in the world.
package spatialmath

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

var (
	// ErrInvalidAxis is returned when a rotation axis is not one of x, y or z.
	ErrInvalidAxis = errors.New("invalid rotation axis")
	// ErrAngleCountMismatch is returned when the number of angles differs from the number of axes.
	ErrAngleCountMismatch = errors.New("number of angles does not match rotation order")
)

// Axis is one of the three elementary rotation axes.
type Axis int

// The elementary rotation axes.
const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "invalid"
	}
}

// ParseAxis maps an axis identifier ('x', 'y' or 'z', either case) to an Axis.
func ParseAxis(r rune) (Axis, error) {
	switch r {
	case 'x', 'X':
		return AxisX, nil
	case 'y', 'Y':
		return AxisY, nil
	case 'z', 'Z':
		return AxisZ, nil
	default:
		return 0, errors.Wrapf(ErrInvalidAxis, "%q", r)
	}
}

// ParseOrder parses every character of a rotation order such as "zyx".
func ParseOrder(order string) ([]Axis, error) {
	axes := make([]Axis, 0, len(order))
	for _, r := range order {
		axis, err := ParseAxis(r)
		if err != nil {
			return nil, err
		}
		axes = append(axes, axis)
	}
	return axes, nil
}

// RotationAboutAxis returns the 3x3 matrix rotating a point by angle radians about one axis.
//
//	x: [[1 0 0] [0 c -s] [0 s c]]
//	y: [[c 0 -s] [0 1 0] [s 0 c]]
//	z: [[c -s 0] [s c 0] [0 0 1]]
//
// The y entries follow a left-handed sense, so a positive angle about y turns z towards x.
func RotationAboutAxis(angle float64, axis Axis) (*mat.Dense, error) {
	s, c := math.Sincos(angle)
	switch axis {
	case AxisX:
		return mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, c, -s,
			0, s, c,
		}), nil
	case AxisY:
		return mat.NewDense(3, 3, []float64{
			c, 0, -s,
			0, 1, 0,
			s, 0, c,
		}), nil
	case AxisZ:
		return mat.NewDense(3, 3, []float64{
			c, -s, 0,
			s, c, 0,
			0, 0, 1,
		}), nil
	default:
		return nil, errors.Wrapf(ErrInvalidAxis, "%d", int(axis))
	}
}

// RotationMatrix composes elementary rotations. angles[i] is applied about order[i], with the
// rotations taken relative to the fixed world axes: the pairs are visited from last to first and
// each one is right-multiplied onto the running product, so RotationMatrix([a, b], "xy") is
// Ry(b)·Rx(a) seen from the world frame. Empty input yields the identity.
func RotationMatrix(angles []float64, order string) (*mat.Dense, error) {
	axes, err := ParseOrder(order)
	if err != nil {
		return nil, err
	}
	if len(angles) != len(axes) {
		return nil, errors.Wrapf(ErrAngleCountMismatch, "%d angles for order %q", len(angles), order)
	}

	rot := eye(3)
	for i := len(axes) - 1; i >= 0; i-- {
		axial, err := RotationAboutAxis(angles[i], axes[i])
		if err != nil {
			return nil, err
		}
		rot.Mul(rot, axial)
	}
	return rot, nil
}

// IsRotationMatrix reports whether r is a 3x3 orthonormal matrix with determinant 1, within tol.
func IsRotationMatrix(r mat.Matrix, tol float64) bool {
	rows, cols := r.Dims()
	if rows != 3 || cols != 3 {
		return false
	}
	var rrt mat.Dense
	rrt.Mul(r, r.T())
	if !mat.EqualApprox(&rrt, eye(3), tol) {
		return false
	}
	return math.Abs(mat.Det(r)-1) < tol
}

// QuaternionFromRotationMatrix returns the unit quaternion for a rotation matrix.
func QuaternionFromRotationMatrix(r mat.Matrix) quat.Number {
	m00, m01, m02 := r.At(0, 0), r.At(0, 1), r.At(0, 2)
	m10, m11, m12 := r.At(1, 0), r.At(1, 1), r.At(1, 2)
	m20, m21, m22 := r.At(2, 0), r.At(2, 1), r.At(2, 2)

	// branch on the largest diagonal term to keep the square root well away from zero
	var q quat.Number
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		q = quat.Number{Real: 0.25 / s, Imag: (m21 - m12) * s, Jmag: (m02 - m20) * s, Kmag: (m10 - m01) * s}
	case m00 > m11 && m00 > m22:
		s := 2 * math.Sqrt(1+m00-m11-m22)
		q = quat.Number{Real: (m21 - m12) / s, Imag: 0.25 * s, Jmag: (m01 + m10) / s, Kmag: (m02 + m20) / s}
	case m11 > m22:
		s := 2 * math.Sqrt(1+m11-m00-m22)
		q = quat.Number{Real: (m02 - m20) / s, Imag: (m01 + m10) / s, Jmag: 0.25 * s, Kmag: (m12 + m21) / s}
	default:
		s := 2 * math.Sqrt(1+m22-m00-m11)
		q = quat.Number{Real: (m10 - m01) / s, Imag: (m02 + m20) / s, Jmag: (m12 + m21) / s, Kmag: 0.25 * s}
	}
	if q.Real < 0 {
		q = quat.Scale(-1, q)
	}
	return q
}

// eye creates an identity matrix of size nxn.
func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Package transform builds pinhole camera matrices, projects world points into images, and sets up
// and solves the Direct Linear Transform used to calibrate a camera from point correspondences.
package transform

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// IntrinsicMatrix creates the 3x3 intrinsic camera matrix
//
//	[[f  s    cx],
//	 [0  f*a  cy],
//	 [0  0    1 ]]
//
// from the focal length f in pixels, the skew s between the image axes, the aspect ratio a and the
// principal point (cx, cy). The parameters are not validated; callers should pass f > 0.
func IntrinsicMatrix(f, s, a, cx, cy float64) *mat.Dense {
	k := eye(3)
	k.Set(0, 0, f)
	k.Set(0, 1, s)
	k.Set(1, 1, f*a)
	k.Set(0, 2, cx)
	k.Set(1, 2, cy)
	return k
}

// PinholeCameraIntrinsics holds the parameters necessary to do a perspective projection of a 3D scene to the 2D plane.
type PinholeCameraIntrinsics struct {
	Width  int     `json:"width_px"`
	Height int     `json:"height_px"`
	Focal  float64 `json:"focal"`
	Skew   float64 `json:"skew"`
	Aspect float64 `json:"aspect"`
	Ppx    float64 `json:"ppx"`
	Ppy    float64 `json:"ppy"`
}

// CheckValid checks if the fields for PinholeCameraIntrinsics have valid inputs.
func (params *PinholeCameraIntrinsics) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("Intrinsics do not exist")
	}
	if params.Width < 0 || params.Height < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid size (%#v, %#v)", params.Width, params.Height))
	}
	if params.Focal <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length f = %#v", params.Focal))
	}
	if params.Aspect <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid aspect ratio a = %#v", params.Aspect))
	}
	if params.Ppx < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal X point Ppx = %#v", params.Ppx))
	}
	if params.Ppy < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal Y point Ppy = %#v", params.Ppy))
	}
	return nil
}

// Matrix returns the intrinsic camera matrix K for these parameters.
func (params *PinholeCameraIntrinsics) Matrix() *mat.Dense {
	if params == nil {
		return nil
	}
	return IntrinsicMatrix(params.Focal, params.Skew, params.Aspect, params.Ppx, params.Ppy)
}

// InImage reports whether a pixel lies inside the image bounds. A zero width or height means the
// image size is unknown and every finite pixel is accepted.
func (params *PinholeCameraIntrinsics) InImage(u, v float64) bool {
	if params.Width == 0 || params.Height == 0 {
		return !isNonFinite(u) && !isNonFinite(v)
	}
	return u >= 0 && u < float64(params.Width) && v >= 0 && v < float64(params.Height)
}

// eye creates an identity matrix of size nxn.
func eye(n int) *mat.Dense {
	if n <= 0 {
		return nil
	}
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

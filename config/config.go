// Package config describes a pinhole camera in JSON and builds its calibration matrices.
package config

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcalib/spatialmath"
	"go.viam.com/camcalib/transform"
	"go.viam.com/camcalib/utils"
)

// Config describes a camera: its intrinsic parameters and its pose in the world.
type Config struct {
	ConfigFilePath string                              `json:"-"`
	Intrinsics     *transform.PinholeCameraIntrinsics `json:"intrinsics"`
	Pose           *Pose                               `json:"pose,omitempty"`
}

// Pose places the camera in the world. Angles are applied in Order, see spatialmath.RotationMatrix;
// they are given either in degrees (AnglesDeg) or in radians (Angles). Translation is the camera
// centre in world coordinates.
type Pose struct {
	AnglesDeg   []float64 `json:"angles_deg,omitempty"`
	Angles      []float64 `json:"angles,omitempty"`
	Order       string    `json:"order"`
	Translation []float64 `json:"translation"`
}

// Camera holds the matrices built from a Config.
type Camera struct {
	Intrinsics *transform.PinholeCameraIntrinsics
	// K is the 3x3 intrinsic matrix.
	K *mat.Dense
	// R is the 3x3 rotation of the camera in the world.
	R *mat.Dense
	// E is the 3x4 world-to-camera extrinsic matrix.
	E *mat.Dense
	// M is the 3x4 camera matrix K·E.
	M *mat.Dense
	// Center is the camera centre recovered from E.
	Center r3.Vector
}

// Validate ensures all parts of the config are valid.
func (c *Config) Validate() error {
	if c.Intrinsics == nil {
		return transform.NewNoIntrinsicsError("config has no intrinsics")
	}
	if err := c.Intrinsics.CheckValid(); err != nil {
		return err
	}
	if c.Pose != nil {
		if err := c.Pose.Validate("pose"); err != nil {
			return err
		}
	}
	return nil
}

// Validate ensures all parts of the pose are valid.
func (p *Pose) Validate(path string) error {
	if p.AnglesDeg != nil && p.Angles != nil {
		return errors.Errorf("%s: only one of angles_deg and angles may be set", path)
	}
	axes, err := spatialmath.ParseOrder(p.Order)
	if err != nil {
		return errors.Wrapf(err, "%s.order", path)
	}
	if n := len(p.radians()); n != len(axes) {
		return errors.Wrapf(spatialmath.ErrAngleCountMismatch, "%s: %d angles for order %q", path, n, p.Order)
	}
	if p.Translation != nil && len(p.Translation) != 3 {
		return errors.Errorf("%s.translation: expected 3 values, got %d", path, len(p.Translation))
	}
	return nil
}

func (p *Pose) radians() []float64 {
	if p.AnglesDeg != nil {
		return utils.DegsToRads(p.AnglesDeg)
	}
	return p.Angles
}

func (p *Pose) translation() r3.Vector {
	if len(p.Translation) != 3 {
		return r3.Vector{}
	}
	return r3.Vector{X: p.Translation[0], Y: p.Translation[1], Z: p.Translation[2]}
}

// Build validates the config and computes the camera matrices. A missing pose places the camera at
// the world origin looking down +Z.
func (c *Config) Build() (*Camera, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	pose := &transform.CameraPose{Rotation: mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})}
	if c.Pose != nil {
		var err error
		pose, err = transform.NewCameraPose(c.Pose.radians(), c.Pose.Order, c.Pose.translation())
		if err != nil {
			return nil, err
		}
	}
	k := c.Intrinsics.Matrix()
	e, err := pose.Extrinsics()
	if err != nil {
		return nil, err
	}
	m, err := transform.CameraMatrix(k, e)
	if err != nil {
		return nil, err
	}
	return &Camera{
		Intrinsics: c.Intrinsics,
		K:          k,
		R:          pose.Rotation,
		E:          e,
		M:          m,
		Center:     transform.CameraCenter(e),
	}, nil
}

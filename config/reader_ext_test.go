package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcalib/config"
	"go.viam.com/camcalib/logging"
	"go.viam.com/camcalib/transform"
)

const cameraJSON = `{
	"intrinsics": {"width_px": 640, "height_px": 480, "focal": ${CAM_FOCAL}, "skew": 0,
	               "aspect": 1, "ppx": 320, "ppy": 240},
	"pose": {"angles_deg": [0, 0, 0], "order": "xyz", "translation": [0, 0, -10]}
}`

func TestFromReaderValidate(t *testing.T) {
	logger := logging.NewTestLogger(t)
	_, err := config.FromReader("somepath", strings.NewReader(""), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "EOF")

	_, err = config.FromReader("somepath", strings.NewReader(`{"intrinsics": 1}`), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unmarshal")

	_, err = config.FromReader("somepath", strings.NewReader(`{}`), logger)
	test.That(t, err, test.ShouldWrap, transform.ErrNoIntrinsics)

	conf, err := config.FromReader("somepath", strings.NewReader(`{"intrinsics": {"focal": 50, "aspect": 1}}`), logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf, test.ShouldResemble, &config.Config{
		ConfigFilePath: "somepath",
		Intrinsics:     &transform.PinholeCameraIntrinsics{Focal: 50, Aspect: 1},
	})
}

func TestReadWithEnv(t *testing.T) {
	logger := logging.NewTestLogger(t)
	t.Setenv("CAM_FOCAL", "100")
	path := filepath.Join(t.TempDir(), "camera.json")
	test.That(t, os.WriteFile(path, []byte(cameraJSON), 0o600), test.ShouldBeNil)

	conf, err := config.Read(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.ConfigFilePath, test.ShouldEqual, path)
	test.That(t, conf.Intrinsics.Focal, test.ShouldEqual, 100)
	test.That(t, conf.Pose.Translation, test.ShouldResemble, []float64{0, 0, -10})

	cam, err := conf.Build()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.EqualApprox(cam.K, mat.NewDense(3, 3, []float64{100, 0, 320, 0, 100, 240, 0, 0, 1}), 1e-12),
		test.ShouldBeTrue)
	test.That(t, mat.EqualApprox(cam.E, mat.NewDense(3, 4, []float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 10}), 1e-12),
		test.ShouldBeTrue)
	test.That(t, cam.Center.Distance(r3.Vector{Z: -10}), test.ShouldAlmostEqual, 0)

	image, err := transform.WorldToImage(mat.NewDense(3, 1, []float64{1, -1, 0}), cam.M, false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, image.At(0, 0), test.ShouldAlmostEqual, 330)
	test.That(t, image.At(1, 0), test.ShouldAlmostEqual, 230)

	_, err = config.Read(filepath.Join(t.TempDir(), "missing.json"), logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFromAttributes(t *testing.T) {
	conf, err := config.FromAttributes(map[string]interface{}{
		"intrinsics": map[string]interface{}{
			"width_px":  640,
			"height_px": 480,
			"focal":     "100",
			"aspect":    1.0,
			"ppx":       320.0,
			"ppy":       240,
		},
		"pose": map[string]interface{}{
			"angles":      []interface{}{0.0, 0.0},
			"order":       "zy",
			"translation": []interface{}{1, 2, 3},
		},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.Intrinsics, test.ShouldResemble, &transform.PinholeCameraIntrinsics{
		Width: 640, Height: 480, Focal: 100, Aspect: 1, Ppx: 320, Ppy: 240,
	})
	test.That(t, conf.Pose.Order, test.ShouldEqual, "zy")
	test.That(t, conf.Pose.Translation, test.ShouldResemble, []float64{1, 2, 3})

	cam, err := conf.Build()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cam.Center.Distance(r3.Vector{X: 1, Y: 2, Z: 3}), test.ShouldAlmostEqual, 0)

	_, err = config.FromAttributes(map[string]interface{}{"intrinsics": "nope"})
	test.That(t, err, test.ShouldNotBeNil)

	_, err = config.FromAttributes(map[string]interface{}{
		"intrinsics": map[string]interface{}{"focal": -1, "aspect": 1},
	})
	test.That(t, err, test.ShouldWrap, transform.ErrNoIntrinsics)
}

package transform

import (
	"math"
	"math/rand/v2"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"go.viam.com/camcalib/utils/matrix"
)

func TestFlattenCameraMatrix(t *testing.T) {
	m := mat.NewDense(3, 4, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})
	flat, err := FlattenCameraMatrix(m)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, flat, test.ShouldResemble, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12})

	back, err := ReshapeCameraMatrix(flat)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.Equal(back, m), test.ShouldBeTrue)
	flat[0] = 100
	test.That(t, back.At(0, 0), test.ShouldEqual, 1)

	_, err = FlattenCameraMatrix(eye(3))
	test.That(t, err, test.ShouldWrap, ErrShapeMismatch)
	_, err = ReshapeCameraMatrix(make([]float64, 11))
	test.That(t, err, test.ShouldWrap, ErrShapeMismatch)
}

func TestGeometricError(t *testing.T) {
	cam := newTestCamera(t)
	world := randomWorldPoints(t, 15, 4)
	image, err := WorldToImage(world, cam.M, false)
	test.That(t, err, test.ShouldBeNil)
	flat, err := FlattenCameraMatrix(cam.M)
	test.That(t, err, test.ShouldBeNil)

	e, err := GeometricError(flat, world, image)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, e, test.ShouldAlmostEqual, 0, 1e-9)

	// shifting every observation by (3, 4) pixels costs 5 pixels per point
	shifted := mat.DenseCopyOf(image)
	for j := 0; j < 15; j++ {
		shifted.Set(0, j, shifted.At(0, j)+3)
		shifted.Set(1, j, shifted.At(1, j)+4)
	}
	e, err = GeometricError(flat, world, shifted)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, e, test.ShouldAlmostEqual, 75, 1e-6)

	residuals, err := ReprojectionResiduals(cam.M, world, shifted)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(residuals), test.ShouldEqual, 15)
	for _, r := range residuals {
		test.That(t, r, test.ShouldAlmostEqual, 5, 1e-6)
	}

	noisy := matrix.AddPixelNoise(image, 2, rand.NewPCG(5, 6))
	e, err = GeometricError(flat, world, noisy)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, e, test.ShouldBeGreaterThan, 0)

	_, err = GeometricError(flat[:11], world, image)
	test.That(t, err, test.ShouldWrap, ErrShapeMismatch)
	_, err = GeometricError(flat, world, image.Slice(0, 2, 0, 14))
	test.That(t, err, test.ShouldWrap, ErrShapeMismatch)
	_, err = ReprojectionResiduals(cam.K, world, image)
	test.That(t, err, test.ShouldWrap, ErrShapeMismatch)
}

func TestGeometricErrorProblem(t *testing.T) {
	cam := newTestCamera(t)
	world := randomWorldPoints(t, 30, 8)
	image, err := WorldToImage(world, cam.M, false)
	test.That(t, err, test.ShouldBeNil)
	noisy := matrix.AddPixelNoise(image, 1, rand.NewPCG(8, 9))

	problem, err := GeometricErrorProblem(world, noisy)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, math.IsInf(problem.Func(make([]float64, 3)), 1), test.ShouldBeTrue)

	m, err := SolveDLT(world, noisy, true, nil)
	test.That(t, err, test.ShouldBeNil)
	start, err := FlattenCameraMatrix(m)
	test.That(t, err, test.ShouldBeNil)
	startErr, err := GeometricError(start, world, noisy)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, problem.Func(start), test.ShouldAlmostEqual, startErr)

	// the problem keeps its own copy of the correspondences
	noisy.Set(0, 0, noisy.At(0, 0)+100)
	test.That(t, problem.Func(start), test.ShouldAlmostEqual, startErr)

	result, err := optimize.Minimize(problem, start, &optimize.Settings{FuncEvaluations: 2000}, &optimize.NelderMead{})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.F, test.ShouldBeLessThanOrEqualTo, startErr)
	test.That(t, len(result.X), test.ShouldEqual, 12)

	_, err = GeometricErrorProblem(world, noisy.Slice(0, 2, 0, 3))
	test.That(t, err, test.ShouldWrap, ErrShapeMismatch)
}

package transform

import (
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/camcalib/logging"
)

func TestSummarizeResiduals(t *testing.T) {
	rs, err := SummarizeResiduals([]float64{3, 4, 0, 5})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rs.Count, test.ShouldEqual, 4)
	test.That(t, rs.Sum, test.ShouldAlmostEqual, 12)
	test.That(t, rs.Mean, test.ShouldAlmostEqual, 3)
	test.That(t, rs.RMS, test.ShouldAlmostEqual, math.Sqrt(50.0/4))
	test.That(t, rs.Median, test.ShouldAlmostEqual, 3.5)
	test.That(t, rs.Max, test.ShouldAlmostEqual, 5)
	test.That(t, rs.P90, test.ShouldBeBetweenOrEqual, rs.Median, rs.Max)
	test.That(t, rs.StdDev, test.ShouldAlmostEqual, math.Sqrt(14.0/4))

	single, err := SummarizeResiduals([]float64{2})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, single.P90, test.ShouldEqual, 2)
	test.That(t, single.StdDev, test.ShouldEqual, 0)

	_, err = SummarizeResiduals(nil)
	test.That(t, err, test.ShouldWrap, ErrShapeMismatch)
}

func TestSummarizeReprojection(t *testing.T) {
	logger, logs := logging.NewObservedTestLogger(t)
	cam := newTestCamera(t)
	world := randomWorldPoints(t, 10, 31)
	image, err := WorldToImage(world, cam.M, false)
	test.That(t, err, test.ShouldBeNil)
	for j := 0; j < 10; j++ {
		image.Set(1, j, image.At(1, j)-2)
	}

	rs, err := SummarizeReprojection(cam.M, world, image, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rs.Count, test.ShouldEqual, 10)
	test.That(t, rs.RMS, test.ShouldAlmostEqual, 2, 1e-6)
	test.That(t, rs.StdDev, test.ShouldAlmostEqual, 0, 1e-6)

	flat, err := FlattenCameraMatrix(cam.M)
	test.That(t, err, test.ShouldBeNil)
	e, err := GeometricError(flat, world, image)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rs.Sum, test.ShouldAlmostEqual, e, 1e-9)

	entries := logs.FilterMessage("reprojection error").All()
	test.That(t, len(entries), test.ShouldEqual, 1)
	test.That(t, entries[0].ContextMap()["points"], test.ShouldEqual, int64(10))

	_, err = SummarizeReprojection(cam.K, world, image, nil)
	test.That(t, err, test.ShouldWrap, ErrShapeMismatch)
}

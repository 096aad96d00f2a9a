package transform

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestIntrinsicMatrix(t *testing.T) {
	k := IntrinsicMatrix(100, 0, 1, 320, 240)
	test.That(t, mat.Equal(k, mat.NewDense(3, 3, []float64{
		100, 0, 320,
		0, 100, 240,
		0, 0, 1,
	})), test.ShouldBeTrue)

	k = IntrinsicMatrix(800, 0.5, 1.25, 10, 20)
	test.That(t, k.At(0, 1), test.ShouldEqual, 0.5)
	test.That(t, k.At(1, 1), test.ShouldEqual, 1000)
	test.That(t, k.At(1, 0), test.ShouldEqual, 0)
	test.That(t, k.At(2, 0), test.ShouldEqual, 0)
	test.That(t, k.At(2, 1), test.ShouldEqual, 0)
	test.That(t, k.At(2, 2), test.ShouldEqual, 1)
}

func TestPinholeCameraIntrinsics(t *testing.T) {
	var nilIntrinsics *PinholeCameraIntrinsics
	test.That(t, nilIntrinsics.CheckValid(), test.ShouldWrap, ErrNoIntrinsics)
	test.That(t, nilIntrinsics.Matrix(), test.ShouldBeNil)

	params := &PinholeCameraIntrinsics{Width: 640, Height: 480, Focal: 100, Aspect: 1, Ppx: 320, Ppy: 240}
	test.That(t, params.CheckValid(), test.ShouldBeNil)
	test.That(t, mat.Equal(params.Matrix(), IntrinsicMatrix(100, 0, 1, 320, 240)), test.ShouldBeTrue)

	for _, bad := range []PinholeCameraIntrinsics{
		{Width: -1, Height: 480, Focal: 100, Aspect: 1},
		{Width: 640, Height: 480, Focal: 0, Aspect: 1},
		{Width: 640, Height: 480, Focal: 100, Aspect: 0},
		{Width: 640, Height: 480, Focal: 100, Aspect: 1, Ppx: -3},
		{Width: 640, Height: 480, Focal: 100, Aspect: 1, Ppy: -3},
	} {
		err := bad.CheckValid()
		test.That(t, err, test.ShouldWrap, ErrNoIntrinsics)
	}

	test.That(t, params.InImage(0, 0), test.ShouldBeTrue)
	test.That(t, params.InImage(639.5, 479.5), test.ShouldBeTrue)
	test.That(t, params.InImage(640, 10), test.ShouldBeFalse)
	test.That(t, params.InImage(-0.1, 10), test.ShouldBeFalse)

	unsized := &PinholeCameraIntrinsics{Focal: 1, Aspect: 1}
	test.That(t, unsized.InImage(-1e6, 1e6), test.ShouldBeTrue)
	test.That(t, unsized.InImage(math.Inf(1), 0), test.ShouldBeFalse)
	test.That(t, unsized.InImage(0, math.NaN()), test.ShouldBeFalse)
}

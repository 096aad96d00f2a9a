package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestAngles(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, 3.141592653589793)
	test.That(t, RadToDeg(DegToRad(37)), test.ShouldAlmostEqual, 37)
	rads := DegsToRads([]float64{0, 90})
	test.That(t, rads[1], test.ShouldAlmostEqual, 1.5707963267948966)
	test.That(t, Float64AlmostEqual(1, 1.05, 0.1), test.ShouldBeTrue)
	test.That(t, Float64AlmostEqual(1, 1.5, 0.1), test.ShouldBeFalse)
	test.That(t, ParallelFactor, test.ShouldBeGreaterThan, 0)
}

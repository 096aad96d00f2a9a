package utils

import (
	"runtime"
	"testing"

	"go.viam.com/test"
)

func TestParallelFactor(t *testing.T) {
	test.That(t, ParallelFactor, test.ShouldBeGreaterThanOrEqualTo, 1)
	test.That(t, ParallelFactor, test.ShouldBeLessThanOrEqualTo, runtime.GOMAXPROCS(0))
}

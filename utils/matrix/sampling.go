// Package matrix holds helpers for generating synthetic point sets used to exercise calibration.
package matrix

import (
	"math"
	"math/rand/v2"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Limits is a closed interval [Min, Max].
type Limits struct {
	Min float64
	Max float64
}

func (l Limits) check(name string) error {
	if !(l.Min <= l.Max) || math.IsInf(l.Min, 0) || math.IsInf(l.Max, 0) {
		return errors.Errorf("invalid %s limits [%v, %v]", name, l.Min, l.Max)
	}
	return nil
}

// RandomPoints3D samples n points uniformly inside the box xlim × ylim × zlim and returns them as a
// 3xn matrix, one point per column. src may be nil to use the global source.
func RandomPoints3D(n int, xlim, ylim, zlim Limits, src rand.Source) (*mat.Dense, error) {
	if n <= 0 {
		return nil, errors.Errorf("number of points must be positive, got %d", n)
	}
	for i, l := range []Limits{xlim, ylim, zlim} {
		if err := l.check(string(rune('x' + i))); err != nil {
			return nil, err
		}
	}
	pts := mat.NewDense(3, n, nil)
	for i, l := range []Limits{xlim, ylim, zlim} {
		dist := distuv.Uniform{Min: l.Min, Max: l.Max, Src: src}
		for j := 0; j < n; j++ {
			pts.Set(i, j, dist.Rand())
		}
	}
	return pts, nil
}

// AddPixelNoise returns a copy of the 2xn image points with zero mean gaussian noise of the given
// standard deviation added to each coordinate.
func AddPixelNoise(image mat.Matrix, sigma float64, src rand.Source) *mat.Dense {
	noisy := mat.DenseCopyOf(image)
	if sigma <= 0 {
		return noisy
	}
	dist := distuv.Normal{Mu: 0, Sigma: sigma, Src: src}
	rows, cols := noisy.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			noisy.Set(i, j, noisy.At(i, j)+dist.Rand())
		}
	}
	return noisy
}

// SampleNIntegersUniform draws n integers uniformly from the closed range [vMin, vMax], with
// replacement. src may be nil to use the global source.
func SampleNIntegersUniform(n, vMin, vMax int, src rand.Source) ([]int, error) {
	if n < 0 {
		return nil, errors.Errorf("number of samples must be non-negative, got %d", n)
	}
	if vMax < vMin {
		return nil, errors.Errorf("empty integer range [%d, %d]", vMin, vMax)
	}
	span := uint64(vMax-vMin) + 1
	var rng *rand.Rand
	if src != nil {
		rng = rand.New(src)
	}
	z := make([]int, n)
	for i := range z {
		if rng != nil {
			z[i] = vMin + int(rng.Uint64N(span))
		} else {
			z[i] = vMin + int(rand.Uint64N(span))
		}
	}
	return z, nil
}

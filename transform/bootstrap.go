package transform

import (
	"context"
	"math/rand/v2"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcalib/logging"
	"go.viam.com/camcalib/utils"
	"go.viam.com/camcalib/utils/matrix"
)

// Resample returns the correspondences at the given column indices, in order. Indices may repeat.
func (c *Correspondences) Resample(idx []int) (*Correspondences, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := c.Len()
	world := mat.NewDense(3, len(idx), nil)
	image := mat.NewDense(2, len(idx), nil)
	for j, i := range idx {
		if i < 0 || i >= n {
			return nil, errors.Errorf("correspondence index %d out of range [0, %d)", i, n)
		}
		world.SetCol(j, mat.Col(nil, i, c.World))
		image.SetCol(j, mat.Col(nil, i, c.Image))
	}
	return &Correspondences{World: world, Image: image}, nil
}

// BootstrapDLT estimates how stable a DLT fit is. Each round draws Len() correspondences with
// replacement from c, solves a normalized DLT on the draw, and records the RMS reprojection error of
// that camera on the full set. Indices are drawn up front from src so results are reproducible;
// the solves run concurrently, at most utils.ParallelFactor at a time.
func BootstrapDLT(
	ctx context.Context,
	logger logging.Logger,
	c *Correspondences,
	rounds int,
	src rand.Source,
) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := c.Len()
	if n < MinDLTPoints {
		return nil, errors.Wrapf(ErrTooFewPoints, "need at least %d correspondences, got %d", MinDLTPoints, n)
	}
	if rounds <= 0 {
		return nil, errors.Errorf("number of rounds must be positive, got %d", rounds)
	}

	draws := make([]*Correspondences, rounds)
	for r := range draws {
		idx, err := matrix.SampleNIntegersUniform(n, 0, n-1, src)
		if err != nil {
			return nil, err
		}
		if draws[r], err = c.Resample(idx); err != nil {
			return nil, err
		}
	}

	rms := make([]float64, rounds)
	roundErrs := make([]error, rounds)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(utils.ParallelFactor)
	for r, draw := range draws {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := SolveDLT(draw.World, draw.Image, true, nil)
			if err != nil {
				roundErrs[r] = errors.Wrapf(err, "round %d", r)
				return nil
			}
			rs, err := SummarizeReprojection(m, c.World, c.Image, nil)
			if err != nil {
				roundErrs[r] = errors.Wrapf(err, "round %d", r)
				return nil
			}
			rms[r] = rs.RMS
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := multierr.Combine(roundErrs...); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debugw("bootstrapped DLT", "rounds", rounds, "points", n)
	}
	return rms, nil
}

package transform

import (
	"context"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcalib/logging"
	"go.viam.com/camcalib/utils"
)

// Correspondences pairs a 3xn world point cloud with its 2xn image point cloud.
type Correspondences struct {
	World *mat.Dense
	Image *mat.Dense
}

// NewCorrespondences creates Correspondences from matched point lists.
func NewCorrespondences(world []r3.Vector, image []r2.Point) (*Correspondences, error) {
	if len(world) != len(image) {
		return nil, NewPointCountMismatchError(len(world), len(image))
	}
	w, err := NewWorldPoints(world)
	if err != nil {
		return nil, err
	}
	i, err := NewImagePoints(image)
	if err != nil {
		return nil, err
	}
	return &Correspondences{World: w, Image: i}, nil
}

// Len returns the number of correspondences.
func (c *Correspondences) Len() int {
	if c == nil || c.World == nil {
		return 0
	}
	_, n := c.World.Dims()
	return n
}

// Validate checks that the world and image point clouds have matching shapes.
func (c *Correspondences) Validate() error {
	if c == nil || c.World == nil || c.Image == nil {
		return errors.Wrap(ErrShapeMismatch, "correspondences are missing a point cloud")
	}
	_, err := checkCorrespondences(c.World, c.Image)
	return err
}

// BatchGeometricError evaluates GeometricError of one flattened camera matrix on many sets of
// correspondences concurrently, at most utils.ParallelFactor at a time. The result is in the order
// of sets. Shape errors from individual sets are combined into the returned error; cancelling ctx
// stops sets that have not started yet and returns the context error.
func BatchGeometricError(
	ctx context.Context,
	logger logging.Logger,
	m []float64,
	sets []*Correspondences,
) ([]float64, error) {
	if _, err := ReshapeCameraMatrix(m); err != nil {
		return nil, err
	}
	results := make([]float64, len(sets))
	setErrs := make([]error, len(sets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(utils.ParallelFactor)
	for i, set := range sets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := set.Validate(); err != nil {
				setErrs[i] = errors.Wrapf(err, "set %d", i)
				return nil
			}
			e, err := GeometricError(m, set.World, set.Image)
			if err != nil {
				setErrs[i] = errors.Wrapf(err, "set %d", i)
				return nil
			}
			results[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := multierr.Combine(setErrs...); err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Debugw("evaluated geometric error", "sets", len(sets), "parallel", utils.ParallelFactor)
	}
	return results, nil
}

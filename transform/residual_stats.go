package transform

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camcalib/logging"
)

// ResidualStats summarizes the per-point reprojection residuals of a camera matrix, in pixels.
// Sum is the value GeometricError reports.
type ResidualStats struct {
	Count  int
	Sum    float64
	Mean   float64
	RMS    float64
	Median float64
	P90    float64
	Max    float64
	StdDev float64
}

// SummarizeResiduals computes ResidualStats over residuals.
func SummarizeResiduals(residuals []float64) (ResidualStats, error) {
	if len(residuals) == 0 {
		return ResidualStats{}, errors.Wrap(ErrShapeMismatch, "no residuals to summarize")
	}
	data := stats.Float64Data(residuals)
	squares := make(stats.Float64Data, len(residuals))
	for i, r := range residuals {
		squares[i] = r * r
	}

	var rs ResidualStats
	var err error
	rs.Count = len(residuals)
	if rs.Sum, err = stats.Sum(data); err != nil {
		return ResidualStats{}, err
	}
	if rs.Mean, err = stats.Mean(data); err != nil {
		return ResidualStats{}, err
	}
	meanSquare, err := stats.Mean(squares)
	if err != nil {
		return ResidualStats{}, err
	}
	rs.RMS = math.Sqrt(meanSquare)
	if rs.Median, err = stats.Median(data); err != nil {
		return ResidualStats{}, err
	}
	if rs.P90, err = stats.Percentile(data, 90); err != nil {
		return ResidualStats{}, err
	}
	if rs.Max, err = stats.Max(data); err != nil {
		return ResidualStats{}, err
	}
	if rs.StdDev, err = stats.StandardDeviation(data); err != nil {
		return ResidualStats{}, err
	}
	return rs, nil
}

// SummarizeReprojection projects the world points with the 3x4 camera matrix m and summarizes the
// residuals against the observed image points. logger may be nil.
func SummarizeReprojection(m mat.Matrix, world, image mat.Matrix, logger logging.Logger) (ResidualStats, error) {
	residuals, err := ReprojectionResiduals(m, world, image)
	if err != nil {
		return ResidualStats{}, err
	}
	rs, err := SummarizeResiduals(residuals)
	if err != nil {
		return ResidualStats{}, err
	}
	if logger != nil {
		logger.Infow("reprojection error", "points", rs.Count, "rms_px", rs.RMS, "median_px", rs.Median, "max_px", rs.Max)
	}
	return rs, nil
}

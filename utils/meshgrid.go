package utils

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ImageGrid creates an image grid of h x w pixels parallel to the XY plane at distance f from the
// camera centre. xx and yy hold pixel offsets from the grid centre, zz is f everywhere.
func ImageGrid(f float64, h, w int) (xx, yy, zz *mat.Dense, err error) {
	if h <= 0 || w <= 0 {
		return nil, nil, nil, errors.Errorf("grid dimensions must be positive, got (%d,%d)", h, w)
	}
	xx = mat.NewDense(h, w, nil)
	yy = mat.NewDense(h, w, nil)
	zz = mat.NewDense(h, w, nil)
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			xx.Set(i, j, float64(j-w/2))
			yy.Set(i, j, float64(i-h/2))
			zz.Set(i, j, f)
		}
	}
	return xx, yy, zz, nil
}

// GridToHomogeneous flattens three h x w coordinate grids into a 4x(h*w) homogeneous point cloud,
// walking the grid row by row.
func GridToHomogeneous(xx, yy, zz mat.Matrix) (*mat.Dense, error) {
	h, w := xx.Dims()
	if r, c := yy.Dims(); r != h || c != w {
		return nil, errors.Errorf("grid dimensions don't match xx(%d,%d) != yy(%d,%d)", h, w, r, c)
	}
	if r, c := zz.Dims(); r != h || c != w {
		return nil, errors.Errorf("grid dimensions don't match xx(%d,%d) != zz(%d,%d)", h, w, r, c)
	}
	pts := mat.NewDense(4, h*w, nil)
	col := 0
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			pts.SetCol(col, []float64{xx.At(i, j), yy.At(i, j), zz.At(i, j), 1})
			col++
		}
	}
	return pts, nil
}

// HomogeneousToGrid is the converse of GridToHomogeneous: it reshapes the first three rows of a
// point cloud with h*w columns back into h x w grids. The last row is not divided out.
func HomogeneousToGrid(pts mat.Matrix, h, w int) (xx, yy, zz *mat.Dense, err error) {
	rows, n := pts.Dims()
	if rows < 3 || n != h*w {
		return nil, nil, nil, errors.Errorf("cannot reshape %dx%d points into a %dx%d grid", rows, n, h, w)
	}
	grids := make([]*mat.Dense, 3)
	for k := range grids {
		data := make([]float64, n)
		mat.Row(data, k, pts)
		grids[k] = mat.NewDense(h, w, data)
	}
	return grids[0], grids[1], grids[2], nil
}

package intmath

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// IntegerGramSchmidt orthogonalizes the columns b_k of B and returns the
// integer vectors d_(k-1) b*_k, where b*_k is the k-th Gram-Schmidt vector
// and d_k the determinant of the Gram matrix of the first k columns. The
// minor determinants are evaluated in floating point and rounded.
func IntegerGramSchmidt(B utils.IMatrix) (Q utils.IMatrix, d utils.IVector, err error) {
	var (
		nr, nc = B.Dims()
		Bf     = B.ToDense()
		star   = make([][]float64, nc)
		det    float64
	)
	Q = utils.NewIMatrix(nr, nc)
	d = make(utils.IVector, nc+1)
	d[0] = 1
	for k := 0; k < nc; k++ {
		bk := utils.ColOf(Bf, k)
		star[k] = make([]float64, nr)
		copy(star[k], bk)
		for j := 0; j < k; j++ {
			mu := floats.Dot(bk, star[j]) / floats.Dot(star[j], star[j])
			floats.AddScaled(star[k], -mu, star[j])
		}
		// minor determinant of the Gram matrix of columns 0..k
		G := mat.NewSymDense(k+1, nil)
		for i := 0; i <= k; i++ {
			for j := i; j <= k; j++ {
				G.SetSym(i, j, floats.Dot(utils.ColOf(Bf, i), utils.ColOf(Bf, j)))
			}
		}
		det = mat.Det(G)
		if d[k+1], err = utils.RoundToInt64(det); err != nil {
			return
		}
		if d[k+1] == 0 {
			err = types.Errorf(types.ErrDimension, "columns 0..%d are linearly dependent", k)
			return
		}
		scaled := make([]float64, nr)
		floats.ScaleTo(scaled, float64(d[k]), star[k])
		var (
			qk       utils.IVector
			residual float64
		)
		if qk, residual, err = utils.RoundIVector(scaled); err != nil {
			return
		}
		if residual > math.Max(1, floats.Norm(scaled, 2))*utils.RoundTol*float64(nr) {
			err = types.Errorf(types.ErrApproximation, "gram-schmidt vector %d is not integral, residual = %g", k, residual)
			return
		}
		Q.SetCol(k, qk)
	}
	return
}

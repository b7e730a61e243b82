package lattice

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/intmath"
	"github.com/notargets/gblattice/rational"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// IntegerCoordinates rounds invA*d to integers, failing when d is not a
// lattice point of the lattice whose inverse structure matrix is invA
func IntegerCoordinates(d []float64, invA mat.Matrix) (v utils.IVector, err error) {
	var (
		nd       = utils.MatVec(invA, d)
		residual float64
	)
	if v, residual, err = utils.RoundIVector(nd); err != nil {
		return
	}
	if residual > utils.RoundTol {
		err = types.Errorf(types.ErrApproximation,
			"input vector is not a lattice vector: nd = %v, rounding error = |nd-rd| = %g", nd, residual)
		return nil, err
	}
	return
}

// RationalApproximation scales nd into [-1, 1] and replaces it by the integer
// vector parallel to the best per-coordinate rational approximation
func RationalApproximation(nd []float64) (v utils.IVector, err error) {
	var (
		dim  = len(nd)
		nums = make(utils.IVector, dim)
		dens = make(utils.IVector, dim)
		den  int64
		bra  rational.Rational
	)
	v = make(utils.IVector, dim)
	if floats.Norm(nd, 2) == 0 {
		return
	}
	maxVal := 0.
	for _, x := range nd {
		maxVal = math.Max(maxVal, math.Abs(x))
	}
	scaled := make([]float64, dim)
	floats.ScaleTo(scaled, 1/maxVal, nd)
	for k, x := range scaled {
		if bra, err = rational.BestRationalApproximation(x, utils.MaxDenDirection); err != nil {
			return nil, err
		}
		nums[k], dens[k] = bra.N, bra.D
	}
	if den, err = intmath.LCMVec(dens); err != nil {
		return nil, err
	}
	for k := range v {
		if v[k], err = utils.MulInt64(nums[k], den/dens[k]); err != nil {
			return nil, err
		}
	}
	return
}

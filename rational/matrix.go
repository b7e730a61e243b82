package rational

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/intmath"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// RationalMatrix represents a real square matrix exactly as Numerator / Mu
type RationalMatrix struct {
	Numerator utils.IMatrix
	Mu        int64
}

type options struct {
	maxDen int64
}

type Option func(*options)

// WithMaxDenominator bounds the per-entry denominators searched by New
func WithMaxDenominator(maxDen int64) Option {
	return func(o *options) { o.maxDen = maxDen }
}

// New approximates R entry by entry, putting the fractions over their least
// common denominator
func New(R mat.Matrix, opts ...Option) (rm *RationalMatrix, err error) {
	var (
		o      = options{maxDen: utils.MaxDenDefault}
		nr, nc = R.Dims()
		nums   = utils.NewIMatrix(nr, nc)
		dens   = utils.NewIMatrix(nr, nc)
		sigma  = int64(1)
		bra    Rational
	)
	for _, opt := range opts {
		opt(&o)
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			if bra, err = BestRationalApproximation(R.At(i, j), o.maxDen); err != nil {
				return
			}
			nums.Set(i, j, bra.N)
			dens.Set(i, j, bra.D)
			if sigma, err = intmath.LCM(sigma, bra.D); err != nil {
				return nil, err
			}
		}
	}
	im := utils.NewIMatrix(nr, nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			var v int64
			if v, err = utils.MulInt64(nums.At(i, j), sigma/dens.At(i, j)); err != nil {
				return nil, err
			}
			im.Set(i, j, v)
		}
	}
	rm = &RationalMatrix{Numerator: im, Mu: sigma}
	var D mat.Dense
	D.Sub(rm.AsMatrix(), R)
	if e := utils.FrobeniusNorm(&D) / float64(nr*nc); e > utils.RoundTol {
		err = types.Errorf(types.ErrApproximation,
			"rational matrix failed, check maxDen: error = %g, maxDen = %d", e, o.maxDen)
		return nil, err
	}
	return
}

// Reduce builds the matrix of fractions Rn(i,j)/Rd(i,j) in lowest terms
func Reduce(Rn, Rd utils.IMatrix) (rm *RationalMatrix, err error) {
	var (
		nr, nc = Rn.Dims()
		rr, rc = Rd.Dims()
	)
	if nr != rr || nc != rc {
		err = types.Errorf(types.ErrDimension, "numerator %dx%d, denominator %dx%d", nr, nc, rr, rc)
		return
	}
	var (
		num = utils.NewIMatrix(nr, nc)
		den = utils.NewIMatrix(nr, nc)
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			n, d := Rn.At(i, j), Rd.At(i, j)
			if d == 0 {
				err = types.Errorf(types.ErrApproximation,
					"rational matrix construction failed: denominator matrix has zeros")
				return
			}
			g := intmath.GCD(n, d) * intmath.Sgn(d)
			num.Set(i, j, n/g)
			den.Set(i, j, d/g)
		}
	}
	var sigma int64
	if sigma, err = intmath.LCMVec(den.RawData()); err != nil {
		return
	}
	im := utils.NewIMatrix(nr, nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			var v int64
			if v, err = utils.MulInt64(num.At(i, j), sigma/den.At(i, j)); err != nil {
				return
			}
			im.Set(i, j, v)
		}
	}
	if g := intmath.GCD(intmath.GCDVec(im.RawData()), sigma); g != 1 && !im.Empty() {
		err = types.Errorf(types.ErrAlgebraicInconsistency, "reduced rational matrix has common factor %d", g)
		return
	}
	rm = &RationalMatrix{Numerator: im, Mu: sigma}
	return
}

// NewFromScalar pairs an integer matrix with a given common denominator
func NewFromScalar(Rn utils.IMatrix, mu int64) (rm *RationalMatrix, err error) {
	if mu == 0 {
		err = types.Errorf(types.ErrApproximation, "zero denominator")
		return
	}
	rm = &RationalMatrix{Numerator: Rn.Copy(), Mu: mu}
	return
}

func (rm *RationalMatrix) AsMatrix() (R *mat.Dense) {
	R = rm.Numerator.ToDense()
	R.Scale(1/float64(rm.Mu), R)
	return
}

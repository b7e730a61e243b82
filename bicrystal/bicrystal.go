// Package bicrystal builds the coincidence site lattice (CSL) and the
// displacement shift complete lattice (DSCL) of two lattices A and B whose
// transition matrix A^-1*B is rational, using the Smith normal form of the
// transition matrix numerator.
package bicrystal

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/intmath"
	"github.com/notargets/gblattice/lattice"
	"github.com/notargets/gblattice/lll"
	"github.com/notargets/gblattice/rational"
	"github.com/notargets/gblattice/snf"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// ExactTol bounds the relative distance between the transition matrix and
// its rational representation P/mu
const ExactTol = 1.e-13

// BiCrystal relates two parent lattices through parallel bases
//
//	CSL  = A*X*M*Uc = B*V*N*Uc
//	DSCL = A*X*N^-1*Ud = B*V*M^-1*Ud
//
// where X = U^-1 and V come from the Smith decomposition D = U*P*V of the
// transition numerator P, and Uc, Ud are the unimodular RLLL transforms of
// the CSL and DSCL bases (identity without reduction).
type BiCrystal struct {
	A, B      *lattice.Lattice
	CSL, DSCL *lattice.Lattice
	Ap, Bp    *lattice.Lattice // parallel bases A*X and B*V
	RM        *rational.RationalMatrix
	SD        *snf.SmithDecomposition
	M, N      utils.IMatrix
	SigmaA    int64 // det M
	SigmaB    int64 // det N
	Sigma     int64 // |SigmaA| if |SigmaA| == |SigmaB|, else 0
	LambdaA   utils.IMatrix
	LambdaB   utils.IMatrix
	Uc, Ud    utils.IMatrix
	// exact coordinate maps, columns are the images of basis vectors
	cslInA, cslInB, cslInD utils.IMatrix
	aInD, bInD             utils.IMatrix
	vInv, ucInv, udInv     utils.IMatrix
}

type options struct {
	maxDen   int64
	exactTol float64
	lovasz   float64
}

type Option func(*options)

// WithMaxDenominator bounds the denominators of the rational transition
// matrix
func WithMaxDenominator(maxDen int64) Option {
	return func(o *options) { o.maxDen = maxDen }
}

// WithExactTolerance replaces ExactTol
func WithExactTolerance(tol float64) Option {
	return func(o *options) { o.exactTol = tol }
}

// WithLovasz sets the reduction parameter used when useRLLL is set
func WithLovasz(delta float64) Option {
	return func(o *options) { o.lovasz = delta }
}

// inconsistent tags failures of the rational transition so that callers can
// treat every non coincident pair of lattices alike
func inconsistent(err error) error {
	if err == nil || errors.Is(err, types.ErrAlgebraicInconsistency) {
		return err
	}
	return fmt.Errorf("%w: %w", types.ErrAlgebraicInconsistency, err)
}

// New constructs the bicrystal of A and B. Construction either fully
// succeeds or returns a "bicrystal construction failed" error wrapping the
// failing check.
func New(A, B *lattice.Lattice, useRLLL bool, opts ...Option) (bc *BiCrystal, err error) {
	var (
		o = options{
			maxDen:   utils.MaxDenDefault,
			exactTol: ExactTol,
			lovasz:   lattice.Lovasz,
		}
	)
	for _, opt := range opts {
		opt(&o)
	}
	defer func() {
		if err != nil {
			bc, err = nil, types.ConstructionFailed("bicrystal", err)
		}
	}()
	if A.Dim() != B.Dim() {
		err = types.Errorf(types.ErrDimension, "lattices of dimension %d and %d", A.Dim(), B.Dim())
		return
	}
	bc = &BiCrystal{A: A, B: B}
	if err = bc.transition(o); err != nil {
		return
	}
	if err = bc.coincidence(useRLLL, o.lovasz); err != nil {
		return
	}
	if err = bc.buildMaps(); err != nil {
		return
	}
	if bc.LambdaA, bc.LambdaB, err = shiftTensors(bc.M, bc.N); err != nil {
		return
	}
	err = bc.selfCheck()
	return
}

// transition computes T = A^-1*B as P/mu, its Smith decomposition and the
// diagonal factors M, N
func (bc *BiCrystal) transition(o options) (err error) {
	var (
		dim = bc.A.Dim()
		T   = utils.MatMul(bc.A.Reciprocal.T(), bc.B.Basis)
	)
	if bc.RM, err = rational.New(T, rational.WithMaxDenominator(o.maxDen)); err != nil {
		return inconsistent(err)
	}
	if e := utils.RelDiff(bc.RM.AsMatrix(), T); e > o.exactTol {
		err = types.Errorf(types.ErrAlgebraicInconsistency,
			"transition matrix is not rational: relative error %g with mu = %d", e, bc.RM.Mu)
		return
	}
	if bc.SD, err = snf.New(bc.RM.Numerator); err != nil {
		return inconsistent(err)
	}
	bc.M, bc.N = utils.NewIdentityI(dim), utils.NewIdentityI(dim)
	mu := bc.RM.Mu
	for i := 0; i < dim; i++ {
		dii := bc.SD.D.At(i, i)
		if dii == 0 {
			err = types.Errorf(types.ErrAlgebraicInconsistency, "singular transition matrix, D = %v", bc.SD.D.Diag())
			return
		}
		g := intmath.GCD(mu, dii)
		bc.M.Set(i, i, dii/g)
		bc.N.Set(i, i, mu/g)
	}
	if bc.SigmaA, err = bc.M.Det(); err != nil {
		return inconsistent(err)
	}
	if bc.SigmaB, err = bc.N.Det(); err != nil {
		return inconsistent(err)
	}
	if utils.AbsInt64(bc.SigmaA) == utils.AbsInt64(bc.SigmaB) {
		bc.Sigma = utils.AbsInt64(bc.SigmaA)
	}
	return
}

// parallelBases returns C1 = A*X*M, C2 = B*V*N and the DSCL pair
// D1 = A*X*N^-1, D2 = B*V*M^-1
func (bc *BiCrystal) parallelBases() (C1, C2, D1, D2 *mat.Dense, err error) {
	var (
		XM, VN utils.IMatrix
		dim    = bc.A.Dim()
		Minv   = mat.NewDense(dim, dim, nil)
		Ninv   = mat.NewDense(dim, dim, nil)
	)
	if XM, err = bc.SD.X.Mul(bc.M); err != nil {
		return
	}
	if VN, err = bc.SD.V.Mul(bc.N); err != nil {
		return
	}
	for i := 0; i < dim; i++ {
		Minv.Set(i, i, 1/float64(bc.M.At(i, i)))
		Ninv.Set(i, i, 1/float64(bc.N.At(i, i)))
	}
	C1 = utils.MatMul(bc.A.Basis, XM.ToDense())
	C2 = utils.MatMul(bc.B.Basis, VN.ToDense())
	D1 = utils.MatMul(bc.A.Basis, bc.SD.X.ToDense(), Ninv)
	D2 = utils.MatMul(bc.B.Basis, bc.SD.V.ToDense(), Minv)
	return
}

// average checks that both representations of a basis agree, averages them
// and optionally reduces the result
func average(B1, B2 *mat.Dense, what string, useRLLL bool, lovasz float64) (B *mat.Dense, U utils.IMatrix, err error) {
	var (
		dim, _ = B1.Dims()
		r      *lll.RLLL
	)
	if utils.RelDiff(B1, B2) > utils.RoundTol || utils.RelDiff(B2, B1) > utils.RoundTol {
		err = types.Errorf(types.ErrAlgebraicInconsistency, "%s calculation failed, relative difference %g",
			what, utils.RelDiff(B1, B2))
		return
	}
	B = mat.NewDense(dim, dim, nil)
	B.Add(B1, B2)
	B.Scale(0.5, B)
	U = utils.NewIdentityI(dim)
	if !useRLLL {
		return
	}
	if r, err = lll.NewRLLL(B, lovasz); err != nil {
		return
	}
	U = r.UnimodularMatrix()
	B = utils.MatMul(B, U.ToDense())
	return
}

func (bc *BiCrystal) coincidence(useRLLL bool, lovasz float64) (err error) {
	var (
		C1, C2, D1, D2 *mat.Dense
		C, D           *mat.Dense
	)
	if C1, C2, D1, D2, err = bc.parallelBases(); err != nil {
		return inconsistent(err)
	}
	if C, bc.Uc, err = average(C1, C2, "CSL", useRLLL, lovasz); err != nil {
		return
	}
	if D, bc.Ud, err = average(D1, D2, "DSCL", useRLLL, lovasz); err != nil {
		return
	}
	if bc.CSL, err = lattice.NewLattice(C); err != nil {
		return
	}
	if bc.DSCL, err = lattice.NewLattice(D); err != nil {
		return
	}
	if bc.Ap, err = lattice.NewLattice(utils.MatMul(bc.A.Basis, bc.SD.X.ToDense())); err != nil {
		return
	}
	bc.Bp, err = lattice.NewLattice(utils.MatMul(bc.B.Basis, bc.SD.V.ToDense()))
	return
}

func (bc *BiCrystal) buildMaps() (err error) {
	var (
		U = bc.SD.U
		X = bc.SD.X
		V = bc.SD.V
	)
	if bc.vInv, err = V.InverseUnimodular(); err != nil {
		return
	}
	if bc.ucInv, err = bc.Uc.InverseUnimodular(); err != nil {
		return
	}
	if bc.udInv, err = bc.Ud.InverseUnimodular(); err != nil {
		return
	}
	if bc.cslInA, err = utils.MulChain(X, bc.M, bc.Uc); err != nil {
		return inconsistent(err)
	}
	if bc.cslInB, err = utils.MulChain(V, bc.N, bc.Uc); err != nil {
		return inconsistent(err)
	}
	if bc.cslInD, err = utils.MulChain(bc.udInv, bc.N, bc.M, bc.Uc); err != nil {
		return inconsistent(err)
	}
	if bc.aInD, err = utils.MulChain(bc.udInv, bc.N, U); err != nil {
		return inconsistent(err)
	}
	if bc.bInD, err = utils.MulChain(bc.udInv, bc.M, bc.vInv); err != nil {
		return inconsistent(err)
	}
	return
}

// shiftTensors solves N(i,i)*x - M(i,i)*y = -/+1 per diagonal entry. Column
// col of LambdaA is M*y and of LambdaB is N*x, so LambdaA + LambdaB = I.
func shiftTensors(M, N utils.IMatrix) (LambdaA, LambdaB utils.IMatrix, err error) {
	var (
		dim, _ = M.Dims()
	)
	LambdaA, LambdaB = utils.NewIMatrix(dim, dim), utils.NewIMatrix(dim, dim)
	for col := 0; col < dim; col++ {
		var (
			y = utils.NewIVector(dim)
			x = utils.NewIVector(dim)
		)
		for i := 0; i < dim; i++ {
			var c int64
			if i == col {
				c = 1
			}
			if _, y[i], err = intmath.SolveDiophantine2Vars(N.At(i, i), -M.At(i, i), -c); err != nil {
				return
			}
			if x[i], _, err = intmath.SolveDiophantine2Vars(N.At(i, i), -M.At(i, i), c); err != nil {
				return
			}
		}
		var colA, colB utils.IVector
		if colA, err = M.MulVec(y); err != nil {
			return
		}
		if colB, err = N.MulVec(x); err != nil {
			return
		}
		LambdaA.SetCol(col, colA)
		LambdaB.SetCol(col, colB)
	}
	return
}

// selfCheck verifies the CSL is a sublattice of A and B, A and B are
// sublattices of the DSCL, and the shift tensors add up to the identity
func (bc *BiCrystal) selfCheck() (err error) {
	checks := []struct {
		what  string
		M     *mat.Dense
		exact utils.IMatrix
	}{
		{"CSL is not a multiple of lattice A", utils.MatMul(bc.A.Reciprocal.T(), bc.CSL.Basis), bc.cslInA},
		{"CSL is not a multiple of lattice B", utils.MatMul(bc.B.Reciprocal.T(), bc.CSL.Basis), bc.cslInB},
		{"lattice A is not a multiple of the DSCL", utils.MatMul(bc.DSCL.Reciprocal.T(), bc.A.Basis), bc.aInD},
		{"lattice B is not a multiple of the DSCL", utils.MatMul(bc.DSCL.Reciprocal.T(), bc.B.Basis), bc.bInD},
	}
	for _, c := range checks {
		var R utils.IMatrix
		if R, err = utils.IntegerMatrix(c.M, c.what); err != nil {
			return
		}
		if !R.Equal(c.exact) {
			err = types.Errorf(types.ErrAlgebraicInconsistency, "%s: rounded %v, exact %v", c.what, R, c.exact)
			return
		}
	}
	var S utils.IMatrix
	if S, err = bc.LambdaA.Add(bc.LambdaB); err != nil {
		return
	}
	if !S.IsIdentity() {
		err = types.Errorf(types.ErrAlgebraicInconsistency, "LambdaA + LambdaB != I: %v", S)
	}
	return
}

func (bc *BiCrystal) String() string {
	return fmt.Sprintf("bicrystal sigma = %d (sigmaA = %d, sigmaB = %d)\nM = %v\nN = %v\n%s\n%s",
		bc.Sigma, bc.SigmaA, bc.SigmaB, bc.M.Diag(), bc.N.Diag(),
		utils.PrintDense("CSL", bc.CSL.Basis), utils.PrintDense("DSCL", bc.DSCL.Basis))
}

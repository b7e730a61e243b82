// Package snf computes Smith normal forms of integer matrices with exact
// big integer elimination
package snf

import (
	"math/big"

	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// SmithDecomposition holds D = U*P*V with U, V unimodular and D diagonal,
// non negative, each diagonal entry dividing the next. X = U^-1.
type SmithDecomposition struct {
	D, U, V, X utils.IMatrix
}

type bigMatrix [][]*big.Int

func newBigMatrix(M utils.IMatrix) (B bigMatrix) {
	nr, nc := M.Dims()
	B = make(bigMatrix, nr)
	for i := range B {
		B[i] = make([]*big.Int, nc)
		for j := range B[i] {
			B[i][j] = big.NewInt(M.At(i, j))
		}
	}
	return
}

func bigIdentity(n int) bigMatrix {
	return newBigMatrix(utils.NewIdentityI(n))
}

func (B bigMatrix) toIMatrix(what string) (M utils.IMatrix, err error) {
	M = utils.NewIMatrix(len(B), len(B[0]))
	for i := range B {
		for j := range B[i] {
			if !B[i][j].IsInt64() {
				err = types.Errorf(types.ErrIntegerOverflow, "%s(%d,%d) = %s", what, i, j, B[i][j])
				return utils.IMatrix{}, err
			}
			M.Set(i, j, B[i][j].Int64())
		}
	}
	return
}

// row_i += q*row_k
func (B bigMatrix) addRow(i, k int, q *big.Int) {
	t := new(big.Int)
	for j := range B[i] {
		B[i][j].Add(B[i][j], t.Mul(q, B[k][j]))
	}
}

// col_j += q*col_k
func (B bigMatrix) addCol(j, k int, q *big.Int) {
	t := new(big.Int)
	for i := range B {
		B[i][j].Add(B[i][j], t.Mul(q, B[i][k]))
	}
}

func (B bigMatrix) swapRows(i, k int) { B[i], B[k] = B[k], B[i] }

func (B bigMatrix) swapCols(j, k int) {
	for i := range B {
		B[i][j], B[i][k] = B[i][k], B[i][j]
	}
}

func (B bigMatrix) negRow(i int) {
	for j := range B[i] {
		B[i][j].Neg(B[i][j])
	}
}

// New decomposes P. Row operations accumulate into U and column operations
// into V, so that U*P*V = D throughout the elimination.
func New(P utils.IMatrix) (sd *SmithDecomposition, err error) {
	var (
		nr, nc = P.Dims()
		A      = newBigMatrix(P)
		U      = bigIdentity(nr)
		V      = bigIdentity(nc)
		q      = new(big.Int)
		r      = new(big.Int)
	)
	if nr == 0 || nc == 0 {
		err = types.Errorf(types.ErrDimension, "smith decomposition of an empty matrix")
		return
	}
	for t := 0; t < min(nr, nc); t++ {
		for {
			pi, pj := pivot(A, t)
			if pi < 0 {
				break
			}
			A.swapRows(t, pi)
			U.swapRows(t, pi)
			A.swapCols(t, pj)
			V.swapCols(t, pj)
			dirty := false
			for i := t + 1; i < nr; i++ {
				q.Quo(A[i][t], A[t][t])
				q.Neg(q)
				A.addRow(i, t, q)
				U.addRow(i, t, q)
				if A[i][t].Sign() != 0 {
					dirty = true
				}
			}
			for j := t + 1; j < nc; j++ {
				q.Quo(A[t][j], A[t][t])
				q.Neg(q)
				A.addCol(j, t, q)
				V.addCol(j, t, q)
				if A[t][j].Sign() != 0 {
					dirty = true
				}
			}
			if dirty {
				continue
			}
			// the pivot must divide the rest of the submatrix
			for i := t + 1; i < nr && !dirty; i++ {
				for j := t + 1; j < nc; j++ {
					if r.Rem(A[i][j], A[t][t]).Sign() != 0 {
						A.addRow(t, i, big.NewInt(1))
						U.addRow(t, i, big.NewInt(1))
						dirty = true
						break
					}
				}
			}
			if !dirty {
				break
			}
		}
		if A[t][t].Sign() < 0 {
			A.negRow(t)
			U.negRow(t)
		}
	}
	sd = &SmithDecomposition{}
	if sd.D, err = A.toIMatrix("D"); err != nil {
		return nil, err
	}
	if sd.U, err = U.toIMatrix("U"); err != nil {
		return nil, err
	}
	if sd.V, err = V.toIMatrix("V"); err != nil {
		return nil, err
	}
	if sd.X, err = sd.U.InverseUnimodular(); err != nil {
		return nil, err
	}
	if err = sd.check(P); err != nil {
		return nil, err
	}
	return
}

// pivot locates the smallest non zero entry of the trailing submatrix
func pivot(A bigMatrix, t int) (pi, pj int) {
	var (
		best *big.Int
		abs  = new(big.Int)
	)
	pi, pj = -1, -1
	for i := t; i < len(A); i++ {
		for j := t; j < len(A[i]); j++ {
			if A[i][j].Sign() == 0 {
				continue
			}
			abs.Abs(A[i][j])
			if best == nil || abs.Cmp(best) < 0 {
				best = new(big.Int).Set(abs)
				pi, pj = i, j
			}
		}
	}
	return
}

func (sd *SmithDecomposition) check(P utils.IMatrix) (err error) {
	var (
		UPV utils.IMatrix
	)
	if UPV, err = utils.MulChain(sd.U, P, sd.V); err != nil {
		return
	}
	if !UPV.Equal(sd.D) || !sd.D.IsDiagonal() {
		return types.Errorf(types.ErrAlgebraicInconsistency, "U*P*V is not the diagonal D")
	}
	diag := sd.D.Diag()
	for i := 0; i+1 < len(diag); i++ {
		if diag[i] == 0 {
			if diag[i+1] != 0 {
				return types.Errorf(types.ErrAlgebraicInconsistency, "zero D(%d,%d) precedes a non zero entry", i, i)
			}
			continue
		}
		if diag[i+1]%diag[i] != 0 {
			return types.Errorf(types.ErrAlgebraicInconsistency,
				"D(%d,%d) = %d does not divide D(%d,%d) = %d", i, i, diag[i], i+1, i+1, diag[i+1])
		}
	}
	return
}

func (sd *SmithDecomposition) MatrixD() utils.IMatrix { return sd.D }
func (sd *SmithDecomposition) MatrixU() utils.IMatrix { return sd.U }
func (sd *SmithDecomposition) MatrixV() utils.IMatrix { return sd.V }
func (sd *SmithDecomposition) MatrixX() utils.IMatrix { return sd.X }

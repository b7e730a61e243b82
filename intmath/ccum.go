package intmath

import (
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// CCUM completes the primitive vector q to an n x n unimodular matrix whose
// first column is q
func CCUM(q utils.IVector) (U utils.IMatrix, err error) {
	var (
		n = len(q)
	)
	if n < 1 {
		err = types.Errorf(types.ErrDimension, "ccum of an empty vector")
		return
	}
	if g := GCDVec(q); g != 1 || q.IsZero() {
		err = types.Errorf(types.ErrInfeasibleEquation, "ccum needs a primitive vector, gcd of %v is %d", q, g)
		return
	}
	if U, err = ccum(q); err != nil {
		return
	}
	var det int64
	if det, err = U.Det(); err != nil {
		return
	}
	if det != 1 && det != -1 {
		err = types.Errorf(types.ErrUnimodularity, "ccum(%v) has det = %d", q, det)
		return utils.IMatrix{}, err
	}
	return
}

func ccum(q utils.IVector) (U utils.IMatrix, err error) {
	var (
		n    = len(q)
		head = q[:n-1]
		last = q[n-1]
	)
	U = utils.NewIMatrix(n, n)
	if n == 1 {
		U.Set(0, 0, q[0])
		return
	}
	if head.IsZero() {
		// q = ±e_n, swap it in front of the remaining unit vectors
		U.SetCol(0, q)
		for j := 1; j < n; j++ {
			U.Set(j-1, j, 1)
		}
		return
	}
	g := GCDVec(head)
	qp := make(utils.IVector, n-1)
	for i, v := range head {
		qp[i] = v / g
	}
	var Up utils.IMatrix
	if Up, err = ccum(qp); err != nil {
		return
	}
	// g*x + last*y = 1 is solvable because q is primitive
	var x, y int64
	if x, y, err = SolveDiophantine2Vars(g, last, 1); err != nil {
		return
	}
	U.SetCol(0, q)
	for j := 1; j < n-1; j++ {
		for i := 0; i < n-1; i++ {
			U.Set(i, j, Up.At(i, j))
		}
	}
	for i := 0; i < n-1; i++ {
		var v int64
		if v, err = utils.MulInt64(-y, qp[i]); err != nil {
			return utils.IMatrix{}, err
		}
		U.Set(i, n-1, v)
	}
	U.Set(n-1, n-1, x)
	return
}

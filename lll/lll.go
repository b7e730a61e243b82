// Package lll reduces lattice bases with the Lenstra-Lenstra-Lovasz
// algorithm, exactly over integer bases and with a permutation search over
// real bases
package lll

import (
	"math/big"

	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// LLL is the exact reduction of an integer basis. Columns are basis vectors;
// ReducedBasis = Basis * UnimodularMatrix.
type LLL struct {
	ReducedBasis     utils.IMatrix
	UnimodularMatrix utils.IMatrix
}

func checkDelta(delta float64) (err error) {
	if delta < 0.5 || delta > 1 {
		err = types.Errorf(types.ErrDimension, "lovasz parameter delta = %g not in [0.5, 1]", delta)
	}
	return
}

type column []*big.Int

func toColumns(B utils.IMatrix) (cols []column) {
	nr, nc := B.Dims()
	cols = make([]column, nc)
	for j := range cols {
		cols[j] = make(column, nr)
		for i := 0; i < nr; i++ {
			cols[j][i] = big.NewInt(B.At(i, j))
		}
	}
	return
}

func fromColumns(cols []column, what string) (B utils.IMatrix, err error) {
	B = utils.NewIMatrix(len(cols[0]), len(cols))
	for j, c := range cols {
		for i, v := range c {
			if !v.IsInt64() {
				err = types.Errorf(types.ErrIntegerOverflow, "%s(%d,%d) = %s", what, i, j, v)
				return utils.IMatrix{}, err
			}
			B.Set(i, j, v.Int64())
		}
	}
	return
}

// gramSchmidt returns mu(i,j) and the squared norms of the orthogonalized
// columns, all exact
func gramSchmidt(b []column) (mu [][]*big.Rat, H []*big.Rat) {
	var (
		n    = len(b)
		star = make([][]*big.Rat, n)
	)
	mu = make([][]*big.Rat, n)
	H = make([]*big.Rat, n)
	for i := 0; i < n; i++ {
		mu[i] = make([]*big.Rat, n)
		star[i] = make([]*big.Rat, len(b[i]))
		for l := range b[i] {
			star[i][l] = new(big.Rat).SetInt(b[i][l])
		}
		for j := 0; j < i; j++ {
			num := new(big.Rat)
			for l := range b[i] {
				num.Add(num, new(big.Rat).Mul(new(big.Rat).SetInt(b[i][l]), star[j][l]))
			}
			mu[i][j] = num.Quo(num, H[j])
			for l := range star[i] {
				star[i][l].Sub(star[i][l], new(big.Rat).Mul(mu[i][j], star[j][l]))
			}
		}
		mu[i][i] = big.NewRat(1, 1)
		H[i] = new(big.Rat)
		for l := range star[i] {
			H[i].Add(H[i], new(big.Rat).Mul(star[i][l], star[i][l]))
		}
	}
	return
}

// roundRat is floor(x + 1/2), only applied when |x| > 1/2
func roundRat(x *big.Rat) (r *big.Int) {
	h := new(big.Rat).Add(x, big.NewRat(1, 2))
	r = new(big.Int).Div(h.Num(), h.Denom())
	return
}

// subMul performs a -= q*b
func subMul(a, b column, q *big.Int) {
	t := new(big.Int)
	for i := range a {
		a[i].Sub(a[i], t.Mul(q, b[i]))
	}
}

// NewLLL reduces the columns of B, which must be linearly independent
func NewLLL(B utils.IMatrix, delta float64) (lr *LLL, err error) {
	var (
		_, n = B.Dims()
		b    = toColumns(B)
		u    = toColumns(utils.NewIdentityI(n))
		dlt  = new(big.Rat)
		G    utils.IMatrix
		half = big.NewRat(1, 2)
	)
	if err = checkDelta(delta); err != nil {
		return
	}
	dlt.SetFloat64(delta)
	if G, err = B.Transpose().Mul(B); err != nil {
		return
	}
	if G.DetBig().Sign() == 0 {
		err = types.Errorf(types.ErrDimension, "LLL basis columns are linearly dependent")
		return
	}
	k := 1
	for k < n {
		for j := k - 1; j >= 0; j-- {
			mu, _ := gramSchmidt(b)
			if new(big.Rat).Abs(mu[k][j]).Cmp(half) > 0 {
				q := roundRat(mu[k][j])
				subMul(b[k], b[j], q)
				subMul(u[k], u[j], q)
			}
		}
		mu, H := gramSchmidt(b)
		// Lovasz condition H_k >= (delta - mu^2) H_(k-1)
		rhs := new(big.Rat).Mul(mu[k][k-1], mu[k][k-1])
		rhs.Sub(dlt, rhs)
		rhs.Mul(rhs, H[k-1])
		if H[k].Cmp(rhs) >= 0 {
			k++
		} else {
			b[k], b[k-1] = b[k-1], b[k]
			u[k], u[k-1] = u[k-1], u[k]
			k = max(k-1, 1)
		}
	}
	lr = &LLL{}
	if lr.ReducedBasis, err = fromColumns(b, "reduced basis"); err != nil {
		return nil, err
	}
	if lr.UnimodularMatrix, err = fromColumns(u, "unimodular matrix"); err != nil {
		return nil, err
	}
	return
}

// IsSizeReduced reports |mu(i,j)| <= 1/2 for all j < i
func IsSizeReduced(B utils.IMatrix) bool {
	mu, _ := gramSchmidt(toColumns(B))
	half := big.NewRat(1, 2)
	for i := range mu {
		for j := 0; j < i; j++ {
			if new(big.Rat).Abs(mu[i][j]).Cmp(half) > 0 {
				return false
			}
		}
	}
	return true
}

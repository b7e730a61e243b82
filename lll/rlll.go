package lll

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// RLLL reduces a real d x n basis (n <= d). ReducedBasis = B0 * U up to
// rounding, with U unimodular.
type RLLL struct {
	B *mat.Dense
	U utils.IMatrix
}

func (r *RLLL) ReducedBasis() *mat.Dense        { return r.B }
func (r *RLLL) UnimodularMatrix() utils.IMatrix { return r.U }

func NewRLLL(B0 mat.Matrix, delta float64) (r *RLLL, err error) {
	var (
		dim, n = B0.Dims()
	)
	if err = checkDelta(delta); err != nil {
		return
	}
	if n > dim || n == 0 {
		err = types.Errorf(types.ErrDimension, "RLLL needs 0 < columns <= rows, have %dx%d", dim, n)
		return
	}
	if n < dim {
		return reduceProjected(B0, delta)
	}
	return reduceSquare(mat.DenseCopyOf(B0), delta)
}

// reduceProjected reduces a basis of a proper subspace in an orthonormal
// frame of that subspace
func reduceProjected(B0 mat.Matrix, delta float64) (r *RLLL, err error) {
	var (
		dim, n  = B0.Dims()
		qr      mat.QR
		Q       mat.Dense
		inFrame mat.Dense
		sub     *RLLL
	)
	qr.Factorize(B0)
	qr.QTo(&Q)
	frame := mat.DenseCopyOf(Q.Slice(0, dim, 0, n))
	inFrame.Mul(frame.T(), B0)
	if sub, err = reduceSquare(&inFrame, delta); err != nil {
		return
	}
	r = &RLLL{B: mat.NewDense(dim, n, nil), U: sub.U}
	r.B.Mul(frame, sub.B)
	return
}

type reducer struct {
	B *mat.Dense
	U utils.IMatrix
}

func (rd *reducer) sizeReduce(M *mat.Dense, k, j int) (err error) {
	var (
		c   int64
		dim = rd.B.RawMatrix().Rows
		uk  utils.IVector
		ujc utils.IVector
	)
	if c, err = utils.RoundToInt64(M.At(k, j)); err != nil {
		return
	}
	for i := 0; i < dim; i++ {
		rd.B.Set(i, k, rd.B.At(i, k)-float64(c)*rd.B.At(i, j))
	}
	if ujc, err = rd.U.Col(j).Scale(c); err != nil {
		return
	}
	if uk, err = rd.U.Col(k).Sub(ujc); err != nil {
		return
	}
	rd.U.SetCol(k, uk)
	for l := 0; l <= j; l++ {
		M.Set(k, l, M.At(k, l)-float64(c)*M.At(j, l))
	}
	return
}

func (rd *reducer) swap(k int) {
	var (
		bk  = utils.ColOf(rd.B, k)
		bk1 = utils.ColOf(rd.B, k-1)
		uk  = rd.U.Col(k)
	)
	rd.B.SetCol(k, bk1)
	rd.B.SetCol(k-1, bk)
	rd.U.SetCol(k, rd.U.Col(k-1))
	rd.U.SetCol(k-1, uk)
}

// update swaps columns k-1, k and refreshes the Gram-Schmidt data
func (rd *reducer) update(H []float64, M *mat.Dense, k int) {
	var (
		n  = len(H)
		H1 = make([]float64, n)
		M1 = mat.DenseCopyOf(M)
	)
	copy(H1, H)
	H1[k-1] = H[k] + math.Pow(M.At(k, k-1), 2)*H[k-1]
	M1.Set(k, k-1, M.At(k, k-1)*H[k-1]/H1[k-1])
	H1[k] = H[k-1] - math.Pow(M1.At(k, k-1), 2)*H1[k-1]
	for i := k + 1; i < n; i++ {
		M1.Set(i, k-1, M.At(i, k-1)*M1.At(k, k-1)+M.At(i, k)*H[k]/H1[k-1])
		M1.Set(i, k, M.At(i, k-1)-M.At(i, k)*M.At(k, k-1))
	}
	for j := 0; j <= k-2; j++ {
		M1.Set(k-1, j, M.At(k, j))
		M1.Set(k, j, M.At(k-1, j))
	}
	copy(H, H1)
	M.Copy(M1)
	rd.swap(k)
}

func (rd *reducer) reduce(delta float64) (err error) {
	var (
		_, n = rd.B.Dims()
		H    = make([]float64, n)
		M    = utils.Identity(n)
	)
	for j := 0; j < n; j++ {
		bj := utils.ColOf(rd.B, j)
		H[j] = utils.Dot(bj, bj)
	}
	for j := 0; j < n; j++ {
		for i := j + 1; i < n; i++ {
			var temp float64
			for k := 0; k < j; k++ {
				temp += M.At(j, k) * M.At(i, k) * H[k]
			}
			M.Set(i, j, (utils.Dot(utils.ColOf(rd.B, i), utils.ColOf(rd.B, j))-temp)/H[j])
			H[i] -= math.Pow(M.At(i, j), 2) * H[j]
		}
	}
	k := 1
	for k < n {
		if math.Abs(M.At(k, k-1)) > 0.5 {
			if err = rd.sizeReduce(M, k, k-1); err != nil {
				return
			}
		}
		if H[k] < (delta-math.Pow(M.At(k, k-1), 2))*H[k-1] {
			rd.update(H, M, k)
			k = max(1, k-1)
		} else {
			for j := k - 2; j >= 0; j-- {
				if math.Abs(M.At(k, j)) > 0.5 {
					if err = rd.sizeReduce(M, k, j); err != nil {
						return
					}
				}
			}
			k++
		}
	}
	return
}

// permutations lists every ordering of n columns, the identity first
func permutations(n int) (perms [][]int) {
	perms = [][]int{identityPerm(n)}
	for _, p := range combin.Permutations(n, n) {
		if !isIdentityPerm(p) {
			perms = append(perms, p)
		}
	}
	return
}

func identityPerm(n int) (p []int) {
	p = make([]int, n)
	for i := range p {
		p[i] = i
	}
	return
}

func isIdentityPerm(p []int) bool {
	for i, v := range p {
		if i != v {
			return false
		}
	}
	return true
}

func reduceSquare(B0 *mat.Dense, delta float64) (r *RLLL, err error) {
	var (
		_, n     = B0.Dims()
		relErr   = math.Inf(1)
		absDetU  float64
		lastFail error
	)
	for pass := 0; pass < 2; pass++ {
		scale := 1.
		if pass == 1 {
			scale = utils.FrobeniusNorm(B0)
		}
		for _, perm := range permutations(n) {
			rd := &reducer{B: mat.NewDense(n, n, nil), U: utils.NewIdentityI(n)}
			preU := utils.NewIMatrix(n, n)
			for i := 0; i < n; i++ {
				col := utils.ColOf(B0, perm[i])
				for l := range col {
					col[l] /= scale
				}
				rd.B.SetCol(i, col)
				preU.Set(perm[i], i, 1)
			}
			if lastFail = rd.reduce(delta); lastFail != nil {
				continue
			}
			var U utils.IMatrix
			if U, lastFail = preU.Mul(rd.U); lastFail != nil {
				continue
			}
			// B0^-1 * scale * B must reproduce U
			var (
				scaled, sol mat.Dense
				Uf          = U.ToDense()
			)
			scaled.Scale(scale, rd.B)
			if lastFail = sol.Solve(B0, &scaled); lastFail != nil {
				lastFail = types.Errorf(types.ErrDimension, "singular basis: %v", lastFail)
				continue
			}
			relErr = utils.RelDiff(&sol, Uf)
			absDetU = math.Abs(mat.Det(Uf))
			if relErr < utils.RoundTol && math.Abs(absDetU-1) < utils.RoundTol {
				r = &RLLL{B: &scaled, U: U}
				return
			}
		}
	}
	switch {
	case lastFail != nil && math.IsInf(relErr, 1):
		err = lastFail
	case relErr > utils.RoundTol:
		err = types.Errorf(types.ErrAlgebraicInconsistency,
			"relative error too large, RLLL failed: error = %g > %g", relErr, utils.RoundTol)
	default:
		err = types.Errorf(types.ErrUnimodularity, "U is not unimodular, RLLL failed: |det(U)| = %g", absDetU)
	}
	return
}

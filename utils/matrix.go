package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/types"
)

// NewDenseFromCols builds a matrix whose columns are the given vectors
func NewDenseFromCols(cols ...[]float64) (R *mat.Dense) {
	var (
		nc = len(cols)
	)
	if nc == 0 {
		panic("no columns")
	}
	nr := len(cols[0])
	R = mat.NewDense(nr, nc, nil)
	for j, c := range cols {
		if len(c) != nr {
			panic(fmt.Errorf("column %d has length %d, want %d", j, len(c), nr))
		}
		R.SetCol(j, c)
	}
	return
}

// NewDenseFromRows builds a matrix from row major nested slices
func NewDenseFromRows(rows [][]float64) (R *mat.Dense) {
	nr := len(rows)
	if nr == 0 {
		panic("no rows")
	}
	nc := len(rows[0])
	R = mat.NewDense(nr, nc, nil)
	for i, r := range rows {
		if len(r) != nc {
			panic(fmt.Errorf("row %d has length %d, want %d", i, len(r), nc))
		}
		R.SetRow(i, r)
	}
	return
}

func ColOf(M mat.Matrix, j int) (c []float64) {
	nr, _ := M.Dims()
	c = make([]float64, nr)
	mat.Col(c, j, M)
	return
}

func Identity(N int) (R *mat.Dense) {
	R = mat.NewDense(N, N, nil)
	for i := 0; i < N; i++ {
		R.Set(i, i, 1)
	}
	return
}

// MatMul multiplies left to right
func MatMul(ms ...mat.Matrix) (R *mat.Dense) {
	if len(ms) == 0 {
		panic("nothing to multiply")
	}
	R = mat.DenseCopyOf(ms[0])
	for _, m := range ms[1:] {
		var P mat.Dense
		P.Mul(R, m)
		R = &P
	}
	return
}

func MatVec(M mat.Matrix, v []float64) (r []float64) {
	var (
		nr, _ = M.Dims()
		rv    = mat.NewVecDense(nr, nil)
	)
	rv.MulVec(M, mat.NewVecDense(len(v), v))
	r = rv.RawVector().Data
	return
}

// InverseTranspose returns M^-T, failing on a singular matrix
func InverseTranspose(M mat.Matrix) (R *mat.Dense, err error) {
	var (
		inv mat.Dense
	)
	if err = inv.Inverse(M); err != nil {
		err = types.Errorf(types.ErrDimension, "singular basis: %v", err)
		return
	}
	R = mat.DenseCopyOf(inv.T())
	return
}

func Inverse(M mat.Matrix) (R *mat.Dense, err error) {
	var (
		inv mat.Dense
	)
	if err = inv.Inverse(M); err != nil {
		err = types.Errorf(types.ErrDimension, "singular matrix: %v", err)
		return
	}
	R = &inv
	return
}

// FrobeniusNorm is the Euclidean norm of all entries
func FrobeniusNorm(M mat.Matrix) float64 {
	return mat.Norm(M, 2)
}

func MaxAbs(M mat.Matrix) (m float64) {
	var (
		nr, nc = M.Dims()
	)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			m = math.Max(m, math.Abs(M.At(i, j)))
		}
	}
	return
}

// RelDiff is ||A-B|| / ||B|| in the Frobenius norm, falling back to the
// absolute difference when B vanishes
func RelDiff(A, B mat.Matrix) float64 {
	var (
		D mat.Dense
	)
	D.Sub(A, B)
	nb := FrobeniusNorm(B)
	if nb == 0 {
		return FrobeniusNorm(&D)
	}
	return FrobeniusNorm(&D) / nb
}

// RoundIMatrix rounds every entry and returns the Frobenius norm of the
// rounding residual
func RoundIMatrix(M mat.Matrix) (R IMatrix, residual float64, err error) {
	var (
		nr, nc = M.Dims()
		v      int64
	)
	R = NewIMatrix(nr, nc)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			x := M.At(i, j)
			if v, err = RoundToInt64(x); err != nil {
				return IMatrix{}, 0, err
			}
			R.Set(i, j, v)
			residual += (x - float64(v)) * (x - float64(v))
		}
	}
	residual = math.Sqrt(residual)
	return
}

// IntegerMatrix rounds M and fails with ErrAlgebraicInconsistency unless the
// relative rounding residual is below RoundTol
func IntegerMatrix(M mat.Matrix, what string) (R IMatrix, err error) {
	var (
		residual float64
	)
	if R, residual, err = RoundIMatrix(M); err != nil {
		return
	}
	scale := math.Max(1, FrobeniusNorm(M))
	if residual/scale > RoundTol {
		err = types.Errorf(types.ErrAlgebraicInconsistency, "%s: rounding error = %g", what, residual/scale)
		return IMatrix{}, err
	}
	return
}

// RoundIVector rounds a real vector, returning the Euclidean residual
func RoundIVector(x []float64) (v IVector, residual float64, err error) {
	v = make(IVector, len(x))
	for i, val := range x {
		if v[i], err = RoundToInt64(val); err != nil {
			return nil, 0, err
		}
		residual += (val - float64(v[i])) * (val - float64(v[i]))
	}
	residual = math.Sqrt(residual)
	return
}

func Norm(x []float64) float64 {
	return floats.Norm(x, 2)
}

func Dot(a, b []float64) float64 {
	return floats.Dot(a, b)
}

// Cross3 is the 3-D cross product
func Cross3(a, b []float64) (c []float64) {
	if len(a) != 3 || len(b) != 3 {
		panic(fmt.Errorf("cross product needs 3-vectors, have %d and %d", len(a), len(b)))
	}
	c = []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
	return
}

// GramDet2 is the determinant of the 2x2 Gram matrix of a and b, the squared
// area of the parallelogram they span
func GramDet2(a, b []float64) float64 {
	var (
		aa = floats.Dot(a, a)
		bb = floats.Dot(b, b)
		ab = floats.Dot(a, b)
	)
	return aa*bb - ab*ab
}

// AngleDeg is the angle between a and b in degrees
func AngleDeg(a, b []float64) float64 {
	c := floats.Dot(a, b) / (floats.Norm(a, 2) * floats.Norm(b, 2))
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

func PrintDense(name string, M mat.Matrix) string {
	return fmt.Sprintf("%s = \n%v", name, mat.Formatted(M, mat.Squeeze()))
}

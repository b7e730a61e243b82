package utils

import (
	"fmt"
	"math/big"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/types"
)

// IVector is an exact integer coordinate tuple
type IVector []int64

func NewIVector(N int, dataO ...[]int64) (v IVector) {
	v = make(IVector, N)
	if len(dataO) != 0 {
		if len(dataO[0]) != N {
			panic(fmt.Errorf("mismatch in allocation: NewIVector N = %v, len(data[0]) = %v", N, len(dataO[0])))
		}
		copy(v, dataO[0])
	}
	return
}

func (v IVector) Copy() (r IVector) {
	r = make(IVector, len(v))
	copy(r, v)
	return
}

func (v IVector) IsZero() bool {
	for _, val := range v {
		if val != 0 {
			return false
		}
	}
	return true
}

func (v IVector) Equal(o IVector) bool {
	if len(v) != len(o) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}

func (v IVector) Neg() (r IVector) {
	r = make(IVector, len(v))
	for i, val := range v {
		r[i] = -val
	}
	return
}

func (v IVector) Dot(o IVector) (d int64, err error) {
	var p int64
	if len(v) != len(o) {
		err = types.Errorf(types.ErrDimension, "dot of %d and %d vectors", len(v), len(o))
		return
	}
	for i := range v {
		if p, err = MulInt64(v[i], o[i]); err != nil {
			return
		}
		if d, err = AddInt64(d, p); err != nil {
			return
		}
	}
	return
}

func (v IVector) Add(o IVector) (r IVector, err error) {
	if len(v) != len(o) {
		err = types.Errorf(types.ErrDimension, "sum of %d and %d vectors", len(v), len(o))
		return
	}
	r = make(IVector, len(v))
	for i := range v {
		if r[i], err = AddInt64(v[i], o[i]); err != nil {
			return nil, err
		}
	}
	return
}

func (v IVector) Sub(o IVector) (r IVector, err error) {
	if len(v) != len(o) {
		err = types.Errorf(types.ErrDimension, "difference of %d and %d vectors", len(v), len(o))
		return
	}
	r = make(IVector, len(v))
	for i := range v {
		if r[i], err = SubInt64(v[i], o[i]); err != nil {
			return nil, err
		}
	}
	return
}

func (v IVector) Scale(s int64) (r IVector, err error) {
	r = make(IVector, len(v))
	for i := range v {
		if r[i], err = MulInt64(v[i], s); err != nil {
			return nil, err
		}
	}
	return
}

func (v IVector) ToFloat() (f []float64) {
	f = make([]float64, len(v))
	for i, val := range v {
		f[i] = float64(val)
	}
	return
}

func (v IVector) ToVec() *mat.VecDense {
	return mat.NewVecDense(len(v), v.ToFloat())
}

// IMatrix is a dense row-major integer matrix with overflow checked products
type IMatrix struct {
	nr, nc int
	data   []int64
}

func NewIMatrix(nr, nc int, dataO ...[]int64) (R IMatrix) {
	R = IMatrix{nr: nr, nc: nc, data: make([]int64, nr*nc)}
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			panic(fmt.Errorf("mismatch in allocation: NewIMatrix nr,nc = %v,%v, len(data[0]) = %v",
				nr, nc, len(dataO[0])))
		}
		copy(R.data, dataO[0])
	}
	return
}

func NewIdentityI(N int) (R IMatrix) {
	R = NewIMatrix(N, N)
	for i := 0; i < N; i++ {
		R.Set(i, i, 1)
	}
	return
}

func NewDiagI(diag IVector) (R IMatrix) {
	N := len(diag)
	R = NewIMatrix(N, N)
	for i := 0; i < N; i++ {
		R.Set(i, i, diag[i])
	}
	return
}

// NewIMatrixFromCols stacks equally sized column vectors
func NewIMatrixFromCols(cols ...IVector) (R IMatrix) {
	if len(cols) == 0 {
		return
	}
	R = NewIMatrix(len(cols[0]), len(cols))
	for j, c := range cols {
		R.SetCol(j, c)
	}
	return
}

func (m IMatrix) Dims() (r, c int)      { return m.nr, m.nc }
func (m IMatrix) At(i, j int) int64     { return m.data[i*m.nc+j] }
func (m IMatrix) Set(i, j int, v int64) { m.data[i*m.nc+j] = v }
func (m IMatrix) RawData() []int64      { return m.data }
func (m IMatrix) IsSquare() bool        { return m.nr == m.nc }
func (m IMatrix) Diag() (d IVector)     { return m.diag() }
func (m IMatrix) Trace() (t int64)      { return m.trace() }
func (m IMatrix) Empty() bool           { return len(m.data) == 0 }

func (m IMatrix) diag() (d IVector) {
	n := min(m.nr, m.nc)
	d = make(IVector, n)
	for i := 0; i < n; i++ {
		d[i] = m.At(i, i)
	}
	return
}

func (m IMatrix) trace() (t int64) {
	for _, v := range m.diag() {
		t += v
	}
	return
}

func (m IMatrix) Col(j int) (c IVector) {
	c = make(IVector, m.nr)
	for i := 0; i < m.nr; i++ {
		c[i] = m.At(i, j)
	}
	return
}

func (m IMatrix) Row(i int) (r IVector) {
	r = make(IVector, m.nc)
	copy(r, m.data[i*m.nc:(i+1)*m.nc])
	return
}

func (m IMatrix) SetCol(j int, c IVector) {
	if len(c) != m.nr {
		panic(fmt.Errorf("SetCol: column length %d, matrix rows %d", len(c), m.nr))
	}
	for i := 0; i < m.nr; i++ {
		m.Set(i, j, c[i])
	}
}

func (m IMatrix) SetRow(i int, r IVector) {
	if len(r) != m.nc {
		panic(fmt.Errorf("SetRow: row length %d, matrix cols %d", len(r), m.nc))
	}
	copy(m.data[i*m.nc:(i+1)*m.nc], r)
}

func (m IMatrix) Copy() (R IMatrix) {
	R = NewIMatrix(m.nr, m.nc, m.data)
	return
}

func (m IMatrix) Transpose() (R IMatrix) {
	R = NewIMatrix(m.nc, m.nr)
	for i := 0; i < m.nr; i++ {
		for j := 0; j < m.nc; j++ {
			R.Set(j, i, m.At(i, j))
		}
	}
	return
}

func (m IMatrix) Neg() (R IMatrix) {
	R = NewIMatrix(m.nr, m.nc)
	for i, v := range m.data {
		R.data[i] = -v
	}
	return
}

func (m IMatrix) Equal(o IMatrix) bool {
	if m.nr != o.nr || m.nc != o.nc {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

func (m IMatrix) IsIdentity() bool {
	if !m.IsSquare() {
		return false
	}
	for i := 0; i < m.nr; i++ {
		for j := 0; j < m.nc; j++ {
			if (i == j && m.At(i, j) != 1) || (i != j && m.At(i, j) != 0) {
				return false
			}
		}
	}
	return true
}

func (m IMatrix) IsDiagonal() bool {
	for i := 0; i < m.nr; i++ {
		for j := 0; j < m.nc; j++ {
			if i != j && m.At(i, j) != 0 {
				return false
			}
		}
	}
	return true
}

func (m IMatrix) Add(o IMatrix) (R IMatrix, err error) {
	if m.nr != o.nr || m.nc != o.nc {
		err = types.Errorf(types.ErrDimension, "add %dx%d and %dx%d", m.nr, m.nc, o.nr, o.nc)
		return
	}
	R = NewIMatrix(m.nr, m.nc)
	for i := range m.data {
		if R.data[i], err = AddInt64(m.data[i], o.data[i]); err != nil {
			return IMatrix{}, err
		}
	}
	return
}

func (m IMatrix) Sub(o IMatrix) (R IMatrix, err error) {
	if m.nr != o.nr || m.nc != o.nc {
		err = types.Errorf(types.ErrDimension, "subtract %dx%d and %dx%d", m.nr, m.nc, o.nr, o.nc)
		return
	}
	R = NewIMatrix(m.nr, m.nc)
	for i := range m.data {
		if R.data[i], err = SubInt64(m.data[i], o.data[i]); err != nil {
			return IMatrix{}, err
		}
	}
	return
}

func (m IMatrix) Scale(s int64) (R IMatrix, err error) {
	R = NewIMatrix(m.nr, m.nc)
	for i := range m.data {
		if R.data[i], err = MulInt64(m.data[i], s); err != nil {
			return IMatrix{}, err
		}
	}
	return
}

func (m IMatrix) Mul(o IMatrix) (R IMatrix, err error) {
	var p int64
	if m.nc != o.nr {
		err = types.Errorf(types.ErrDimension, "multiply %dx%d by %dx%d", m.nr, m.nc, o.nr, o.nc)
		return
	}
	R = NewIMatrix(m.nr, o.nc)
	for i := 0; i < m.nr; i++ {
		for j := 0; j < o.nc; j++ {
			var sum int64
			for k := 0; k < m.nc; k++ {
				if p, err = MulInt64(m.At(i, k), o.At(k, j)); err != nil {
					return IMatrix{}, err
				}
				if sum, err = AddInt64(sum, p); err != nil {
					return IMatrix{}, err
				}
			}
			R.Set(i, j, sum)
		}
	}
	return
}

// MulChain multiplies left to right, stopping at the first overflow
func MulChain(ms ...IMatrix) (R IMatrix, err error) {
	if len(ms) == 0 {
		return
	}
	R = ms[0]
	for _, m := range ms[1:] {
		if R, err = R.Mul(m); err != nil {
			return
		}
	}
	return
}

func (m IMatrix) MulVec(v IVector) (r IVector, err error) {
	var p int64
	if m.nc != len(v) {
		err = types.Errorf(types.ErrDimension, "multiply %dx%d by vector of length %d", m.nr, m.nc, len(v))
		return
	}
	r = make(IVector, m.nr)
	for i := 0; i < m.nr; i++ {
		var sum int64
		for k := 0; k < m.nc; k++ {
			if p, err = MulInt64(m.At(i, k), v[k]); err != nil {
				return nil, err
			}
			if sum, err = AddInt64(sum, p); err != nil {
				return nil, err
			}
		}
		r[i] = sum
	}
	return
}

func (m IMatrix) toBig() (B [][]*big.Int) {
	B = make([][]*big.Int, m.nr)
	for i := 0; i < m.nr; i++ {
		B[i] = make([]*big.Int, m.nc)
		for j := 0; j < m.nc; j++ {
			B[i][j] = big.NewInt(m.At(i, j))
		}
	}
	return
}

// bareiss computes the determinant of a square big integer matrix exactly,
// using fraction free elimination. The input is overwritten.
func bareiss(B [][]*big.Int) (det *big.Int) {
	var (
		n    = len(B)
		prev = big.NewInt(1)
		sign = 1
		t1   = new(big.Int)
		t2   = new(big.Int)
	)
	if n == 0 {
		return big.NewInt(1)
	}
	for k := 0; k < n-1; k++ {
		if B[k][k].Sign() == 0 {
			swapped := false
			for i := k + 1; i < n; i++ {
				if B[i][k].Sign() != 0 {
					B[i], B[k] = B[k], B[i]
					sign = -sign
					swapped = true
					break
				}
			}
			if !swapped {
				return big.NewInt(0)
			}
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				t1.Mul(B[i][j], B[k][k])
				t2.Mul(B[i][k], B[k][j])
				t1.Sub(t1, t2)
				B[i][j] = new(big.Int).Quo(t1, prev)
			}
		}
		prev = B[k][k]
	}
	det = new(big.Int).Set(B[n-1][n-1])
	if sign < 0 {
		det.Neg(det)
	}
	return
}

func bigToInt64(b *big.Int, what string) (i int64, err error) {
	if !b.IsInt64() {
		err = types.Errorf(types.ErrIntegerOverflow, "%s = %s does not fit in int64", what, b.String())
		return
	}
	i = b.Int64()
	return
}

// DetBig returns the exact determinant as a big integer
func (m IMatrix) DetBig() (det *big.Int) {
	if !m.IsSquare() {
		panic(fmt.Errorf("determinant of non square %dx%d matrix", m.nr, m.nc))
	}
	return bareiss(m.toBig())
}

func (m IMatrix) Det() (det int64, err error) {
	return bigToInt64(m.DetBig(), "determinant")
}

func (m IMatrix) minorBig(row, col int) (det *big.Int) {
	var (
		n = m.nr
		B = make([][]*big.Int, 0, n-1)
	)
	for i := 0; i < n; i++ {
		if i == row {
			continue
		}
		r := make([]*big.Int, 0, n-1)
		for j := 0; j < n; j++ {
			if j == col {
				continue
			}
			r = append(r, big.NewInt(m.At(i, j)))
		}
		B = append(B, r)
	}
	return bareiss(B)
}

// Adjugate returns adj(m), with m*adj(m) = det(m)*I
func (m IMatrix) Adjugate() (R IMatrix, err error) {
	if !m.IsSquare() {
		err = types.Errorf(types.ErrDimension, "adjugate of non square %dx%d matrix", m.nr, m.nc)
		return
	}
	n := m.nr
	R = NewIMatrix(n, n)
	if n == 1 {
		R.Set(0, 0, 1)
		return
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := m.minorBig(i, j)
			if (i+j)%2 == 1 {
				c.Neg(c)
			}
			var v int64
			if v, err = bigToInt64(c, "cofactor"); err != nil {
				return IMatrix{}, err
			}
			R.Set(j, i, v)
		}
	}
	return
}

// InverseUnimodular returns the exact integer inverse of a matrix with det ±1
func (m IMatrix) InverseUnimodular() (R IMatrix, err error) {
	var (
		det int64
		adj IMatrix
	)
	if det, err = m.Det(); err != nil {
		return
	}
	if det != 1 && det != -1 {
		err = types.Errorf(types.ErrUnimodularity, "det = %d", det)
		return
	}
	if adj, err = m.Adjugate(); err != nil {
		return
	}
	return adj.Scale(det)
}

// ToDense converts to a gonum float matrix
func (m IMatrix) ToDense() (D *mat.Dense) {
	D = mat.NewDense(m.nr, m.nc, nil)
	for i := 0; i < m.nr; i++ {
		for j := 0; j < m.nc; j++ {
			D.Set(i, j, float64(m.At(i, j)))
		}
	}
	return
}

func (m IMatrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.nr; i++ {
		for j := 0; j < m.nc; j++ {
			if j != 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%d", m.At(i, j))
		}
		if i != m.nr-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

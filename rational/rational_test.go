package rational

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

func TestBestRationalApproximation(t *testing.T) {
	{
		r, err := BestRationalApproximation(0.8, 1000)
		require.NoError(t, err)
		assert.Equal(t, Rational{4, 5}, r)
		r, err = BestRationalApproximation(-1./3., 1000)
		require.NoError(t, err)
		assert.Equal(t, Rational{-1, 3}, r)
		r, err = BestRationalApproximation(2, 10)
		require.NoError(t, err)
		assert.Equal(t, Rational{2, 1}, r)
		r, err = BestRationalApproximation(0, 10)
		require.NoError(t, err)
		assert.Equal(t, Rational{0, 1}, r)
	}
	{ // Bounded denominators
		r, err := BestRationalApproximation(math.Pi, 100)
		require.NoError(t, err)
		assert.Equal(t, Rational{311, 99}, r)
		r, err = BestRationalApproximation(math.Pi, 1000)
		require.NoError(t, err)
		assert.Equal(t, Rational{355, 113}, r)
		r, err = BestRationalApproximation(math.Pi, 7)
		require.NoError(t, err)
		assert.Equal(t, Rational{22, 7}, r)
	}
	{
		_, err := BestRationalApproximation(math.NaN(), 10)
		assert.True(t, errors.Is(err, types.ErrApproximation))
		_, err = BestRationalApproximation(1, 0)
		assert.True(t, errors.Is(err, types.ErrApproximation))
	}
	{ // Large magnitudes
		r, err := BestRationalApproximation(1.e13+0.5, 10)
		require.NoError(t, err)
		assert.Equal(t, Rational{20000000000001, 2}, r)
		r, err = BestRationalApproximation(-1.e13-0.5, 1)
		require.NoError(t, err)
		assert.Equal(t, Rational{-10000000000000, 1}, r)
		x, err := convergent(3, 1<<40, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(3<<40+7), x)
		_, err = convergent(1<<40, 1<<40, 0)
		assert.True(t, errors.Is(err, types.ErrIntegerOverflow))
		_, err = convergent(1, math.MaxInt64, 1)
		assert.True(t, errors.Is(err, types.ErrIntegerOverflow))
	}
}

func TestRationalMatrix(t *testing.T) {
	{ // Rational rotation
		R := mat.NewDense(2, 2, []float64{0.8, -0.6, 0.6, 0.8})
		rm, err := New(R)
		require.NoError(t, err)
		assert.Equal(t, int64(5), rm.Mu)
		assert.Equal(t, []int64{4, -3, 3, 4}, rm.Numerator.RawData())
		assert.True(t, mat.EqualApprox(R, rm.AsMatrix(), 1.e-15))
	}
	{ // Random representable matrices reconstruct
		rng := rand.New(rand.NewPCG(5, 6))
		for trial := 0; trial < 100; trial++ {
			d := 2 + trial%4
			R := mat.NewDense(d, d, nil)
			for i := 0; i < d; i++ {
				for j := 0; j < d; j++ {
					R.Set(i, j, float64(rng.Int64N(41)-20)/float64(1+rng.Int64N(12)))
				}
			}
			rm, err := New(R)
			require.NoError(t, err)
			assert.True(t, mat.EqualApprox(R, rm.AsMatrix(), 1.e-12))
			assert.Equal(t, int64(1), utils.AbsInt64(gcdAll(rm)))
		}
	}
	{ // Too small a denominator bound
		R := mat.NewDense(2, 2, []float64{math.Cos(1), -math.Sin(1), math.Sin(1), math.Cos(1)})
		_, err := New(R, WithMaxDenominator(10))
		assert.True(t, errors.Is(err, types.ErrApproximation))
	}
	{ // Reduction
		Rn := utils.NewIMatrix(2, 2, []int64{2, 3, -4, 0})
		Rd := utils.NewIMatrix(2, 2, []int64{4, 9, 6, 7})
		rm, err := Reduce(Rn, Rd)
		require.NoError(t, err)
		assert.Equal(t, int64(6), rm.Mu)
		assert.Equal(t, []int64{3, 2, -4, 0}, rm.Numerator.RawData())
		Rd.Set(1, 1, 0)
		_, err = Reduce(Rn, Rd)
		assert.Error(t, err)
	}
	{
		_, err := NewFromScalar(utils.NewIdentityI(2), 0)
		assert.Error(t, err)
		rm, err := NewFromScalar(utils.NewIdentityI(2), 2)
		require.NoError(t, err)
		assert.True(t, mat.Equal(rm.AsMatrix(), mat.NewDense(2, 2, []float64{.5, 0, 0, .5})))
	}
}

func gcdAll(rm *RationalMatrix) (g int64) {
	g = rm.Mu
	for _, v := range rm.Numerator.RawData() {
		for v != 0 {
			g, v = v, g%v
		}
	}
	return
}

func TestRationalArithmetic(t *testing.T) {
	{
		r, err := NewRational(6, -4)
		require.NoError(t, err)
		assert.Equal(t, Rational{N: -3, D: 2}, r)
		assert.Equal(t, "-3/2", r.String())
		_, err = NewRational(1, 0)
		assert.True(t, errors.Is(err, types.ErrApproximation))
		z, err := NewRational(0, 7)
		require.NoError(t, err)
		assert.Equal(t, Rational{N: 0, D: 1}, z)
	}
	{
		a, b := Rational{N: 1, D: 2}, Rational{N: 1, D: 3}
		s, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, Rational{N: 5, D: 6}, s)
		d, err := a.Sub(b)
		require.NoError(t, err)
		assert.Equal(t, Rational{N: 1, D: 6}, d)
		p, err := a.Mul(Rational{N: 4, D: 9})
		require.NoError(t, err)
		assert.Equal(t, Rational{N: 2, D: 9}, p)
		p, err = b.MulInt(6)
		require.NoError(t, err)
		assert.Equal(t, "2", p.String())
		q, err := a.DivInt(-3)
		require.NoError(t, err)
		assert.Equal(t, Rational{N: -1, D: 6}, q)
		assert.InDelta(t, -1./6, q.Float(), 1.e-16)
	}
	{ // Cross cancellation keeps large products in range
		big := Rational{N: 1 << 40, D: 3}
		p, err := big.Mul(Rational{N: 3, D: 1 << 40})
		require.NoError(t, err)
		assert.Equal(t, Rational{N: 1, D: 1}, p)
		_, err = Rational{N: 1 << 40, D: 1}.MulInt(1 << 40)
		assert.True(t, errors.Is(err, types.ErrIntegerOverflow))
	}
}

package lll

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

func TestLLL(t *testing.T) {
	{
		B := utils.NewIMatrixFromCols(
			utils.IVector{1, 1, 1},
			utils.IVector{-1, 0, 2},
			utils.IVector{3, 5, 6},
		)
		lr, err := NewLLL(B, 0.75)
		require.NoError(t, err)
		BU, err := B.Mul(lr.UnimodularMatrix)
		require.NoError(t, err)
		assert.Equal(t, lr.ReducedBasis, BU)
		det, err := lr.UnimodularMatrix.Det()
		require.NoError(t, err)
		assert.Equal(t, int64(1), utils.AbsInt64(det))
		assert.True(t, IsSizeReduced(lr.ReducedBasis))
		assert.Equal(t, utils.IVector{0, 1, 0}, lr.ReducedBasis.Col(0))
		// Reducing again leaves the basis alone
		lr2, err := NewLLL(lr.ReducedBasis, 0.75)
		require.NoError(t, err)
		assert.Equal(t, lr.ReducedBasis, lr2.ReducedBasis)
		assert.True(t, lr2.UnimodularMatrix.IsIdentity())
	}
	{
		_, err := NewLLL(utils.NewIdentityI(2), 0.2)
		assert.True(t, errors.Is(err, types.ErrDimension))
		_, err = NewLLL(utils.NewIMatrixFromCols(utils.IVector{1, 2}, utils.IVector{2, 4}), 0.75)
		assert.True(t, errors.Is(err, types.ErrDimension))
	}
}

func isSignedPermutation(U utils.IMatrix) bool {
	n, _ := U.Dims()
	for i := 0; i < n; i++ {
		nonZero := 0
		for j := 0; j < n; j++ {
			switch utils.AbsInt64(U.At(i, j)) {
			case 0:
			case 1:
				nonZero++
			default:
				return false
			}
		}
		if nonZero != 1 {
			return false
		}
	}
	return true
}

func TestRLLL(t *testing.T) {
	{ // A skewed basis of the square lattice
		B0 := mat.NewDense(2, 2, []float64{
			1, 7,
			0, 1,
		})
		r, err := NewRLLL(B0, 0.75)
		require.NoError(t, err)
		var BU mat.Dense
		BU.Mul(B0, r.UnimodularMatrix().ToDense())
		assert.True(t, mat.EqualApprox(&BU, r.ReducedBasis(), 1.e-12))
		det, _ := r.UnimodularMatrix().Det()
		assert.Equal(t, int64(1), utils.AbsInt64(det))
		for j := 0; j < 2; j++ {
			assert.InDelta(t, 1, utils.Norm(utils.ColOf(r.ReducedBasis(), j)), 1.e-12)
		}
		// Idempotence
		r2, err := NewRLLL(r.ReducedBasis(), 0.75)
		require.NoError(t, err)
		assert.True(t, isSignedPermutation(r2.UnimodularMatrix()))
		assert.True(t, mat.EqualApprox(r.ReducedBasis(), r2.ReducedBasis(), 1.e-12))
	}
	{ // FCC basis in three dimensions
		B0 := mat.NewDense(3, 3, []float64{
			0, .5, .5,
			.5, 0, .5,
			.5, .5, 0,
		})
		skew := utils.NewIMatrix(3, 3, []int64{
			1, 3, -2,
			0, 1, 4,
			0, 0, 1,
		})
		var Bs mat.Dense
		Bs.Mul(B0, skew.ToDense())
		r, err := NewRLLL(&Bs, 0.75)
		require.NoError(t, err)
		assert.InDelta(t, 0.25, math.Abs(mat.Det(r.ReducedBasis())), 1.e-12)
		assert.InDelta(t, math.Sqrt(0.5), utils.Norm(utils.ColOf(r.ReducedBasis(), 0)), 1.e-12)
		for j := 0; j < 3; j++ {
			assert.LessOrEqual(t, utils.Norm(utils.ColOf(r.ReducedBasis(), j)), 1+1.e-12)
		}
		r2, err := NewRLLL(r.ReducedBasis(), 0.75)
		require.NoError(t, err)
		assert.True(t, isSignedPermutation(r2.UnimodularMatrix()))
	}
	{ // Plane of a 3-D lattice, fewer columns than rows
		B0 := mat.NewDense(3, 2, []float64{
			1, 5,
			1, 4,
			0, 0,
		})
		r, err := NewRLLL(B0, 0.75)
		require.NoError(t, err)
		var BU mat.Dense
		BU.Mul(B0, r.UnimodularMatrix().ToDense())
		assert.True(t, mat.EqualApprox(&BU, r.ReducedBasis(), 1.e-10))
		for j := 0; j < 2; j++ {
			assert.InDelta(t, 0, r.ReducedBasis().At(2, j), 1.e-12)
			assert.InDelta(t, 1, utils.Norm(utils.ColOf(r.ReducedBasis(), j)), 1.e-12)
		}
	}
	{
		_, err := NewRLLL(mat.NewDense(2, 3, nil), 0.75)
		assert.True(t, errors.Is(err, types.ErrDimension))
	}
}

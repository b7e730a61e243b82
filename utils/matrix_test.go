package utils

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/types"
)

func TestMatrix(t *testing.T) {
	// Inverse transpose
	{
		B := NewDenseFromRows([][]float64{
			{0, .5, .5},
			{.5, 0, .5},
			{.5, .5, 0},
		})
		R, err := InverseTranspose(B)
		require.NoError(t, err)
		var P mat.Dense
		P.Mul(B.T(), R)
		assert.InDelta(t, 0, RelDiff(&P, Identity(3)), 1.e-14)
		_, err = InverseTranspose(mat.NewDense(2, 2, []float64{1, 2, 2, 4}))
		assert.True(t, errors.Is(err, types.ErrDimension))
	}
	// Columns
	{
		M := NewDenseFromCols([]float64{1, 2}, []float64{3, 4})
		assert.Equal(t, []float64{3, 4}, ColOf(M, 1))
		assert.Equal(t, 4., MaxAbs(M))
		assert.Equal(t, []float64{7, 10}, MatVec(M, []float64{1, 2}))
	}
	// Integer reconciliation
	{
		M := mat.NewDense(2, 2, []float64{1 + 1.e-12, -2, 3, 4 - 1.e-12})
		R, err := IntegerMatrix(M, "test")
		require.NoError(t, err)
		assert.Equal(t, []int64{1, -2, 3, 4}, R.RawData())
		_, err = IntegerMatrix(mat.NewDense(1, 1, []float64{0.5001}), "half")
		assert.True(t, errors.Is(err, types.ErrAlgebraicInconsistency))
		v, res, err := RoundIVector([]float64{1.1, -0.9})
		require.NoError(t, err)
		assert.Equal(t, IVector{1, -1}, v)
		assert.InDelta(t, math.Sqrt(0.02), res, 1.e-12)
	}
	// Geometry
	{
		assert.Equal(t, []float64{0, 0, 1}, Cross3([]float64{1, 0, 0}, []float64{0, 1, 0}))
		assert.InDelta(t, 0, GramDet2([]float64{1, 2, 3}, []float64{-2, -4, -6}), 1.e-14)
		assert.InDelta(t, 90, AngleDeg([]float64{1, 0}, []float64{0, 3}), 1.e-12)
		assert.True(t, CheckDimension(3))
		assert.False(t, CheckDimension(6))
	}
}

func TestRotation(t *testing.T) {
	{ // Quarter turn about z
		R, err := RotationMatrix([]float64{0, 0, 2}, math.Pi/2)
		require.NoError(t, err)
		assert.True(t, IsRotation(R))
		x := MatVec(R, []float64{1, 0, 0})
		assert.InDeltaSlice(t, []float64{0, 1, 0}, x, 1.e-15)
	}
	{ // 120 degrees about [111] permutes the axes
		R, err := RotationMatrix([]float64{1, 1, 1}, 2*math.Pi/3)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 1, 0}, MatVec(R, []float64{1, 0, 0}), 1.e-15)
		assert.InDeltaSlice(t, []float64{0, 0, 1}, MatVec(R, []float64{0, 1, 0}), 1.e-15)
	}
	{
		_, err := RotationMatrix([]float64{0, 0, 0}, 1)
		assert.True(t, errors.Is(err, types.ErrDimension))
		R := Rotation2D(math.Atan2(3, 4))
		assert.InDelta(t, 0.8, R.At(0, 0), 1.e-15)
		assert.InDelta(t, 0.6, R.At(1, 0), 1.e-15)
		assert.True(t, IsRotation(R))
		assert.False(t, IsRotation(mat.NewDense(2, 2, []float64{1, 0, 0, -1})))
	}
}

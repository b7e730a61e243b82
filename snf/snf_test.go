package snf

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gblattice/utils"
)

func checkDecomposition(t *testing.T, P utils.IMatrix, sd *SmithDecomposition) {
	UPV, err := utils.MulChain(sd.U, P, sd.V)
	require.NoError(t, err)
	assert.Equal(t, sd.D, UPV)
	for _, W := range []utils.IMatrix{sd.U, sd.V, sd.X} {
		det, err := W.Det()
		require.NoError(t, err)
		assert.Equal(t, int64(1), utils.AbsInt64(det))
	}
	UX, err := sd.U.Mul(sd.X)
	require.NoError(t, err)
	assert.True(t, UX.IsIdentity())
	d := sd.D.Diag()
	for i := 0; i+1 < len(d); i++ {
		assert.True(t, d[i] >= 0)
		if d[i] != 0 {
			assert.Equal(t, int64(0), d[i+1]%d[i], "D = %v", d)
		}
	}
}

func TestSmithDecomposition(t *testing.T) {
	{
		P := utils.NewIMatrix(3, 3, []int64{
			2, 4, 4,
			-6, 6, 12,
			10, -4, -16,
		})
		sd, err := New(P)
		require.NoError(t, err)
		assert.Equal(t, utils.IVector{2, 6, 12}, sd.MatrixD().Diag())
		checkDecomposition(t, P, sd)
	}
	{ // Rotation numerator of a sigma 5 coincidence
		P := utils.NewIMatrix(2, 2, []int64{
			4, -3,
			3, 4,
		})
		sd, err := New(P)
		require.NoError(t, err)
		assert.Equal(t, utils.IVector{1, 25}, sd.D.Diag())
		checkDecomposition(t, P, sd)
	}
	{ // Singular input keeps zeros at the end
		P := utils.NewIMatrix(3, 3, []int64{
			1, 2, 3,
			2, 4, 6,
			0, 0, 0,
		})
		sd, err := New(P)
		require.NoError(t, err)
		assert.Equal(t, utils.IVector{1, 0, 0}, sd.D.Diag())
		checkDecomposition(t, P, sd)
	}
	{
		rng := rand.New(rand.NewPCG(7, 8))
		for trial := 0; trial < 200; trial++ {
			n := 2 + trial%3
			P := utils.NewIMatrix(n, n)
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					P.Set(i, j, rng.Int64N(19)-9)
				}
			}
			sd, err := New(P)
			require.NoError(t, err, "P = \n%v", P)
			checkDecomposition(t, P, sd)
			detP, _ := P.Det()
			detD, _ := sd.D.Det()
			assert.Equal(t, utils.AbsInt64(detP), detD)
		}
	}
}

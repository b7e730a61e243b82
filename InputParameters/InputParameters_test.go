package InputParameters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputParameters(t *testing.T) {
	{ // 2D inline basis
		fileInput := []byte(`
Title: Sigma 5
Basis:
  - [1, 0]
  - [0, 1]
RotationAngle: 36.86989764584402
BoxVectors:
  - [1, 0]
  - [0, 1]
Orthogonality: 0.5
OutputFile: bc.xyz
Orient: true
`)
		var ip BiCrystalParameters
		require.NoError(t, ip.Parse(fileInput))
		assert.Equal(t, 2, ip.Dimension)
		assert.Equal(t, int64(1), ip.DSCLFactor)
		assert.True(t, ip.Orient)
		assert.False(t, ip.UseRLLL)
		assert.Equal(t, int64(1), ip.BoxVectors[1][1])
		A, err := ip.LatticeBasis()
		require.NoError(t, err)
		assert.Equal(t, 1., A.At(1, 1))
		R, err := ip.RotationMatrix()
		require.NoError(t, err)
		assert.InDelta(t, 0.8, R.At(0, 0), 1.e-12)
		assert.InDelta(t, -0.6, R.At(0, 1), 1.e-12)
		ip.Print()
	}
	{ // 3D basis read from a lattice file
		dir := t.TempDir()
		latticeFile := filepath.Join(dir, "fcc.txt")
		require.NoError(t, os.WriteFile(latticeFile, []byte("A = 0 .5 .5\n .5 0 .5\n .5 .5 0;\n"), 0644))
		fileInput := []byte(`
Title: Sigma 3 twin
LatticeFile: ` + latticeFile + `
RotationAxis: [1, 1, 1]
RotationAngle: 60
DSCLFactor: 3
UseRLLL: true
`)
		var ip BiCrystalParameters
		require.NoError(t, ip.Parse(fileInput))
		assert.Equal(t, 3, ip.Dimension)
		assert.Equal(t, int64(3), ip.DSCLFactor)
		A, err := ip.LatticeBasis()
		require.NoError(t, err)
		assert.Equal(t, .5, A.At(0, 1))
		R, err := ip.RotationMatrix()
		require.NoError(t, err)
		assert.InDelta(t, 2./3, R.At(0, 0), 1.e-12)
		assert.InDelta(t, -1./3, R.At(0, 1), 1.e-12)
		ip.Print()
	}
	{ // Explicit rotation matrix
		var ip BiCrystalParameters
		require.NoError(t, ip.Parse([]byte(`
Basis: [[1, 0, 0], [0, 1, 0], [0, 0, 1]]
Rotation: [[0, -1, 0], [1, 0, 0], [0, 0, 1]]
`)))
		R, err := ip.RotationMatrix()
		require.NoError(t, err)
		assert.Equal(t, 1., R.At(1, 0))
		ip.Rotation = [][]float64{{2, 0, 0}, {0, 1, 0}, {0, 0, 1}}
		_, err = ip.RotationMatrix()
		assert.Error(t, err)
		ip.Rotation = [][]float64{{1, 0}, {0, 1}}
		_, err = ip.RotationMatrix()
		assert.Error(t, err)
	}
	{ // Rejected inputs
		var ip BiCrystalParameters
		assert.Error(t, ip.Parse([]byte(`Title: no basis`)))
		assert.Error(t, ip.Parse([]byte(`
Basis: [[1, 0], [0, 1]]
BoxVectors: [[1, 0, 0], [0, 1, 0]]
`)))
		ip = BiCrystalParameters{}
		assert.Error(t, ip.Parse([]byte(`
Dimension: 4
Basis: [[1, 0], [0, 1]]
`)))
		ip = BiCrystalParameters{}
		require.NoError(t, ip.Parse([]byte(`Basis: [[1, 0, 0], [0, 1, 0], [0, 0, 1]]`)))
		_, err := ip.RotationMatrix()
		assert.Error(t, err)
	}
}

package bicrystal

import (
	"bytes"
	"errors"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/lattice"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

func sigma5(t *testing.T, useRLLL bool) (bc *BiCrystal) {
	A, err := lattice.NewLattice(utils.Identity(2))
	require.NoError(t, err)
	B, err := lattice.NewLattice(utils.Identity(2), utils.Rotation2D(math.Atan2(3, 4)))
	require.NoError(t, err)
	bc, err = New(A, B, useRLLL)
	require.NoError(t, err)
	return
}

func fccSigma3(t *testing.T, useRLLL bool) (bc *BiCrystal) {
	basis := mat.NewDense(3, 3, []float64{
		0, .5, .5,
		.5, 0, .5,
		.5, .5, 0,
	})
	R, err := utils.RotationMatrix([]float64{1, 1, 1}, math.Pi/3)
	require.NoError(t, err)
	A, err := lattice.NewLattice(basis)
	require.NoError(t, err)
	B, err := lattice.NewLattice(basis, R)
	require.NoError(t, err)
	bc, err = New(A, B, useRLLL)
	require.NoError(t, err)
	return
}

// assertParallel checks that a is a positive multiple of b
func assertParallel(t *testing.T, a, b []float64) {
	na, nb := utils.Norm(a), utils.Norm(b)
	require.True(t, na > 0 && nb > 0)
	// squared sine, a square root would lift round off above the tolerance
	sin2 := math.Abs(utils.GramDet2(a, b)) / (na * na * nb * nb)
	assert.InDelta(t, 0, sin2, 1.e-12, "%v is not parallel to %v", a, b)
	assert.True(t, utils.Dot(a, b) > 0, "%v points against %v", a, b)
}

func samples(dim int) (cs []utils.IVector) {
	for j := 0; j < dim; j++ {
		e := utils.NewIVector(dim)
		e[j] = 1
		cs = append(cs, e)
	}
	c := utils.NewIVector(dim)
	for j := range c {
		c[j] = int64(j + 1)
	}
	c[dim-1] = -c[dim-1]
	return append(cs, c)
}

func TestBiCrystal(t *testing.T) {
	{ // Sigma 5 rotation of the square lattice
		for _, useRLLL := range []bool{false, true} {
			bc := sigma5(t, useRLLL)
			assert.Equal(t, int64(5), bc.Sigma)
			assert.Equal(t, int64(5), bc.SigmaA)
			assert.Equal(t, int64(5), bc.SigmaB)
			assert.Equal(t, int64(5), bc.RM.Mu)
			assert.InDelta(t, 5, math.Abs(mat.Det(bc.CSL.Basis)), 1.e-12)
			assert.InDelta(t, 0.2, math.Abs(mat.Det(bc.DSCL.Basis)), 1.e-12)
			assert.InDelta(t, 1, math.Abs(mat.Det(bc.Ap.Basis)), 1.e-12)
			assert.InDelta(t, 1, math.Abs(mat.Det(bc.Bp.Basis)), 1.e-12)
			S, err := bc.LambdaA.Add(bc.LambdaB)
			require.NoError(t, err)
			assert.True(t, S.IsIdentity())
			assert.True(t, bc.M.IsDiagonal() && bc.N.IsDiagonal())
		}
	}
	{ // Sigma 3 twin of FCC, 60 degrees about [111]
		for _, useRLLL := range []bool{false, true} {
			bc := fccSigma3(t, useRLLL)
			assert.Equal(t, int64(3), bc.Sigma)
			assert.InDelta(t, 3*0.25, math.Abs(mat.Det(bc.CSL.Basis)), 1.e-12)
			assert.InDelta(t, 0.25/3, math.Abs(mat.Det(bc.DSCL.Basis)), 1.e-12)
			S, err := bc.LambdaA.Add(bc.LambdaB)
			require.NoError(t, err)
			assert.True(t, S.IsIdentity())
			// two nearest neighbor vectors of the (111) plane and the [111] stacking
			// vector are CSL vectors spanning the CSL volume, so they are a CSL basis
			twin := [][]float64{{.5, -.5, 0}, {.5, 0, -.5}, {1, 1, 1}}
			for _, v := range twin {
				_, err = lattice.IntegerCoordinates(v, bc.CSL.Reciprocal.T())
				assert.NoError(t, err, "%v is not a CSL vector", v)
			}
			T := utils.NewDenseFromRows(twin)
			assert.InDelta(t, 3*0.25, math.Abs(mat.Det(T)), 1.e-12)
			assert.InDelta(t, math.Sqrt(.5), utils.Norm(twin[0]), 1.e-15)
			assert.InDelta(t, math.Sqrt(.5), utils.Norm(twin[1]), 1.e-15)
			assert.InDelta(t, math.Sqrt(3), utils.Norm(twin[2]), 1.e-15)
			var G mat.Dense
			G.Mul(T, T.T())
			assert.InDelta(t, 0.25, G.At(0, 1), 1.e-15)
			assert.InDelta(t, 0, G.At(0, 2), 1.e-15)
			assert.InDelta(t, 0, G.At(1, 2), 1.e-15)
			// every CSL generator stacks a whole number of sqrt(3) layers along [111]
			for j := 0; j < 3; j++ {
				h := utils.Dot(utils.ColOf(bc.CSL.Basis, j), twin[2]) / 3
				assert.InDelta(t, math.Round(h), h, 1.e-10)
			}
		}
	}
	{ // Irrational rotations have no coincidence
		A, err := lattice.NewLattice(utils.Identity(2))
		require.NoError(t, err)
		B, err := lattice.NewLattice(utils.Identity(2), utils.Rotation2D(1))
		require.NoError(t, err)
		bc, err := New(A, B, false)
		assert.Nil(t, bc)
		assert.True(t, errors.Is(err, types.ErrAlgebraicInconsistency))
		assert.Contains(t, err.Error(), "bicrystal construction failed")
		// the same rotation with a small denominator bound fails the approximation
		_, err = New(A, B, false, WithMaxDenominator(100))
		assert.True(t, errors.Is(err, types.ErrAlgebraicInconsistency))
		assert.True(t, errors.Is(err, types.ErrApproximation))
	}
	{
		A, err := lattice.NewLattice(utils.Identity(2))
		require.NoError(t, err)
		C, err := lattice.NewLattice(utils.Identity(3))
		require.NoError(t, err)
		_, err = New(A, C, false)
		assert.True(t, errors.Is(err, types.ErrDimension))
	}
	{ // A lattice coincides with itself
		A, err := lattice.NewLattice(utils.Identity(3))
		require.NoError(t, err)
		B, err := lattice.NewLattice(utils.Identity(3))
		require.NoError(t, err)
		bc, err := New(A, B, true)
		require.NoError(t, err)
		assert.Equal(t, int64(1), bc.Sigma)
	}
}

func checkMaps(t *testing.T, bc *BiCrystal) {
	var (
		dim      = bc.A.Dim()
		lattices = []*lattice.Lattice{bc.A, bc.B, bc.CSL, bc.DSCL}
	)
	for li, l := range lattices {
		for _, c := range samples(dim) {
			v, err := l.NewLatticeVector(c)
			require.NoError(t, err)
			// every lattice is a sublattice of the DSCL
			d, err := bc.LatticeVectorInD(v)
			require.NoError(t, err)
			assert.InDeltaSlice(t, v.Cartesian(), d.Cartesian(), 1.e-10)
			ld, err := bc.LatticeDirectionInD(v)
			require.NoError(t, err)
			assertParallel(t, ld.Cartesian(), v.Cartesian())
			lc, err := bc.LatticeDirectionInC(v)
			require.NoError(t, err)
			assert.True(t, lc.Lattice == bc.CSL)
			assertParallel(t, lc.Cartesian(), v.Cartesian())
			a, err := bc.LatticeVectorInA(v)
			if li == 0 || li == 2 {
				require.NoError(t, err)
				assert.InDeltaSlice(t, v.Cartesian(), a.Cartesian(), 1.e-10)
			} else {
				assert.True(t, errors.Is(err, types.ErrIdentityMismatch))
			}
			b, err := bc.LatticeVectorInB(v)
			if li == 1 || li == 2 {
				require.NoError(t, err)
				assert.InDeltaSlice(t, v.Cartesian(), b.Cartesian(), 1.e-10)
			} else {
				assert.True(t, errors.Is(err, types.ErrIdentityMismatch))
			}

			r, err := l.NewReciprocalLatticeVector(c)
			require.NoError(t, err)
			for ti, to := range []func(*lattice.ReciprocalLatticeVector) (*lattice.ReciprocalLatticeDirection, error){
				bc.ReciprocalLatticeDirectionInA, bc.ReciprocalLatticeDirectionInB,
				bc.ReciprocalLatticeDirectionInC, bc.ReciprocalLatticeDirectionInD} {
				rd, err := to(r)
				require.NoError(t, err)
				assert.True(t, rd.Lattice == lattices[ti])
				assertParallel(t, rd.Cartesian(), r.Cartesian())
			}
		}
	}
	{ // Shift tensors split every DSCL vector
		for _, c := range samples(dim) {
			d, err := bc.DSCL.NewLatticeVector(c)
			require.NoError(t, err)
			sa, err := bc.ShiftTensorA(d)
			require.NoError(t, err)
			sb, err := bc.ShiftTensorB(d)
			require.NoError(t, err)
			s, err := sa.Add(sb)
			require.NoError(t, err)
			eq, err := s.Equal(d)
			require.NoError(t, err)
			assert.True(t, eq)
		}
		_, err := bc.ShiftTensorA(bc.A.ZeroVector())
		assert.True(t, errors.Is(err, types.ErrIdentityMismatch))
	}
	{ // Vectors of unrelated lattices are rejected
		other, err := lattice.NewLattice(bc.A.Basis)
		require.NoError(t, err)
		_, err = bc.LatticeVectorInD(other.ZeroVector())
		assert.True(t, errors.Is(err, types.ErrIdentityMismatch))
		_, err = bc.LatticeDirectionInC(other.ZeroVector())
		assert.True(t, errors.Is(err, types.ErrIdentityMismatch))
		_, err = bc.ReciprocalLatticeDirectionInB(other.ZeroReciprocalVector())
		assert.True(t, errors.Is(err, types.ErrIdentityMismatch))
	}
}

func TestCoordinateMaps(t *testing.T) {
	for _, useRLLL := range []bool{false, true} {
		checkMaps(t, sigma5(t, useRLLL))
		checkMaps(t, fccSigma3(t, useRLLL))
	}
	{ // CSL vectors are exact vectors of both parents
		bc := sigma5(t, false)
		for _, c := range samples(2) {
			v, _ := bc.CSL.NewLatticeVector(c)
			a, err := bc.LatticeVectorInA(v)
			require.NoError(t, err)
			b, err := bc.LatticeVectorInB(v)
			require.NoError(t, err)
			assert.InDeltaSlice(t, a.Cartesian(), b.Cartesian(), 1.e-12)
		}
	}
	{ // A to CSL direction and back
		bc := fccSigma3(t, true)
		for _, c := range samples(3) {
			v, _ := bc.A.NewLatticeVector(c)
			lc, err := bc.LatticeDirectionInC(v)
			require.NoError(t, err)
			a, err := bc.LatticeVectorInA(lc.Vector())
			require.NoError(t, err)
			assertParallel(t, a.Cartesian(), v.Cartesian())
			assert.InDeltaSlice(t, lc.Cartesian(), a.Cartesian(), 1.e-10)
		}
	}
}

func cslBasisVectors(t *testing.T, bc *BiCrystal, coords ...utils.IVector) (vs []*lattice.LatticeVector) {
	for _, c := range coords {
		v, err := bc.CSL.NewLatticeVector(c)
		require.NoError(t, err)
		vs = append(vs, v)
	}
	return
}

func countTypes(t *testing.T, bc *BiCrystal, config []*lattice.LatticeVector) (n map[int]int) {
	n = make(map[int]int)
	for _, v := range config {
		tp, err := bc.pointType(v)
		require.NoError(t, err)
		n[tp]++
	}
	return
}

func TestBox(t *testing.T) {
	{ // One CSL cell of the sigma 5 bicrystal
		bc := sigma5(t, false)
		box := cslBasisVectors(t, bc, utils.IVector{1, 0}, utils.IVector{0, 1})
		config, err := bc.Box(box, 0, 1, "", false)
		require.NoError(t, err)
		n := countTypes(t, bc, config)
		assert.Equal(t, 5, n[TypeA])
		assert.Equal(t, 5, n[TypeB])
		assert.Equal(t, 1, n[TypeCSL])
		assert.Equal(t, 25, n[TypeDSCL])
		config, err = bc.Box(box, 0, 5, "", false)
		require.NoError(t, err)
		assert.Equal(t, 5, countTypes(t, bc, config)[TypeDSCL])
	}
	{ // The transverse vector is straightened, the cell content is unchanged
		bc := sigma5(t, true)
		box := cslBasisVectors(t, bc, utils.IVector{1, 3}, utils.IVector{0, 1})
		before := lattice.PlaneAngleDeviation(box[0].Cartesian(), box[1].Cartesian())
		require.True(t, before > 1)
		config, err := bc.Box(box, 1, 1, "", false)
		require.NoError(t, err)
		after := lattice.PlaneAngleDeviation(box[0].Cartesian(), box[1].Cartesian())
		assert.InDelta(t, 0, after, 1.e-9)
		assert.True(t, box[0].Lattice == bc.CSL)
		n := countTypes(t, bc, config)
		assert.Equal(t, 5, n[TypeA])
		assert.Equal(t, 25, n[TypeDSCL])
	}
	{ // Sigma 3 FCC cell
		bc := fccSigma3(t, true)
		box := cslBasisVectors(t, bc, utils.IVector{1, 0, 0}, utils.IVector{0, 1, 0}, utils.IVector{0, 0, 1})
		config, err := bc.Box(box, 0, 1, "", false)
		require.NoError(t, err)
		n := countTypes(t, bc, config)
		assert.Equal(t, 3, n[TypeA])
		assert.Equal(t, 3, n[TypeB])
		assert.Equal(t, 1, n[TypeCSL])
		assert.Equal(t, 9, n[TypeDSCL])
	}
	{
		bc := sigma5(t, false)
		a := bc.A.ZeroVector()
		_, err := bc.Box([]*lattice.LatticeVector{a, a}, 0, 1, "", false)
		assert.True(t, errors.Is(err, types.ErrIdentityMismatch))
		box := cslBasisVectors(t, bc, utils.IVector{1, 0}, utils.IVector{2, 0})
		_, err = bc.Box(box, 0, 1, "", false)
		assert.True(t, errors.Is(err, types.ErrDimension))
		box = cslBasisVectors(t, bc, utils.IVector{1, 0}, utils.IVector{0, 1})
		_, err = bc.Box(box, 2, 1, "", false)
		assert.Error(t, err)
		_, err = bc.Box(box, 0, 0, "", false)
		assert.Error(t, err)
	}
}

func parseHeader(t *testing.T, line string) (comps []float64) {
	start := strings.Index(line, "Lattice=\"") + len("Lattice=\"")
	end := strings.Index(line[start:], "\"")
	require.True(t, end > 0)
	for _, f := range strings.Fields(line[start : start+end]) {
		x, err := strconv.ParseFloat(f, 64)
		require.NoError(t, err)
		comps = append(comps, x)
	}
	return
}

var errBroken = errors.New("broken pipe")

type brokenWriter struct{}

func (brokenWriter) Write(p []byte) (int, error) { return 0, errBroken }

func TestXYZ(t *testing.T) {
	bc := sigma5(t, false)
	box := cslBasisVectors(t, bc, utils.IVector{1, 0}, utils.IVector{0, 1})
	config, err := bc.Box(box, 1, 1, "", false)
	require.NoError(t, err)
	{
		var buf bytes.Buffer
		require.NoError(t, bc.WriteXYZ(&buf, config, box, false))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2+len(config))
		assert.Equal(t, strconv.Itoa(len(config)), lines[0])
		assert.Contains(t, lines[1], "Properties=atom_types:I:1:pos:R:3:radius:R:1")
		comps := parseHeader(t, lines[1])
		require.Len(t, comps, 4)
		assert.InDeltaSlice(t, box[0].Cartesian(), comps[:2], 1.e-10)
		for _, l := range lines[2:] {
			fields := strings.Fields(l)
			require.Len(t, fields, 5)
			assert.Equal(t, "0", fields[3])
		}
		assert.True(t, strings.HasPrefix(lines[2], "1 "))
	}
	{ // Oriented output puts the in-plane box vector along y
		var buf bytes.Buffer
		require.NoError(t, bc.WriteXYZ(&buf, config, box, true))
		lines := strings.Split(buf.String(), "\n")
		comps := parseHeader(t, lines[1])
		assert.InDelta(t, 0, comps[2], 1.e-12)
		assert.InDelta(t, utils.Norm(box[1].Cartesian()), comps[3], 1.e-12)
	}
	{ // Write errors surface
		err := bc.WriteXYZ(brokenWriter{}, config, box, false)
		assert.ErrorIs(t, err, errBroken)
	}
	{
		fname := filepath.Join(t.TempDir(), "sigma5.xyz")
		_, err := bc.Box(box, 1, 1, fname, true)
		require.NoError(t, err)
		assert.FileExists(t, fname)
	}
	{
		l, err := lattice.NewLattice(utils.Identity(3))
		require.NoError(t, err)
		vs := make([]*lattice.LatticeVector, 3)
		for j, c := range []utils.IVector{{0, 0, 1}, {1, 0, 0}, {1, 1, 0}} {
			vs[j], _ = l.NewLatticeVector(c)
		}
		_, err = Orientation(vs)
		assert.True(t, errors.Is(err, types.ErrAlgebraicInconsistency))
		vs[2], _ = l.NewLatticeVector(utils.IVector{0, 1, 0})
		R, err := Orientation(vs)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{0, 1, 0}, utils.MatVec(R, vs[1].Cartesian()), 1.e-15)
	}
}

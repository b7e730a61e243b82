package bicrystal

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/lattice"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// Point types of the extended XYZ output
const (
	TypeA = iota + 1
	TypeB
	TypeCSL
	TypeDSCL
)

var radius = map[int]float64{
	TypeA:    0.05,
	TypeB:    0.05,
	TypeCSL:  0.2,
	TypeDSCL: 0.01,
}

func (bc *BiCrystal) pointType(v *lattice.LatticeVector) (t int, err error) {
	var (
		m member
	)
	if m, err = bc.owner(v.Lattice); err != nil {
		return
	}
	t = int(m) + 1
	return
}

// Orientation is the rotation taking the interface normal to x and the
// in-plane box vectors to y (and z). The in-plane box vectors must be
// orthogonal.
func Orientation(boxVectors []*lattice.LatticeVector) (R *mat.Dense, err error) {
	var (
		dim = len(boxVectors)
	)
	unit := func(v []float64) []float64 {
		n := utils.Norm(v)
		for i := range v {
			v[i] /= n
		}
		return v
	}
	switch dim {
	case 2:
		b1 := unit(boxVectors[1].Cartesian())
		R = mat.NewDense(2, 2, []float64{
			b1[1], -b1[0],
			b1[0], b1[1],
		})
	case 3:
		b1, b2 := unit(boxVectors[1].Cartesian()), unit(boxVectors[2].Cartesian())
		if c := math.Abs(utils.Dot(b1, b2)); c > utils.RoundTol {
			err = types.Errorf(types.ErrAlgebraicInconsistency,
				"cannot orient the box, in-plane box vectors are not orthogonal: cos = %g", c)
			return
		}
		n := utils.Cross3(b1, b2)
		R = utils.NewDenseFromRows([][]float64{n, b1, b2})
	default:
		err = types.Errorf(types.ErrDimension, "cannot orient a %d dimensional box", dim)
		return
	}
	if !utils.IsRotation(R) {
		err = types.Errorf(types.ErrAlgebraicInconsistency, "orientation is not a proper rotation")
		return nil, err
	}
	return
}

func xyz(x []float64) []float64 {
	if len(x) == 2 {
		return []float64{x[0], x[1], 0}
	}
	return x
}

func formatFloats(x []float64) string {
	s := make([]string, len(x))
	for i, v := range x {
		s[i] = fmt.Sprintf("%.12g", v)
	}
	return strings.Join(s, " ")
}

// WriteXYZ writes the configuration in extended XYZ format: a point count,
// the header with the box vectors and one line "type x y z radius" per point
func (bc *BiCrystal) WriteXYZ(w io.Writer, config, boxVectors []*lattice.LatticeVector, orient bool) (err error) {
	var (
		dim = bc.CSL.Dim()
		R   = utils.Identity(dim)
		bw  = bufio.NewWriter(w)
		box = make([]string, len(boxVectors))
	)
	if orient {
		if R, err = Orientation(boxVectors); err != nil {
			return
		}
	}
	for j, v := range boxVectors {
		box[j] = formatFloats(utils.MatVec(R, v.Cartesian()))
	}
	if _, err = fmt.Fprintf(bw, "%d\nLattice=\"%s\" Properties=atom_types:I:1:pos:R:3:radius:R:1\n",
		len(config), strings.Join(box, " ")); err != nil {
		return
	}
	for _, v := range config {
		var t int
		if t, err = bc.pointType(v); err != nil {
			return
		}
		// bufio keeps the first write error, Flush reports it
		_, _ = fmt.Fprintf(bw, "%d %s %g\n", t, formatFloats(xyz(utils.MatVec(R, v.Cartesian()))), radius[t])
	}
	return bw.Flush()
}

func (bc *BiCrystal) WriteXYZFile(filename string, config, boxVectors []*lattice.LatticeVector, orient bool) (err error) {
	var (
		file *os.File
	)
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer file.Close()
	return bc.WriteXYZ(file, config, boxVectors, orient)
}

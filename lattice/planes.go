package lattice

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/intmath"
	"github.com/notargets/gblattice/lll"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// completeBasis solves the Bezout equation on normal, completes the solution
// to a unimodular matrix and projects the remaining columns onto the
// hyperplane normal.x = 0. Column 0 is the out of plane generator.
func completeBasis(normal utils.IVector) (cols []utils.IVector, err error) {
	var (
		u   utils.IVector
		U   utils.IMatrix
		dim = len(normal)
		dot int64
	)
	if normal.IsZero() {
		err = types.Errorf(types.ErrDimension, "plane basis of the null direction")
		return
	}
	normal = intmath.Primitive(normal)
	if u, err = intmath.SolveBezout(normal); err != nil {
		return
	}
	if U, err = intmath.CCUM(u); err != nil {
		return
	}
	cols = make([]utils.IVector, dim)
	cols[0] = U.Col(0)
	for j := 1; j < dim; j++ {
		c := U.Col(j)
		if dot, err = c.Dot(normal); err != nil {
			return
		}
		var shift utils.IVector
		if shift, err = cols[0].Scale(dot); err != nil {
			return
		}
		if cols[j], err = c.Sub(shift); err != nil {
			return
		}
	}
	return
}

// reduceColumns applies the unimodular RLLL transform of the Cartesian images
// to the integer coordinates, so the reduced vectors stay exact
func reduceColumns(coords []utils.IVector, cart [][]float64) (reduced []utils.IVector, B *mat.Dense, err error) {
	var (
		r *lll.RLLL
		W utils.IMatrix
	)
	if r, err = lll.NewRLLL(utils.NewDenseFromCols(cart...), Lovasz); err != nil {
		return
	}
	if W, err = utils.NewIMatrixFromCols(coords...).Mul(r.UnimodularMatrix()); err != nil {
		return
	}
	_, n := W.Dims()
	reduced = make([]utils.IVector, n)
	for j := 0; j < n; j++ {
		reduced[j] = W.Col(j)
	}
	B = r.ReducedBasis()
	return
}

// PlaneParallelLatticeBasis returns d lattice directions forming a basis of
// the lattice. Directions 1..d-1 span the plane normal to r, direction 0
// crosses it with r.v0 = 1. With useRLLL the in-plane directions are reduced
// and direction 0 is shortened by in-plane translations.
func (l *Lattice) PlaneParallelLatticeBasis(r *ReciprocalLatticeDirection, useRLLL bool) (out []*LatticeDirection, err error) {
	var (
		cols []utils.IVector
		dim  = l.dim
	)
	if err = checkOwner(l, r.Lattice, "reciprocal direction and lattice"); err != nil {
		return
	}
	if cols, err = completeBasis(r.Coords); err != nil {
		return
	}
	out = make([]*LatticeDirection, dim)
	for j := range cols {
		out[j] = NewLatticeDirection(&LatticeVector{Coords: cols[j], Lattice: l})
	}
	if !useRLLL {
		return
	}
	var (
		coords = make([]utils.IVector, dim-1)
		cart   = make([][]float64, dim-1)
	)
	for j := 1; j < dim; j++ {
		coords[j-1], cart[j-1] = out[j].Coords, out[j].Cartesian()
	}
	B := utils.NewDenseFromCols(cart...)
	if dim > 2 {
		var reduced []utils.IVector
		if reduced, B, err = reduceColumns(coords, cart); err != nil {
			return nil, err
		}
		for j := 1; j < dim; j++ {
			out[j] = NewLatticeDirection(&LatticeVector{Coords: reduced[j-1], Lattice: l})
		}
	}
	// pseudo inverse (B^T B)^-1 B^T projects onto in-plane coordinates
	var (
		BtB, inv, pinv mat.Dense
	)
	BtB.Mul(B.T(), B)
	if err = inv.Inverse(&BtB); err != nil {
		err = types.Errorf(types.ErrDimension, "degenerate in-plane basis: %v", err)
		return nil, err
	}
	pinv.Mul(&inv, B.T())
	x0 := out[0].Cartesian()
	temp := l.ZeroVector()
	for i := 0; i < dim-1; i++ {
		var (
			c    int64
			step *LatticeVector
		)
		if c, err = utils.RoundToInt64(utils.Dot(pinv.RawRowView(i), x0)); err != nil {
			return nil, err
		}
		if step, err = out[i+1].Scale(c); err != nil {
			return nil, err
		}
		if temp, err = temp.Add(step); err != nil {
			return nil, err
		}
	}
	var shortened *LatticeVector
	if shortened, err = out[0].Sub(temp); err != nil {
		return nil, err
	}
	out[0] = NewLatticeDirection(shortened)
	return
}

// DirectionOrthogonalReciprocalLatticeBasis is the reciprocal counterpart of
// PlaneParallelLatticeBasis: directions 1..d-1 are orthogonal to ld and
// direction 0 pairs with ld to 1
func (l *Lattice) DirectionOrthogonalReciprocalLatticeBasis(ld *LatticeDirection,
	useRLLL bool) (out []*ReciprocalLatticeDirection, err error) {
	var (
		cols []utils.IVector
		dim  = l.dim
	)
	if err = checkOwner(l, ld.Lattice, "lattice direction and lattice"); err != nil {
		return
	}
	if cols, err = completeBasis(ld.Coords); err != nil {
		return
	}
	out = make([]*ReciprocalLatticeDirection, dim)
	for j := range cols {
		out[j] = NewReciprocalLatticeDirection(&ReciprocalLatticeVector{Coords: cols[j], Lattice: l})
	}
	if !useRLLL {
		return
	}
	var (
		coords  = make([]utils.IVector, dim-1)
		cart    = make([][]float64, dim-1)
		reduced []utils.IVector
	)
	for j := 1; j < dim; j++ {
		coords[j-1], cart[j-1] = out[j].Coords, out[j].Cartesian()
	}
	if reduced, _, err = reduceColumns(coords, cart); err != nil {
		return nil, err
	}
	for j := 1; j < dim; j++ {
		out[j] = NewReciprocalLatticeDirection(&ReciprocalLatticeVector{Coords: reduced[j-1], Lattice: l})
	}
	return
}

// PlaneAngleDeviation is the largest deviation from 90 degrees, in degrees,
// between v and each of the in-plane vectors
func PlaneAngleDeviation(v []float64, inPlane ...[]float64) (dev float64) {
	for _, p := range inPlane {
		dev = math.Max(dev, math.Abs(90-utils.AngleDeg(v, p)))
	}
	return
}

package lattice

import (
	"math"

	"github.com/notargets/gblattice/intmath"
	"github.com/notargets/gblattice/lll"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// LatticeDirection is a primitive lattice vector, the zero vector excepted
type LatticeDirection struct {
	LatticeVector
}

type ReciprocalLatticeDirection struct {
	ReciprocalLatticeVector
}

func NewLatticeDirection(v *LatticeVector) *LatticeDirection {
	return &LatticeDirection{LatticeVector{Coords: intmath.Primitive(v.Coords), Lattice: v.Lattice}}
}

func NewReciprocalLatticeDirection(r *ReciprocalLatticeVector) *ReciprocalLatticeDirection {
	return &ReciprocalLatticeDirection{ReciprocalLatticeVector{Coords: intmath.Primitive(r.Coords), Lattice: r.Lattice}}
}

func (d *LatticeDirection) Vector() *LatticeVector { return &d.LatticeVector }

func (d *ReciprocalLatticeDirection) Vector() *ReciprocalLatticeVector {
	return &d.ReciprocalLatticeVector
}

func crossNorm(a, b []float64) float64 {
	an, bn := utils.Norm(a), utils.Norm(b)
	if an == 0 || bn == 0 {
		return 0
	}
	na, nb := make([]float64, len(a)), make([]float64, len(b))
	for i := range a {
		na[i], nb[i] = a[i]/an, b[i]/bn
	}
	return math.Sqrt(math.Abs(utils.GramDet2(na, nb)))
}

// LatticeDirection finds the primitive lattice vector parallel to the real
// direction d. The search runs in the RLLL reduced basis for numerical
// stability and fails with ErrApproximation if no lattice vector is parallel
// to d within tolerance.
func (l *Lattice) LatticeDirection(d []float64) (ld *LatticeDirection, err error) {
	var (
		red     *lll.RLLL
		reduced *Lattice
		vRed    utils.IVector
		v       utils.IVector
	)
	if err = l.checkLength(len(d)); err != nil {
		return
	}
	if utils.Norm(d) == 0 {
		err = types.Errorf(types.ErrApproximation, "lattice direction of the null vector")
		return
	}
	if red, err = lll.NewRLLL(l.Basis, Lovasz); err != nil {
		return
	}
	if reduced, err = NewLattice(red.ReducedBasis()); err != nil {
		return
	}
	nd := utils.MatVec(reduced.Reciprocal.T(), d)
	if vRed, err = RationalApproximation(nd); err != nil {
		return
	}
	if v, err = red.UnimodularMatrix().MulVec(vRed); err != nil {
		return
	}
	ld = NewLatticeDirection(&LatticeVector{Coords: v, Lattice: l})
	if cn := crossNorm(ld.Cartesian(), d); cn > utils.RoundTol {
		err = types.Errorf(types.ErrApproximation,
			"lattice direction not found: input direction %v, cross product norm = %.15e", d, cn)
		return nil, err
	}
	return
}

// ReciprocalLatticeDirection finds the primitive reciprocal vector parallel to
// the real direction d
func (l *Lattice) ReciprocalLatticeDirection(d []float64) (rd *ReciprocalLatticeDirection, err error) {
	var (
		red     *lll.RLLL
		reduced *Lattice
		rRed    utils.IVector
		r       utils.IVector
		Uinv    utils.IMatrix
	)
	if err = l.checkLength(len(d)); err != nil {
		return
	}
	if utils.Norm(d) == 0 {
		err = types.Errorf(types.ErrApproximation, "reciprocal lattice direction of the null vector")
		return
	}
	if red, err = lll.NewRLLL(l.Basis, Lovasz); err != nil {
		return
	}
	if reduced, err = NewLattice(red.ReducedBasis()); err != nil {
		return
	}
	nd := utils.MatVec(reduced.Basis.T(), d)
	if rRed, err = RationalApproximation(nd); err != nil {
		return
	}
	// reduced reciprocal basis = Reciprocal * U^-T
	if Uinv, err = red.UnimodularMatrix().InverseUnimodular(); err != nil {
		return
	}
	if r, err = Uinv.Transpose().MulVec(rRed); err != nil {
		return
	}
	rd = NewReciprocalLatticeDirection(&ReciprocalLatticeVector{Coords: r, Lattice: l})
	if cn := crossNorm(rd.Cartesian(), d); cn > utils.RoundTol {
		err = types.Errorf(types.ErrApproximation,
			"reciprocal lattice direction not found: input direction %v, cross product norm = %.15e", d, cn)
		return nil, err
	}
	return
}

// Stacking is the number of planes of the family r crossed by the shortest
// lattice vector normal to them, the period of the plane stacking sequence
func (r *ReciprocalLatticeDirection) Stacking() (n int64, err error) {
	var (
		ld *LatticeDirection
	)
	if r.IsZero() {
		err = types.Errorf(types.ErrDimension, "stacking of the null direction")
		return
	}
	if ld, err = r.Lattice.LatticeDirection(r.Cartesian()); err != nil {
		return
	}
	if n, err = r.Dot(ld.Vector()); err != nil {
		return
	}
	n = utils.AbsInt64(n)
	return
}

// Stacking is the number of planes normal to d crossed by d itself, counting
// the planes of the densest family normal to d
func (d *LatticeDirection) Stacking() (n int64, err error) {
	var (
		rd *ReciprocalLatticeDirection
	)
	if d.IsZero() {
		err = types.Errorf(types.ErrDimension, "stacking of the null direction")
		return
	}
	if rd, err = d.Lattice.ReciprocalLatticeDirection(d.Cartesian()); err != nil {
		return
	}
	if n, err = d.Dot(rd.Vector()); err != nil {
		return
	}
	n = utils.AbsInt64(n)
	return
}

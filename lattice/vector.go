package lattice

import (
	"fmt"

	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// LatticeVector is an exact point of Lattice, Cartesian = Basis * Coords
type LatticeVector struct {
	Coords  utils.IVector
	Lattice *Lattice
}

func (v *LatticeVector) Dim() int { return len(v.Coords) }

func (v *LatticeVector) String() string {
	return fmt.Sprintf("%v", []int64(v.Coords))
}

func (v *LatticeVector) Cartesian() []float64 {
	return utils.MatVec(v.Lattice.Basis, v.Coords.ToFloat())
}

func (v *LatticeVector) IsZero() bool { return v.Coords.IsZero() }

func (v *LatticeVector) Add(o *LatticeVector) (r *LatticeVector, err error) {
	var c utils.IVector
	if err = checkOwner(v.Lattice, o.Lattice, "lattice vectors"); err != nil {
		return
	}
	if c, err = v.Coords.Add(o.Coords); err != nil {
		return
	}
	r = &LatticeVector{Coords: c, Lattice: v.Lattice}
	return
}

func (v *LatticeVector) Sub(o *LatticeVector) (r *LatticeVector, err error) {
	var c utils.IVector
	if err = checkOwner(v.Lattice, o.Lattice, "lattice vectors"); err != nil {
		return
	}
	if c, err = v.Coords.Sub(o.Coords); err != nil {
		return
	}
	r = &LatticeVector{Coords: c, Lattice: v.Lattice}
	return
}

func (v *LatticeVector) Scale(s int64) (r *LatticeVector, err error) {
	var c utils.IVector
	if c, err = v.Coords.Scale(s); err != nil {
		return
	}
	r = &LatticeVector{Coords: c, Lattice: v.Lattice}
	return
}

func (v *LatticeVector) Neg() *LatticeVector {
	return &LatticeVector{Coords: v.Coords.Neg(), Lattice: v.Lattice}
}

// Equal compares coordinates of two vectors of the same lattice
func (v *LatticeVector) Equal(o *LatticeVector) (eq bool, err error) {
	if err = checkOwner(v.Lattice, o.Lattice, "lattice vectors"); err != nil {
		return
	}
	eq = v.Coords.Equal(o.Coords)
	return
}

// Dot pairs a lattice vector with a reciprocal vector of the same lattice, the
// result is always an integer
func (v *LatticeVector) Dot(r *ReciprocalLatticeVector) (d int64, err error) {
	if err = checkOwner(v.Lattice, r.Lattice, "lattice and reciprocal lattice vectors"); err != nil {
		return
	}
	return v.Coords.Dot(r.Coords)
}

// Cross returns the reciprocal direction normal to v and o in 3-D. Its
// Cartesian image points along v x o.
func (v *LatticeVector) Cross(o *LatticeVector) (r *ReciprocalLatticeDirection, err error) {
	if err = checkOwner(v.Lattice, o.Lattice, "lattice vectors"); err != nil {
		return
	}
	if v.Dim() != 3 {
		err = types.Errorf(types.ErrDimension, "cross product in %d dimensions", v.Dim())
		return
	}
	var c utils.IVector
	if c, err = crossInt(v.Coords, o.Coords); err != nil {
		return
	}
	if v.Lattice.Volume() < 0 {
		c = c.Neg()
	}
	r = NewReciprocalLatticeDirection(&ReciprocalLatticeVector{Coords: c, Lattice: v.Lattice})
	return
}

func crossInt(a, b utils.IVector) (c utils.IVector, err error) {
	var (
		p, q int64
	)
	c = make(utils.IVector, 3)
	for i := 0; i < 3; i++ {
		j, k := (i+1)%3, (i+2)%3
		if p, err = utils.MulInt64(a[j], b[k]); err != nil {
			return nil, err
		}
		if q, err = utils.MulInt64(a[k], b[j]); err != nil {
			return nil, err
		}
		if c[i], err = utils.SubInt64(p, q); err != nil {
			return nil, err
		}
	}
	return
}

// PlaneNormal returns the reciprocal direction normal to the hyperplane
// spanned by d-1 vectors of one lattice. Only 2-D and 3-D are supported.
func PlaneNormal(vs ...*LatticeVector) (r *ReciprocalLatticeDirection, err error) {
	if len(vs) == 0 {
		err = types.Errorf(types.ErrDimension, "no in-plane vectors")
		return
	}
	l := vs[0].Lattice
	if len(vs) != l.Dim()-1 {
		err = types.Errorf(types.ErrDimension, "%d in-plane vectors in %d dimensions", len(vs), l.Dim())
		return
	}
	switch l.Dim() {
	case 2:
		c := utils.IVector{vs[0].Coords[1], -vs[0].Coords[0]}
		r = NewReciprocalLatticeDirection(&ReciprocalLatticeVector{Coords: c, Lattice: l})
	case 3:
		r, err = vs[0].Cross(vs[1])
	default:
		err = types.Errorf(types.ErrDimension, "plane normal in %d dimensions", l.Dim())
	}
	return
}

// ReciprocalLatticeVector is an exact point of the reciprocal lattice,
// Cartesian = Reciprocal * Coords
type ReciprocalLatticeVector struct {
	Coords  utils.IVector
	Lattice *Lattice
}

func (r *ReciprocalLatticeVector) Dim() int { return len(r.Coords) }

func (r *ReciprocalLatticeVector) String() string {
	return fmt.Sprintf("%v", []int64(r.Coords))
}

func (r *ReciprocalLatticeVector) Cartesian() []float64 {
	return utils.MatVec(r.Lattice.Reciprocal, r.Coords.ToFloat())
}

func (r *ReciprocalLatticeVector) IsZero() bool { return r.Coords.IsZero() }

func (r *ReciprocalLatticeVector) Add(o *ReciprocalLatticeVector) (s *ReciprocalLatticeVector, err error) {
	var c utils.IVector
	if err = checkOwner(r.Lattice, o.Lattice, "reciprocal lattice vectors"); err != nil {
		return
	}
	if c, err = r.Coords.Add(o.Coords); err != nil {
		return
	}
	s = &ReciprocalLatticeVector{Coords: c, Lattice: r.Lattice}
	return
}

func (r *ReciprocalLatticeVector) Sub(o *ReciprocalLatticeVector) (s *ReciprocalLatticeVector, err error) {
	var c utils.IVector
	if err = checkOwner(r.Lattice, o.Lattice, "reciprocal lattice vectors"); err != nil {
		return
	}
	if c, err = r.Coords.Sub(o.Coords); err != nil {
		return
	}
	s = &ReciprocalLatticeVector{Coords: c, Lattice: r.Lattice}
	return
}

func (r *ReciprocalLatticeVector) Scale(k int64) (s *ReciprocalLatticeVector, err error) {
	var c utils.IVector
	if c, err = r.Coords.Scale(k); err != nil {
		return
	}
	s = &ReciprocalLatticeVector{Coords: c, Lattice: r.Lattice}
	return
}

func (r *ReciprocalLatticeVector) Neg() *ReciprocalLatticeVector {
	return &ReciprocalLatticeVector{Coords: r.Coords.Neg(), Lattice: r.Lattice}
}

func (r *ReciprocalLatticeVector) Equal(o *ReciprocalLatticeVector) (eq bool, err error) {
	if err = checkOwner(r.Lattice, o.Lattice, "reciprocal lattice vectors"); err != nil {
		return
	}
	eq = r.Coords.Equal(o.Coords)
	return
}

func (r *ReciprocalLatticeVector) Dot(v *LatticeVector) (d int64, err error) {
	return v.Dot(r)
}

// PlaneSpacing is the distance between consecutive planes r.x = k
func (r *ReciprocalLatticeVector) PlaneSpacing() float64 {
	return 1 / utils.Norm(r.Cartesian())
}

// InterplaneVector is the shortest real vector joining consecutive planes
func (r *ReciprocalLatticeVector) InterplaneVector() (iv []float64) {
	c := r.Cartesian()
	n2 := utils.Dot(c, c)
	iv = make([]float64, len(c))
	for i := range c {
		iv[i] = c[i] / n2
	}
	return
}

// ClosestPlaneIndexOfPoint is the index of the plane of the family nearest to P
func (r *ReciprocalLatticeVector) ClosestPlaneIndexOfPoint(P []float64) (h int64, err error) {
	if r.IsZero() {
		err = types.Errorf(types.ErrDimension, "a null reciprocal lattice vector has no planes")
		return
	}
	return utils.RoundToInt64(utils.Dot(r.Cartesian(), P))
}

// PlaneIndexOfPoint is the index of the plane of the family containing P,
// failing with ErrApproximation if P is between planes
func (r *ReciprocalLatticeVector) PlaneIndexOfPoint(P []float64) (h int64, err error) {
	if h, err = r.ClosestPlaneIndexOfPoint(P); err != nil {
		return
	}
	hd := utils.Dot(r.Cartesian(), P)
	if d := hd - float64(h); d > utils.RoundTol || d < -utils.RoundTol {
		err = types.Errorf(types.ErrApproximation, "P = %v is not on a lattice plane, hd = %.15e", P, hd)
		return 0, err
	}
	return
}

// PlaneIndexOfLatticePoint is exact for lattice points
func (r *ReciprocalLatticeVector) PlaneIndexOfLatticePoint(v *LatticeVector) (h int64, err error) {
	if r.IsZero() {
		err = types.Errorf(types.ErrDimension, "a null reciprocal lattice vector has no planes")
		return
	}
	return r.Dot(v)
}

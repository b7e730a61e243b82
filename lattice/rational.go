package lattice

import (
	"github.com/notargets/gblattice/intmath"
	"github.com/notargets/gblattice/rational"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// RationalLatticeDirection is Rat times a primitive lattice direction
type RationalLatticeDirection struct {
	Rat rational.Rational
	Dir *LatticeDirection
}

type RationalReciprocalLatticeDirection struct {
	Rat rational.Rational
	Dir *ReciprocalLatticeDirection
}

// NewRationalLatticeDirection splits v into its gcd and primitive direction
func NewRationalLatticeDirection(v *LatticeVector) *RationalLatticeDirection {
	return &RationalLatticeDirection{
		Rat: rational.Rational{N: intmath.GCDVec(v.Coords), D: 1},
		Dir: NewLatticeDirection(v),
	}
}

func NewRationalReciprocalLatticeDirection(r *ReciprocalLatticeVector) *RationalReciprocalLatticeDirection {
	return &RationalReciprocalLatticeDirection{
		Rat: rational.Rational{N: intmath.GCDVec(r.Coords), D: 1},
		Dir: NewReciprocalLatticeDirection(r),
	}
}

func scaled(x []float64, s float64) (y []float64) {
	y = make([]float64, len(x))
	for i := range x {
		y[i] = s * x[i]
	}
	return
}

func (rl *RationalLatticeDirection) Cartesian() []float64 {
	return scaled(rl.Dir.Cartesian(), rl.Rat.Float())
}

func (rr *RationalReciprocalLatticeDirection) Cartesian() []float64 {
	return scaled(rr.Dir.Cartesian(), rr.Rat.Float())
}

func (rl *RationalLatticeDirection) SquaredNorm() float64 {
	c := rl.Cartesian()
	return utils.Dot(c, c)
}

func (rr *RationalReciprocalLatticeDirection) SquaredNorm() float64 {
	c := rr.Cartesian()
	return utils.Dot(c, c)
}

// Dot is the exact rational pairing with a reciprocal lattice vector
func (rl *RationalLatticeDirection) Dot(r *ReciprocalLatticeVector) (q rational.Rational, err error) {
	var d int64
	if d, err = rl.Dir.Dot(r); err != nil {
		return
	}
	return rl.Rat.MulInt(d)
}

func (rr *RationalReciprocalLatticeDirection) Dot(v *LatticeVector) (q rational.Rational, err error) {
	var d int64
	if d, err = rr.Dir.Dot(v); err != nil {
		return
	}
	return rr.Rat.MulInt(d)
}

func (rl *RationalLatticeDirection) Scale(s int64) (o *RationalLatticeDirection, err error) {
	var q rational.Rational
	if q, err = rl.Rat.MulInt(s); err != nil {
		return
	}
	o = &RationalLatticeDirection{Rat: q, Dir: rl.Dir}
	return
}

func (rl *RationalLatticeDirection) Div(s int64) (o *RationalLatticeDirection, err error) {
	var q rational.Rational
	if q, err = rl.Rat.DivInt(s); err != nil {
		return
	}
	o = &RationalLatticeDirection{Rat: q, Dir: rl.Dir}
	return
}

func (rr *RationalReciprocalLatticeDirection) Scale(s int64) (o *RationalReciprocalLatticeDirection, err error) {
	var q rational.Rational
	if q, err = rr.Rat.MulInt(s); err != nil {
		return
	}
	o = &RationalReciprocalLatticeDirection{Rat: q, Dir: rr.Dir}
	return
}

func (rr *RationalReciprocalLatticeDirection) Div(s int64) (o *RationalReciprocalLatticeDirection, err error) {
	var q rational.Rational
	if q, err = rr.Rat.DivInt(s); err != nil {
		return
	}
	o = &RationalReciprocalLatticeDirection{Rat: q, Dir: rr.Dir}
	return
}

// combine returns (a.N*b.D*u + sign*b.N*a.D*v) / (a.D*b.D) split into its
// gcd and primitive part
func combine(a, b rational.Rational, u, v utils.IVector, sign int64) (q rational.Rational, dir utils.IVector, err error) {
	var (
		su, sv, den int64
		tu, tv, t   utils.IVector
	)
	if su, err = utils.MulInt64(a.N, b.D); err != nil {
		return
	}
	if sv, err = utils.MulInt64(sign*b.N, a.D); err != nil {
		return
	}
	if tu, err = u.Scale(su); err != nil {
		return
	}
	if tv, err = v.Scale(sv); err != nil {
		return
	}
	if t, err = tu.Add(tv); err != nil {
		return
	}
	if den, err = utils.MulInt64(a.D, b.D); err != nil {
		return
	}
	g := intmath.GCDVec(t)
	if t.IsZero() {
		g = 0
	}
	if q, err = rational.NewRational(g, den); err != nil {
		return
	}
	dir = intmath.Primitive(t)
	return
}

func (rl *RationalLatticeDirection) add(o *RationalLatticeDirection, sign int64) (s *RationalLatticeDirection, err error) {
	var (
		q   rational.Rational
		dir utils.IVector
	)
	if err = checkOwner(rl.Dir.Lattice, o.Dir.Lattice, "rational lattice directions"); err != nil {
		return
	}
	if q, dir, err = combine(rl.Rat, o.Rat, rl.Dir.Coords, o.Dir.Coords, sign); err != nil {
		return
	}
	s = &RationalLatticeDirection{Rat: q, Dir: &LatticeDirection{LatticeVector{Coords: dir, Lattice: rl.Dir.Lattice}}}
	return
}

func (rl *RationalLatticeDirection) Add(o *RationalLatticeDirection) (*RationalLatticeDirection, error) {
	return rl.add(o, 1)
}

func (rl *RationalLatticeDirection) Sub(o *RationalLatticeDirection) (*RationalLatticeDirection, error) {
	return rl.add(o, -1)
}

func (rr *RationalReciprocalLatticeDirection) add(o *RationalReciprocalLatticeDirection,
	sign int64) (s *RationalReciprocalLatticeDirection, err error) {
	var (
		q   rational.Rational
		dir utils.IVector
	)
	if err = checkOwner(rr.Dir.Lattice, o.Dir.Lattice, "rational reciprocal lattice directions"); err != nil {
		return
	}
	if q, dir, err = combine(rr.Rat, o.Rat, rr.Dir.Coords, o.Dir.Coords, sign); err != nil {
		return
	}
	s = &RationalReciprocalLatticeDirection{Rat: q,
		Dir: &ReciprocalLatticeDirection{ReciprocalLatticeVector{Coords: dir, Lattice: rr.Dir.Lattice}}}
	return
}

func (rr *RationalReciprocalLatticeDirection) Add(o *RationalReciprocalLatticeDirection) (*RationalReciprocalLatticeDirection, error) {
	return rr.add(o, 1)
}

func (rr *RationalReciprocalLatticeDirection) Sub(o *RationalReciprocalLatticeDirection) (*RationalReciprocalLatticeDirection, error) {
	return rr.add(o, -1)
}

// RationalLatticeDirection expresses d as a bounded-denominator rational
// multiple of a primitive lattice direction
func (l *Lattice) RationalLatticeDirection(d []float64, maxDen int64) (rl *RationalLatticeDirection, err error) {
	var (
		ld  *LatticeDirection
		bra rational.Rational
	)
	if ld, err = l.LatticeDirection(d); err != nil {
		return
	}
	if bra, err = rational.BestRationalApproximation(utils.Norm(d)/utils.Norm(ld.Cartesian()), maxDen); err != nil {
		return
	}
	rl = &RationalLatticeDirection{Rat: bra, Dir: ld}
	if e := squaredDistance(rl.Cartesian(), d); e > utils.RoundTol {
		err = types.Errorf(types.ErrApproximation,
			"rational lattice direction not found: input %v, direction %v, rational %v", d, ld.Coords, bra)
		return nil, err
	}
	return
}

func (l *Lattice) RationalReciprocalLatticeDirection(d []float64, maxDen int64) (rr *RationalReciprocalLatticeDirection, err error) {
	var (
		rd  *ReciprocalLatticeDirection
		bra rational.Rational
	)
	if rd, err = l.ReciprocalLatticeDirection(d); err != nil {
		return
	}
	if bra, err = rational.BestRationalApproximation(utils.Norm(d)/utils.Norm(rd.Cartesian()), maxDen); err != nil {
		return
	}
	rr = &RationalReciprocalLatticeDirection{Rat: bra, Dir: rd}
	if e := squaredDistance(rr.Cartesian(), d); e > utils.RoundTol {
		err = types.Errorf(types.ErrApproximation,
			"rational reciprocal lattice direction not found: input %v, direction %v, rational %v", d, rd.Coords, bra)
		return nil, err
	}
	return
}

func squaredDistance(a, b []float64) (s float64) {
	for i := range a {
		s += (a[i] - b[i]) * (a[i] - b[i])
	}
	return
}

package rational

import (
	"fmt"

	"github.com/notargets/gblattice/intmath"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// NewRational normalizes n/d to lowest terms with a positive denominator
func NewRational(n, d int64) (r Rational, err error) {
	if d == 0 {
		err = types.Errorf(types.ErrApproximation, "zero denominator in %d/%d", n, d)
		return
	}
	g := intmath.GCD(n, d) * intmath.Sgn(d)
	r = Rational{N: n / g, D: d / g}
	return
}

func (r Rational) String() string {
	if r.D == 1 {
		return fmt.Sprintf("%d", r.N)
	}
	return fmt.Sprintf("%d/%d", r.N, r.D)
}

func (r Rational) Mul(o Rational) (p Rational, err error) {
	var n, d int64
	// cross cancel before multiplying
	g1, g2 := intmath.GCD(r.N, o.D), intmath.GCD(o.N, r.D)
	if n, err = utils.MulInt64(r.N/g1, o.N/g2); err != nil {
		return
	}
	if d, err = utils.MulInt64(r.D/g2, o.D/g1); err != nil {
		return
	}
	return NewRational(n, d)
}

func (r Rational) MulInt(s int64) (p Rational, err error) {
	return r.Mul(Rational{N: s, D: 1})
}

func (r Rational) DivInt(s int64) (p Rational, err error) {
	var inv Rational
	if inv, err = NewRational(1, s); err != nil {
		return
	}
	return r.Mul(inv)
}

func (r Rational) Add(o Rational) (s Rational, err error) {
	var a, b, d int64
	if a, err = utils.MulInt64(r.N, o.D); err != nil {
		return
	}
	if b, err = utils.MulInt64(o.N, r.D); err != nil {
		return
	}
	if a, err = utils.AddInt64(a, b); err != nil {
		return
	}
	if d, err = utils.MulInt64(r.D, o.D); err != nil {
		return
	}
	return NewRational(a, d)
}

func (r Rational) Neg() Rational {
	return Rational{N: -r.N, D: r.D}
}

func (r Rational) Sub(o Rational) (s Rational, err error) {
	return r.Add(o.Neg())
}

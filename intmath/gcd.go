package intmath

import (
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// GCD is the non negative greatest common divisor of a and b. GCD(0, 0) is 1
// so that dividing by it is always well formed.
func GCD(a, b int64) int64 {
	a, b = utils.AbsInt64(a), utils.AbsInt64(b)
	if a == 0 && b == 0 {
		return 1
	}
	return gcd(a, b)
}

func gcd(a, b int64) int64 {
	if b == 0 {
		return a
	}
	return gcd(b, a%b)
}

// GCDVec folds GCD over v. Leading zeros are carried as zero until a non zero
// entry appears; the all zero vector has GCD 1.
func GCDVec(v utils.IVector) (g int64) {
	for _, x := range v {
		x = utils.AbsInt64(x)
		if g == 0 && x == 0 {
			continue
		}
		g = gcd(g, x)
	}
	if g == 0 {
		g = 1
	}
	return
}

// LCM is the non negative least common multiple, zero if either is zero
func LCM(a, b int64) (l int64, err error) {
	if a == 0 || b == 0 {
		return
	}
	if l, err = utils.MulInt64(utils.AbsInt64(a)/GCD(a, b), utils.AbsInt64(b)); err != nil {
		err = types.Errorf(types.ErrIntegerOverflow, "lcm(%d, %d)", a, b)
	}
	return
}

func LCMVec(v utils.IVector) (l int64, err error) {
	if len(v) == 0 {
		return
	}
	l = utils.AbsInt64(v[0])
	for _, x := range v[1:] {
		if l, err = LCM(l, x); err != nil {
			return
		}
	}
	return
}

// Primitive divides v by the GCD of its entries, leaving zero unchanged
func Primitive(v utils.IVector) (p utils.IVector) {
	g := GCDVec(v)
	p = make(utils.IVector, len(v))
	for i, x := range v {
		p[i] = x / g
	}
	return
}

func Sgn(a int64) int64 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return 0
}

// PositiveModulo is a mod b in [0, |b|)
func PositiveModulo(a, b int64) int64 {
	b = utils.AbsInt64(b)
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

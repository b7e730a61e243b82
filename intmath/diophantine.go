package intmath

import (
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// ExtendedGCD returns g = gcd(a, b) and x, y with a*x + b*y = g. The sign of g
// follows the truncated remainder recursion and may be negative.
func ExtendedGCD(a, b int64) (g, x, y int64) {
	if b == 0 {
		return a, 1, 0
	}
	var x1, y1 int64
	g, x1, y1 = ExtendedGCD(b, a%b)
	x = y1
	y = x1 - (a/b)*y1
	return
}

// SolveDiophantine2Vars solves a*x + b*y = c
func SolveDiophantine2Vars(a, b, c int64) (x, y int64, err error) {
	var (
		g int64
	)
	if a == 0 && b == 0 {
		if c != 0 {
			err = types.Errorf(types.ErrInfeasibleEquation, "0*x + 0*y = %d", c)
		}
		return
	}
	g, x, y = ExtendedGCD(a, b)
	if c%g != 0 {
		err = types.Errorf(types.ErrInfeasibleEquation,
			"%d*x + %d*y = %d has no integer solution, gcd = %d", a, b, c, utils.AbsInt64(g))
		return 0, 0, err
	}
	if x, err = utils.MulInt64(x, c/g); err != nil {
		return 0, 0, err
	}
	if y, err = utils.MulInt64(y, c/g); err != nil {
		return 0, 0, err
	}
	return
}

// SolveBezout returns u with a.u = 1. It needs at least two entries and
// gcd(a) = 1.
func SolveBezout(a utils.IVector) (u utils.IVector, err error) {
	var (
		n = len(a)
	)
	if n < 2 {
		err = types.Errorf(types.ErrDimension, "bezout solve needs at least two entries, have %d", n)
		return
	}
	if a.IsZero() {
		err = types.Errorf(types.ErrInfeasibleEquation, "bezout solve of the zero vector")
		return
	}
	if g := GCDVec(a); g != 1 {
		err = types.Errorf(types.ErrInfeasibleEquation, "gcd of %v is %d, not 1", a, g)
		return
	}
	return solveBezout(a)
}

func solveBezout(a utils.IVector) (u utils.IVector, err error) {
	var (
		n = len(a)
	)
	if n == 2 {
		g, x, y := ExtendedGCD(a[0], a[1])
		if g < 0 {
			x, y = -x, -y
		}
		u = utils.IVector{x, y}
		return
	}
	g12, p, q := ExtendedGCD(a[0], a[1])
	na := make(utils.IVector, n-1)
	na[0] = g12
	copy(na[1:], a[2:])
	var k utils.IVector
	if k, err = solveBezout(na); err != nil {
		return
	}
	u = make(utils.IVector, n)
	if u[0], err = utils.MulInt64(p, k[0]); err != nil {
		return nil, err
	}
	if u[1], err = utils.MulInt64(q, k[0]); err != nil {
		return nil, err
	}
	copy(u[2:], k[1:])
	return
}

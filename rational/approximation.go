package rational

import (
	"math"

	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// Rational is a fraction N/D with D > 0 in lowest terms
type Rational struct {
	N, D int64
}

func (r Rational) Float() float64 {
	return float64(r.N) / float64(r.D)
}

// BestRationalApproximation returns the fraction closest to x among those
// with denominator at most maxDen, walking the continued fraction expansion
// of x and finishing with the best semiconvergent
func BestRationalApproximation(x float64, maxDen int64) (r Rational, err error) {
	var (
		sign int64 = 1
	)
	if maxDen < 1 {
		err = types.Errorf(types.ErrApproximation, "maximum denominator %d < 1", maxDen)
		return
	}
	if math.IsNaN(x) || math.IsInf(x, 0) || math.Abs(x) >= 1<<62 {
		err = types.Errorf(types.ErrApproximation, "cannot approximate %g by a fraction", x)
		return
	}
	if x < 0 {
		sign, x = -1, -x
	}
	var (
		// convergents p/q and the previous one p0/q0
		p0, q0 int64 = 0, 1
		p, q   int64 = 1, 0
		rem          = x
	)
	for {
		a := int64(math.Floor(rem))
		if q != 0 && a > (maxDen-q0)/q {
			// the next convergent exceeds maxDen, try the best semiconvergent
			var sp, sq int64
			k := (maxDen - q0) / q
			if sp, err = convergent(k, p, p0); err != nil {
				return
			}
			if sq, err = convergent(k, q, q0); err != nil {
				return
			}
			if k > 0 && math.Abs(x-float64(sp)/float64(sq)) < math.Abs(x-float64(p)/float64(q)) {
				p, q = sp, sq
			}
			break
		}
		var pn, qn int64
		if pn, err = convergent(a, p, p0); err != nil {
			return
		}
		if qn, err = convergent(a, q, q0); err != nil {
			return
		}
		p0, q0, p, q = p, q, pn, qn
		frac := rem - float64(a)
		if frac < 1.e-15*math.Max(1, rem) || float64(p)/float64(q) == x {
			break
		}
		rem = 1 / frac
		if rem >= 1<<62 {
			break
		}
	}
	r = Rational{N: sign * p, D: q}
	return
}

// convergent returns a*x1 + x0, failing with ErrIntegerOverflow
func convergent(a, x1, x0 int64) (x int64, err error) {
	if x, err = utils.MulInt64(a, x1); err != nil {
		return
	}
	return utils.AddInt64(x, x0)
}

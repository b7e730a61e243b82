package utils

import (
	"math"

	"github.com/notargets/gblattice/types"
)

// AddInt64 returns a+b or ErrIntegerOverflow
func AddInt64(a, b int64) (c int64, err error) {
	c = a + b
	if (c > a) != (b > 0) {
		err = types.Errorf(types.ErrIntegerOverflow, "%d + %d", a, b)
	}
	return
}

// SubInt64 returns a-b or ErrIntegerOverflow
func SubInt64(a, b int64) (c int64, err error) {
	c = a - b
	if (c < a) != (b > 0) {
		err = types.Errorf(types.ErrIntegerOverflow, "%d - %d", a, b)
	}
	return
}

// MulInt64 returns a*b or ErrIntegerOverflow
func MulInt64(a, b int64) (c int64, err error) {
	if a == 0 || b == 0 {
		return
	}
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		err = types.Errorf(types.ErrIntegerOverflow, "%d * %d", a, b)
		return
	}
	c = a * b
	if c/b != a {
		err = types.Errorf(types.ErrIntegerOverflow, "%d * %d", a, b)
	}
	return
}

func AbsInt64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

// RoundToInt64 rounds x half away from zero, failing outside the int64 range
func RoundToInt64(x float64) (i int64, err error) {
	r := math.Round(x)
	if math.IsNaN(r) || r >= math.MaxInt64 || r < math.MinInt64 {
		err = types.Errorf(types.ErrIntegerOverflow, "cannot round %g to int64", x)
		return
	}
	i = int64(r)
	return
}

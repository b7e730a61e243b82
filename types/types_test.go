package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypes(t *testing.T) {
	{ // Sentinels survive wrapping
		err := Errorf(ErrApproximation, "rounding error = %g", 1.e-3)
		assert.True(t, errors.Is(err, ErrApproximation))
		assert.False(t, errors.Is(err, ErrUnimodularity))
		assert.Equal(t, "approximation error: rounding error = 0.001", err.Error())
		assert.Equal(t, KindApproximation, KindOf(err))
	}
	{ // Construction failures keep the cause
		cause := Errorf(ErrAlgebraicInconsistency, "CSL is not a multiple of lattice A")
		err := ConstructionFailed("bicrystal", cause)
		assert.True(t, errors.Is(err, ErrAlgebraicInconsistency))
		assert.Equal(t, "bicrystal construction failed: algebraic inconsistency: CSL is not a multiple of lattice A",
			err.Error())
		assert.Equal(t, "AlgebraicInconsistency", KindOf(err).String())
	}
	{ // Doubly tagged errors report the first kind in taxonomy order
		err := fmt.Errorf("%w: %w", ErrAlgebraicInconsistency, ErrIntegerOverflow)
		assert.True(t, errors.Is(err, ErrIntegerOverflow))
		assert.Equal(t, KindAlgebraicInconsistency, KindOf(err))
	}
	{
		assert.Equal(t, KindUnknown, KindOf(nil))
		assert.Equal(t, KindUnknown, KindOf(errors.New("other")))
		assert.Equal(t, "Unknown", KindUnknown.String())
	}
}

package types

import (
	"errors"
	"fmt"
)

// Error kinds shared by every package of the lattice engine. Producers wrap
// one of these with fmt.Errorf("%w: ...") and callers test with errors.Is.
var (
	// ErrApproximation - a real vector or matrix has no exact lattice
	// representation within tolerance or within the denominator bound
	ErrApproximation = errors.New("approximation error")
	// ErrAlgebraicInconsistency - two independently derived results disagree
	ErrAlgebraicInconsistency = errors.New("algebraic inconsistency")
	// ErrIdentityMismatch - a vector owned by the wrong lattice instance
	ErrIdentityMismatch = errors.New("identity mismatch")
	// ErrUnimodularity - a transform that must have det ±1 does not
	ErrUnimodularity = errors.New("unimodularity error")
	// ErrInfeasibleEquation - a Diophantine or Bezout system has no solution
	ErrInfeasibleEquation = errors.New("infeasible equation")
	// ErrIntegerOverflow - an exact integer result left the int64 range
	ErrIntegerOverflow = errors.New("integer overflow")
	// ErrDimension - operands of incompatible or unsupported dimension
	ErrDimension = errors.New("dimension mismatch")
)

type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindApproximation
	KindAlgebraicInconsistency
	KindIdentityMismatch
	KindUnimodularity
	KindInfeasibleEquation
	KindIntegerOverflow
	KindDimension
)

var kindSentinels = []struct {
	kind ErrorKind
	err  error
}{
	{KindApproximation, ErrApproximation},
	{KindAlgebraicInconsistency, ErrAlgebraicInconsistency},
	{KindIdentityMismatch, ErrIdentityMismatch},
	{KindUnimodularity, ErrUnimodularity},
	{KindInfeasibleEquation, ErrInfeasibleEquation},
	{KindIntegerOverflow, ErrIntegerOverflow},
	{KindDimension, ErrDimension},
}

func (ek ErrorKind) String() string {
	switch ek {
	case KindApproximation:
		return "Approximation"
	case KindAlgebraicInconsistency:
		return "AlgebraicInconsistency"
	case KindIdentityMismatch:
		return "IdentityMismatch"
	case KindUnimodularity:
		return "Unimodularity"
	case KindInfeasibleEquation:
		return "InfeasibleEquation"
	case KindIntegerOverflow:
		return "IntegerOverflow"
	case KindDimension:
		return "Dimension"
	}
	return "Unknown"
}

// KindOf returns the first error kind found in err's chain, in taxonomy order
func KindOf(err error) (ek ErrorKind) {
	if err == nil {
		return
	}
	for _, ks := range kindSentinels {
		if errors.Is(err, ks.err) {
			return ks.kind
		}
	}
	return
}

// Errorf wraps a sentinel with a formatted message
func Errorf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// ConstructionFailed wraps the cause of an aborted construction, keeping the
// whole chain available to errors.Is
func ConstructionFailed(what string, cause error) error {
	return fmt.Errorf("%s construction failed: %w", what, cause)
}

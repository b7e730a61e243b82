package utils

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"

	"github.com/notargets/gblattice/types"
)

// RotationMatrix is the 3-D rotation by angle (radians) about axis, built
// from the unit quaternion cos(angle/2) + sin(angle/2)*axis
func RotationMatrix(axis []float64, angle float64) (R *mat.Dense, err error) {
	var (
		n = Norm(axis)
	)
	if len(axis) != 3 || n == 0 {
		err = types.Errorf(types.ErrDimension, "rotation axis %v must be a non null 3-vector", axis)
		return
	}
	s, c := math.Sincos(angle / 2)
	q := quat.Number{Real: c, Imag: s * axis[0] / n, Jmag: s * axis[1] / n, Kmag: s * axis[2] / n}
	R = mat.NewDense(3, 3, nil)
	for j := 0; j < 3; j++ {
		e := quat.Number{}
		switch j {
		case 0:
			e.Imag = 1
		case 1:
			e.Jmag = 1
		case 2:
			e.Kmag = 1
		}
		r := quat.Mul(quat.Mul(q, e), quat.Conj(q))
		R.Set(0, j, r.Imag)
		R.Set(1, j, r.Jmag)
		R.Set(2, j, r.Kmag)
	}
	return
}

// Rotation2D is the planar rotation by angle radians
func Rotation2D(angle float64) (R *mat.Dense) {
	s, c := math.Sincos(angle)
	return mat.NewDense(2, 2, []float64{
		c, -s,
		s, c,
	})
}

// IsRotation reports whether R is orthogonal with det +1 within RoundTol
func IsRotation(R mat.Matrix) bool {
	var (
		nr, nc = R.Dims()
		P      mat.Dense
	)
	if nr != nc {
		return false
	}
	P.Mul(R.T(), R)
	if RelDiff(&P, Identity(nr)) > RoundTol {
		return false
	}
	return math.Abs(mat.Det(R)-1) < RoundTol
}

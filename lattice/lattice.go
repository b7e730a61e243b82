// Package lattice implements integer lattices embedded in real space, their
// reciprocal lattices and exact integer coordinate vectors bound to a single
// lattice instance.
package lattice

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// Lovasz is the reduction parameter used whenever a lattice reduces its own
// basis
const Lovasz = 0.75

// Lattice is immutable after construction. Vectors hold a pointer to the
// lattice that created them and two lattices are never equal by value.
type Lattice struct {
	Basis      *mat.Dense // columns are the generators, F*A
	Reciprocal *mat.Dense // Basis^-T
	F          *mat.Dense
	dim        int
}

// NewLattice builds the lattice with structure matrix F*A. F defaults to the
// identity and may be any non singular deformation.
func NewLattice(A mat.Matrix, FO ...mat.Matrix) (l *Lattice, err error) {
	var (
		nr, nc = A.Dims()
		F      *mat.Dense
	)
	if nr != nc {
		err = types.Errorf(types.ErrDimension, "lattice basis must be square, have %dx%d", nr, nc)
		return
	}
	if !utils.CheckDimension(nr) {
		err = types.Errorf(types.ErrDimension, "lattice dimension %d not in [%d, %d]",
			nr, utils.MinDimension, utils.MaxDimension)
		return
	}
	if utils.IsNonFinite(A) || (len(FO) != 0 && FO[0] != nil && utils.IsNonFinite(FO[0])) {
		err = types.Errorf(types.ErrApproximation, "lattice basis or deformation is not finite")
		return
	}
	if len(FO) != 0 && FO[0] != nil {
		if fr, fc := FO[0].Dims(); fr != nr || fc != nc {
			err = types.Errorf(types.ErrDimension, "deformation is %dx%d, basis is %dx%d", fr, fc, nr, nc)
			return
		}
		F = mat.DenseCopyOf(FO[0])
	} else {
		F = utils.Identity(nr)
	}
	l = &Lattice{F: F, dim: nr}
	l.Basis = utils.MatMul(F, A)
	if l.Reciprocal, err = utils.InverseTranspose(l.Basis); err != nil {
		return nil, err
	}
	return
}

func (l *Lattice) Dim() int { return l.dim }

// Volume is the signed determinant of the structure matrix
func (l *Lattice) Volume() float64 { return mat.Det(l.Basis) }

func (l *Lattice) String() string {
	return fmt.Sprintf("lattice %p basis = \n%v", l, mat.Formatted(l.Basis, mat.Squeeze()))
}

func checkOwner(a, b *Lattice, what string) (err error) {
	if a != b {
		err = types.Errorf(types.ErrIdentityMismatch, "%s belong to different lattices", what)
	}
	return
}

func (l *Lattice) checkLength(n int) (err error) {
	if n != l.dim {
		err = types.Errorf(types.ErrDimension, "vector of length %d in a %d dimensional lattice", n, l.dim)
	}
	return
}

// ZeroVector is the origin of l
func (l *Lattice) ZeroVector() *LatticeVector {
	return &LatticeVector{Coords: utils.NewIVector(l.dim), Lattice: l}
}

// NewLatticeVector binds integer coordinates to l
func (l *Lattice) NewLatticeVector(coords utils.IVector) (v *LatticeVector, err error) {
	if err = l.checkLength(len(coords)); err != nil {
		return
	}
	v = &LatticeVector{Coords: coords.Copy(), Lattice: l}
	return
}

// LatticeVector maps the Cartesian point p to its lattice coordinates,
// failing with ErrApproximation if p is not a lattice point
func (l *Lattice) LatticeVector(p []float64) (v *LatticeVector, err error) {
	var (
		coords utils.IVector
	)
	if err = l.checkLength(len(p)); err != nil {
		return
	}
	if coords, err = IntegerCoordinates(p, l.Reciprocal.T()); err != nil {
		return
	}
	v = &LatticeVector{Coords: coords, Lattice: l}
	return
}

func (l *Lattice) ZeroReciprocalVector() *ReciprocalLatticeVector {
	return &ReciprocalLatticeVector{Coords: utils.NewIVector(l.dim), Lattice: l}
}

func (l *Lattice) NewReciprocalLatticeVector(coords utils.IVector) (r *ReciprocalLatticeVector, err error) {
	if err = l.checkLength(len(coords)); err != nil {
		return
	}
	r = &ReciprocalLatticeVector{Coords: coords.Copy(), Lattice: l}
	return
}

// ReciprocalLatticeVector maps the Cartesian point p to reciprocal lattice
// coordinates Basis^T * p
func (l *Lattice) ReciprocalLatticeVector(p []float64) (r *ReciprocalLatticeVector, err error) {
	var (
		coords utils.IVector
	)
	if err = l.checkLength(len(p)); err != nil {
		return
	}
	if coords, err = IntegerCoordinates(p, l.Basis.T()); err != nil {
		return
	}
	r = &ReciprocalLatticeVector{Coords: coords, Lattice: l}
	return
}

// InterPlanarSpacing is the distance between neighboring planes of the family
// with normal r
func (l *Lattice) InterPlanarSpacing(r *ReciprocalLatticeDirection) (s float64, err error) {
	if err = checkOwner(l, r.Lattice, "reciprocal direction and lattice"); err != nil {
		return
	}
	n := utils.Norm(r.Cartesian())
	if n == 0 {
		err = types.Errorf(types.ErrDimension, "interplanar spacing of the null direction")
		return
	}
	s = 1 / n
	return
}

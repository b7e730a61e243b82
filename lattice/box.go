package lattice

import (
	"github.com/notargets/gblattice/intmath"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// MaxBoxCandidates bounds the number of integer points scanned by Box
const MaxBoxCandidates = 1 << 26

// Box enumerates the lattice points p = K*lambda with lambda in [0,1)^d,
// where the columns of K are the box vectors. A point is inside when
// sgn(det K)*adj(K)*p lies in [0, |det K|)^d; exactly |det K| points are found.
func (l *Lattice) Box(boxVectors []*LatticeVector) (points []*LatticeVector, err error) {
	var (
		dim = l.dim
		det int64
		adj utils.IMatrix
	)
	if len(boxVectors) != dim {
		err = types.Errorf(types.ErrDimension, "%d box vectors in %d dimensions", len(boxVectors), dim)
		return
	}
	cols := make([]utils.IVector, dim)
	for j, v := range boxVectors {
		if err = checkOwner(l, v.Lattice, "box vectors"); err != nil {
			return
		}
		cols[j] = v.Coords
	}
	K := utils.NewIMatrixFromCols(cols...)
	if det, err = K.Det(); err != nil {
		return
	}
	if det == 0 {
		err = types.Errorf(types.ErrDimension, "box vectors are linearly dependent")
		return
	}
	if adj, err = K.Adjugate(); err != nil {
		return
	}
	if det < 0 {
		adj = adj.Neg()
	}
	vol := utils.AbsInt64(det)
	// integer bounding box of the 2^d corners
	lo, hi := make(utils.IVector, dim), make(utils.IVector, dim)
	for i := 0; i < dim; i++ {
		for _, c := range cols {
			if c[i] < 0 {
				lo[i] += c[i]
			} else {
				hi[i] += c[i]
			}
		}
	}
	var candidates int64 = 1
	for i := 0; i < dim; i++ {
		if candidates, err = utils.MulInt64(candidates, hi[i]-lo[i]+1); err != nil || candidates > MaxBoxCandidates {
			err = types.Errorf(types.ErrIntegerOverflow, "box spans too many candidate points")
			return
		}
	}
	p := lo.Copy()
	for {
		var w utils.IVector
		if w, err = adj.MulVec(p); err != nil {
			return nil, err
		}
		inside := true
		for _, x := range w {
			if x < 0 || x >= vol {
				inside = false
				break
			}
		}
		if inside {
			points = append(points, &LatticeVector{Coords: p.Copy(), Lattice: l})
		}
		// odometer over the bounding box
		i := 0
		for ; i < dim; i++ {
			if p[i] < hi[i] {
				p[i]++
				break
			}
			p[i] = lo[i]
		}
		if i == dim {
			break
		}
	}
	if int64(len(points)) != vol {
		err = types.Errorf(types.ErrAlgebraicInconsistency,
			"box contains %d lattice points, expected |det| = %d", len(points), vol)
		return nil, err
	}
	return
}

// BoxContains reports whether v lies in the half open box spanned by the
// box vectors, using the same membership rule as Box
func BoxContains(boxVectors []*LatticeVector, v *LatticeVector) (inside bool, err error) {
	var (
		det int64
		adj utils.IMatrix
		w   utils.IVector
	)
	cols := make([]utils.IVector, len(boxVectors))
	for j, b := range boxVectors {
		if err = checkOwner(v.Lattice, b.Lattice, "box vectors and point"); err != nil {
			return
		}
		cols[j] = b.Coords
	}
	K := utils.NewIMatrixFromCols(cols...)
	if det, err = K.Det(); err != nil {
		return
	}
	if det == 0 {
		err = types.Errorf(types.ErrDimension, "box vectors are linearly dependent")
		return
	}
	if adj, err = K.Adjugate(); err != nil {
		return
	}
	if w, err = adj.MulVec(v.Coords); err != nil {
		return
	}
	s := intmath.Sgn(det)
	for _, x := range w {
		x *= s
		if x < 0 || x >= utils.AbsInt64(det) {
			return false, nil
		}
	}
	return true, nil
}

package bicrystal

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/lattice"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

// MaxTransverseShell bounds the search for the transverse box vector, in
// steps of the in-plane CSL basis
const MaxTransverseShell = 64

// Box returns the points of A, B, the CSL and the DSCL inside the box
// spanned by the CSL vectors boxVectors. boxVectors[1:] span the interface
// plane and are kept; boxVectors[0] is replaced in place by the most
// orthogonal CSL vector with the same height, the search stopping as soon as
// the deviation from 90 degrees is below (1-orthogonality)*90. Only the DSCL
// points in the first 1/dsclFactor of the box height are returned. If
// filename is set the configuration is also written as extended XYZ.
func (bc *BiCrystal) Box(boxVectors []*lattice.LatticeVector, orthogonality float64, dsclFactor int64,
	filename string, orient bool) (config []*lattice.LatticeVector, err error) {
	var (
		dim = bc.CSL.Dim()
		r   *lattice.ReciprocalLatticeDirection
		pts []*lattice.LatticeVector
	)
	if dim != 2 && dim != 3 {
		err = types.Errorf(types.ErrDimension, "box output needs a 2-D or 3-D bicrystal, have %d", dim)
		return
	}
	if len(boxVectors) != dim {
		err = types.Errorf(types.ErrDimension, "%d box vectors in %d dimensions", len(boxVectors), dim)
		return
	}
	for _, v := range boxVectors {
		if v.Lattice != bc.CSL {
			err = types.Errorf(types.ErrIdentityMismatch, "box vectors must be CSL vectors")
			return
		}
	}
	if orthogonality < 0 || orthogonality > 1 {
		err = fmt.Errorf("orthogonality = %g must lie in [0, 1]", orthogonality)
		return
	}
	if dsclFactor < 1 {
		err = fmt.Errorf("dsclFactor = %d must be positive", dsclFactor)
		return
	}
	if r, err = bc.boxNormal(boxVectors); err != nil {
		return
	}
	if boxVectors[0], err = bc.transverse(boxVectors, r, orthogonality); err != nil {
		return
	}
	// A and B
	for _, inX := range []func(*lattice.LatticeVector) (*lattice.LatticeVector, error){
		bc.LatticeVectorInA, bc.LatticeVectorInB} {
		vs := make([]*lattice.LatticeVector, dim)
		for j, v := range boxVectors {
			if vs[j], err = inX(v); err != nil {
				return nil, err
			}
		}
		if pts, err = vs[0].Lattice.Box(vs); err != nil {
			return nil, err
		}
		config = append(config, pts...)
	}
	// CSL
	if pts, err = bc.CSL.Box(boxVectors); err != nil {
		return nil, err
	}
	config = append(config, pts...)
	// DSCL, restricted to the first 1/dsclFactor of the height
	if pts, err = bc.dsclPoints(boxVectors, r, dsclFactor); err != nil {
		return nil, err
	}
	config = append(config, pts...)
	if filename != "" {
		if err = bc.WriteXYZFile(filename, config, boxVectors, orient); err != nil {
			return nil, err
		}
	}
	return
}

// boxNormal is the CSL reciprocal direction normal to the in-plane box
// vectors, oriented so that it pairs positively with boxVectors[0]
func (bc *BiCrystal) boxNormal(boxVectors []*lattice.LatticeVector) (r *lattice.ReciprocalLatticeDirection, err error) {
	var (
		h int64
	)
	if r, err = lattice.PlaneNormal(boxVectors[1:]...); err != nil {
		return
	}
	if h, err = r.Dot(boxVectors[0]); err != nil {
		return
	}
	switch {
	case h == 0 || r.IsZero():
		err = types.Errorf(types.ErrDimension, "box vectors are linearly dependent")
		return nil, err
	case h < 0:
		r = lattice.NewReciprocalLatticeDirection(r.Neg())
	}
	return
}

func transverseDeviation(v *lattice.LatticeVector, inPlane [][]float64) float64 {
	return lattice.PlaneAngleDeviation(v.Cartesian(), inPlane...)
}

// transverse searches v0 + sum_j k_j*p_j over shells of growing max|k_j|
// around the in-plane projection of v0, p_j being a reduced in-plane basis
func (bc *BiCrystal) transverse(boxVectors []*lattice.LatticeVector, r *lattice.ReciprocalLatticeDirection,
	orthogonality float64) (best *lattice.LatticeVector, err error) {
	var (
		dim     = bc.CSL.Dim()
		tol     = (1 - orthogonality) * 90
		basis   []*lattice.LatticeDirection
		inPlane = make([][]float64, dim-1)
		k       mat.VecDense
	)
	for j, v := range boxVectors[1:] {
		inPlane[j] = v.Cartesian()
	}
	best = boxVectors[0]
	bestDev := transverseDeviation(best, inPlane)
	if bestDev <= tol {
		return
	}
	if basis, err = bc.CSL.PlaneParallelLatticeBasis(r, true); err != nil {
		return
	}
	p := basis[1:]
	pCart := make([][]float64, dim-1)
	for j, d := range p {
		pCart[j] = d.Cartesian()
	}
	// least squares coefficients of v0 in the in-plane basis
	if err = k.SolveVec(utils.NewDenseFromCols(pCart...), mat.NewVecDense(dim, best.Cartesian())); err != nil {
		err = types.Errorf(types.ErrDimension, "degenerate in-plane basis: %v", err)
		return nil, err
	}
	center := best
	for j := range p {
		var step *lattice.LatticeVector
		if step, err = p[j].Scale(int64(math.Round(k.AtVec(j)))); err != nil {
			return nil, err
		}
		if center, err = center.Sub(step); err != nil {
			return nil, err
		}
	}
	for s := int64(0); s <= MaxTransverseShell; s++ {
		var done bool
		err = shell(dim-1, s, func(ks []int64) (stop bool, err error) {
			t := center
			for j, kj := range ks {
				var step *lattice.LatticeVector
				if step, err = p[j].Scale(kj); err != nil {
					return
				}
				if t, err = t.Add(step); err != nil {
					return
				}
			}
			if dev := transverseDeviation(t, inPlane); dev < bestDev {
				best, bestDev = t, dev
			}
			stop = bestDev <= tol
			done = stop
			return
		})
		if err != nil || done {
			return
		}
	}
	return
}

// shell visits every integer vector of length n with max|k_j| = s
func shell(n int, s int64, visit func(ks []int64) (bool, error)) (err error) {
	var (
		ks   = make([]int64, n)
		stop bool
	)
	for j := range ks {
		ks[j] = -s
	}
	for {
		onShell := s == 0
		for _, kj := range ks {
			if kj == s || kj == -s {
				onShell = true
			}
		}
		if onShell {
			if stop, err = visit(ks); err != nil || stop {
				return
			}
		}
		j := 0
		for ; j < n; j++ {
			if ks[j] < s {
				ks[j]++
				break
			}
			ks[j] = -s
		}
		if j == n {
			return
		}
	}
}

// dsclPoints enumerates the DSCL box and keeps the points whose plane index
// h along r satisfies h*dsclFactor < H, H being the index of boxVectors[0]
func (bc *BiCrystal) dsclPoints(boxVectors []*lattice.LatticeVector, r *lattice.ReciprocalLatticeDirection,
	dsclFactor int64) (pts []*lattice.LatticeVector, err error) {
	var (
		vs     = make([]*lattice.LatticeVector, len(boxVectors))
		rD     *lattice.ReciprocalLatticeDirection
		all    []*lattice.LatticeVector
		H, h   int64
		scaled int64
	)
	for j, v := range boxVectors {
		if vs[j], err = bc.LatticeVectorInD(v); err != nil {
			return
		}
	}
	if all, err = bc.DSCL.Box(vs); err != nil {
		return
	}
	if dsclFactor == 1 {
		return all, nil
	}
	if rD, err = bc.ReciprocalLatticeDirectionInD(r.Vector()); err != nil {
		return
	}
	if H, err = rD.Dot(vs[0]); err != nil {
		return
	}
	for _, p := range all {
		if h, err = rD.Dot(p); err != nil {
			return nil, err
		}
		if scaled, err = utils.MulInt64(h, dsclFactor); err != nil {
			return nil, err
		}
		if scaled < H {
			pts = append(pts, p)
		}
	}
	return
}

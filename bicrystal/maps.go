package bicrystal

import (
	"github.com/notargets/gblattice/lattice"
	"github.com/notargets/gblattice/types"
	"github.com/notargets/gblattice/utils"
)

type member uint8

const (
	inA member = iota
	inB
	inCSL
	inDSCL
)

func (bc *BiCrystal) owner(l *lattice.Lattice) (m member, err error) {
	switch l {
	case bc.A:
		m = inA
	case bc.B:
		m = inB
	case bc.CSL:
		m = inCSL
	case bc.DSCL:
		m = inDSCL
	default:
		err = types.Errorf(types.ErrIdentityMismatch,
			"the input vector should belong to one of the four lattices of the bicrystal")
	}
	return
}

func (bc *BiCrystal) which(m member) *lattice.Lattice {
	return [...]*lattice.Lattice{bc.A, bc.B, bc.CSL, bc.DSCL}[m]
}

// apply computes ms[0]*ms[1]*...*v right to left
func apply(v utils.IVector, ms ...utils.IMatrix) (r utils.IVector, err error) {
	r = v.Copy()
	for k := len(ms) - 1; k >= 0; k-- {
		if r, err = ms[k].MulVec(r); err != nil {
			return nil, err
		}
	}
	return
}

// orient flips c so its Cartesian image points along ref
func orient(c []float64, coords utils.IVector, ref []float64) utils.IVector {
	if utils.Dot(c, ref) < 0 {
		return coords.Neg()
	}
	return coords
}

// LatticeVectorInA expresses a vector of A or of the CSL in A
func (bc *BiCrystal) LatticeVectorInA(v *lattice.LatticeVector) (out *lattice.LatticeVector, err error) {
	var (
		m member
		c utils.IVector
	)
	if m, err = bc.owner(v.Lattice); err != nil {
		return
	}
	switch m {
	case inA:
		c = v.Coords.Copy()
	case inCSL:
		if c, err = bc.cslInA.MulVec(v.Coords); err != nil {
			return
		}
	default:
		err = types.Errorf(types.ErrIdentityMismatch, "only vectors of A or the CSL are vectors of A")
		return
	}
	return bc.A.NewLatticeVector(c)
}

// LatticeVectorInB expresses a vector of B or of the CSL in B
func (bc *BiCrystal) LatticeVectorInB(v *lattice.LatticeVector) (out *lattice.LatticeVector, err error) {
	var (
		m member
		c utils.IVector
	)
	if m, err = bc.owner(v.Lattice); err != nil {
		return
	}
	switch m {
	case inB:
		c = v.Coords.Copy()
	case inCSL:
		if c, err = bc.cslInB.MulVec(v.Coords); err != nil {
			return
		}
	default:
		err = types.Errorf(types.ErrIdentityMismatch, "only vectors of B or the CSL are vectors of B")
		return
	}
	return bc.B.NewLatticeVector(c)
}

// LatticeVectorInD expresses a vector of any of the four lattices in the
// DSCL, which contains all of them
func (bc *BiCrystal) LatticeVectorInD(v *lattice.LatticeVector) (out *lattice.LatticeVector, err error) {
	var (
		m member
		c utils.IVector
	)
	if m, err = bc.owner(v.Lattice); err != nil {
		return
	}
	switch m {
	case inA:
		c, err = bc.aInD.MulVec(v.Coords)
	case inB:
		c, err = bc.bInD.MulVec(v.Coords)
	case inCSL:
		c, err = bc.cslInD.MulVec(v.Coords)
	case inDSCL:
		c = v.Coords.Copy()
	}
	if err != nil {
		return
	}
	return bc.DSCL.NewLatticeVector(c)
}

// LatticeDirectionInC returns the primitive CSL direction parallel to v
func (bc *BiCrystal) LatticeDirectionInC(v *lattice.LatticeVector) (ld *lattice.LatticeDirection, err error) {
	var (
		m   member
		c   utils.IVector
		adj utils.IMatrix
	)
	if m, err = bc.owner(v.Lattice); err != nil {
		return
	}
	switch m {
	case inA:
		// Uc^-1 * M^-1 * U * v
		if adj, err = bc.M.Adjugate(); err != nil {
			return
		}
		c, err = apply(v.Coords, bc.ucInv, adj, bc.SD.U)
	case inB:
		// Uc^-1 * N^-1 * V^-1 * v
		if adj, err = bc.N.Adjugate(); err != nil {
			return
		}
		c, err = apply(v.Coords, bc.ucInv, adj, bc.vInv)
	case inCSL:
		c = v.Coords.Copy()
	case inDSCL:
		// Uc^-1 * (N*M)^-1 * Ud * v
		var NM utils.IMatrix
		if NM, err = bc.N.Mul(bc.M); err != nil {
			return
		}
		if adj, err = NM.Adjugate(); err != nil {
			return
		}
		c, err = apply(v.Coords, bc.ucInv, adj, bc.Ud)
	}
	if err != nil {
		return
	}
	out := &lattice.LatticeVector{Coords: c, Lattice: bc.CSL}
	out.Coords = orient(out.Cartesian(), c, v.Cartesian())
	ld = lattice.NewLatticeDirection(out)
	return
}

// LatticeDirectionInD returns the primitive DSCL direction parallel to v
func (bc *BiCrystal) LatticeDirectionInD(v *lattice.LatticeVector) (ld *lattice.LatticeDirection, err error) {
	var (
		d *lattice.LatticeVector
	)
	if d, err = bc.LatticeVectorInD(v); err != nil {
		return
	}
	ld = lattice.NewLatticeDirection(d)
	return
}

// reciprocalInto returns the chain of integer matrices mapping reciprocal
// coordinates of lattice m into a vector parallel in the target lattice
func (bc *BiCrystal) reciprocalInto(target, m member) (chain []utils.IMatrix, err error) {
	var (
		adjM, adjN, adjMN, NM utils.IMatrix
	)
	U, X, V := bc.SD.U, bc.SD.X, bc.SD.V
	ucInvT, udInvT, vInvT := bc.ucInv.Transpose(), bc.udInv.Transpose(), bc.vInv.Transpose()
	if adjM, err = bc.M.Adjugate(); err != nil {
		return
	}
	if adjN, err = bc.N.Adjugate(); err != nil {
		return
	}
	if NM, err = bc.N.Mul(bc.M); err != nil {
		return
	}
	if adjMN, err = NM.Adjugate(); err != nil {
		return
	}
	if target == m {
		return
	}
	switch target {
	case inA:
		switch m {
		case inB: // U^T * M^-1 * N * V^T
			chain = []utils.IMatrix{U.Transpose(), adjM, bc.N, V.Transpose()}
		case inCSL: // U^T * M^-1 * Uc^-T
			chain = []utils.IMatrix{U.Transpose(), adjM, ucInvT}
		case inDSCL: // U^T * N * Ud^-T
			chain = []utils.IMatrix{U.Transpose(), bc.N, udInvT}
		}
	case inB:
		switch m {
		case inA: // V^-T * N^-1 * M * X^T
			chain = []utils.IMatrix{vInvT, adjN, bc.M, X.Transpose()}
		case inCSL: // V^-T * N^-1 * Uc^-T
			chain = []utils.IMatrix{vInvT, adjN, ucInvT}
		case inDSCL: // V^-T * M * Ud^-T
			chain = []utils.IMatrix{vInvT, bc.M, udInvT}
		}
	case inCSL:
		switch m {
		case inA: // Uc^T * M * X^T
			chain = []utils.IMatrix{bc.Uc.Transpose(), bc.M, X.Transpose()}
		case inB: // Uc^T * N * V^T
			chain = []utils.IMatrix{bc.Uc.Transpose(), bc.N, V.Transpose()}
		case inDSCL: // Uc^T * M * N * Ud^-T
			chain = []utils.IMatrix{bc.Uc.Transpose(), NM, udInvT}
		}
	case inDSCL:
		switch m {
		case inA: // Ud^T * N^-1 * X^T
			chain = []utils.IMatrix{bc.Ud.Transpose(), adjN, X.Transpose()}
		case inB: // Ud^T * M^-1 * V^T
			chain = []utils.IMatrix{bc.Ud.Transpose(), adjM, V.Transpose()}
		case inCSL: // Ud^T * (M*N)^-1 * Uc^-T
			chain = []utils.IMatrix{bc.Ud.Transpose(), adjMN, ucInvT}
		}
	}
	return
}

func (bc *BiCrystal) reciprocalDirectionIn(target member,
	r *lattice.ReciprocalLatticeVector) (rd *lattice.ReciprocalLatticeDirection, err error) {
	var (
		m     member
		chain []utils.IMatrix
		c     utils.IVector
	)
	if m, err = bc.owner(r.Lattice); err != nil {
		return
	}
	if chain, err = bc.reciprocalInto(target, m); err != nil {
		return
	}
	if c, err = apply(r.Coords, chain...); err != nil {
		return
	}
	out := &lattice.ReciprocalLatticeVector{Coords: c, Lattice: bc.which(target)}
	out.Coords = orient(out.Cartesian(), c, r.Cartesian())
	rd = lattice.NewReciprocalLatticeDirection(out)
	return
}

// ReciprocalLatticeDirectionInA returns the primitive reciprocal direction of
// A parallel to r, r belonging to any of the four lattices
func (bc *BiCrystal) ReciprocalLatticeDirectionInA(r *lattice.ReciprocalLatticeVector) (*lattice.ReciprocalLatticeDirection, error) {
	return bc.reciprocalDirectionIn(inA, r)
}

func (bc *BiCrystal) ReciprocalLatticeDirectionInB(r *lattice.ReciprocalLatticeVector) (*lattice.ReciprocalLatticeDirection, error) {
	return bc.reciprocalDirectionIn(inB, r)
}

func (bc *BiCrystal) ReciprocalLatticeDirectionInC(r *lattice.ReciprocalLatticeVector) (*lattice.ReciprocalLatticeDirection, error) {
	return bc.reciprocalDirectionIn(inCSL, r)
}

func (bc *BiCrystal) ReciprocalLatticeDirectionInD(r *lattice.ReciprocalLatticeVector) (*lattice.ReciprocalLatticeDirection, error) {
	return bc.reciprocalDirectionIn(inDSCL, r)
}

// shift applies Ud^-1 * Lambda * Ud, the shift tensor in reduced DSCL
// coordinates
func (bc *BiCrystal) shift(Lambda utils.IMatrix, d *lattice.LatticeVector) (s *lattice.LatticeVector, err error) {
	var (
		c utils.IVector
	)
	if d.Lattice != bc.DSCL {
		err = types.Errorf(types.ErrIdentityMismatch, "input vector is not a DSCL vector")
		return
	}
	if c, err = apply(d.Coords, bc.udInv, Lambda, bc.Ud); err != nil {
		return
	}
	return bc.DSCL.NewLatticeVector(c)
}

// ShiftTensorA is the CSL shift produced by displacing A by the DSCL vector d
func (bc *BiCrystal) ShiftTensorA(d *lattice.LatticeVector) (*lattice.LatticeVector, error) {
	return bc.shift(bc.LambdaA, d)
}

// ShiftTensorB is the CSL shift produced by displacing B by the DSCL vector d
func (bc *BiCrystal) ShiftTensorB(d *lattice.LatticeVector) (*lattice.LatticeVector, error) {
	return bc.shift(bc.LambdaB, d)
}

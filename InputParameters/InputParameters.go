package InputParameters

import (
	"fmt"
	"math"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/readfiles"
	"github.com/notargets/gblattice/utils"
)

// Parameters obtained from the YAML input file
type BiCrystalParameters struct {
	Title          string      `yaml:"Title"`
	Dimension      int         `yaml:"Dimension"`
	LatticeFile    string      `yaml:"LatticeFile"` // text file holding the basis as entry "A"
	Basis          [][]float64 `yaml:"Basis"`       // rows of the basis matrix, basis vectors are columns
	RotationAxis   []float64   `yaml:"RotationAxis"`
	RotationAngle  float64     `yaml:"RotationAngle"` // degrees
	Rotation       [][]float64 `yaml:"Rotation"`      // rows, overrides axis and angle
	BoxVectors     [][]int64   `yaml:"BoxVectors"`    // CSL coordinates, the first one crosses the interface
	Orthogonality  float64     `yaml:"Orthogonality"`
	DSCLFactor     int64       `yaml:"DSCLFactor"`
	OutputFile     string      `yaml:"OutputFile"`
	Orient         bool        `yaml:"Orient"`
	UseRLLL        bool        `yaml:"UseRLLL"`
	MaxDenominator int64       `yaml:"MaxDenominator"`
}

func (ip *BiCrystalParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	if ip.Dimension == 0 {
		if len(ip.Basis) != 0 {
			ip.Dimension = len(ip.Basis)
		} else {
			ip.Dimension = 3
		}
	}
	if ip.DSCLFactor == 0 {
		ip.DSCLFactor = 1
	}
	if ip.Dimension != 2 && ip.Dimension != 3 {
		err = fmt.Errorf("dimension %d is not supported, use 2 or 3", ip.Dimension)
		return
	}
	if len(ip.LatticeFile) == 0 && len(ip.Basis) == 0 {
		err = fmt.Errorf("must supply a lattice basis, either Basis or LatticeFile")
		return
	}
	for _, bv := range ip.BoxVectors {
		if len(bv) != ip.Dimension {
			err = fmt.Errorf("box vector %v should have %d components", bv, ip.Dimension)
			return
		}
	}
	if len(ip.BoxVectors) != 0 && len(ip.BoxVectors) != ip.Dimension {
		err = fmt.Errorf("need %d box vectors, have %d", ip.Dimension, len(ip.BoxVectors))
	}
	return
}

func square(name string, rows [][]float64, dim int) (M *mat.Dense, err error) {
	if len(rows) != dim {
		err = fmt.Errorf("%s should have %d rows, has %d", name, dim, len(rows))
		return
	}
	for _, r := range rows {
		if len(r) != dim {
			err = fmt.Errorf("%s row %v should have %d components", name, r, dim)
			return
		}
	}
	M = utils.NewDenseFromRows(rows)
	return
}

// LatticeBasis returns the basis given inline or read from LatticeFile
func (ip *BiCrystalParameters) LatticeBasis() (A *mat.Dense, err error) {
	var (
		tp *readfiles.TextFileParser
	)
	if len(ip.Basis) != 0 {
		return square("Basis", ip.Basis, ip.Dimension)
	}
	if tp, err = readfiles.NewTextFileParser(ip.LatticeFile); err != nil {
		return
	}
	return tp.ReadMatrix("A", ip.Dimension, ip.Dimension, true)
}

// RotationMatrix returns the rotation of the second grain
func (ip *BiCrystalParameters) RotationMatrix() (R *mat.Dense, err error) {
	var (
		angle = ip.RotationAngle * math.Pi / 180
	)
	switch {
	case len(ip.Rotation) != 0:
		if R, err = square("Rotation", ip.Rotation, ip.Dimension); err != nil {
			return
		}
		if !utils.IsRotation(R) {
			err = fmt.Errorf("rotation matrix is not a proper rotation:\n%v", mat.Formatted(R, mat.Squeeze()))
			return nil, err
		}
	case ip.Dimension == 2:
		R = utils.Rotation2D(angle)
	default:
		if len(ip.RotationAxis) == 0 {
			err = fmt.Errorf("must supply a RotationAxis or a Rotation matrix in 3D")
			return
		}
		R, err = utils.RotationMatrix(ip.RotationAxis, angle)
	}
	return
}

func (ip *BiCrystalParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ip.Dimension)
	if len(ip.LatticeFile) != 0 {
		fmt.Printf("[%s]\t= Lattice File\n", ip.LatticeFile)
	} else {
		fmt.Printf("%v\t= Basis\n", ip.Basis)
	}
	if len(ip.Rotation) != 0 {
		fmt.Printf("%v\t= Rotation\n", ip.Rotation)
	} else {
		fmt.Printf("%v, %8.5f\t= Rotation Axis, Angle\n", ip.RotationAxis, ip.RotationAngle)
	}
	fmt.Printf("%v\t= Box Vectors\n", ip.BoxVectors)
	fmt.Printf("%8.5f\t\t= Orthogonality\n", ip.Orthogonality)
	fmt.Printf("[%d]\t\t\t\t= DSCL Factor\n", ip.DSCLFactor)
	fmt.Printf("[%s]\t= Output File, Orient = %v\n", ip.OutputFile, ip.Orient)
	fmt.Printf("[%v]\t\t\t= UseRLLL\n", ip.UseRLLL)
	if ip.MaxDenominator > 0 {
		fmt.Printf("[%d]\t\t\t= Max Denominator\n", ip.MaxDenominator)
	}
}

/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/InputParameters"
	"github.com/notargets/gblattice/bicrystal"
	"github.com/notargets/gblattice/lattice"
	"github.com/notargets/gblattice/utils"
)

// BiCrystalCmd represents the bicrystal command
var BiCrystalCmd = &cobra.Command{
	Use:   "bicrystal",
	Short: "Builds the CSL and DSCL of a bicrystal and optionally writes a box of it",
	Long: `
Builds the bicrystal of a lattice and its rotated copy, reporting sigma, the CSL and
the DSCL. When box vectors are given, the points of both grains, the CSL and the DSCL
inside the box are written in extended XYZ format.

gblattice bicrystal -I run.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err    error
			ICFile string
		)
		if ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		ip := processInput(ICFile)
		s := currentSettings()
		if s.Verbose {
			ip.Print()
		}
		if _, _, err = RunBiCrystal(ip, s); err != nil {
			log.Fatalf("bicrystal: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(BiCrystalCmd)
	BiCrystalCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file describing the bicrystal like:\n\t- lattice basis\n\t- rotation\n\t- box vectors")
}

func processInput(ICFile string) (ip *InputParameters.BiCrystalParameters) {
	var (
		err error
	)
	if len(ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Sigma 5"
Basis: [[1, 0], [0, 1]]
RotationAngle: 36.86989764584402 # degrees, 3D also needs RotationAxis
BoxVectors: [[1, 0], [0, 1]]      # CSL coordinates
Orthogonality: 0.5
DSCLFactor: 1
OutputFile: bc.xyz
Orient: true
UseRLLL: true
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = os.ReadFile(ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.BiCrystalParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

// RunBiCrystal builds the bicrystal described by ip and, if box vectors are
// given, its box
func RunBiCrystal(ip *InputParameters.BiCrystalParameters, s Settings) (bc *bicrystal.BiCrystal,
	config []*lattice.LatticeVector, err error) {
	var (
		A, R   *mat.Dense
		L1, L2 *lattice.Lattice
	)
	if A, err = ip.LatticeBasis(); err != nil {
		return
	}
	if R, err = ip.RotationMatrix(); err != nil {
		return
	}
	if L1, err = lattice.NewLattice(A); err != nil {
		return
	}
	if L2, err = lattice.NewLattice(A, R); err != nil {
		return
	}
	maxDen := s.MaxDen
	if ip.MaxDenominator > 0 {
		maxDen = ip.MaxDenominator
	}
	if bc, err = bicrystal.New(L1, L2, ip.UseRLLL,
		bicrystal.WithMaxDenominator(maxDen), bicrystal.WithLovasz(s.Lovasz)); err != nil {
		return
	}
	fmt.Printf("sigma = %d\n", bc.Sigma)
	if s.Verbose {
		fmt.Println(bc)
	}
	if len(ip.BoxVectors) == 0 {
		return
	}
	boxVectors := make([]*lattice.LatticeVector, len(ip.BoxVectors))
	for j, c := range ip.BoxVectors {
		if boxVectors[j], err = bc.CSL.NewLatticeVector(utils.NewIVector(len(c), c)); err != nil {
			return
		}
	}
	if config, err = bc.Box(boxVectors, ip.Orthogonality, ip.DSCLFactor, ip.OutputFile, ip.Orient); err != nil {
		return
	}
	if s.Verbose {
		fmt.Printf("transverse box vector = %v, %d points\n", boxVectors[0].Coords, len(config))
		fmt.Println(utils.GetMemUsage())
	}
	if len(ip.OutputFile) != 0 {
		fmt.Printf("wrote %d points to %s\n", len(config), ip.OutputFile)
	}
	return
}

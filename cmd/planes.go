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
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gblattice/lattice"
	"github.com/notargets/gblattice/readfiles"
	"github.com/notargets/gblattice/utils"
)

type PlanesModel struct {
	Basis     *mat.Dense
	Normal    utils.IVector // reciprocal coordinates of the plane normal
	Direction utils.IVector // lattice coordinates, used when Normal is empty
	UseRLLL   bool
}

type PlanesResult struct {
	Spacing  float64
	Stacking int64
	Basis    []*lattice.LatticeDirection           // plane family given by a normal
	Dual     []*lattice.ReciprocalLatticeDirection // planes orthogonal to a direction
}

// PlanesCmd represents the planes command
var PlanesCmd = &cobra.Command{
	Use:   "planes",
	Short: "Lattice bases adapted to a plane family or to a direction",
	Long: `
Given the reciprocal coordinates of a plane normal, prints a lattice basis whose first
vector crosses the planes and whose other vectors span them, the interplanar spacing
and the stacking period. Given a lattice direction instead, prints the reciprocal
basis orthogonal to it.

gblattice planes -b "0 .5 .5, .5 0 .5, .5 .5 0" -n "1 1 1"`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err  error
			pm   = &PlanesModel{}
			dim  int
			text = make(map[string]string)
		)
		for _, name := range []string{"basis", "latticeFile", "normal", "direction"} {
			if text[name], err = cmd.Flags().GetString(name); err != nil {
				panic(err)
			}
		}
		if dim, err = cmd.Flags().GetInt("dim"); err != nil {
			panic(err)
		}
		pm.UseRLLL, _ = cmd.Flags().GetBool("rlll")
		if pm.Basis, err = basisFromFlags(text["basis"], text["latticeFile"], dim); err != nil {
			log.Fatalf("planes: %v", err)
		}
		if len(text["normal"]) != 0 {
			if pm.Normal, err = parseIVector("normal", text["normal"], dim); err != nil {
				log.Fatalf("planes: %v", err)
			}
		} else if pm.Direction, err = parseIVector("direction", text["direction"], dim); err != nil {
			log.Fatalf("planes: %v", err)
		}
		if _, err = RunPlanes(pm); err != nil {
			log.Fatalf("planes: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(PlanesCmd)
	PlanesCmd.Flags().StringP("basis", "b", "", "basis matrix by rows, rows separated by commas")
	PlanesCmd.Flags().StringP("latticeFile", "F", "", "text file holding the basis as entry A")
	PlanesCmd.Flags().IntP("dim", "d", 3, "dimension")
	PlanesCmd.Flags().StringP("normal", "n", "", "reciprocal lattice coordinates of the plane normal")
	PlanesCmd.Flags().StringP("direction", "D", "", "lattice coordinates of a direction")
	PlanesCmd.Flags().Bool("rlll", true, "reduce the in-plane vectors")
}

func basisFromFlags(basis, latticeFile string, dim int) (A *mat.Dense, err error) {
	var (
		tp *readfiles.TextFileParser
	)
	switch {
	case len(basis) != 0:
		if tp, err = readfiles.ParseText("--basis", strings.NewReader("A = "+basis+";")); err != nil {
			return
		}
	case len(latticeFile) != 0:
		if tp, err = readfiles.NewTextFileParser(latticeFile); err != nil {
			return
		}
	default:
		err = fmt.Errorf("must supply a basis (-b) or a lattice file (-F)")
		return
	}
	return tp.ReadMatrix("A", dim, dim, true)
}

func parseIVector(name, s string, dim int) (v utils.IVector, err error) {
	var (
		tp *readfiles.TextFileParser
		M  utils.IMatrix
	)
	if tp, err = readfiles.ParseText("--"+name, strings.NewReader(name+" = "+s+";")); err != nil {
		return
	}
	if M, err = tp.ReadIMatrix(name, 1, dim, true); err != nil {
		return
	}
	return M.Row(0), nil
}

func RunPlanes(pm *PlanesModel) (pr *PlanesResult, err error) {
	var (
		L *lattice.Lattice
	)
	if L, err = lattice.NewLattice(pm.Basis); err != nil {
		return
	}
	pr = &PlanesResult{}
	if len(pm.Normal) != 0 {
		var r *lattice.ReciprocalLatticeVector
		if r, err = L.NewReciprocalLatticeVector(pm.Normal); err != nil {
			return nil, err
		}
		rd := lattice.NewReciprocalLatticeDirection(r)
		if pr.Basis, err = L.PlaneParallelLatticeBasis(rd, pm.UseRLLL); err != nil {
			return nil, err
		}
		if pr.Spacing, err = L.InterPlanarSpacing(rd); err != nil {
			return nil, err
		}
		if pr.Stacking, err = rd.Stacking(); err != nil {
			return nil, err
		}
		fmt.Printf("plane normal %v, spacing = %.8g, stacking = %d\n", rd.Coords, pr.Spacing, pr.Stacking)
		for j, d := range pr.Basis {
			fmt.Printf("b%d = %v\t%.8g\n", j, d.Coords, d.Cartesian())
		}
		return
	}
	var v *lattice.LatticeVector
	if v, err = L.NewLatticeVector(pm.Direction); err != nil {
		return nil, err
	}
	ld := lattice.NewLatticeDirection(v)
	if pr.Dual, err = L.DirectionOrthogonalReciprocalLatticeBasis(ld, pm.UseRLLL); err != nil {
		return nil, err
	}
	if pr.Stacking, err = ld.Stacking(); err != nil {
		return nil, err
	}
	fmt.Printf("direction %v, stacking = %d\n", ld.Coords, pr.Stacking)
	for j, r := range pr.Dual {
		fmt.Printf("r%d = %v\t%.8g\n", j, r.Coords, r.Cartesian())
	}
	return
}

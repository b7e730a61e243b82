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

	"github.com/notargets/gblattice/readfiles"
	"github.com/notargets/gblattice/snf"
	"github.com/notargets/gblattice/utils"
)

// SNFCmd represents the snf command
var SNFCmd = &cobra.Command{
	Use:   "snf",
	Short: "Smith normal form of an integer matrix",
	Long: `
Computes D = U*P*V with U, V unimodular and D diagonal, each diagonal entry dividing
the next, and X = U^-1.

gblattice snf -m "4 -3, 3 4"`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err  error
			text string
			dim  int
			P    utils.IMatrix
			tp   *readfiles.TextFileParser
		)
		if text, err = cmd.Flags().GetString("matrix"); err != nil {
			panic(err)
		}
		if dim, err = cmd.Flags().GetInt("dim"); err != nil {
			panic(err)
		}
		if tp, err = readfiles.ParseText("--matrix", strings.NewReader("P = "+text+";")); err != nil {
			log.Fatalf("snf: %v", err)
		}
		if P, err = tp.ReadIMatrix("P", dim, dim, true); err != nil {
			log.Fatalf("snf: %v", err)
		}
		if _, err = RunSNF(P); err != nil {
			log.Fatalf("snf: %v", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(SNFCmd)
	SNFCmd.Flags().StringP("matrix", "m", "", "integer matrix by rows, rows separated by commas")
	SNFCmd.Flags().IntP("dim", "d", 2, "dimension")
}

func RunSNF(P utils.IMatrix) (sd *snf.SmithDecomposition, err error) {
	if sd, err = snf.New(P); err != nil {
		return
	}
	fmt.Printf("D = %v\nU = %v\nV = %v\nX = %v\n", sd.D, sd.U, sd.V, sd.X)
	return
}

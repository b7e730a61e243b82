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
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gblattice/lattice"
	"github.com/notargets/gblattice/utils"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gblattice",
	Short: "Coincidence site lattices and bicrystals of arbitrary lattices",
	Long: `
Computes the coincidence site lattice (CSL) and the displacement shift complete
lattice (DSCL) of two lattices related by a rotation, lattice plane bases and
Smith normal forms, and writes bicrystal boxes in extended XYZ format.

gblattice bicrystal -I run.yaml`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch viper.GetString("profile") {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		default:
			panic(fmt.Errorf("unknown profile type [%s], use cpu or mem", viper.GetString("profile")))
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gblattice.yaml)")
	rootCmd.PersistentFlags().Int64("maxDen", utils.MaxDenDefault, "largest denominator tried when approximating rationals")
	rootCmd.PersistentFlags().Float64("lovasz", lattice.Lovasz, "Lovasz parameter of the lattice reductions, in [0.5, 1]")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print intermediate results")
	rootCmd.PersistentFlags().String("profile", "", "write a cpu or mem profile to the current directory")
	for _, name := range []string{"maxDen", "lovasz", "verbose", "profile"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gblattice" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gblattice")
	}

	viper.SetEnvPrefix("gblattice")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil && viper.GetBool("verbose") {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// Settings shared by the subcommands, resolved through viper
type Settings struct {
	MaxDen  int64
	Lovasz  float64
	Verbose bool
}

func currentSettings() Settings {
	return Settings{
		MaxDen:  viper.GetInt64("maxDen"),
		Lovasz:  viper.GetFloat64("lovasz"),
		Verbose: viper.GetBool("verbose"),
	}
}

func DefaultSettings() Settings {
	return Settings{MaxDen: utils.MaxDenDefault, Lovasz: lattice.Lovasz}
}

package main

import "github.com/notargets/gblattice/cmd"

func main() {
	cmd.Execute()
}

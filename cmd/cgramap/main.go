// Command cgramap runs the CGRA modulo-scheduling mapper against a
// function/loop description and a param.json configuration document,
// grounded on sarchlab-akita/akita/cmd's rootCmd + init()-registered
// sub-command tree.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

var rootCmd = &cobra.Command{
	Use:   "cgramap",
	Short: "cgramap maps a loop body onto a CGRA grid via modulo scheduling.",
	Long: `cgramap reads a function.json description of a loop body and a ` +
		`param.json configuration document, runs the modulo-scheduling mapper, ` +
		`and writes the resulting schedule, DFG, and report.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

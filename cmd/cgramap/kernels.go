package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cgramap/config"
)

var kernelsCmd = &cobra.Command{
	Use:   "kernels",
	Short: "List the built-in kernel -> targetLoopsID registry.",
	Run: func(cmd *cobra.Command, _ []string) {
		reg := config.DefaultKernelRegistry()
		names := make([]string, 0, len(reg))
		for name := range reg {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		for _, name := range names {
			fmt.Fprintf(out, "%s\t%v\n", name, reg[name])
		}
	},
}

func init() {
	rootCmd.AddCommand(kernelsCmd)
}

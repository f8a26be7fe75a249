package main

import (
	"github.com/spf13/cobra"
)

var (
	strictMode bool
	quietMode  bool
)

// newRootCmd builds the apisurface command tree, grounded on the teacher's
// cmd/tsgonest/main.go subcommand dispatch, rebuilt on spf13/cobra.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "apisurface",
		Short:   "Recover a REST API surface from compiled JAX-RS class files",
		Version: "0.1.0",
	}

	root.PersistentFlags().BoolVar(&strictMode, "strict", false, "treat warnings as errors")
	root.PersistentFlags().BoolVar(&quietMode, "quiet", false, "suppress warnings (errors still reported)")

	root.AddCommand(
		newAnalyzeCmd(),
		newDumpCmd(),
		newWatchCmd(),
	)

	return root
}

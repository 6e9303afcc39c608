package main

import (
	"os"

	"github.com/spf13/cobra"

	"commitlang/internal/version"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "commitlang",
		Short:   "Conventional Commits toolchain",
		Long:    `commitlang parses, lints, completes, and formats Conventional Commits messages`,
		Version: version.Number,
	}

	for _, sub := range []*cobra.Command{lintCmd, fmtCmd, serveCmd, versionCmd} {
		root.AddCommand(sub)
	}

	pf := root.PersistentFlags()
	pf.String("color", "auto", "color output mode (auto|on|off)")
	pf.Bool("quiet", false, "suppress progress and summary output")
	pf.Bool("timings", false, "print per-phase timing after the run")
	pf.Int("max-diagnostics", 100, "cap the number of reported diagnostics")

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

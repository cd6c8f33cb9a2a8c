package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "kpictl",
		Short:         "Score workforce KPIs and render reports offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("policy", "", "YAML normalization policy (defaults when empty)")

	root.AddCommand(newScoreCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newDiffCmd())
	root.AddCommand(newTokenCmd())
	return root
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/btevta/internal/cli"
	"github.com/example/btevta/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "btevta",
		Short:   "btevta - candidate lifecycle for overseas employment",
		Version: version.String(),
		Long: `btevta tracks candidates for overseas employment from listing through
screening, training, visa processing and departure to a completed placement.
Every status change is validated and recorded in the candidate's history.`,
		SilenceUsage: true,
	}
	cli.Bootstrap(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.CandidateCmd())

	// Stage records
	rootCmd.AddCommand(cli.ScreeningCmd())
	rootCmd.AddCommand(cli.AssessmentCmd())
	rootCmd.AddCommand(cli.VisaCmd())
	rootCmd.AddCommand(cli.DepartureCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for sit
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sit",
		Short: "Social Interaction Test analysis from pose-tracking data",
		Long: `sit computes Social Interaction Test metrics from pose-tracking tables.

For every recording it measures the time spent in the social interaction
zone (SIZ), the mean distance of the nose to the point of interest and the
distance travelled, then compares the two sessions of each animal with the
Social Interaction Ratios (SIR).`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewCalibrateCommand())
	cmd.AddCommand(NewPlotCommand())

	return cmd
}

package cmd

import (
	"fmt"

	"github.com/madmaxpython/DeepOF-SIT/internal/calibration"
	"github.com/spf13/cobra"
)

// NewCalibrateCommand creates the calibrate command
func NewCalibrateCommand() *cobra.Command {
	var p1, p2 string
	var distance float64

	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Compute the pixel size from two reference points",
		Long: `Compute the physical size of one pixel from two points, in pixel
coordinates, whose real distance is known. The distance is prompted for
when --distance is not given.

Example:
  sit calibrate --p1 102,40 --p2 598,44 --distance 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := calibration.ParsePoint(p1)
			if err != nil {
				return err
			}
			b, err := calibration.ParsePoint(p2)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("distance") {
				distance, err = calibration.PromptDistance(cmd.InOrStdin(), cmd.OutOrStdout())
				if err != nil {
					return err
				}
			}

			size, err := calibration.PixelSize(a, b, distance)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pixel size: %.6f per pixel\n", size)
			return nil
		},
	}

	cmd.Flags().StringVar(&p1, "p1", "", "First reference point as x,y")
	cmd.Flags().StringVar(&p2, "p2", "", "Second reference point as x,y")
	cmd.Flags().Float64Var(&distance, "distance", 0, "Known distance between the points")
	cmd.MarkFlagRequired("p1")
	cmd.MarkFlagRequired("p2")

	return cmd
}

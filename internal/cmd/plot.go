package cmd

import (
	"io"

	"github.com/madmaxpython/DeepOF-SIT/internal/display"
	"github.com/madmaxpython/DeepOF-SIT/internal/experiment"
	"github.com/madmaxpython/DeepOF-SIT/internal/filelock"
	"github.com/madmaxpython/DeepOF-SIT/internal/plot"
	"github.com/spf13/cobra"
)

// NewPlotCommand creates the plot command
func NewPlotCommand() *cobra.Command {
	var input, output string
	var fig plot.Figure

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot results as an interactive 3D scatter and a PNG",
		Long: `Plot a results table with one series per value of a classification
column. Writes <output>.html (interactive 3D) and <output>.png (2D view of
the y and z columns).

Example:
  sit plot --input results.csv --classify Group --x Group \
    --y Distance_SIR_typeB --z Time_SIR_typeB \
    --color Control=#332288 --color Stress=#88ccee --output sit_3d`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := plot.ReadResults(input)
			if err != nil {
				return err
			}
			if err := fig.Validate(res); err != nil {
				return err
			}

			htmlPath, pngPath := output+".html", output+".png"
			progress := display.NewProgressIndicator(cmd.OutOrStdout(), 2)
			progress.Start()

			if err := filelock.LockAndWriteFunc(cmd.Context(), htmlPath, func(w io.Writer) error {
				return plot.Scatter3D(res, fig, w)
			}); err != nil {
				return err
			}
			progress.Step(htmlPath)

			if err := plot.ScatterPNG(res, fig, pngPath); err != nil {
				return err
			}
			progress.Step(pngPath)
			progress.Complete()
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Results CSV written by sit run")
	cmd.Flags().StringVar(&output, "output", "sit_plot", "Output path without extension")
	cmd.Flags().StringVar(&fig.Classify, "classify", "", "Column grouping points into series")
	cmd.Flags().StringVar(&fig.X, "x", "", "Column for the x axis")
	cmd.Flags().StringVar(&fig.Y, "y", experiment.ColumnDistanceSIRTypeB, "Column for the y axis")
	cmd.Flags().StringVar(&fig.Z, "z", experiment.ColumnTimeSIRTypeB, "Column for the z axis")
	cmd.Flags().StringVar(&fig.XLabel, "x-label", "", "X axis label (default: column name)")
	cmd.Flags().StringVar(&fig.YLabel, "y-label", "", "Y axis label (default: column name)")
	cmd.Flags().StringVar(&fig.ZLabel, "z-label", "", "Z axis label (default: column name)")
	cmd.Flags().StringVar(&fig.Title, "title", "Social Engagement Index", "Plot title")
	cmd.Flags().StringToStringVar(&fig.Palette, "color", nil, "Category color as name=#rrggbb (repeatable)")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("classify")
	cmd.MarkFlagRequired("x")

	return cmd
}


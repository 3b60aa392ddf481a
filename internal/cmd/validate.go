package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/madmaxpython/DeepOF-SIT/internal/display"
	"github.com/madmaxpython/DeepOF-SIT/internal/experiment"
	"github.com/madmaxpython/DeepOF-SIT/internal/project"
	"github.com/spf13/cobra"
)

// NewValidateCommand creates and returns the validate subcommand
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check project inputs without computing metrics",
		Long: `Parse the project tables and coordinate files, then report for every
recording whether arena and SIZ geometry were matched and whether the
configured landmarks are present.

Exit code: 0 if every matched recording can be analyzed, 1 otherwise`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateInputs(cmd, cmd.OutOrStdout())
		},
	}

	addInputFlags(cmd)
	return cmd
}

func validateInputs(cmd *cobra.Command, out io.Writer) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	in, err := loadInputs(readInputPaths(cmd), cfg)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Videos: %d, arena entries: %d, SIZ entries: %d\n",
		len(in.project.Videos()), in.arenaSet.Len(), in.sizSet.Len())
	if w := display.WarnParamCount(len(in.project.Videos()), in.arenaSet.Len(), in.sizSet.Len(), in.arenaSet.Shared, in.sizSet.Shared); !w.Empty() {
		w.Display(cmd.ErrOrStderr())
	}

	parse := experiment.MarkerNameParser(cfg.Naming.SessionMarker, cfg.Naming.SessionSeparator)

	var skipped []string
	var problems int
	for _, rec := range in.project.Recordings() {
		animal, session := parse(rec)
		_, okArena := in.arena[rec]
		_, okSIZ := in.siz[rec]
		if !okArena || !okSIZ {
			skipped = append(skipped, rec)
			fmt.Fprintf(out, "  %-30s animal=%s session=%s  SKIP (no geometry)\n", rec, animal, session)
			continue
		}

		var missing []string
		for _, landmark := range []string{cfg.Landmarks.Center, cfg.Landmarks.Nose} {
			if _, err := project.Trajectory(in.project, rec, landmark); err != nil {
				missing = append(missing, err.Error())
			}
		}
		if len(missing) > 0 {
			problems++
			fmt.Fprintf(out, "  %-30s animal=%s session=%s  ERROR %s\n", rec, animal, session, strings.Join(missing, "; "))
			continue
		}
		fmt.Fprintf(out, "  %-30s animal=%s session=%s  OK\n", rec, animal, session)
	}

	if w := display.WarnSkippedRecordings(skipped); !w.Empty() {
		w.Display(cmd.ErrOrStderr())
	}
	if problems > 0 {
		return fmt.Errorf("%d recording(s) cannot be analyzed", problems)
	}

	fmt.Fprintf(out, "Validation passed: %d recording(s) ready, %d skipped\n",
		len(in.project.Recordings())-len(skipped), len(skipped))
	return nil
}

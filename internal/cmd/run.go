package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/madmaxpython/DeepOF-SIT/internal/display"
	"github.com/madmaxpython/DeepOF-SIT/internal/experiment"
	"github.com/madmaxpython/DeepOF-SIT/internal/filelock"
	"github.com/madmaxpython/DeepOF-SIT/internal/logger"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Analyze every recording of a project and write the results table",
		Long: `Analyze every recording of a pose-tracking project.

Pose tables are read from <project>/Tables/*.csv. Arena and SIZ corners are
matched to the videos by position; recordings without geometry are skipped.
The results table has one row per animal and is written as UTF-8 CSV.

Configuration is loaded from .sit/config.yaml if present.
CLI flags override configuration file settings.

Examples:
  sit run --project CSDS_DeepOF --conditions conditions.csv \
    --arena arena_params.txt --siz SIZ_params.txt --output results.csv

  # Frame rate and pixel size
  sit run ... --fps 25 --px-size 1.2

  # Markdown and HTML report next to the results
  sit run ... --report report.md`,
		Args: cobra.NoArgs,
		RunE: runCommand,
	}

	addInputFlags(cmd)
	cmd.Flags().Float64("fps", 30, "Video frame rate")
	cmd.Flags().Float64("px-size", 1.0, "Physical size of one pixel")
	cmd.Flags().String("output", "", "Results CSV path")
	cmd.Flags().String("report", "", "Markdown report path (an .html rendering is written alongside)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Directory for run logs")
	cmd.MarkFlagRequired("output")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	started := time.Now()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Only explicitly set flags override the config file
	var fps, pxSize *float64
	var logLevel, logDir *string
	if cmd.Flags().Changed("fps") {
		v, _ := cmd.Flags().GetFloat64("fps")
		fps = &v
	}
	if cmd.Flags().Changed("px-size") {
		v, _ := cmd.Flags().GetFloat64("px-size")
		pxSize = &v
	}
	if cmd.Flags().Changed("log-level") {
		v, _ := cmd.Flags().GetString("log-level")
		logLevel = &v
	}
	if cmd.Flags().Changed("log-dir") {
		v, _ := cmd.Flags().GetString("log-dir")
		logDir = &v
	}
	cfg.MergeWithFlags(fps, pxSize, logLevel, logDir)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	out := cmd.OutOrStdout()
	consoleLog := logger.NewConsoleLogger(out, cfg.LogLevel)
	fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer fileLog.Close()
	log := logger.NewMulti(consoleLog, fileLog)

	paths := readInputPaths(cmd)
	outputPath, _ := cmd.Flags().GetString("output")
	reportPath, _ := cmd.Flags().GetString("report")

	log.LogInfo(fmt.Sprintf("Loading project %s", paths.project))
	in, err := loadInputs(paths, cfg)
	if err != nil {
		log.LogError(err.Error())
		return err
	}
	log.LogDebug(fmt.Sprintf("Found %d videos, %d arena entries, %d SIZ entries",
		len(in.project.Videos()), in.arenaSet.Len(), in.sizSet.Len()))

	if w := display.WarnParamCount(len(in.project.Videos()), in.arenaSet.Len(), in.sizSet.Len(), in.arenaSet.Shared, in.sizSet.Shared); !w.Empty() {
		w.Display(cmd.ErrOrStderr())
		log.LogWarn(w.Message)
	}

	opts := experimentOptions(cfg, in.project)
	opts.Logger = log

	table, err := experiment.New(in.project, in.arena, in.siz, opts).RunAll()
	if err != nil {
		log.LogError(err.Error())
		return fmt.Errorf("analysis failed: %w", err)
	}

	outputs := []string{outputPath}
	var reportHTML string
	if reportPath != "" {
		reportHTML = strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ".html"
		outputs = append(outputs, reportPath, reportHTML)
	}

	progress := display.NewProgressIndicator(out, len(outputs))
	progress.Start()

	if err := filelock.LockAndWriteFunc(cmd.Context(), outputPath, table.WriteCSV); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	progress.Step(outputPath)

	if reportPath != "" {
		md := experiment.RenderMarkdown(table, experiment.RunInfo{
			RunID:      fileLog.RunID(),
			Started:    started,
			Duration:   time.Since(started),
			Project:    paths.project,
			FPS:        cfg.FPS,
			PixelSize:  cfg.PixelSize,
			Recordings: len(in.project.Recordings()),
		})
		if err := filelock.LockAndWrite(cmd.Context(), reportPath, []byte(md)); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		progress.Step(reportPath)

		html, err := experiment.RenderHTML(md)
		if err != nil {
			return err
		}
		if err := filelock.LockAndWrite(cmd.Context(), reportHTML, html); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		progress.Step(reportHTML)
	}
	progress.Complete()

	log.LogSummary(logger.Summary{
		RunID:       fileLog.RunID(),
		Recordings:  len(in.project.Recordings()),
		Analyzed:    table.Analyzed,
		Animals:     table.Len(),
		Skipped:     table.Skipped,
		Overwritten: table.Overwritten,
		Output:      outputPath,
		Duration:    time.Since(started),
	})

	showWarnings(cmd.ErrOrStderr(), table)
	fmt.Fprintf(out, "Saved results to %s\n", outputPath)
	return nil
}

func showWarnings(w io.Writer, table *experiment.ResultTable) {
	for _, warning := range []display.Warning{
		display.WarnSkippedRecordings(table.Skipped),
		display.WarnDuplicateSessions(table.Overwritten),
	} {
		if !warning.Empty() {
			warning.Display(w)
		}
	}
}

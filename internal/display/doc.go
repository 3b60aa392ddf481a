// Package display provides terminal output for the end of an analysis run:
// warnings about recordings that could not be analyzed and a step indicator
// for the output files being written.
//
// # Warning Messages
//
//	warning := display.WarnSkippedRecordings(table.Skipped)
//	warning.Display(os.Stderr)
//
// # Progress Indicators
//
//	progress := display.NewProgressIndicator(os.Stdout, len(outputs))
//	progress.Start()
//	for _, path := range outputs {
//	    progress.Step(path)
//	}
//	progress.Complete()
//
// # ANSI Colors
//
// Yellow is used for warnings, cyan for steps and green for completion.
// Colors are only emitted when the writer is a terminal and NO_COLOR is unset.
package display

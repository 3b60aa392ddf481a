package logger

import (
	"fmt"

	"github.com/fatih/color"
)

// colorScheme defines consistent colors for summary counts.
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
}

// formatColorizedCounts renders the summary counts with colored values.
// Analyzed is green when every recording produced metrics, yellow otherwise.
// Skipped and duplicate counts are yellow when non-zero.
func formatColorizedCounts(s Summary, scheme *colorScheme) string {
	analyzed := scheme.success
	if s.Analyzed < s.Recordings {
		analyzed = scheme.warn
	}
	if s.Analyzed == 0 && s.Recordings > 0 {
		analyzed = scheme.fail
	}

	return fmt.Sprintf("%s %s, %s %s, %s %s, %s %s",
		scheme.label.Sprint("Analyzed"), analyzed.Sprintf("%d/%d", s.Analyzed, s.Recordings),
		scheme.label.Sprint("animals"), scheme.success.Sprint(s.Animals),
		scheme.label.Sprint("skipped"), countColor(len(s.Skipped), scheme).Sprint(len(s.Skipped)),
		scheme.label.Sprint("duplicates"), countColor(len(s.Overwritten), scheme).Sprint(len(s.Overwritten)),
	)
}

func countColor(n int, scheme *colorScheme) *color.Color {
	if n > 0 {
		return scheme.warn
	}
	return scheme.success
}

package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Items      []string // Affected recordings or files (optional)
	ItemLabel  string   // Singular noun for Items, "recording" when empty
	Suggestion string   // Action to take (optional)
}

// Empty reports whether the warning carries anything to show.
func (w Warning) Empty() bool {
	return w.Title == "" && w.Message == "" && len(w.Items) == 0
}

// Display writes the warning, in yellow on terminals.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Items) > 0 {
		label := w.ItemLabel
		if label == "" {
			label = "recording"
		}
		if len(w.Items) == 1 {
			b.WriteString(fmt.Sprintf("    Affected %s:\n", label))
		} else {
			b.WriteString(fmt.Sprintf("    Affected %ss:\n", label))
		}
		for i, item := range w.Items {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, item))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	fmt.Fprint(out, paint(out, ansiYellow, b.String()))
}

// WarnSkippedRecordings reports recordings left out for lack of geometry.
func WarnSkippedRecordings(recordings []string) Warning {
	if len(recordings) == 0 {
		return Warning{}
	}
	return Warning{
		Title:      "Recordings without arena or SIZ geometry were skipped",
		Items:      recordings,
		Suggestion: "Check that the coordinate files list one entry per video, in video order",
	}
}

// WarnDuplicateSessions reports sessions recorded more than once.
func WarnDuplicateSessions(recordings []string) Warning {
	if len(recordings) == 0 {
		return Warning{}
	}
	return Warning{
		Title:   "Sessions analyzed more than once",
		Message: "The metrics of the listed recordings replaced an earlier recording of the same session",
		Items:   recordings,
	}
}

// WarnParamCount reports coordinate files whose entry count differs from the
// number of videos. Shared (single entry) files are not reported.
func WarnParamCount(videos, arena, siz int, arenaShared, sizShared bool) Warning {
	var problems []string
	if !arenaShared && arena != videos {
		problems = append(problems, fmt.Sprintf("arena file has %d entries", arena))
	}
	if !sizShared && siz != videos {
		problems = append(problems, fmt.Sprintf("SIZ file has %d entries", siz))
	}
	if len(problems) == 0 {
		return Warning{}
	}
	return Warning{
		Title:      "Coordinate entries do not match the number of videos",
		Message:    fmt.Sprintf("The project has %d videos but the %s", videos, strings.Join(problems, " and the ")),
		Suggestion: "Entries are matched to videos by position; extra entries are ignored",
	}
}

package experiment

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// RunInfo describes one analysis run for the report header.
type RunInfo struct {
	RunID      string
	Started    time.Time
	Duration   time.Duration
	Project    string
	FPS        float64
	PixelSize  float64
	Recordings int
}

// RenderMarkdown renders a run summary and the result table as Markdown.
func RenderMarkdown(table *ResultTable, info RunInfo) string {
	var sb strings.Builder

	sb.WriteString("# SIT analysis report\n\n")
	if info.RunID != "" {
		sb.WriteString(fmt.Sprintf("- **Run:** %s\n", info.RunID))
	}
	if !info.Started.IsZero() {
		sb.WriteString(fmt.Sprintf("- **Started:** %s\n", info.Started.Format(time.RFC3339)))
	}
	if info.Duration > 0 {
		sb.WriteString(fmt.Sprintf("- **Duration:** %s\n", info.Duration.Round(time.Millisecond)))
	}
	if info.Project != "" {
		sb.WriteString(fmt.Sprintf("- **Project:** %s\n", info.Project))
	}
	sb.WriteString(fmt.Sprintf("- **Frame rate:** %s fps\n", FormatValue(info.FPS)))
	sb.WriteString(fmt.Sprintf("- **Pixel size:** %s\n", FormatValue(info.PixelSize)))
	sb.WriteString(fmt.Sprintf("- **Recordings analyzed:** %d of %d\n", table.Analyzed, info.Recordings))
	sb.WriteString(fmt.Sprintf("- **Animals:** %d\n", table.Len()))

	if len(table.Skipped) > 0 {
		sb.WriteString("\n## Skipped recordings\n\n")
		for _, r := range table.Skipped {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
	}
	if len(table.Overwritten) > 0 {
		sb.WriteString("\n## Duplicate sessions\n\n")
		for _, r := range table.Overwritten {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
	}

	sb.WriteString("\n## Results\n\n")
	records := table.Records()
	for i, record := range records {
		sb.WriteString("| ")
		for j, cell := range record {
			if j > 0 {
				sb.WriteString(" | ")
			}
			sb.WriteString(escapeCell(cell))
		}
		sb.WriteString(" |\n")
		if i == 0 {
			sb.WriteString("|")
			sb.WriteString(strings.Repeat(" --- |", len(record)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// RenderHTML converts a Markdown report to HTML.
func RenderHTML(markdown string) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

package display

import (
	"fmt"
	"io"
	"path/filepath"
)

// ProgressIndicator shows numbered steps while output files are written
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
}

// NewProgressIndicator creates a new progress indicator
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{writer: w, total: total}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Writing outputs:\n")
}

// Step displays progress for the current file: [N/Total] name
func (p *ProgressIndicator) Step(path string) {
	p.current++
	line := fmt.Sprintf("  [%d/%d] %s", p.current, p.total, filepath.Base(path))
	fmt.Fprintln(p.writer, paint(p.writer, ansiCyan, line))
}

// Complete displays the completion message
func (p *ProgressIndicator) Complete() {
	fmt.Fprintf(p.writer, "%s Wrote %d files\n", paint(p.writer, ansiGreen, "✓"), p.current)
}

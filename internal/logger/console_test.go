package logger

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var tsPrefix = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] `)

// TestConsoleLoggerLevels verifies level filtering and line format
func TestConsoleLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"trace", []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{"debug", []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"WARN", []string{"WARN", "ERROR"}},
		{"error", []string{"ERROR"}},
		{"bogus", []string{"INFO", "WARN", "ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			cl := NewConsoleLogger(&buf, tt.level)
			cl.LogTrace("t")
			cl.LogDebug("d")
			cl.LogInfo("i")
			cl.LogWarn("w")
			cl.LogError("e")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(tt.want), buf.String())
			}
			for i, line := range lines {
				assert.Regexp(t, tsPrefix, line)
				assert.Contains(t, line, "["+tt.want[i]+"]")
			}
		})
	}
}

// TestConsoleLoggerNilWriter verifies messages are discarded without panicking
func TestConsoleLoggerNilWriter(t *testing.T) {
	cl := NewConsoleLogger(nil, "trace")
	cl.LogInfo("nothing")
	cl.LogProgress(1, 2)
	cl.LogSummary(Summary{Recordings: 1})
}

// TestConsoleLoggerNoColorForBuffers verifies plain output for non-terminal writers
func TestConsoleLoggerNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")
	cl.LogWarn("Mouse1 session 1 analyzed twice")

	assert.NotContains(t, buf.String(), "\033[")
	assert.Contains(t, buf.String(), "[WARN] Mouse1 session 1 analyzed twice")
}

// TestConsoleLoggerProgress verifies progress is shown at debug level only
func TestConsoleLoggerProgress(t *testing.T) {
	var buf bytes.Buffer
	NewConsoleLogger(&buf, "info").LogProgress(1, 2)
	assert.Empty(t, buf.String())

	NewConsoleLogger(&buf, "debug").LogProgress(1, 2)
	assert.Contains(t, buf.String(), "Progress: [=====     ] 1/2 (50%) recordings")
}

// TestConsoleLoggerSummary verifies the summary block
func TestConsoleLoggerSummary(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")
	cl.LogSummary(Summary{
		Recordings: 4,
		Analyzed:   3,
		Animals:    2,
		Skipped:    []string{"Mouse3_SIT.1"},
		Output:     "results.csv",
		Duration:   90 * time.Second,
	})

	out := buf.String()
	assert.Contains(t, out, "=== Analysis Summary ===")
	assert.Contains(t, out, "Analyzed 3/4 recordings, 2 animals, 1 skipped, 0 duplicate sessions")
	assert.Contains(t, out, "Results: results.csv")
	assert.Contains(t, out, "Duration: 1m30s")

	buf.Reset()
	NewConsoleLogger(&buf, "warn").LogSummary(Summary{})
	assert.Empty(t, buf.String())
}

// TestFormatColorizedCounts verifies the colored summary carries every count
func TestFormatColorizedCounts(t *testing.T) {
	got := formatColorizedCounts(Summary{Recordings: 2, Analyzed: 2, Animals: 1, Overwritten: []string{"x"}}, newColorScheme())
	for _, want := range []string{"Analyzed", "2/2", "animals", "skipped", "duplicates"} {
		assert.Contains(t, got, want)
	}
}

// TestFormatDuration verifies human readable durations
func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		450 * time.Millisecond: "450ms",
		5 * time.Second:        "5s",
		2 * time.Minute:        "2m",
		90 * time.Second:       "1m30s",
	}
	for d, want := range tests {
		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}

// TestMulti verifies fan-out to every logger
func TestMulti(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMulti(NewConsoleLogger(&a, "debug"), nil, NewConsoleLogger(&b, "warn"))
	if len(m) != 2 {
		t.Fatalf("NewMulti kept %d loggers, want 2", len(m))
	}

	m.LogDebug("debug line")
	m.LogWarn("warn line")
	m.LogProgress(2, 2)

	assert.Contains(t, a.String(), "debug line")
	assert.Contains(t, a.String(), "warn line")
	assert.Contains(t, a.String(), "2/2")
	assert.NotContains(t, b.String(), "debug line")
	assert.Contains(t, b.String(), "warn line")

	var noop Logger = NewNoOpLogger()
	noop.LogSummary(Summary{})
}

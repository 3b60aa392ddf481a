package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileLogger writes analysis runs to timestamped files in a log directory
// (.sit/logs/ by default) and keeps a latest.log symlink pointing to the most
// recent run. Every run is tagged with a random run id.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	runID    string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger that writes to .sit/logs/ with level "info".
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(filepath.Join(".sit", "logs"), "info")
}

// NewFileLoggerWithDir creates a FileLogger with a custom log directory.
func NewFileLoggerWithDir(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(logDir, "info")
}

// NewFileLoggerWithDirAndLevel creates a FileLogger with a custom log directory and log level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Generate timestamped filename: run-YYYYMMDD-HHMMSS.log
	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", ts))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		runID:    uuid.NewString(),
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== SIT Analysis Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Run ID: %s\n", logger.runID))
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunID returns the identifier written in the log header.
func (fl *FileLogger) RunID() string {
	return fl.runID
}

// Path returns the run log file path.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message.
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogProgress records per-recording progress at DEBUG level.
func (fl *FileLogger) LogProgress(done, total int) {
	if !fl.shouldLog("debug") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Progress: %d/%d recordings\n", timestamp(), done, total))
}

// LogSummary writes the end-of-run summary including skipped and duplicate recordings.
func (fl *FileLogger) LogSummary(s Summary) {
	var sb strings.Builder
	sb.WriteString("\n=== Analysis Summary ===\n")
	if s.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run ID: %s\n", s.RunID))
	}
	sb.WriteString(fmt.Sprintf("Recordings: %d\n", s.Recordings))
	sb.WriteString(fmt.Sprintf("Analyzed: %d\n", s.Analyzed))
	sb.WriteString(fmt.Sprintf("Animals: %d\n", s.Animals))
	if s.Output != "" {
		sb.WriteString(fmt.Sprintf("Results: %s\n", s.Output))
	}
	if s.Duration > 0 {
		sb.WriteString(fmt.Sprintf("Duration: %s\n", formatDuration(s.Duration)))
	}
	if len(s.Skipped) > 0 {
		sb.WriteString("\nSkipped (no arena or SIZ geometry):\n")
		for _, r := range s.Skipped {
			sb.WriteString(fmt.Sprintf("  - %s\n", r))
		}
	}
	if len(s.Overwritten) > 0 {
		sb.WriteString("\nDuplicate sessions (later recording kept):\n")
		for _, r := range s.Overwritten {
			sb.WriteString(fmt.Sprintf("  - %s\n", r))
		}
	}

	fl.writeRunLog(sb.String())
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		// Flush after each write for real-time logging
		fl.runLog.Sync()
	}
}

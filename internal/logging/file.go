package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// FileLog is a logger backed by a timestamped run log file.
type FileLog struct {
	*Logger
	file     *os.File
	filePath string
}

// Setup creates a logger that writes to a timestamped file in logDir.
// Returns nil if logging is disabled (noLog=true).
func Setup(logDir string, level slog.Level, noLog bool) (*FileLog, error) {
	if noLog {
		return nil, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filePath := filepath.Join(logDir, fmt.Sprintf("drymix_run_%s.log", timestamp))

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file %s: %w", filePath, err)
	}

	l := &FileLog{
		Logger:   New(Config{Level: level, Output: file, Enabled: true}),
		file:     file,
		filePath: filePath,
	}
	l.Info("drymix starting", "log_file", filePath, "level", level.String())
	return l, nil
}

// Close closes the log file.
func (l *FileLog) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// FilePath returns the path to the log file.
func (l *FileLog) FilePath() string {
	if l == nil {
		return ""
	}
	return l.filePath
}

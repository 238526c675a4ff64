package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"boardfile/internal/config"
)

// Logger wraps a logrus logger bound to .boardfile/logs/boardfile.log so
// command activity survives the terminal session. It optionally mirrors to
// stderr for interactive debugging.
type Logger struct {
	*log.Logger
	file *os.File
}

// New creates (or reuses) the log file for the current project directory.
func New(projectDir string, cfg config.LoggingConfig) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.BoardfileDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "boardfile.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}

	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Stderr {
		logger.SetOutput(io.MultiWriter(f, os.Stderr))
	} else {
		logger.SetOutput(f)
	}
	return &Logger{Logger: logger, file: f}, nil
}

// Discard returns a logger that drops everything. Used by tests and by
// commands that run before a project directory exists.
func Discard() *Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return &Logger{Logger: logger}
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Package common provides shared utilities for Cartera
package common

import (
	"io"
	"os"
	"time"

	"github.com/phuslu/log"
)

// Logger wraps log.Logger to provide a consistent interface
type Logger struct {
	log.Logger
}

// parseLevel maps a config level string to a log level.
func parseLevel(level string) log.Level {
	switch level {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// NewLogger creates a new console logger with the specified level
func NewLogger(level string) *Logger {
	return &Logger{Logger: log.Logger{
		Level:      parseLevel(level),
		TimeFormat: time.RFC3339,
		Writer: &log.ConsoleWriter{
			ColorOutput: true,
			Writer:      os.Stderr,
		},
	}}
}

// NewLoggerFromConfig creates a logger honoring the logging config,
// writing JSON to the configured file when a path is set.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	logger := log.Logger{
		Level:      parseLevel(cfg.Level),
		TimeFormat: time.RFC3339,
	}

	if cfg.FilePath != "" {
		maxSize := int64(cfg.MaxSizeMB)
		if maxSize <= 0 {
			maxSize = 50
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 7
		}
		logger.Writer = &log.FileWriter{
			Filename:     cfg.FilePath,
			MaxSize:      maxSize << 20,
			MaxBackups:   maxBackups,
			EnsureFolder: true,
			LocalTime:    true,
		}
	} else {
		logger.Writer = &log.ConsoleWriter{
			ColorOutput: true,
			Writer:      os.Stderr,
		}
	}

	return &Logger{Logger: logger}
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger() *Logger {
	return NewLogger("info")
}

// NewSilentLogger creates a logger that discards all output
func NewSilentLogger() *Logger {
	return &Logger{Logger: log.Logger{
		Writer: log.IOWriter{Writer: io.Discard},
	}}
}

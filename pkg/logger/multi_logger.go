package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogCategory represents different log categories
type LogCategory string

const (
	CategoryServer   LogCategory = "server"   // HTTP access and lifecycle
	CategoryLookup   LogCategory = "lookup"   // Metadata lookups
	CategoryLibrary  LogCategory = "library"  // Saved-record storage, diagnostics for swallowed failures
	CategoryDownload LogCategory = "download" // Simulated download lifecycle
	CategoryError    LogCategory = "error"    // Everything at error level or above
)

// Categories lists every category in display order
func Categories() []LogCategory {
	return []LogCategory{CategoryServer, CategoryLookup, CategoryLibrary, CategoryDownload, CategoryError}
}

// ValidCategory reports whether c is a known category
func ValidCategory(c LogCategory) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// MultiLogger writes one JSON file per category per day. Entries at error
// level from any category are also copied into the error file.
type MultiLogger struct {
	loggers map[LogCategory]*zap.Logger
	files   []*os.File
	config  MultiLoggerConfig
	mu      sync.RWMutex
	closed  bool
}

// MultiLoggerConfig contains configuration for multi-output logging
type MultiLoggerConfig struct {
	Level   string // debug, info, warn, error
	LogsDir string // Directory for log files
}

// NewMultiLogger creates a new multi-output logger
func NewMultiLogger(config MultiLoggerConfig) (*MultiLogger, error) {
	if config.LogsDir == "" {
		return nil, fmt.Errorf("logs_dir must be specified")
	}

	if err := os.MkdirAll(config.LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	ml := &MultiLogger{
		loggers: make(map[LogCategory]*zap.Logger),
		config:  config,
	}

	level, err := zapcore.ParseLevel(config.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	errorCore, err := ml.createCore(CategoryError, zapcore.ErrorLevel)
	if err != nil {
		ml.closeFiles()
		return nil, fmt.Errorf("failed to create error logger: %w", err)
	}
	ml.loggers[CategoryError] = zap.New(errorCore)

	for _, category := range Categories() {
		if category == CategoryError {
			continue
		}
		core, err := ml.createCore(category, level)
		if err != nil {
			ml.closeFiles()
			return nil, fmt.Errorf("failed to create %s logger: %w", category, err)
		}
		ml.loggers[category] = zap.New(zapcore.NewTee(core, errorCore)).
			With(zap.String("category", string(category)))
	}

	return ml, nil
}

// createCore opens today's file for category and builds a JSON core on it
func (ml *MultiLogger) createCore(category LogCategory, level zapcore.Level) (zapcore.Core, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "level"
	encoderConfig.CallerKey = ""

	file, err := os.OpenFile(ml.categoryLogPath(category), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	ml.files = append(ml.files, file)

	return zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(file), level), nil
}

func (ml *MultiLogger) categoryLogPath(category LogCategory) string {
	return LogPath(ml.config.LogsDir, category, time.Now())
}

// LogPath is the file holding category entries written on date
func LogPath(logsDir string, category LogCategory, date time.Time) string {
	filename := fmt.Sprintf("%s-%s.log", category, date.Format("20060102"))
	return filepath.Join(logsDir, filename)
}

// GetLogsDir returns the logs directory path
func (ml *MultiLogger) GetLogsDir() string {
	return ml.config.LogsDir
}

// GetLogger returns the structured logger for a specific category
func (ml *MultiLogger) GetLogger(category LogCategory) *zap.Logger {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	if logger, ok := ml.loggers[category]; ok {
		return logger
	}
	return ml.loggers[CategoryError]
}

// Server returns the server logger
func (ml *MultiLogger) Server() *zap.Logger { return ml.GetLogger(CategoryServer) }

// Lookup returns the metadata lookup logger
func (ml *MultiLogger) Lookup() *zap.Logger { return ml.GetLogger(CategoryLookup) }

// Library returns the library logger
func (ml *MultiLogger) Library() *zap.Logger { return ml.GetLogger(CategoryLibrary) }

// Download returns the download logger
func (ml *MultiLogger) Download() *zap.Logger { return ml.GetLogger(CategoryDownload) }

// Error returns the error logger
func (ml *MultiLogger) Error() *zap.Logger { return ml.GetLogger(CategoryError) }

// LogAppError logs an application-level error (Go errors, panics)
func (ml *MultiLogger) LogAppError(msg string, fields ...zap.Field) {
	ml.Error().Error(msg, fields...)
}

// Sync flushes all loggers
func (ml *MultiLogger) Sync() error {
	ml.mu.RLock()
	defer ml.mu.RUnlock()

	var errs []error
	for _, logger := range ml.loggers {
		if err := logger.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close flushes all loggers and closes their files
func (ml *MultiLogger) Close() error {
	ml.mu.Lock()
	defer ml.mu.Unlock()

	if ml.closed {
		return nil
	}
	ml.closed = true

	var errs []error
	for _, logger := range ml.loggers {
		if err := logger.Sync(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := ml.closeFiles(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (ml *MultiLogger) closeFiles() error {
	var errs []error
	for _, file := range ml.files {
		if err := file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	ml.files = nil
	return errors.Join(errs...)
}

package logger

import (
	"go.uber.org/zap"
)

// LoggerAdapter hands out category loggers. Backed by a MultiLogger each
// category also reaches the console logger; without one every category is
// the console logger.
type LoggerAdapter struct {
	multiLogger *MultiLogger
	console     *zap.Logger
}

// NewLoggerAdapter creates an adapter writing to console and, when
// multiLogger is non-nil, to the category files
func NewLoggerAdapter(console *zap.Logger, multiLogger *MultiLogger) *LoggerAdapter {
	if console == nil {
		console = zap.NewNop()
	}
	return &LoggerAdapter{
		multiLogger: multiLogger,
		console:     console,
	}
}

// Category returns the logger for category
func (la *LoggerAdapter) Category(category LogCategory) *zap.Logger {
	named := la.console.Named(string(category))
	if la.multiLogger == nil {
		return named
	}
	return Tee(named, la.multiLogger.GetLogger(category))
}

// Server returns the server logger
func (la *LoggerAdapter) Server() *zap.Logger { return la.Category(CategoryServer) }

// Lookup returns the metadata lookup logger
func (la *LoggerAdapter) Lookup() *zap.Logger { return la.Category(CategoryLookup) }

// Library returns the library logger
func (la *LoggerAdapter) Library() *zap.Logger { return la.Category(CategoryLibrary) }

// Download returns the download logger
func (la *LoggerAdapter) Download() *zap.Logger { return la.Category(CategoryDownload) }

// LogError logs an error under category; with category files it also lands
// in the error file
func (la *LoggerAdapter) LogError(category LogCategory, msg string, fields ...zap.Field) {
	la.Category(category).Error(msg, fields...)
}

// Sync flushes all loggers
func (la *LoggerAdapter) Sync() error {
	_ = la.console.Sync()
	if la.multiLogger != nil {
		return la.multiLogger.Sync()
	}
	return nil
}

// LogsDir returns the category log directory, or "" without category files
func (la *LoggerAdapter) LogsDir() string {
	if la.multiLogger == nil {
		return ""
	}
	return la.multiLogger.GetLogsDir()
}

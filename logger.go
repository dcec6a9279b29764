package vecbuf

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with vecbuf-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithElementSize adds an element_size field to the logger.
func (l *Logger) WithElementSize(size int) *Logger {
	return &Logger{
		Logger: l.Logger.With("element_size", size),
	}
}

// WithCapacity adds a capacity field to the logger.
func (l *Logger) WithCapacity(capacity int) *Logger {
	return &Logger{
		Logger: l.Logger.With("capacity", capacity),
	}
}

// WithLength adds a length field to the logger.
func (l *Logger) WithLength(length int) *Logger {
	return &Logger{
		Logger: l.Logger.With("length", length),
	}
}

// LogConstruct logs vector construction.
func (l *Logger) LogConstruct(strategy string, elementSize, capacity, maxCapacity int) {
	l.Debug("vector constructed",
		"strategy", strategy,
		"element_size", elementSize,
		"capacity", capacity,
		"max_capacity", maxCapacity,
	)
}

// LogGrow logs a capacity growth.
func (l *Logger) LogGrow(strategy string, oldCapacity, newCapacity int, err error) {
	if err != nil {
		l.Warn("growth failed",
			"strategy", strategy,
			"capacity", oldCapacity,
			"error", err,
		)
	} else {
		l.Debug("capacity grown",
			"strategy", strategy,
			"old_capacity", oldCapacity,
			"new_capacity", newCapacity,
		)
	}
}

// LogHardReset logs a hard reset.
func (l *Logger) LogHardReset(length int) {
	l.Debug("hard reset",
		"zeroed_elements", length,
	)
}

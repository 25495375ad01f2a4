package colobj

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with colobj-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger on the given handler. A nil handler falls back
// to text output on stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger writing JSON records to stderr, keeping
// records at or above the given level.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger writing human-readable records to stderr,
// keeping records at or above the given level.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that drops every record.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithField adds a field name to the logger (useful for tagging operations).
func (l *Logger) WithField(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("field", name),
	}
}

// WithEntry adds an entry index to the logger.
func (l *Logger) WithEntry(index uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("entry", index),
	}
}

// LogFill logs one filled entry.
func (l *Logger) LogFill(ctx context.Context, index uint64, nbytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fill failed",
			"entry", index,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "entry filled",
			"entry", index,
			"bytes", nbytes,
		)
	}
}

// LogCommitCluster logs a committed cluster.
func (l *Logger) LogCommitCluster(ctx context.Context, cluster int, entries uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cluster commit failed",
			"cluster", cluster,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "cluster committed",
			"cluster", cluster,
			"entries", entries,
		)
	}
}

// LogScan logs a completed range scan.
func (l *Logger) LogScan(ctx context.Context, first, last uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "scan failed",
			"first", first,
			"last", last,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "scan completed",
			"first", first,
			"last", last,
		)
	}
}

// LogPersist logs saving a sealed store to disk.
func (l *Logger) LogPersist(ctx context.Context, filename string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "persist failed",
			"filename", filename,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "store saved",
			"filename", filename,
		)
	}
}

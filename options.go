package colobj

import "log/slog"

type options struct {
	entriesPerCluster uint64
	persistPath       string
	logger            *Logger
}

// DefaultEntriesPerCluster is the writer's auto-commit threshold when no
// option overrides it.
const DefaultEntriesPerCluster = 4096

// Option configures writer and reader behavior.
type Option func(*options)

// WithEntriesPerCluster configures how many entries the writer groups into
// one cluster before committing it automatically. Smaller clusters commit
// more often and narrow the range bulk reads can cover in one call; larger
// clusters delay when entries become readable after a crash-free close.
//
// Values below 1 fall back to the default.
func WithEntriesPerCluster(n uint64) Option {
	return func(o *options) {
		if n < 1 {
			n = DefaultEntriesPerCluster
		}
		o.entriesPerCluster = n
	}
}

// WithPersistPath configures the writer to save the sealed store to the
// given file on Close, and is ignored by readers.
func WithPersistPath(path string) Option {
	return func(o *options) {
		o.persistPath = path
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		entriesPerCluster: DefaultEntriesPerCluster,
		logger:            NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

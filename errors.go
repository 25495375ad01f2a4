package colobj

import "errors"

var (
	// ErrFrozen is returned when a frozen model is modified. Models freeze
	// when a writer or reader is created from them.
	ErrFrozen = errors.New("colobj: model is frozen")
	// ErrDuplicateField is returned when a top-level field name is added
	// twice.
	ErrDuplicateField = errors.New("colobj: duplicate field")
	// ErrUnknownEntryField is returned when an entry is asked for a value
	// of a field the model does not declare.
	ErrUnknownEntryField = errors.New("colobj: no such field in entry")
	// ErrWriterClosed is returned when filling into a closed writer.
	ErrWriterClosed = errors.New("colobj: writer is closed")
	// ErrForeignEntry is returned when an entry created by one model is
	// passed to a writer or reader of another.
	ErrForeignEntry = errors.New("colobj: entry belongs to a different model")
)

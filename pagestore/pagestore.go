package pagestore

import (
	"errors"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
)

var (
	// ErrSealed is returned when appending to a store that was sealed for
	// reading.
	ErrSealed = errors.New("pagestore: store is sealed")
	// ErrNotSealed is returned when reading from a store that is still
	// accepting writes.
	ErrNotSealed = errors.New("pagestore: store is not sealed")
	// ErrUnknownHandle is returned for column handles the store did not
	// issue.
	ErrUnknownHandle = errors.New("pagestore: unknown column handle")
	// ErrOutOfRange is returned for element indexes past the end of a
	// column or cluster.
	ErrOutOfRange = errors.New("pagestore: element index out of range")
	// ErrCrossCluster is returned when a vectorized read crosses a cluster
	// boundary.
	ErrCrossCluster = errors.New("pagestore: range crosses cluster boundary")
	// ErrUncommitted is returned when sealing a store with elements not
	// covered by a committed cluster.
	ErrUncommitted = errors.New("pagestore: uncommitted elements")
)

// Sink is the write side of the storage collaborator. A field calls Create
// exactly once when connecting; the sink allocates the on-disk field ID and
// one column handle per entry of the chosen representation.
type Sink interface {
	column.PageSink

	// Create registers the field record, assigns rec.ID and returns the
	// handles of the field's columns in representation order. The sink may
	// adjust the representation according to its write options; the types
	// actually chosen are recorded in the descriptor.
	Create(rec *descriptor.FieldRecord, types column.Representation) ([]column.Handle, error)

	// CommitCluster closes the current cluster spanning nEntries entries.
	// Per-column element counters keep growing; cluster boundaries are
	// recorded so that in-cluster indexes can be resolved on read.
	CommitCluster(nEntries uint64) error

	// Descriptor exposes the schema built so far.
	Descriptor() *descriptor.Descriptor
}

// Source is the read side of the storage collaborator.
type Source interface {
	column.PageSource

	// ColumnHandles returns the handles and on-disk types of the columns
	// backing the given field, in column order. Fields use the types for
	// compatibility checking before reading.
	ColumnHandles(id descriptor.FieldID) ([]column.Handle, column.Representation, error)

	// Descriptor exposes the stored schema.
	Descriptor() *descriptor.Descriptor
}

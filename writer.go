package colobj

import (
	"context"
	"fmt"

	"github.com/colobj/colobj/field"
	"github.com/colobj/colobj/pagestore"
)

// Writer fills entries of one model into a page store, grouping them into
// clusters. Fill is single-threaded; a writer is not safe for concurrent
// use.
type Writer struct {
	model  *Model
	tree   *field.ZeroField
	fields []field.Field
	store  *pagestore.MemoryStore
	opts   options

	entries   uint64
	inCluster uint64
	clusters  int
	closed    bool
}

// NewWriter creates a writer session over a fresh in-memory store and
// freezes the model. The store is sealed on Close and, when WithPersistPath
// is set, saved to disk.
func NewWriter(model *Model, optFns ...Option) (*Writer, error) {
	tree, err := model.cloneRoot()
	if err != nil {
		return nil, err
	}
	store := pagestore.NewMemoryStore()
	if err := tree.ConnectPageSink(store, 0); err != nil {
		return nil, err
	}
	model.freeze()
	return &Writer{
		model:  model,
		tree:   tree,
		fields: tree.SubFields(),
		store:  store,
		opts:   applyOptions(optFns),
	}, nil
}

// Model returns the writer's model.
func (w *Writer) Model() *Model { return w.model }

// NEntries returns the number of filled entries, committed or not.
func (w *Writer) NEntries() uint64 { return w.entries }

// Fill appends one entry and returns the number of packed bytes written
// across all columns. The entry's values stay valid and can be reused for
// the next entry. A full cluster is committed automatically.
func (w *Writer) Fill(ctx context.Context, e *Entry) (int, error) {
	if w.closed {
		return 0, ErrWriterClosed
	}
	if e.model != w.model {
		return 0, ErrForeignEntry
	}
	var nbytes int
	for i, v := range e.values {
		n, err := w.fields[i].BindValue(v.Ptr()).Append()
		if err != nil {
			w.opts.logger.LogFill(ctx, w.entries, 0, err)
			return nbytes, fmt.Errorf("field %q: %w", w.fields[i].Name(), err)
		}
		nbytes += n
	}
	w.opts.logger.LogFill(ctx, w.entries, nbytes, nil)
	w.entries++
	w.inCluster++
	if w.inCluster >= w.opts.entriesPerCluster {
		if err := w.CommitCluster(ctx); err != nil {
			return nbytes, err
		}
	}
	return nbytes, nil
}

// CommitCluster closes the open cluster. Committing an empty cluster is a
// no-op.
func (w *Writer) CommitCluster(ctx context.Context) error {
	if w.closed {
		return ErrWriterClosed
	}
	if w.inCluster == 0 {
		return nil
	}
	if err := w.tree.CommitCluster(); err != nil {
		w.opts.logger.LogCommitCluster(ctx, w.clusters, w.inCluster, err)
		return err
	}
	if err := w.store.CommitCluster(w.inCluster); err != nil {
		w.opts.logger.LogCommitCluster(ctx, w.clusters, w.inCluster, err)
		return err
	}
	w.opts.logger.LogCommitCluster(ctx, w.clusters, w.inCluster, nil)
	w.clusters++
	w.inCluster = 0
	return nil
}

// Close commits the open cluster, seals the store and saves it when a
// persist path is configured. The writer cannot be used afterwards.
func (w *Writer) Close(ctx context.Context) (*pagestore.MemoryStore, error) {
	if w.closed {
		return w.store, nil
	}
	if err := w.CommitCluster(ctx); err != nil {
		return nil, err
	}
	if err := w.store.Seal(); err != nil {
		return nil, err
	}
	w.closed = true
	if w.opts.persistPath != "" {
		err := pagestore.Save(w.opts.persistPath, w.store)
		w.opts.logger.LogPersist(ctx, w.opts.persistPath, err)
		if err != nil {
			return nil, err
		}
	}
	return w.store, nil
}

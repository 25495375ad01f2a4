package colobj

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/field"
	"github.com/colobj/colobj/pagestore"
)

// Reader reconstructs entries of one model from a sealed store. A reader's
// entry-wise methods are single-threaded; ScanRange fans out over clusters
// with one cloned field tree per worker, which is safe because sealed
// stores are immutable.
type Reader struct {
	model  *Model
	tree   *field.ZeroField
	fields []field.Field
	store  *pagestore.MemoryStore
	opts   options
}

// NewReader creates a reader session over a sealed store and freezes the
// model.
func NewReader(model *Model, store *pagestore.MemoryStore, optFns ...Option) (*Reader, error) {
	tree, err := model.cloneRoot()
	if err != nil {
		return nil, err
	}
	if err := tree.ConnectPageSource(store); err != nil {
		return nil, err
	}
	model.freeze()
	return &Reader{
		model:  model,
		tree:   tree,
		fields: tree.SubFields(),
		store:  store,
		opts:   applyOptions(optFns),
	}, nil
}

// Open loads a store from disk and creates a reader over it.
func Open(model *Model, path string, optFns ...Option) (*Reader, error) {
	store, err := pagestore.Load(path)
	if err != nil {
		return nil, err
	}
	return NewReader(model, store, optFns...)
}

// Model returns the reader's model.
func (r *Reader) Model() *Model { return r.model }

// NEntries returns the number of stored entries.
func (r *Reader) NEntries() uint64 {
	return r.store.Descriptor().NEntries()
}

// Read fills the entry with the values of the given entry index.
func (r *Reader) Read(index uint64, e *Entry) error {
	if e.model != r.model {
		return ErrForeignEntry
	}
	return readEntry(r.fields, column.GlobalIndex(index), e)
}

func readEntry(fields []field.Field, index column.GlobalIndex, e *Entry) error {
	for i, v := range e.values {
		if err := fields[i].BindValue(v.Ptr()).Read(index); err != nil {
			return fmt.Errorf("field %q: %w", fields[i].Name(), err)
		}
	}
	return nil
}

// ScanRange reads the entries in [first, last) and calls fn for each. The
// work is split by cluster and runs on one goroutine per cluster, each with
// its own field tree and entry; fn must be safe for concurrent calls. The
// entry passed to fn is only valid during the call.
func (r *Reader) ScanRange(ctx context.Context, first, last uint64, fn func(index uint64, e *Entry) error) error {
	if last > r.NEntries() {
		last = r.NEntries()
	}
	if first >= last {
		return nil
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, cl := range r.store.Descriptor().Clusters() {
		lo, hi := cl.FirstEntry, cl.FirstEntry+cl.NEntries
		if lo < first {
			lo = first
		}
		if hi > last {
			hi = last
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			tree, err := r.model.cloneRoot()
			if err != nil {
				return err
			}
			if err := tree.ConnectPageSource(r.store); err != nil {
				return err
			}
			fields := tree.SubFields()
			e := r.model.NewEntry()
			defer e.Destroy()
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := readEntry(fields, column.GlobalIndex(i), e); err != nil {
					return err
				}
				if err := fn(i, e); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	r.opts.logger.LogScan(ctx, first, last, err)
	return err
}

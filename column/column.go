package column

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when a column is used before its owning field
// connected it to a page store.
var ErrNotConnected = errors.New("column: not connected to a page store")

// PageSink is the write side of the physical storage collaborator, reduced
// to what a column needs. The full sink contract lives in the pagestore
// package; this consumer-side interface keeps column free of that
// dependency.
type PageSink interface {
	// AppendElement appends one packed element to the column identified by
	// h and returns the number of bytes recorded for size accounting.
	AppendElement(h Handle, packed []byte) (int, error)
}

// PageSource is the read side of the physical storage collaborator, reduced
// to what a column needs.
type PageSource interface {
	// ReadElement reads the packed element at the given global index.
	ReadElement(h Handle, index GlobalIndex, packed []byte) error
	// ReadElementInCluster reads the packed element at the given in-cluster
	// index.
	ReadElementInCluster(h Handle, index ClusterIndex, packed []byte) error
	// ReadElementsV reads n consecutive packed elements starting at first.
	// The range must lie within a single cluster.
	ReadElementsV(h Handle, first ClusterIndex, n uint64, packed []byte) error
	// CollectionInfo resolves an entry of an offset column into the
	// in-cluster index of the first collection item and the item count.
	CollectionInfo(h Handle, index GlobalIndex) (ClusterIndex, uint64, error)
	// ClusterOf translates a global element index into its in-cluster form.
	ClusterOf(h Handle, index GlobalIndex) (ClusterIndex, error)
	// GlobalOf translates an in-cluster element index into its global form.
	GlobalOf(h Handle, index ClusterIndex) (GlobalIndex, error)
}

// Column is the handle a field owns per backing column. It packs in-memory
// slot words through its Element codec and forwards them to the connected
// page sink, or reads and unpacks elements from the connected page source.
//
// A column is connected to exactly one of sink or source. Reconnecting
// requires a fresh column, which fields obtain by cloning.
type Column struct {
	elem   Element
	index  uint32
	handle Handle
	sink   PageSink
	source PageSource

	// nElements counts appended elements; offset columns of collection
	// fields use it indirectly through their running counters.
	nElements uint64

	scratch [16]byte
}

// New creates an unconnected column of the given type. index is the
// position of the column within the owning field's column list; memSize the
// in-memory word size the field uses for this column's elements.
func New(typ Type, memSize int, index uint32) *Column {
	return &Column{
		elem:   NewElement(typ, memSize),
		index:  index,
		handle: InvalidHandle,
	}
}

// Type returns the on-disk element type.
func (c *Column) Type() Type { return c.elem.Type() }

// Element returns the element codec.
func (c *Column) Element() Element { return c.elem }

// Index returns the column's position within the owning field.
func (c *Column) Index() uint32 { return c.index }

// Handle returns the page store handle, or InvalidHandle when unconnected.
func (c *Column) Handle() Handle { return c.handle }

// NElements returns the number of elements appended through this column.
func (c *Column) NElements() uint64 { return c.nElements }

// ConnectSink attaches the column to a page sink under the given handle.
func (c *Column) ConnectSink(h Handle, sink PageSink) {
	c.handle = h
	c.sink = sink
}

// ConnectSource attaches the column to a page source under the given handle.
func (c *Column) ConnectSource(h Handle, source PageSource) {
	c.handle = h
	c.source = source
}

// Append packs the in-memory word slot and appends it, returning the packed
// byte count.
func (c *Column) Append(slot []byte) (int, error) {
	if c.sink == nil {
		return 0, ErrNotConnected
	}
	packed := c.scratch[:c.elem.PackedSize()]
	c.elem.Pack(packed, slot)
	n, err := c.sink.AppendElement(c.handle, packed)
	if err != nil {
		return 0, fmt.Errorf("column %d (%s): %w", c.index, c.Type(), err)
	}
	c.nElements++
	return n, nil
}

// Read unpacks the element at the given global index into the in-memory
// word dest.
func (c *Column) Read(index GlobalIndex, dest []byte) error {
	if c.source == nil {
		return ErrNotConnected
	}
	packed := c.scratch[:c.elem.PackedSize()]
	if err := c.source.ReadElement(c.handle, index, packed); err != nil {
		return err
	}
	c.elem.Unpack(dest, packed)
	return nil
}

// ReadInCluster unpacks the element at the given in-cluster index into dest.
func (c *Column) ReadInCluster(index ClusterIndex, dest []byte) error {
	if c.source == nil {
		return ErrNotConnected
	}
	packed := c.scratch[:c.elem.PackedSize()]
	if err := c.source.ReadElementInCluster(c.handle, index, packed); err != nil {
		return err
	}
	c.elem.Unpack(dest, packed)
	return nil
}

// ReadV unpacks n consecutive elements starting at first into dest, which
// must hold n*MemSize() bytes. The range must lie within a single cluster.
func (c *Column) ReadV(first ClusterIndex, n uint64, dest []byte) error {
	if c.source == nil {
		return ErrNotConnected
	}
	ps := c.elem.PackedSize()
	ms := c.elem.MemSize()
	packed := make([]byte, int(n)*ps)
	if err := c.source.ReadElementsV(c.handle, first, n, packed); err != nil {
		return err
	}
	for i := 0; i < int(n); i++ {
		c.elem.Unpack(dest[i*ms:(i+1)*ms], packed[i*ps:(i+1)*ps])
	}
	return nil
}

// CollectionInfo resolves an offset-column entry into the first item index
// and the item count.
func (c *Column) CollectionInfo(index GlobalIndex) (ClusterIndex, uint64, error) {
	if c.source == nil {
		return InvalidClusterIndex, 0, ErrNotConnected
	}
	return c.source.CollectionInfo(c.handle, index)
}

// ClusterOf translates a global element index into its in-cluster form.
func (c *Column) ClusterOf(index GlobalIndex) (ClusterIndex, error) {
	if c.source == nil {
		return InvalidClusterIndex, ErrNotConnected
	}
	return c.source.ClusterOf(c.handle, index)
}

// GlobalOf translates an in-cluster element index into its global form.
func (c *Column) GlobalOf(index ClusterIndex) (GlobalIndex, error) {
	if c.source == nil {
		return InvalidGlobalIndex, ErrNotConnected
	}
	return c.source.GlobalOf(c.handle, index)
}

package field

import (
	"iter"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
	"github.com/colobj/colobj/pagestore"
)

// CollectionAdapter presents an arbitrary in-memory collection layout to a
// ProxiedCollectionField. The field never inspects the collection slot
// itself; counting, resizing and traversal all go through the adapter.
type CollectionAdapter interface {
	// SlotSize returns the size of the collection slot in bytes.
	SlotSize() int
	// Alignment returns the slot alignment in bytes.
	Alignment() int
	// Count returns the number of items in the bound collection.
	Count(p slot.Ptr) int
	// Resize prepares the collection to hold exactly n constructed items.
	Resize(item Field, p slot.Ptr, n int)
	// Release tears down the collection and its items.
	Release(item Field, p slot.Ptr)
	// Items iterates the item slots in collection order.
	Items(item Field, p slot.Ptr) iter.Seq[slot.Ptr]
}

// ContiguousAdapter marks adapters whose item slots are laid out back to
// back with the item size as stride. Fields use indexed access and
// vectorized leaf reads instead of the streaming iterator.
type ContiguousAdapter interface {
	CollectionAdapter
	// ItemAt returns the slot of the i-th item.
	ItemAt(item Field, p slot.Ptr, i int) slot.Ptr
	// Payload returns the backing bytes of all item slots as one region of
	// Count*ValueSize bytes.
	Payload(item Field, p slot.Ptr) []byte
}

// ProxiedCollectionField maps a generic iterable collection onto an offset
// column plus the item field's columns, with the collection's memory layout
// supplied by an adapter.
type ProxiedCollectionField struct {
	Base
	adapter  CollectionAdapter
	nWritten uint64
}

// NewProxiedCollectionField creates a collection field over the given item
// field and adapter.
func NewProxiedCollectionField(name, typeName string, item Field, adapter CollectionAdapter) (*ProxiedCollectionField, error) {
	f := &ProxiedCollectionField{}
	if err := f.initProxied(f, name, typeName, item, adapter); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *ProxiedCollectionField) initProxied(self Field, name, typeName string, item Field, adapter CollectionAdapter) error {
	f.adapter = adapter
	if err := f.init(self, name, typeName, descriptor.StructureCollection,
		adapter.SlotSize(), adapter.Alignment(), TraitTriviallyConstructible); err != nil {
		return err
	}
	f.attach(item)
	return nil
}

func (f *ProxiedCollectionField) item() Field { return f.subFields[0] }

// Adapter returns the collection adapter.
func (f *ProxiedCollectionField) Adapter() CollectionAdapter { return f.adapter }

func (f *ProxiedCollectionField) representations() column.Representations { return offsetReps }

func (f *ProxiedCollectionField) genColumns() error {
	f.makeColumns(f.ColumnRepresentative(), 8)
	return nil
}

func (f *ProxiedCollectionField) genColumnsOnDisk(src pagestore.Source) error {
	return f.bindColumnsOnDisk(src, 8)
}

func (f *ProxiedCollectionField) cloneImpl(newName string) (Field, error) {
	item, err := cloneSubField(f.item())
	if err != nil {
		return nil, err
	}
	return NewProxiedCollectionField(newName, f.typeName, item, f.adapter)
}

func (f *ProxiedCollectionField) destroy(p slot.Ptr) {
	f.adapter.Release(f.item(), p)
}

func (f *ProxiedCollectionField) appendImpl(from slot.Ptr) (int, error) {
	item := f.item().base()
	var nbytes, n int
	for itemPtr := range f.adapter.Items(f.item(), from) {
		nb, err := item.append(itemPtr)
		if err != nil {
			return nbytes, err
		}
		nbytes += nb
		n++
	}
	f.nWritten += uint64(n)
	var word [8]byte
	slot.PutUint64(word[:], f.nWritten)
	nb, err := f.columns[0].Append(word[:])
	if err != nil {
		return nbytes, err
	}
	return nbytes + nb, nil
}

func (f *ProxiedCollectionField) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	first, n, err := f.columns[0].CollectionInfo(index)
	if err != nil {
		return err
	}
	item := f.item().base()
	f.adapter.Resize(f.item(), to, int(n))
	if n == 0 {
		return nil
	}
	if contig, ok := f.adapter.(ContiguousAdapter); ok {
		if item.isSimple {
			return item.principal.ReadV(first, n, contig.Payload(f.item(), to))
		}
		for i := 0; i < int(n); i++ {
			idx := column.ClusterIndex{Cluster: first.Cluster, Index: first.Index + uint64(i)}
			if err := item.readInCluster(idx, contig.ItemAt(f.item(), to, i)); err != nil {
				return err
			}
		}
		return nil
	}
	i := uint64(0)
	for itemPtr := range f.adapter.Items(f.item(), to) {
		idx := column.ClusterIndex{Cluster: first.Cluster, Index: first.Index + i}
		if err := item.readInCluster(idx, itemPtr); err != nil {
			return err
		}
		i++
	}
	return nil
}

func (f *ProxiedCollectionField) readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error {
	g, err := f.columns[0].GlobalOf(index)
	if err != nil {
		return err
	}
	return f.readGlobalImpl(g, to)
}

func (f *ProxiedCollectionField) commitClusterImpl() error {
	f.nWritten = 0
	return nil
}

func (f *ProxiedCollectionField) splitImpl(v *Value) []*Value {
	var parts []*Value
	for itemPtr := range f.adapter.Items(f.item(), v.Ptr()) {
		parts = append(parts, f.item().BindValue(itemPtr))
	}
	return parts
}

func (f *ProxiedCollectionField) assign(p slot.Ptr, x any) error {
	items, ok := x.([]any)
	if !ok {
		return assignTypeError(f, x)
	}
	f.adapter.Resize(f.item(), p, len(items))
	i := 0
	for itemPtr := range f.adapter.Items(f.item(), p) {
		if err := f.item().assign(itemPtr, items[i]); err != nil {
			return err
		}
		i++
	}
	return nil
}

func (f *ProxiedCollectionField) extract(p slot.Ptr) (any, error) {
	items := make([]any, 0, f.adapter.Count(p))
	for itemPtr := range f.adapter.Items(f.item(), p) {
		iv, err := f.item().extract(itemPtr)
		if err != nil {
			return nil, err
		}
		items = append(items, iv)
	}
	return items, nil
}

// payloadAdapter is the package-native collection layout: the shared
// {cell reference, item count} header with items back to back in the cell.
type payloadAdapter struct{}

func (payloadAdapter) SlotSize() int  { return headerSize }
func (payloadAdapter) Alignment() int { return 4 }

func (payloadAdapter) Count(p slot.Ptr) int {
	return int(slot.GetLen(p.B[lenOffset:]))
}

func (payloadAdapter) Resize(item Field, p slot.Ptr, n int) {
	old := int(slot.GetLen(p.B[lenOffset:]))
	stride := item.ValueSize()
	if old > n && item.Traits()&TraitTriviallyDestructible == 0 {
		for i := old - 1; i >= n; i-- {
			item.destroy(p.Cell(refOffset).Slice(i*stride, stride))
		}
	}
	resizePayload(p, n*stride)
	slot.PutLen(p.B[lenOffset:], uint32(n))
	if n > old && item.Traits()&TraitTriviallyConstructible == 0 {
		for i := old; i < n; i++ {
			item.construct(p.Cell(refOffset).Slice(i*stride, stride))
		}
	}
}

func (a payloadAdapter) Release(item Field, p slot.Ptr) {
	a.Resize(item, p, 0)
	p.H.Free(slot.GetRef(p.B[refOffset:]))
	clear(p.B)
}

func (a payloadAdapter) Items(item Field, p slot.Ptr) iter.Seq[slot.Ptr] {
	return func(yield func(slot.Ptr) bool) {
		for i := 0; i < a.Count(p); i++ {
			if !yield(a.ItemAt(item, p, i)) {
				return
			}
		}
	}
}

func (payloadAdapter) ItemAt(item Field, p slot.Ptr, i int) slot.Ptr {
	stride := item.ValueSize()
	return p.Cell(refOffset).Slice(i*stride, stride)
}

func (a payloadAdapter) Payload(item Field, p slot.Ptr) []byte {
	if a.Count(p) == 0 {
		return nil
	}
	return p.Cell(refOffset).B
}

// SetField maps sets onto the same encoding as vectors: items in collection
// order behind an offset column. Ordering guarantees are the writer's
// concern; reading restores items in stored order.
type SetField struct {
	ProxiedCollectionField
}

// NewSetField creates a set field over the given item field.
func NewSetField(name string, item Field) (*SetField, error) {
	f := &SetField{}
	if err := f.initProxied(f, name, "set<"+item.TypeName()+">", item, payloadAdapter{}); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *SetField) cloneImpl(newName string) (Field, error) {
	item, err := cloneSubField(f.item())
	if err != nil {
		return nil, err
	}
	return NewSetField(newName, item)
}

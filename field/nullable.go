package field

import (
	"fmt"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
	"github.com/colobj/colobj/pagestore"
)

var nullableReps = column.NewRepresentations([]column.Representation{
	{column.TypeIndex64},
	{column.TypeIndex32},
	{column.TypeBit},
})

// NullableField maps optional values onto one of two encodings.
//
// The sparse encoding uses an offset column that grows only for present
// entries; absent entries cost one offset element and no item storage. The
// dense encoding uses a bit column marking presence and stores an item for
// every entry, absent ones as default values; it trades item storage for a
// one-bit presence marker and positional item lookup.
//
// The slot is a cell reference to the item, with the null reference meaning
// absent. The default constructed value is absent.
type NullableField struct {
	Base
	nWritten    uint64
	defaultItem slot.Ptr
}

// NewNullableField creates an optional field over the given item field. The
// encoding defaults to dense for items of up to four bytes and sparse
// otherwise; SetDense and SetSparse override the choice before connecting.
func NewNullableField(name string, item Field) (*NullableField, error) {
	f := &NullableField{}
	if err := f.init(f, name, "*"+item.TypeName(), descriptor.StructureCollection, headerSize, 4, TraitTriviallyConstructible); err != nil {
		return nil, err
	}
	f.attach(item)
	if item.ValueSize() <= 4 && item.Traits()&TraitMappable != 0 {
		f.representative = column.Representation{column.TypeBit}
	}
	return f, nil
}

func (f *NullableField) item() Field { return f.subFields[0] }

// IsDense reports whether the field uses the dense bit-column encoding.
// Before connecting it reflects the write-side choice; after
// ConnectPageSource it reflects the on-disk encoding.
func (f *NullableField) IsDense() bool {
	if f.principal != nil {
		return f.principal.Type() == column.TypeBit
	}
	return f.ColumnRepresentative().Equal(column.Representation{column.TypeBit})
}

// SetDense selects the dense encoding. Only valid before connecting.
func (f *NullableField) SetDense() error {
	return f.SetColumnRepresentative(column.Representation{column.TypeBit})
}

// SetSparse selects the sparse encoding. Only valid before connecting.
func (f *NullableField) SetSparse() error {
	return f.SetColumnRepresentative(column.Representation{column.TypeIndex64})
}

func (f *NullableField) representations() column.Representations { return nullableReps }

func (f *NullableField) genColumns() error {
	rep := f.ColumnRepresentative()
	if rep[0] == column.TypeBit {
		f.makeColumns(rep, 1)
	} else {
		f.makeColumns(rep, 8)
	}
	return nil
}

func (f *NullableField) genColumnsOnDisk(src pagestore.Source) error {
	_, types, err := src.ColumnHandles(f.onDiskID)
	if err != nil {
		return err
	}
	memSize := 8
	if len(types) == 1 && types[0] == column.TypeBit {
		memSize = 1
	}
	return f.bindColumnsOnDisk(src, memSize)
}

func (f *NullableField) cloneImpl(newName string) (Field, error) {
	item, err := cloneSubField(f.item())
	if err != nil {
		return nil, err
	}
	return NewNullableField(newName, item)
}

func (f *NullableField) destroy(p slot.Ptr) {
	r := slot.GetRef(p.B[refOffset:])
	if r != slot.NilRef {
		if f.item().Traits()&TraitTriviallyDestructible == 0 {
			f.item().destroy(slot.Ptr{B: p.H.Bytes(r), H: p.H})
		}
		p.H.Free(r)
	}
	clear(p.B)
}

// itemCell returns the item slot of a present value, allocating it on first
// use.
func (f *NullableField) itemCell(p slot.Ptr) slot.Ptr {
	r := slot.GetRef(p.B[refOffset:])
	if r == slot.NilRef {
		r = p.H.Alloc(f.item().ValueSize())
		slot.PutRef(p.B[refOffset:], r)
		if f.item().Traits()&TraitTriviallyConstructible == 0 {
			f.item().construct(slot.Ptr{B: p.H.Bytes(r), H: p.H})
		}
	}
	return slot.Ptr{B: p.H.Bytes(r), H: p.H}
}

// clearItem makes the value absent.
func (f *NullableField) clearItem(p slot.Ptr) {
	r := slot.GetRef(p.B[refOffset:])
	if r == slot.NilRef {
		return
	}
	if f.item().Traits()&TraitTriviallyDestructible == 0 {
		f.item().destroy(slot.Ptr{B: p.H.Bytes(r), H: p.H})
	}
	p.H.Free(r)
	slot.PutRef(p.B[refOffset:], slot.NilRef)
}

func (f *NullableField) appendImpl(from slot.Ptr) (int, error) {
	present := slot.GetRef(from.B[refOffset:]) != slot.NilRef
	if f.IsDense() {
		return f.appendDense(from, present)
	}
	return f.appendSparse(from, present)
}

func (f *NullableField) appendDense(from slot.Ptr, present bool) (int, error) {
	var nbytes int
	itemPtr := f.defaultItemPtr()
	if present {
		itemPtr = from.Cell(refOffset)
	}
	n, err := f.item().base().append(itemPtr)
	if err != nil {
		return nbytes, err
	}
	nbytes += n
	var bit [1]byte
	if present {
		bit[0] = 1
	}
	n, err = f.columns[0].Append(bit[:])
	if err != nil {
		return nbytes, err
	}
	return nbytes + n, nil
}

func (f *NullableField) appendSparse(from slot.Ptr, present bool) (int, error) {
	var nbytes int
	if present {
		n, err := f.item().base().append(from.Cell(refOffset))
		if err != nil {
			return nbytes, err
		}
		nbytes += n
		f.nWritten++
	}
	var word [8]byte
	slot.PutUint64(word[:], f.nWritten)
	n, err := f.columns[0].Append(word[:])
	if err != nil {
		return nbytes, err
	}
	return nbytes + n, nil
}

// GetItemIndex returns the in-cluster index of the item backing the entry at
// the given global index, or InvalidClusterIndex when the entry is null.
func (f *NullableField) GetItemIndex(index column.GlobalIndex) (column.ClusterIndex, error) {
	if f.principal == nil || f.state != StateConnectedToSource {
		return column.InvalidClusterIndex, fmt.Errorf("%w: field %q is not connected for reading", ErrInvariant, f.QualifiedName())
	}
	if f.IsDense() {
		var bit [1]byte
		if err := f.principal.Read(index, bit[:]); err != nil {
			return column.InvalidClusterIndex, err
		}
		if bit[0] == 0 {
			return column.InvalidClusterIndex, nil
		}
		return f.principal.ClusterOf(index)
	}
	first, n, err := f.principal.CollectionInfo(index)
	if err != nil {
		return column.InvalidClusterIndex, err
	}
	if n == 0 {
		return column.InvalidClusterIndex, nil
	}
	return first, nil
}

func (f *NullableField) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	itemIndex, err := f.GetItemIndex(index)
	if err != nil {
		return err
	}
	if itemIndex == column.InvalidClusterIndex {
		f.clearItem(to)
		return nil
	}
	return f.item().base().readInCluster(itemIndex, f.itemCell(to))
}

func (f *NullableField) readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error {
	g, err := f.principal.GlobalOf(index)
	if err != nil {
		return err
	}
	return f.readGlobalImpl(g, to)
}

func (f *NullableField) commitClusterImpl() error {
	f.nWritten = 0
	return nil
}

func (f *NullableField) splitImpl(v *Value) []*Value {
	r := slot.GetRef(v.Ptr().B[refOffset:])
	if r == slot.NilRef {
		return nil
	}
	return []*Value{f.item().BindValue(v.Ptr().Cell(refOffset))}
}

func (f *NullableField) assign(p slot.Ptr, x any) error {
	if x == nil {
		f.clearItem(p)
		return nil
	}
	return f.item().assign(f.itemCell(p), x)
}

func (f *NullableField) extract(p slot.Ptr) (any, error) {
	if slot.GetRef(p.B[refOffset:]) == slot.NilRef {
		return nil, nil
	}
	return f.item().extract(p.Cell(refOffset))
}

// defaultItemPtr returns a reusable default constructed item written for
// null entries of the dense encoding.
func (f *NullableField) defaultItemPtr() slot.Ptr {
	if f.defaultItem.B == nil {
		f.defaultItem = slot.NewPtr(f.item().ValueSize())
		if f.item().Traits()&TraitTriviallyConstructible == 0 {
			f.item().construct(f.defaultItem)
		}
	}
	return f.defaultItem
}

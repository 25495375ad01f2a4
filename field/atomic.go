package field

import (
	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
)

// AtomicField is a transparent wrapper around its item field: the slot, the
// columns and the encoding are the item's. It records the atomic type name
// in the schema so readers know the writer's declared type.
//
// Atomicity is a property of the client's in-memory access, not of the
// serialized data; this field performs no synchronization itself.
type AtomicField struct {
	Base
}

// NewAtomicField creates an atomic wrapper field over the given item field.
func NewAtomicField(name string, item Field) (*AtomicField, error) {
	f := &AtomicField{}
	traits := item.Traits() &^ TraitMappable
	typeName := "atomic<" + item.TypeName() + ">"
	if err := f.init(f, name, typeName, descriptor.StructureLeaf, item.ValueSize(), item.Alignment(), traits); err != nil {
		return nil, err
	}
	f.attach(item)
	return f, nil
}

func (f *AtomicField) item() Field { return f.subFields[0] }

func (f *AtomicField) cloneImpl(newName string) (Field, error) {
	item, err := cloneSubField(f.item())
	if err != nil {
		return nil, err
	}
	return NewAtomicField(newName, item)
}

func (f *AtomicField) construct(p slot.Ptr) {
	if f.item().Traits()&TraitTriviallyConstructible == 0 {
		f.item().construct(p)
	}
}

func (f *AtomicField) destroy(p slot.Ptr) {
	if f.item().Traits()&TraitTriviallyDestructible == 0 {
		f.item().destroy(p)
	}
}

func (f *AtomicField) appendImpl(from slot.Ptr) (int, error) {
	return f.item().base().append(from)
}

func (f *AtomicField) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	return f.item().base().read(index, to)
}

func (f *AtomicField) readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error {
	return f.item().base().readInCluster(index, to)
}

func (f *AtomicField) splitImpl(v *Value) []*Value {
	return []*Value{f.item().BindValue(v.Ptr())}
}

func (f *AtomicField) assign(p slot.Ptr, x any) error {
	return f.item().assign(p, x)
}

func (f *AtomicField) extract(p slot.Ptr) (any, error) {
	return f.item().extract(p)
}

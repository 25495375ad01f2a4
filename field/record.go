package field

import (
	"fmt"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
)

// RecordField groups member fields into one composite value. It owns no
// columns itself; members serialize independently and the record's entry
// boundary is implicit in its parent.
type RecordField struct {
	Base
	offsets []int
}

// NewRecordField creates a record field owning the given members. Member
// slots are placed at naturally aligned offsets in declaration order.
func NewRecordField(name, typeName string, members []Field) (*RecordField, error) {
	sizes := make([]int, len(members))
	aligns := make([]int, len(members))
	for i, m := range members {
		sizes[i] = m.ValueSize()
		aligns[i] = m.Alignment()
	}
	offsets, size, align := computeLayout(sizes, aligns)
	traits := TraitTrivial
	for _, m := range members {
		traits &= m.Traits()
	}
	f := &RecordField{offsets: offsets}
	if err := f.init(f, name, typeName, descriptor.StructureRecord, size, align, traits); err != nil {
		return nil, err
	}
	for _, m := range members {
		f.attach(m)
	}
	return f, nil
}

// MemberOffset returns the slot offset of the i-th member.
func (f *RecordField) MemberOffset(i int) int { return f.offsets[i] }

func (f *RecordField) memberPtr(p slot.Ptr, i int) slot.Ptr {
	return p.Slice(f.offsets[i], f.subFields[i].ValueSize())
}

func (f *RecordField) cloneImpl(newName string) (Field, error) {
	members := make([]Field, len(f.subFields))
	for i, m := range f.subFields {
		clone, err := cloneSubField(m)
		if err != nil {
			return nil, err
		}
		members[i] = clone
	}
	return NewRecordField(newName, f.typeName, members)
}

func (f *RecordField) construct(p slot.Ptr) {
	for i, m := range f.subFields {
		if m.Traits()&TraitTriviallyConstructible == 0 {
			m.construct(f.memberPtr(p, i))
		}
	}
}

func (f *RecordField) destroy(p slot.Ptr) {
	for i := len(f.subFields) - 1; i >= 0; i-- {
		m := f.subFields[i]
		if m.Traits()&TraitTriviallyDestructible == 0 {
			m.destroy(f.memberPtr(p, i))
		}
	}
}

func (f *RecordField) appendImpl(from slot.Ptr) (int, error) {
	var nbytes int
	for i, m := range f.subFields {
		n, err := m.base().append(f.memberPtr(from, i))
		if err != nil {
			return nbytes, err
		}
		nbytes += n
	}
	return nbytes, nil
}

func (f *RecordField) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	for i, m := range f.subFields {
		if err := m.base().read(index, f.memberPtr(to, i)); err != nil {
			return err
		}
	}
	return nil
}

func (f *RecordField) readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error {
	for i, m := range f.subFields {
		if err := m.base().readInCluster(index, f.memberPtr(to, i)); err != nil {
			return err
		}
	}
	return nil
}

func (f *RecordField) splitImpl(v *Value) []*Value {
	parts := make([]*Value, len(f.subFields))
	for i, m := range f.subFields {
		parts[i] = m.BindValue(f.memberPtr(v.Ptr(), i))
	}
	return parts
}

func (f *RecordField) assign(p slot.Ptr, x any) error {
	members, ok := x.(map[string]any)
	if !ok {
		return assignTypeError(f, x)
	}
	for name, mv := range members {
		i := f.memberIndex(name)
		if i < 0 {
			return fmt.Errorf("%w: record %q has no member %q", ErrUnsupported, f.QualifiedName(), name)
		}
		if err := f.subFields[i].assign(f.memberPtr(p, i), mv); err != nil {
			return err
		}
	}
	return nil
}

func (f *RecordField) extract(p slot.Ptr) (any, error) {
	members := make(map[string]any, len(f.subFields))
	for i, m := range f.subFields {
		mv, err := m.extract(f.memberPtr(p, i))
		if err != nil {
			return nil, err
		}
		members[m.Name()] = mv
	}
	return members, nil
}

func (f *RecordField) memberIndex(name string) int {
	for i, m := range f.subFields {
		if m.Name() == name {
			return i
		}
	}
	return -1
}

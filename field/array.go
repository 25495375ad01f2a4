package field

import (
	"fmt"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
)

// ArrayField maps a fixed-size array onto its item field's columns, writing
// exactly NRepetitions items per entry. No offset column is needed; item
// indexes follow from the entry index by multiplication.
type ArrayField struct {
	Base
}

// NewArrayField creates a fixed-size array field of n items.
func NewArrayField(name string, item Field, n uint64) (*ArrayField, error) {
	if n == 0 {
		return nil, fmt.Errorf("%w: array %q of length zero", ErrUnsupported, name)
	}
	typeName := fmt.Sprintf("[%d]%s", n, item.TypeName())
	f := &ArrayField{}
	traits := item.Traits() &^ TraitMappable
	if err := f.init(f, name, typeName, descriptor.StructureLeaf, int(n)*item.ValueSize(), item.Alignment(), traits); err != nil {
		return nil, err
	}
	f.nRepetitions = n
	f.attach(item)
	return f, nil
}

func (f *ArrayField) item() Field { return f.subFields[0] }

func (f *ArrayField) itemPtr(p slot.Ptr, i int) slot.Ptr {
	stride := f.item().ValueSize()
	return p.Slice(i*stride, stride)
}

func (f *ArrayField) cloneImpl(newName string) (Field, error) {
	item, err := cloneSubField(f.item())
	if err != nil {
		return nil, err
	}
	return NewArrayField(newName, item, f.nRepetitions)
}

func (f *ArrayField) construct(p slot.Ptr) {
	if f.item().Traits()&TraitTriviallyConstructible != 0 {
		return
	}
	for i := 0; i < int(f.nRepetitions); i++ {
		f.item().construct(f.itemPtr(p, i))
	}
}

func (f *ArrayField) destroy(p slot.Ptr) {
	if f.item().Traits()&TraitTriviallyDestructible != 0 {
		return
	}
	for i := int(f.nRepetitions) - 1; i >= 0; i-- {
		f.item().destroy(f.itemPtr(p, i))
	}
}

func (f *ArrayField) appendImpl(from slot.Ptr) (int, error) {
	var nbytes int
	for i := 0; i < int(f.nRepetitions); i++ {
		n, err := f.item().base().append(f.itemPtr(from, i))
		if err != nil {
			return nbytes, err
		}
		nbytes += n
	}
	return nbytes, nil
}

func (f *ArrayField) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	base := uint64(index) * f.nRepetitions
	for i := 0; i < int(f.nRepetitions); i++ {
		if err := f.item().base().read(column.GlobalIndex(base+uint64(i)), f.itemPtr(to, i)); err != nil {
			return err
		}
	}
	return nil
}

func (f *ArrayField) readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error {
	base := index.Index * f.nRepetitions
	for i := 0; i < int(f.nRepetitions); i++ {
		itemIndex := column.ClusterIndex{Cluster: index.Cluster, Index: base + uint64(i)}
		if err := f.item().base().readInCluster(itemIndex, f.itemPtr(to, i)); err != nil {
			return err
		}
	}
	return nil
}

func (f *ArrayField) splitImpl(v *Value) []*Value {
	parts := make([]*Value, f.nRepetitions)
	for i := range parts {
		parts[i] = f.item().BindValue(f.itemPtr(v.Ptr(), i))
	}
	return parts
}

func (f *ArrayField) assign(p slot.Ptr, x any) error {
	items, ok := x.([]any)
	if !ok {
		return assignTypeError(f, x)
	}
	if uint64(len(items)) != f.nRepetitions {
		return fmt.Errorf("%w: %d items for array %q of length %d", ErrUnsupported, len(items), f.QualifiedName(), f.nRepetitions)
	}
	for i, iv := range items {
		if err := f.item().assign(f.itemPtr(p, i), iv); err != nil {
			return err
		}
	}
	return nil
}

func (f *ArrayField) extract(p slot.Ptr) (any, error) {
	items := make([]any, f.nRepetitions)
	for i := range items {
		iv, err := f.item().extract(f.itemPtr(p, i))
		if err != nil {
			return nil, err
		}
		items[i] = iv
	}
	return items, nil
}

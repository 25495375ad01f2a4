package field

import (
	"fmt"
	"strings"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
	"github.com/colobj/colobj/pagestore"
)

var variantReps = column.NewRepresentations([]column.Representation{
	{column.TypeSwitch},
})

// Alternative is the client view of a variant value: the 1-based tag
// selecting the arm and the arm's value.
type Alternative struct {
	Tag   uint8
	Value any
}

// VariantField maps a tagged union onto a single switch column plus the
// columns of its arms. Each entry stores a (item index, tag) pair; the item
// index counts previous entries of the same arm within the cluster, so each
// arm only stores the entries it was selected for.
//
// The slot overlays all arm slots at offset zero and keeps the active tag in
// a byte behind the payload. Tag zero never occurs in a live value; the
// default constructed value holds the default of the first arm.
type VariantField struct {
	Base
	tagOffset int
	nWritten  []uint64
}

// NewVariantField creates a variant field over the given arms. A variant has
// at least one and at most 255 arms.
func NewVariantField(name string, arms []Field) (*VariantField, error) {
	if len(arms) == 0 || len(arms) > 255 {
		return nil, fmt.Errorf("%w: variant %q with %d arms", ErrUnsupported, name, len(arms))
	}
	var maxSize, maxAlign int
	armNames := make([]string, len(arms))
	traits := TraitTriviallyDestructible
	for i, a := range arms {
		if a.ValueSize() > maxSize {
			maxSize = a.ValueSize()
		}
		if a.Alignment() > maxAlign {
			maxAlign = a.Alignment()
		}
		armNames[i] = a.TypeName()
		traits &= a.Traits()
	}
	tagOffset := maxSize
	size := alignUp(tagOffset+1, maxAlign)
	f := &VariantField{tagOffset: tagOffset, nWritten: make([]uint64, len(arms))}
	typeName := "variant<" + strings.Join(armNames, ",") + ">"
	if err := f.init(f, name, typeName, descriptor.StructureVariant, size, maxAlign, traits); err != nil {
		return nil, err
	}
	for _, a := range arms {
		f.attach(a)
	}
	return f, nil
}

// Tag returns the 1-based tag of the bound value.
func (f *VariantField) Tag(p slot.Ptr) uint8 { return p.B[f.tagOffset] }

// SetTag switches the bound value to the given arm, destroying the old
// arm's instance and default constructing the new one.
func (f *VariantField) SetTag(p slot.Ptr, tag uint8) error {
	if int(tag) < 1 || int(tag) > len(f.subFields) {
		return fmt.Errorf("%w: tag %d of variant %q with %d arms", ErrUnsupported, tag, f.QualifiedName(), len(f.subFields))
	}
	f.switchArm(p, tag)
	return nil
}

func (f *VariantField) arm(tag uint8) Field { return f.subFields[tag-1] }

func (f *VariantField) armPtr(p slot.Ptr, tag uint8) slot.Ptr {
	return p.Slice(0, f.arm(tag).ValueSize())
}

// switchArm activates the given arm, tearing down the previous one. The new
// arm starts default constructed.
func (f *VariantField) switchArm(p slot.Ptr, tag uint8) {
	if old := f.Tag(p); old != 0 {
		if old == tag {
			return
		}
		arm := f.arm(old)
		if arm.Traits()&TraitTriviallyDestructible == 0 {
			arm.destroy(f.armPtr(p, old))
		}
	}
	clear(p.B[:f.tagOffset])
	arm := f.arm(tag)
	if arm.Traits()&TraitTriviallyConstructible == 0 {
		arm.construct(f.armPtr(p, tag))
	}
	p.B[f.tagOffset] = tag
}

func (f *VariantField) representations() column.Representations { return variantReps }

func (f *VariantField) genColumns() error {
	f.makeColumns(f.ColumnRepresentative(), column.TypeSwitch.PackedSize())
	return nil
}

func (f *VariantField) genColumnsOnDisk(src pagestore.Source) error {
	return f.bindColumnsOnDisk(src, column.TypeSwitch.PackedSize())
}

func (f *VariantField) cloneImpl(newName string) (Field, error) {
	arms := make([]Field, len(f.subFields))
	for i, a := range f.subFields {
		clone, err := cloneSubField(a)
		if err != nil {
			return nil, err
		}
		arms[i] = clone
	}
	return NewVariantField(newName, arms)
}

func (f *VariantField) construct(p slot.Ptr) {
	arm := f.subFields[0]
	if arm.Traits()&TraitTriviallyConstructible == 0 {
		arm.construct(f.armPtr(p, 1))
	}
	p.B[f.tagOffset] = 1
}

func (f *VariantField) destroy(p slot.Ptr) {
	if tag := f.Tag(p); tag != 0 {
		arm := f.arm(tag)
		if arm.Traits()&TraitTriviallyDestructible == 0 {
			arm.destroy(f.armPtr(p, tag))
		}
	}
	clear(p.B)
}

func (f *VariantField) appendImpl(from slot.Ptr) (int, error) {
	tag := f.Tag(from)
	if tag == 0 {
		return 0, fmt.Errorf("%w: appending variant %q without an active arm", ErrInvariant, f.QualifiedName())
	}
	arm := tag - 1
	nbytes, err := f.arm(tag).base().append(f.armPtr(from, tag))
	if err != nil {
		return nbytes, err
	}
	var word [12]byte
	column.PackSwitch(word[:], f.nWritten[arm], uint32(tag))
	f.nWritten[arm]++
	n, err := f.columns[0].Append(word[:])
	if err != nil {
		return nbytes, err
	}
	return nbytes + n, nil
}

func (f *VariantField) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	var word [12]byte
	if err := f.principal.Read(index, word[:]); err != nil {
		return err
	}
	cluster, err := f.principal.ClusterOf(index)
	if err != nil {
		return err
	}
	return f.readArm(word, cluster.Cluster, to)
}

func (f *VariantField) readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error {
	var word [12]byte
	if err := f.principal.ReadInCluster(index, word[:]); err != nil {
		return err
	}
	return f.readArm(word, index.Cluster, to)
}

func (f *VariantField) readArm(word [12]byte, cluster column.ClusterID, to slot.Ptr) error {
	itemIndex, tag := column.UnpackSwitch(word[:])
	if tag < 1 || int(tag) > len(f.subFields) {
		return fmt.Errorf("%w: stored tag %d of variant %q with %d arms", ErrInvariant, tag, f.QualifiedName(), len(f.subFields))
	}
	f.switchArm(to, uint8(tag))
	idx := column.ClusterIndex{Cluster: cluster, Index: itemIndex}
	return f.arm(uint8(tag)).base().readInCluster(idx, f.armPtr(to, uint8(tag)))
}

func (f *VariantField) commitClusterImpl() error {
	clear(f.nWritten)
	return nil
}

func (f *VariantField) splitImpl(v *Value) []*Value {
	tag := f.Tag(v.Ptr())
	if tag == 0 {
		return nil
	}
	return []*Value{f.arm(tag).BindValue(f.armPtr(v.Ptr(), tag))}
}

func (f *VariantField) assign(p slot.Ptr, x any) error {
	alt, ok := x.(Alternative)
	if !ok {
		return assignTypeError(f, x)
	}
	if err := f.SetTag(p, alt.Tag); err != nil {
		return err
	}
	return f.arm(alt.Tag).assign(f.armPtr(p, alt.Tag), alt.Value)
}

func (f *VariantField) extract(p slot.Ptr) (any, error) {
	tag := f.Tag(p)
	if tag == 0 {
		return nil, fmt.Errorf("%w: extracting variant %q without an active arm", ErrInvariant, f.QualifiedName())
	}
	v, err := f.arm(tag).extract(f.armPtr(p, tag))
	if err != nil {
		return nil, err
	}
	return Alternative{Tag: tag, Value: v}, nil
}

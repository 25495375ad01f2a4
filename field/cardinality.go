package field

import (
	"fmt"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
	"github.com/colobj/colobj/pagestore"
)

// cardinalityReps accepts the offset column of any collection field and
// offers nothing for writing.
var cardinalityReps = column.NewRepresentations(nil,
	column.Representation{column.TypeIndex64},
	column.Representation{column.TypeIndex32},
)

// CardinalityField reads the item count of a collection entry without
// touching the item columns. It binds to the offset column of an existing
// collection field of the same name and is read-only; connecting it to a
// sink fails.
//
// The slot holds the count as a little-endian word of the chosen width.
type CardinalityField struct {
	Base
}

// NewCardinalityField creates a cardinality view field. width selects the
// in-memory counter width and must be 32 or 64.
func NewCardinalityField(name string, width int) (*CardinalityField, error) {
	if width != 32 && width != 64 {
		return nil, fmt.Errorf("%w: cardinality width %d", ErrUnsupported, width)
	}
	f := &CardinalityField{}
	typeName := fmt.Sprintf("cardinality%d", width)
	if err := f.init(f, name, typeName, descriptor.StructureLeaf, width/8, width/8, TraitTrivial); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *CardinalityField) representations() column.Representations { return cardinalityReps }

func (f *CardinalityField) genColumns() error {
	return fmt.Errorf("%w: cardinality field %q is read-only", ErrUnsupported, f.QualifiedName())
}

func (f *CardinalityField) genColumnsOnDisk(src pagestore.Source) error {
	return f.bindColumnsOnDisk(src, 8)
}

func (f *CardinalityField) cloneImpl(newName string) (Field, error) {
	return NewCardinalityField(newName, f.size*8)
}

func (f *CardinalityField) putCount(to slot.Ptr, n uint64) {
	if f.size == 4 {
		slot.PutLen(to.B, uint32(n))
	} else {
		slot.PutUint64(to.B, n)
	}
}

func (f *CardinalityField) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	_, n, err := f.principal.CollectionInfo(index)
	if err != nil {
		return err
	}
	f.putCount(to, n)
	return nil
}

// readBulkImpl reads the offsets of the whole range in one vectorized access
// and derives the counts from successive differences.
func (f *CardinalityField) readBulkImpl(spec *BulkSpec) (int, error) {
	offsets := growAux(spec.Aux, 8*spec.Count)
	if err := f.principal.ReadV(spec.FirstIndex, uint64(spec.Count), offsets); err != nil {
		return 0, err
	}
	prev, err := clusterStartOffset(f.principal, spec.FirstIndex)
	if err != nil {
		return 0, err
	}
	for i := range spec.Count {
		end := slot.GetUint64(offsets[8*i:])
		f.putCount(spec.ValueAt(i), end-prev)
		spec.MaskAvail[i] = true
		prev = end
	}
	return AllSet, nil
}

func (f *CardinalityField) extract(p slot.Ptr) (any, error) {
	if f.size == 4 {
		return slot.GetLen(p.B), nil
	}
	return slot.GetUint64(p.B), nil
}

package field

import (
	"fmt"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
	"github.com/colobj/colobj/pagestore"
)

var bitsetReps = column.NewRepresentations([]column.Representation{
	{column.TypeBit},
})

// BitsetField maps a fixed-width bit sequence onto a bit column, N elements
// per entry. The slot packs the bits into little-endian 64 bit words, bit i
// of the sequence at bit i%64 of word i/64.
type BitsetField struct {
	Base
}

// NewBitsetField creates a bitset leaf field of n bits.
func NewBitsetField(name string, n uint64) (*BitsetField, error) {
	if n == 0 {
		return nil, fmt.Errorf("%w: bitset %q of width zero", ErrUnsupported, name)
	}
	words := int((n + 63) / 64)
	f := &BitsetField{}
	typeName := fmt.Sprintf("bitset<%d>", n)
	if err := f.init(f, name, typeName, descriptor.StructureLeaf, words*8, 8, TraitTrivial); err != nil {
		return nil, err
	}
	f.nRepetitions = n
	return f, nil
}

func (f *BitsetField) representations() column.Representations { return bitsetReps }

func (f *BitsetField) genColumns() error {
	f.makeColumns(f.ColumnRepresentative(), 1)
	return nil
}

func (f *BitsetField) genColumnsOnDisk(src pagestore.Source) error {
	return f.bindColumnsOnDisk(src, 1)
}

func (f *BitsetField) cloneImpl(newName string) (Field, error) {
	return NewBitsetField(newName, f.nRepetitions)
}

// Bit returns bit i of the bound slot.
func (f *BitsetField) Bit(p slot.Ptr, i uint64) bool {
	word := slot.GetUint64(p.B[(i/64)*8:])
	return word>>(i%64)&1 != 0
}

// SetBit sets bit i of the bound slot to v.
func (f *BitsetField) SetBit(p slot.Ptr, i uint64, v bool) {
	off := (i / 64) * 8
	word := slot.GetUint64(p.B[off:])
	if v {
		word |= 1 << (i % 64)
	} else {
		word &^= 1 << (i % 64)
	}
	slot.PutUint64(p.B[off:], word)
}

func (f *BitsetField) appendImpl(from slot.Ptr) (int, error) {
	var nbytes int
	var bit [1]byte
	for i := uint64(0); i < f.nRepetitions; i++ {
		bit[0] = 0
		if f.Bit(from, i) {
			bit[0] = 1
		}
		n, err := f.columns[0].Append(bit[:])
		if err != nil {
			return nbytes, err
		}
		nbytes += n
	}
	return nbytes, nil
}

func (f *BitsetField) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	clear(to.B)
	base := uint64(index) * f.nRepetitions
	var bit [1]byte
	for i := uint64(0); i < f.nRepetitions; i++ {
		if err := f.columns[0].Read(column.GlobalIndex(base+i), bit[:]); err != nil {
			return err
		}
		if bit[0] != 0 {
			f.SetBit(to, i, true)
		}
	}
	return nil
}

func (f *BitsetField) readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error {
	clear(to.B)
	base := index.Index * f.nRepetitions
	var bit [1]byte
	for i := uint64(0); i < f.nRepetitions; i++ {
		idx := column.ClusterIndex{Cluster: index.Cluster, Index: base + i}
		if err := f.columns[0].ReadInCluster(idx, bit[:]); err != nil {
			return err
		}
		if bit[0] != 0 {
			f.SetBit(to, i, true)
		}
	}
	return nil
}

func (f *BitsetField) assign(p slot.Ptr, x any) error {
	bits, ok := x.([]bool)
	if !ok {
		return assignTypeError(f, x)
	}
	if uint64(len(bits)) != f.nRepetitions {
		return fmt.Errorf("%w: %d bits for bitset %q of width %d", ErrUnsupported, len(bits), f.QualifiedName(), f.nRepetitions)
	}
	clear(p.B)
	for i, v := range bits {
		if v {
			f.SetBit(p, uint64(i), true)
		}
	}
	return nil
}

func (f *BitsetField) extract(p slot.Ptr) (any, error) {
	bits := make([]bool, f.nRepetitions)
	for i := range bits {
		bits[i] = f.Bit(p, uint64(i))
	}
	return bits, nil
}

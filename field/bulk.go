package field

import (
	"fmt"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/internal/slot"
)

// AllSet is returned from a bulk read instead of a count when every value in
// the range is valid, letting callers skip per-value mask checks.
const AllSet = -1

// BulkSpec is the request passed to a field's bulk read implementation.
type BulkSpec struct {
	// FirstIndex is the in-cluster index of the first value to read.
	FirstIndex column.ClusterIndex
	// Count is the number of consecutive values in the range.
	Count int
	// MaskReq marks the values the caller needs; nil means all of them.
	MaskReq []bool
	// MaskAvail marks the values already valid from a previous read over an
	// overlapping range. Implementations set entries they fill.
	MaskAvail []bool
	// Values is the destination buffer of Count consecutive slots sharing
	// one heap for out-of-line storage.
	Values slot.Ptr
	// ValueSize is the slot size of one value.
	ValueSize int
	// Aux is implementation-owned scratch that survives across reads on the
	// same bulk, e.g. cached collection offsets.
	Aux *[]byte
}

// ValueAt returns the slot of the i-th value in the range.
func (s *BulkSpec) ValueAt(i int) slot.Ptr {
	return slot.Ptr{B: s.Values.B[i*s.ValueSize : (i+1)*s.ValueSize], H: s.Values.H}
}

// Required reports whether the caller asked for the i-th value.
func (s *BulkSpec) Required(i int) bool {
	return s.MaskReq == nil || s.MaskReq[i]
}

// Bulk reads ranges of consecutive values of one field in a single call. It
// owns a growing buffer of value slots that it reuses across reads: when a
// requested range is contained in the previous one, already read values are
// served from the buffer and only the missing ones are fetched.
//
// A Bulk is obtained from Field.NewBulk and is not safe for concurrent use.
type Bulk struct {
	field     Field
	valueSize int

	// arena holds the slot buffer in B and the shared out-of-line heap in H.
	arena       slot.Ptr
	capacity    int
	constructed int

	first     column.ClusterIndex
	size      int
	maskAvail []bool
	nValid    int

	aux []byte
}

// ValueSize returns the slot size of one value.
func (b *Bulk) ValueSize() int { return b.valueSize }

// NValid returns the number of valid values after the last read, or AllSet
// when the whole range is valid.
func (b *Bulk) NValid() int { return b.nValid }

// ContainsRange reports whether the given range is covered by the buffer
// from the last read.
func (b *Bulk) ContainsRange(first column.ClusterIndex, count int) bool {
	if b.size == 0 || first.Cluster != b.first.Cluster {
		return false
	}
	return first.Index >= b.first.Index && first.Index+uint64(count) <= b.first.Index+uint64(b.size)
}

// ValueAt returns the slot of the element at the given in-cluster index,
// which must lie inside the range of the last read.
func (b *Bulk) ValueAt(index column.ClusterIndex) slot.Ptr {
	i := int(index.Index - b.first.Index)
	return slot.Ptr{B: b.arena.B[i*b.valueSize : (i+1)*b.valueSize], H: b.arena.H}
}

// IsValueAvailable reports whether the element at the given in-cluster index
// was read successfully.
func (b *Bulk) IsValueAvailable(index column.ClusterIndex) bool {
	if b.nValid == AllSet {
		return true
	}
	return b.maskAvail[index.Index-b.first.Index]
}

// ReadBulk reads count consecutive values starting at first and returns the
// slot of the first one. maskReq marks the values the caller needs; nil
// requests all of them. Unrequested values may or may not be read; check
// IsValueAvailable before using them.
func (b *Bulk) ReadBulk(first column.ClusterIndex, count int, maskReq []bool) (slot.Ptr, error) {
	if count <= 0 {
		return slot.Ptr{}, fmt.Errorf("%w: bulk read of %d values", ErrInvariant, count)
	}
	if maskReq != nil && len(maskReq) != count {
		return slot.Ptr{}, fmt.Errorf("%w: request mask has %d entries for %d values", ErrInvariant, len(maskReq), count)
	}
	var off int
	if b.ContainsRange(first, count) {
		off = int(first.Index - b.first.Index)
	} else {
		b.reset(first, count)
	}
	spec := BulkSpec{
		FirstIndex: first,
		Count:      count,
		MaskReq:    maskReq,
		MaskAvail:  b.maskAvail[off : off+count],
		Values:     slot.Ptr{B: b.arena.B[off*b.valueSize : (off+count)*b.valueSize], H: b.arena.H},
		ValueSize:  b.valueSize,
		Aux:        &b.aux,
	}
	nValid, err := b.field.base().readBulk(&spec)
	if err != nil {
		return slot.Ptr{}, err
	}
	if nValid == AllSet && off == 0 && count == b.size {
		b.nValid = AllSet
	} else {
		if nValid == AllSet {
			for i := range spec.MaskAvail {
				spec.MaskAvail[i] = true
			}
		}
		b.nValid = 0
		for _, ok := range b.maskAvail[:b.size] {
			if ok {
				b.nValid++
			}
		}
	}
	return spec.Values, nil
}

// reset repositions the buffer on a new range, growing it as needed. Value
// slots constructed for earlier reads are kept and overwritten in place.
func (b *Bulk) reset(first column.ClusterIndex, count int) {
	if count > b.capacity {
		grown := make([]byte, count*b.valueSize)
		copy(grown, b.arena.B)
		b.arena.B = grown
		b.maskAvail = append(b.maskAvail, make([]bool, count-b.capacity)...)
		b.capacity = count
	}
	for b.constructed < count {
		i := b.constructed
		b.field.construct(slot.Ptr{B: b.arena.B[i*b.valueSize : (i+1)*b.valueSize], H: b.arena.H})
		b.constructed++
	}
	b.first = first
	b.size = count
	b.nValid = 0
	for i := range b.maskAvail {
		b.maskAvail[i] = false
	}
}

// Destroy tears down all constructed value slots and releases the buffer.
func (b *Bulk) Destroy() {
	for i := 0; i < b.constructed; i++ {
		b.field.destroy(slot.Ptr{B: b.arena.B[i*b.valueSize : (i+1)*b.valueSize], H: b.arena.H})
	}
	b.arena = slot.Ptr{}
	b.capacity = 0
	b.constructed = 0
	b.size = 0
	b.maskAvail = nil
	b.nValid = 0
	b.aux = nil
}

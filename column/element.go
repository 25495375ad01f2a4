package column

import (
	"encoding/binary"
	"fmt"
	"math"
)

// switchPackedSize is the on-disk size of a TypeSwitch element: a 64 bit
// in-cluster item index followed by a 32 bit 1-based tag.
const switchPackedSize = 12

// Element is the stateless codec between the in-memory slot representation
// of one value and the packed on-disk representation of one column element.
//
// In-memory scalars are little-endian fixed-width words. The element handles
// width changes between memory and disk: signed values are sign-extended,
// unsigned and offset values zero-extended, and Real64 slots convert to and
// from Real32 columns by float conversion.
type Element struct {
	typ     Type
	memSize int
}

// NewElement returns the codec for a column of the given type backed by
// in-memory words of memSize bytes.
func NewElement(typ Type, memSize int) Element {
	return Element{typ: typ, memSize: memSize}
}

// Type returns the on-disk column type.
func (e Element) Type() Type { return e.typ }

// MemSize returns the in-memory word size in bytes.
func (e Element) MemSize() int { return e.memSize }

// PackedSize returns the on-disk element size in bytes.
func (e Element) PackedSize() int { return e.typ.PackedSize() }

// Pack writes the packed representation of the in-memory word src into dst.
// dst must hold PackedSize() bytes, src MemSize() bytes.
func (e Element) Pack(dst, src []byte) {
	ps := e.PackedSize()
	switch {
	case e.typ == TypeReal32 && e.memSize == 8:
		f := math.Float64frombits(binary.LittleEndian.Uint64(src))
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(f)))
	case ps == e.memSize:
		copy(dst[:ps], src[:ps])
	case ps < e.memSize:
		// Narrowing: little-endian truncation keeps the low-order bytes.
		copy(dst[:ps], src[:ps])
	default:
		copy(dst, src[:e.memSize])
		fill := byte(0)
		if e.typ.signed() && src[e.memSize-1]&0x80 != 0 {
			fill = 0xff
		}
		for i := e.memSize; i < ps; i++ {
			dst[i] = fill
		}
	}
}

// Unpack writes the in-memory representation of the packed element src into
// dst. dst must hold MemSize() bytes, src PackedSize() bytes.
func (e Element) Unpack(dst, src []byte) {
	ps := e.PackedSize()
	switch {
	case e.typ == TypeReal32 && e.memSize == 8:
		f := math.Float32frombits(binary.LittleEndian.Uint32(src))
		binary.LittleEndian.PutUint64(dst, math.Float64bits(float64(f)))
	case ps == e.memSize:
		copy(dst[:ps], src[:ps])
	case ps > e.memSize:
		copy(dst[:e.memSize], src[:e.memSize])
	default:
		copy(dst, src[:ps])
		fill := byte(0)
		if e.typ.signed() && src[ps-1]&0x80 != 0 {
			fill = 0xff
		}
		for i := ps; i < e.memSize; i++ {
			dst[i] = fill
		}
	}
}

// PackSwitch packs a variant dispatch element.
func PackSwitch(dst []byte, itemIndex uint64, tag uint32) {
	binary.LittleEndian.PutUint64(dst, itemIndex)
	binary.LittleEndian.PutUint32(dst[8:], tag)
}

// UnpackSwitch unpacks a variant dispatch element.
func UnpackSwitch(src []byte) (itemIndex uint64, tag uint32) {
	return binary.LittleEndian.Uint64(src), binary.LittleEndian.Uint32(src[8:])
}

// UnpackOffset decodes one element of an offset column (Index32 or Index64)
// from its packed representation.
func UnpackOffset(typ Type, src []byte) (uint64, error) {
	switch typ {
	case TypeIndex32:
		return uint64(binary.LittleEndian.Uint32(src)), nil
	case TypeIndex64:
		return binary.LittleEndian.Uint64(src), nil
	default:
		return 0, fmt.Errorf("column: %s is not an offset type", typ)
	}
}

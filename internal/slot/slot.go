package slot

import (
	"encoding/binary"
	"fmt"
)

// Ref references one cell of a Heap. The zero Ref is the null reference.
type Ref uint32

// NilRef is the null cell reference.
const NilRef Ref = 0

// Heap owns the out-of-line storage cells of one value (or of one bulk
// arena). Cell zero is a permanently reserved dummy so that a zeroed slot
// never aliases live storage.
type Heap struct {
	cells [][]byte
	free  []Ref
	live  int
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{cells: make([][]byte, 1)}
}

// Alloc allocates a zeroed cell of n bytes and returns its reference.
func (h *Heap) Alloc(n int) Ref {
	if len(h.free) > 0 {
		r := h.free[len(h.free)-1]
		h.free = h.free[:len(h.free)-1]
		h.cells[r] = makeCell(n)
		h.live++
		return r
	}
	h.cells = append(h.cells, makeCell(n))
	h.live++
	return Ref(len(h.cells) - 1)
}

// Bytes returns the storage of cell r. It panics on the null reference or a
// freed cell; both indicate a bookkeeping bug in the calling field.
func (h *Heap) Bytes(r Ref) []byte {
	if r == NilRef || int(r) >= len(h.cells) || h.cells[r] == nil {
		panic(fmt.Sprintf("slot: access to invalid cell %d", r))
	}
	return h.cells[r]
}

// Resize grows or shrinks cell r to n bytes, preserving the common prefix
// and zero-filling any growth.
func (h *Heap) Resize(r Ref, n int) {
	old := h.Bytes(r)
	if n == len(old) {
		return
	}
	if n < len(old) {
		h.cells[r] = old[:n:n]
		return
	}
	if n <= cap(old) {
		grown := old[:n]
		clear(grown[len(old):])
		h.cells[r] = grown
		return
	}
	grown := makeCell(n)
	copy(grown, old)
	h.cells[r] = grown
}

// Free releases cell r. Freeing the null reference is a no-op; the caller is
// responsible for releasing any cells referenced from within the cell first.
func (h *Heap) Free(r Ref) {
	if r == NilRef {
		return
	}
	if int(r) >= len(h.cells) || h.cells[r] == nil {
		panic(fmt.Sprintf("slot: double free of cell %d", r))
	}
	h.cells[r] = nil
	h.free = append(h.free, r)
	h.live--
}

// Live returns the number of allocated cells, used by tests to check for
// leaks.
func (h *Heap) Live() int { return h.live }

// Reset releases all cells at once.
func (h *Heap) Reset() {
	h.cells = h.cells[:1]
	h.free = h.free[:0]
	h.live = 0
}

func makeCell(n int) []byte {
	if n == 0 {
		// A zero-length cell must still be distinguishable from nil,
		// which marks a freed cell.
		return make([]byte, 0, 1)
	}
	return make([]byte, n)
}

// Ptr is the raw memory location of one live value: a slot buffer plus the
// heap holding its out-of-line cells. Fields derive member and item pointers
// by reslicing B; all pointers into one value share the same heap.
type Ptr struct {
	B []byte
	H *Heap
}

// NewPtr allocates a zeroed standalone value slot of n bytes with its own
// heap.
func NewPtr(n int) Ptr {
	return Ptr{B: make([]byte, n), H: NewHeap()}
}

// Slice derives the pointer to the n bytes at offset off.
func (p Ptr) Slice(off, n int) Ptr {
	return Ptr{B: p.B[off : off+n : off+n], H: p.H}
}

// Cell returns the pointer to the storage of the cell referenced at offset
// off within the slot.
func (p Ptr) Cell(off int) Ptr {
	return Ptr{B: p.H.Bytes(GetRef(p.B[off:])), H: p.H}
}

// PutRef stores a cell reference at the start of b.
func PutRef(b []byte, r Ref) {
	binary.LittleEndian.PutUint32(b, uint32(r))
}

// GetRef loads a cell reference from the start of b.
func GetRef(b []byte) Ref {
	return Ref(binary.LittleEndian.Uint32(b))
}

// PutUint64 stores a 64 bit word at the start of b.
func PutUint64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

// GetUint64 loads a 64 bit word from the start of b.
func GetUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// PutLen stores a 32 bit length at the start of b.
func PutLen(b []byte, n uint32) {
	binary.LittleEndian.PutUint32(b, n)
}

// GetLen loads a 32 bit length from the start of b.
func GetLen(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

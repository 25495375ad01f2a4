package slot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj/internal/slot"
)

func TestHeapAllocFree(t *testing.T) {
	h := slot.NewHeap()
	assert.Equal(t, 0, h.Live())

	a := h.Alloc(4)
	b := h.Alloc(8)
	require.NotEqual(t, slot.NilRef, a)
	require.NotEqual(t, a, b)
	assert.Equal(t, 2, h.Live())
	assert.Len(t, h.Bytes(a), 4)
	assert.Len(t, h.Bytes(b), 8)

	h.Free(a)
	assert.Equal(t, 1, h.Live())

	// A freed cell is recycled.
	c := h.Alloc(2)
	assert.Equal(t, a, c)
	assert.Len(t, h.Bytes(c), 2)
}

func TestHeapZeroLengthCell(t *testing.T) {
	h := slot.NewHeap()
	r := h.Alloc(0)
	assert.Len(t, h.Bytes(r), 0)
	h.Free(r)
}

func TestHeapResize(t *testing.T) {
	h := slot.NewHeap()
	r := h.Alloc(4)
	copy(h.Bytes(r), []byte{1, 2, 3, 4})

	h.Resize(r, 8)
	assert.Equal(t, []byte{1, 2, 3, 4, 0, 0, 0, 0}, h.Bytes(r))

	h.Resize(r, 2)
	assert.Equal(t, []byte{1, 2}, h.Bytes(r))

	// Growing back within capacity must re-zero the tail.
	h.Resize(r, 4)
	assert.Equal(t, []byte{1, 2, 0, 0}, h.Bytes(r))
}

func TestHeapReset(t *testing.T) {
	h := slot.NewHeap()
	h.Alloc(4)
	h.Alloc(4)
	h.Reset()
	assert.Equal(t, 0, h.Live())
	r := h.Alloc(1)
	assert.NotEqual(t, slot.NilRef, r)
}

func TestHeapPanics(t *testing.T) {
	h := slot.NewHeap()
	assert.Panics(t, func() { h.Bytes(slot.NilRef) })

	r := h.Alloc(4)
	h.Free(r)
	assert.Panics(t, func() { h.Bytes(r) })
	assert.Panics(t, func() { h.Free(r) })

	// Freeing the null reference stays a no-op.
	assert.NotPanics(t, func() { h.Free(slot.NilRef) })
}

func TestPtrSliceAndCell(t *testing.T) {
	p := slot.NewPtr(16)
	require.Len(t, p.B, 16)

	sub := p.Slice(8, 4)
	assert.Len(t, sub.B, 4)
	assert.Same(t, p.H, sub.H)
	sub.B[0] = 0xab
	assert.Equal(t, byte(0xab), p.B[8])

	r := p.H.Alloc(3)
	slot.PutRef(p.B[8:], r)
	cell := p.Cell(8)
	assert.Len(t, cell.B, 3)
}

func TestWordHelpers(t *testing.T) {
	b := make([]byte, 8)
	slot.PutUint64(b, 0x0102030405060708)
	assert.Equal(t, uint64(0x0102030405060708), slot.GetUint64(b))

	slot.PutLen(b, 42)
	assert.Equal(t, uint32(42), slot.GetLen(b))

	slot.PutRef(b, slot.Ref(7))
	assert.Equal(t, slot.Ref(7), slot.GetRef(b))
}

package field_test

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj/field"
	"github.com/colobj/colobj/internal/slot"
)

// gapAdapter stores items in one cell with a stride of twice the item size,
// leaving a hole after every item. There is no dense payload, so the field
// has to traverse the collection through the iterator. Items must be
// trivially constructible and destructible.
type gapAdapter struct{}

func (gapAdapter) SlotSize() int  { return 8 }
func (gapAdapter) Alignment() int { return 4 }

func (gapAdapter) Count(p slot.Ptr) int {
	return int(slot.GetLen(p.B[4:]))
}

func (a gapAdapter) Resize(item field.Field, p slot.Ptr, n int) {
	stride := 2 * item.ValueSize()
	ref := slot.GetRef(p.B)
	switch {
	case n == 0:
		p.H.Free(ref)
		slot.PutRef(p.B, slot.NilRef)
	case ref == slot.NilRef:
		slot.PutRef(p.B, p.H.Alloc(n*stride))
	default:
		p.H.Resize(ref, n*stride)
	}
	slot.PutLen(p.B[4:], uint32(n))
}

func (a gapAdapter) Release(item field.Field, p slot.Ptr) {
	a.Resize(item, p, 0)
	clear(p.B)
}

func (a gapAdapter) Items(item field.Field, p slot.Ptr) iter.Seq[slot.Ptr] {
	stride := 2 * item.ValueSize()
	return func(yield func(slot.Ptr) bool) {
		for i := 0; i < a.Count(p); i++ {
			if !yield(p.Cell(0).Slice(i*stride, item.ValueSize())) {
				return
			}
		}
	}
}

func gapCollection(t *testing.T, name string) *field.ProxiedCollectionField {
	t.Helper()
	item, err := field.NewScalarField("_0", "int32")
	require.NoError(t, err)
	f, err := field.NewProxiedCollectionField(name, "gapped<int32>", item, gapAdapter{})
	require.NoError(t, err)
	return f
}

func TestProxiedIteratorRoundTrip(t *testing.T) {
	f := gapCollection(t, "samples")
	values := []any{
		[]any{int32(1), int32(2), int32(3)},
		[]any{},
		[]any{int32(-4)},
		[]any{int32(5), int32(6)},
	}
	store := writeValues(t, f, values)
	got := readValues(t, f, store, len(values))
	assert.Equal(t, values, got)
}

func TestProxiedIteratorAcrossClusters(t *testing.T) {
	f := gapCollection(t, "samples")
	store := writeValues(t, f,
		[]any{[]any{int32(1)}, []any{int32(2), int32(3)}},
		[]any{[]any{}, []any{int32(4), int32(5), int32(6)}},
	)
	got := readValues(t, f, store, 4)
	assert.Equal(t, []any{
		[]any{int32(1)},
		[]any{int32(2), int32(3)},
		[]any{},
		[]any{int32(4), int32(5), int32(6)},
	}, got)
}

func TestProxiedIteratorSplitValue(t *testing.T) {
	f := gapCollection(t, "samples")
	v := f.GenerateValue()
	defer v.Destroy()
	require.NoError(t, v.Set([]any{int32(10), int32(20), int32(30)}))

	parts := f.SplitValue(v)
	require.Len(t, parts, 3)
	last, err := parts[2].Get()
	require.NoError(t, err)
	assert.Equal(t, int32(30), last)
}

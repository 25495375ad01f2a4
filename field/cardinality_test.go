package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/field"
	"github.com/colobj/colobj/pagestore"
)

// cardinalityStore writes a vector named hits with item counts 3, 0, 5, 2.
func cardinalityStore(t *testing.T) *pagestore.MemoryStore {
	t.Helper()
	f := intVector(t, "hits")
	entries := []any{
		[]any{int32(1), int32(2), int32(3)},
		[]any{},
		[]any{int32(1), int32(2), int32(3), int32(4), int32(5)},
		[]any{int32(1), int32(2)},
	}
	return writeValues(t, f, entries)
}

func TestCardinalityRead(t *testing.T) {
	store := cardinalityStore(t)

	for _, width := range []int{32, 64} {
		f, err := field.NewCardinalityField("hits", width)
		require.NoError(t, err)
		require.NoError(t, f.ConnectPageSource(store))

		got := readConnected(t, f, 4)
		if width == 32 {
			assert.Equal(t, []any{uint32(3), uint32(0), uint32(5), uint32(2)}, got)
		} else {
			assert.Equal(t, []any{uint64(3), uint64(0), uint64(5), uint64(2)}, got)
		}
	}
}

func TestCardinalityReadBulk(t *testing.T) {
	store := cardinalityStore(t)

	f, err := field.NewCardinalityField("hits", 64)
	require.NoError(t, err)
	require.NoError(t, f.ConnectPageSource(store))

	bulk := f.NewBulk()
	defer bulk.Destroy()
	first := column.ClusterIndex{Cluster: 0, Index: 0}
	values, err := bulk.ReadBulk(first, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, field.AllSet, bulk.NValid())

	vs := f.ValueSize()
	var got []uint64
	for i := 0; i < 4; i++ {
		got = append(got, leUint64(values.B[i*vs:(i+1)*vs]))
	}
	assert.Equal(t, []uint64{3, 0, 5, 2}, got)
}

func TestCardinalityIsReadOnly(t *testing.T) {
	f, err := field.NewCardinalityField("hits", 64)
	require.NoError(t, err)
	require.ErrorIs(t, f.ConnectPageSink(pagestore.NewMemoryStore(), 0), field.ErrUnsupported)
}

func TestCardinalityRejectsOddWidth(t *testing.T) {
	_, err := field.NewCardinalityField("hits", 16)
	require.ErrorIs(t, err, field.ErrUnsupported)
}

package field_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/field"
	"github.com/colobj/colobj/pagestore"
)

func columnGlobal(i int) column.GlobalIndex {
	return column.GlobalIndex(uint64(i))
}

func leUint64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// writeValues writes one cluster per batch of values into a fresh store and
// returns it sealed.
func writeValues(t *testing.T, f field.Field, clusters ...[]any) *pagestore.MemoryStore {
	t.Helper()
	store := pagestore.NewMemoryStore()
	require.NoError(t, f.ConnectPageSink(store, 0))
	for _, values := range clusters {
		for _, x := range values {
			v := f.GenerateValue()
			require.NoError(t, v.Set(x))
			_, err := v.Append()
			require.NoError(t, err)
			v.Destroy()
		}
		require.NoError(t, f.CommitCluster())
		require.NoError(t, store.CommitCluster(uint64(len(values))))
	}
	require.NoError(t, store.Seal())
	return store
}

// readValues connects a clone of proto to the store and reads n values back.
func readValues(t *testing.T, proto field.Field, store *pagestore.MemoryStore, n int) []any {
	t.Helper()
	reader := cloneForRead(t, proto)
	require.NoError(t, reader.ConnectPageSource(store))
	return readConnected(t, reader, n)
}

func cloneForRead(t *testing.T, proto field.Field) field.Field {
	t.Helper()
	clone, err := proto.Clone(proto.Name())
	require.NoError(t, err)
	return clone
}

// writeReadBack copies n values from the connected reader into a fresh
// store through writer and returns what that store holds afterwards.
func writeReadBack(t *testing.T, reader, writer field.Field, n int) []any {
	t.Helper()
	store := pagestore.NewMemoryStore()
	require.NoError(t, writer.ConnectPageSink(store, 0))
	v := reader.GenerateValue()
	defer v.Destroy()
	for i := 0; i < n; i++ {
		require.NoError(t, v.Read(columnGlobal(i)))
		_, err := writer.BindValue(v.Ptr()).Append()
		require.NoError(t, err)
	}
	require.NoError(t, writer.CommitCluster())
	require.NoError(t, store.CommitCluster(uint64(n)))
	require.NoError(t, store.Seal())
	return readValues(t, writer, store, n)
}

func readConnected(t *testing.T, f field.Field, n int) []any {
	t.Helper()
	out := make([]any, n)
	v := f.GenerateValue()
	defer v.Destroy()
	for i := range out {
		require.NoError(t, v.Read(columnGlobal(i)))
		x, err := v.Get()
		require.NoError(t, err)
		out[i] = x
	}
	return out
}

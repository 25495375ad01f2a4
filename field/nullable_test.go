package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/field"
)

func newOptionalInt(t *testing.T, dense bool) *field.NullableField {
	t.Helper()
	item, err := field.NewScalarField("_0", "int32")
	require.NoError(t, err)
	f, err := field.NewNullableField("maybe", item)
	require.NoError(t, err)
	if dense {
		require.NoError(t, f.SetDense())
	} else {
		require.NoError(t, f.SetSparse())
	}
	return f
}

func TestNullableDefaultEncoding(t *testing.T) {
	small, err := field.NewScalarField("_0", "int32")
	require.NoError(t, err)
	f, err := field.NewNullableField("maybe", small)
	require.NoError(t, err)
	assert.True(t, f.IsDense(), "small mappable items default to dense")

	big, err := field.NewStringField("_0")
	require.NoError(t, err)
	g, err := field.NewNullableField("maybe", big)
	require.NoError(t, err)
	assert.False(t, g.IsDense(), "composite items default to sparse")
}

func TestNullableRoundTrip(t *testing.T) {
	values := []any{int32(1), nil, int32(3), nil, nil, int32(6)}
	for _, dense := range []bool{true, false} {
		name := "sparse"
		if dense {
			name = "dense"
		}
		t.Run(name, func(t *testing.T) {
			f := newOptionalInt(t, dense)
			store := writeValues(t, f, values)
			got := readValues(t, f, store, len(values))
			assert.Equal(t, values, got)
		})
	}
}

// Both encodings must agree on content; they differ only in item storage.
func TestNullableDenseSparseEquivalence(t *testing.T) {
	values := []any{nil, int32(10), nil, int32(20)}

	dense := newOptionalInt(t, true)
	sparse := newOptionalInt(t, false)
	denseStore := writeValues(t, dense, values)
	sparseStore := writeValues(t, sparse, values)

	assert.Equal(t,
		readValues(t, dense, denseStore, len(values)),
		readValues(t, sparse, sparseStore, len(values)))

	// Dense wrote one item element per entry, sparse only the present ones.
	denseItems := dense.SubFields()[0].(*field.ScalarField).PrincipalColumn().NElements()
	sparseItems := sparse.SubFields()[0].(*field.ScalarField).PrincipalColumn().NElements()
	assert.Equal(t, uint64(4), denseItems)
	assert.Equal(t, uint64(2), sparseItems)
}

func TestNullableGetItemIndex(t *testing.T) {
	for _, dense := range []bool{true, false} {
		f := newOptionalInt(t, dense)
		store := writeValues(t, f, []any{nil, int32(5), int32(7)})

		reader := cloneForRead(t, f).(*field.NullableField)
		require.NoError(t, reader.ConnectPageSource(store))

		idx, err := reader.GetItemIndex(0)
		require.NoError(t, err)
		assert.Equal(t, column.InvalidClusterIndex, idx, "null entry has no item")

		idx, err = reader.GetItemIndex(1)
		require.NoError(t, err)
		assert.NotEqual(t, column.InvalidClusterIndex, idx)
	}
}

func TestNullableGetItemIndexUnconnected(t *testing.T) {
	f := newOptionalInt(t, true)
	_, err := f.GetItemIndex(0)
	require.ErrorIs(t, err, field.ErrInvariant)
}

func TestNullableOfString(t *testing.T) {
	item, err := field.NewStringField("_0")
	require.NoError(t, err)
	f, err := field.NewNullableField("note", item)
	require.NoError(t, err)

	values := []any{"text", nil, ""}
	store := writeValues(t, f, values)
	got := readValues(t, f, store, len(values))
	assert.Equal(t, values, got)
}

package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj/field"
)

func newIntOrString(t *testing.T) *field.VariantField {
	t.Helper()
	number, err := field.NewScalarField("_0", "int64")
	require.NoError(t, err)
	text, err := field.NewStringField("_1")
	require.NoError(t, err)
	f, err := field.NewVariantField("payload", []field.Field{number, text})
	require.NoError(t, err)
	return f
}

func TestVariantRoundTrip(t *testing.T) {
	f := newIntOrString(t)
	assert.Equal(t, "variant<int64,string>", f.TypeName())

	values := []any{
		field.Alternative{Tag: 1, Value: int64(42)},
		field.Alternative{Tag: 2, Value: "hello"},
		field.Alternative{Tag: 1, Value: int64(-1)},
		field.Alternative{Tag: 2, Value: ""},
		field.Alternative{Tag: 1, Value: int64(7)},
	}
	store := writeValues(t, f, values)
	got := readValues(t, f, store, len(values))
	assert.Equal(t, values, got)
}

func TestVariantTagCountersResetPerCluster(t *testing.T) {
	f := newIntOrString(t)
	store := writeValues(t, f,
		[]any{
			field.Alternative{Tag: 1, Value: int64(1)},
			field.Alternative{Tag: 2, Value: "a"},
		},
		[]any{
			field.Alternative{Tag: 2, Value: "b"},
			field.Alternative{Tag: 1, Value: int64(2)},
		},
	)
	got := readValues(t, f, store, 4)
	assert.Equal(t, []any{
		field.Alternative{Tag: 1, Value: int64(1)},
		field.Alternative{Tag: 2, Value: "a"},
		field.Alternative{Tag: 2, Value: "b"},
		field.Alternative{Tag: 1, Value: int64(2)},
	}, got)
}

// Values read from one store must append to another unchanged, including
// the active tag.
func TestVariantReAppend(t *testing.T) {
	f := newIntOrString(t)
	values := []any{
		field.Alternative{Tag: 2, Value: "copy me"},
		field.Alternative{Tag: 1, Value: int64(99)},
	}
	store := writeValues(t, f, values)

	reader := cloneForRead(t, f)
	require.NoError(t, reader.ConnectPageSource(store))

	writer := cloneForRead(t, f)
	second := writeReadBack(t, reader, writer, len(values))
	assert.Equal(t, values, second)
}

func TestVariantRejectsBadTag(t *testing.T) {
	f := newIntOrString(t)
	v := f.GenerateValue()
	defer v.Destroy()
	require.ErrorIs(t, v.Set(field.Alternative{Tag: 0, Value: int64(1)}), field.ErrUnsupported)
	require.ErrorIs(t, v.Set(field.Alternative{Tag: 3, Value: int64(1)}), field.ErrUnsupported)
}

func TestVariantDefaultConstructsFirstArm(t *testing.T) {
	f := newIntOrString(t)
	v := f.GenerateValue()
	defer v.Destroy()
	got, err := v.Get()
	require.NoError(t, err)
	assert.Equal(t, field.Alternative{Tag: 1, Value: int64(0)}, got)
}

func TestVariantArmLimit(t *testing.T) {
	arms := make([]field.Field, 256)
	for i := range arms {
		a, err := field.NewScalarField("_0", "int8")
		require.NoError(t, err)
		arms[i] = a
	}
	_, err := field.NewVariantField("wide", arms)
	require.ErrorIs(t, err, field.ErrUnsupported)
}

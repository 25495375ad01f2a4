package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj/field"
)

func TestScalarRoundTrip(t *testing.T) {
	tests := []struct {
		typeName string
		values   []any
	}{
		{"bool", []any{true, false, true, true}},
		{"int8", []any{int8(-128), int8(0), int8(127)}},
		{"int16", []any{int16(-1), int16(32767)}},
		{"int32", []any{int32(-2147483648), int32(42)}},
		{"int64", []any{int64(-1), int64(1) << 62}},
		{"uint8", []any{uint8(0), uint8(255)}},
		{"uint16", []any{uint16(65535), uint16(1)}},
		{"uint32", []any{uint32(4294967295), uint32(7)}},
		{"uint64", []any{uint64(1) << 63, uint64(0)}},
		{"float32", []any{float32(1.5), float32(-0.25)}},
		{"float64", []any{3.14159, -2.5}},
	}
	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			f, err := field.NewScalarField("x", tt.typeName)
			require.NoError(t, err)
			store := writeValues(t, f, tt.values)
			got := readValues(t, f, store, len(tt.values))
			assert.Equal(t, tt.values, got)
		})
	}
}

func TestScalarTraits(t *testing.T) {
	f, err := field.NewScalarField("x", "int32")
	require.NoError(t, err)
	assert.Equal(t, 4, f.ValueSize())
	assert.Equal(t, 4, f.Alignment())
	assert.NotZero(t, f.Traits()&field.TraitMappable)
	assert.NotZero(t, f.Traits()&field.TraitTriviallyConstructible)
}

func TestScalarRejectsUnknownType(t *testing.T) {
	_, err := field.NewScalarField("x", "complex128")
	require.ErrorIs(t, err, field.ErrUnsupported)
}

func TestScalarRejectsBadName(t *testing.T) {
	_, err := field.NewScalarField("", "int32")
	require.ErrorIs(t, err, field.ErrInvalidName)

	_, err = field.NewScalarField("a.b", "int32")
	require.ErrorIs(t, err, field.ErrInvalidName)
}

func TestScalarAssignTypeMismatch(t *testing.T) {
	f, err := field.NewScalarField("x", "int32")
	require.NoError(t, err)
	v := f.GenerateValue()
	defer v.Destroy()
	require.ErrorIs(t, v.Set("not an int"), field.ErrUnsupported)
}

func TestEnumRoundTrip(t *testing.T) {
	f, err := field.NewEnumField("state", "Status", "uint16")
	require.NoError(t, err)
	assert.Equal(t, "Status", f.TypeName())
	assert.Equal(t, "uint16", f.Underlying())

	values := []any{uint16(0), uint16(3), uint16(7)}
	store := writeValues(t, f, values)
	got := readValues(t, f, store, len(values))
	assert.Equal(t, values, got)
}

func TestEnumRejectsNonInteger(t *testing.T) {
	_, err := field.NewEnumField("state", "Status", "float32")
	require.ErrorIs(t, err, field.ErrUnsupported)
}

func TestBitsetRoundTrip(t *testing.T) {
	f, err := field.NewBitsetField("flags", 70)
	require.NoError(t, err)
	assert.Equal(t, 16, f.ValueSize())
	assert.Equal(t, uint64(70), f.NRepetitions())

	bits := make([]bool, 70)
	bits[0], bits[63], bits[64], bits[69] = true, true, true, true
	empty := make([]bool, 70)

	store := writeValues(t, f, []any{bits, empty})
	got := readValues(t, f, store, 2)
	assert.Equal(t, bits, got[0])
	assert.Equal(t, empty, got[1])
}

func TestArrayValueSize(t *testing.T) {
	item, err := field.NewScalarField("_0", "float32")
	require.NoError(t, err)
	f, err := field.NewArrayField("vertex", item, 4)
	require.NoError(t, err)
	assert.Equal(t, 16, f.ValueSize())
	assert.Equal(t, uint64(4), f.NRepetitions())
}

func TestArrayRoundTrip(t *testing.T) {
	item, err := field.NewScalarField("_0", "int32")
	require.NoError(t, err)
	f, err := field.NewArrayField("a", item, 3)
	require.NoError(t, err)

	values := []any{
		[]any{int32(1), int32(2), int32(3)},
		[]any{int32(-1), int32(0), int32(1)},
	}
	store := writeValues(t, f, values)
	got := readValues(t, f, store, len(values))
	assert.Equal(t, values, got)
}

func TestAtomicRoundTrip(t *testing.T) {
	item, err := field.NewScalarField("_0", "uint64")
	require.NoError(t, err)
	f, err := field.NewAtomicField("counter", item)
	require.NoError(t, err)
	assert.Equal(t, "atomic<uint64>", f.TypeName())

	values := []any{uint64(1), uint64(2), uint64(1) << 40}
	store := writeValues(t, f, values)
	got := readValues(t, f, store, len(values))
	assert.Equal(t, values, got)
}

package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/field"
	"github.com/colobj/colobj/registry"
)

type hit struct {
	Channel uint16
	Charge  float32
}

type track struct {
	ID     uint64
	Name   string
	Hits   []hit
	Vertex [3]float64
	Mother *uint32
}

func TestBuildFromStruct(t *testing.T) {
	reg := registry.NewMapRegistry()
	name, err := registry.FromStruct(reg, track{})
	require.NoError(t, err)

	f, err := field.Build("track", name, reg)
	require.NoError(t, err)
	assert.Equal(t, descriptor.StructureRecord, f.Structure())

	children := f.SubFields()
	require.Len(t, children, 5)
	assert.Equal(t, "ID", children[0].Name())
	assert.Equal(t, descriptor.StructureCollection, children[2].Structure())
	assert.Equal(t, uint64(3), children[3].NRepetitions())
	assert.IsType(t, &field.NullableField{}, children[4])
}

func TestBuildRoundTrip(t *testing.T) {
	reg := registry.NewMapRegistry()
	name, err := registry.FromStruct(reg, hit{})
	require.NoError(t, err)

	f, err := field.Build("hit", name, reg)
	require.NoError(t, err)

	values := []any{
		map[string]any{"Channel": uint16(3), "Charge": float32(1.25)},
		map[string]any{"Channel": uint16(77), "Charge": float32(-0.5)},
	}
	store := writeValues(t, f, values)
	got := readValues(t, f, store, len(values))
	assert.Equal(t, values, got)
}

func TestBuildScalarWithoutRegistry(t *testing.T) {
	f, err := field.Build("x", "float64", registry.NewMapRegistry())
	require.NoError(t, err)
	assert.Equal(t, "float64", f.TypeName())

	_, err = field.Build("x", "no-such-type", registry.NewMapRegistry())
	require.ErrorIs(t, err, registry.ErrUnknownType)
}

func TestBuildRegisteredKinds(t *testing.T) {
	reg := registry.NewMapRegistry()
	require.NoError(t, reg.Register(registry.TypeDesc{
		Name: "Status", Kind: registry.KindEnum, Underlying: "uint8",
	}))
	require.NoError(t, reg.Register(registry.TypeDesc{
		Name: "Trigger", Kind: registry.KindBitset, Len: 96,
	}))
	require.NoError(t, reg.Register(registry.TypeDesc{
		Name: "IDSet", Kind: registry.KindSet, Elem: "uint64",
	}))
	require.NoError(t, reg.Register(registry.TypeDesc{
		Name: "Payload", Kind: registry.KindVariant,
		Members: []registry.Member{
			{TypeName: "int64"},
			{TypeName: "string"},
		},
	}))

	enum, err := field.Build("status", "Status", reg)
	require.NoError(t, err)
	assert.IsType(t, &field.EnumField{}, enum)

	bits, err := field.Build("trigger", "Trigger", reg)
	require.NoError(t, err)
	assert.Equal(t, uint64(96), bits.NRepetitions())

	set, err := field.Build("ids", "IDSet", reg)
	require.NoError(t, err)
	assert.IsType(t, &field.SetField{}, set)

	variant, err := field.Build("payload", "Payload", reg)
	require.NoError(t, err)
	assert.Equal(t, descriptor.StructureVariant, variant.Structure())
	assert.Len(t, variant.SubFields(), 2)
}

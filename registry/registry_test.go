package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj/registry"
)

func TestRegisterAndLookup(t *testing.T) {
	r := registry.NewMapRegistry()

	desc := registry.TypeDesc{
		Name:       "Color",
		Kind:       registry.KindEnum,
		Underlying: "uint8",
	}
	require.NoError(t, r.Register(desc))

	got, err := r.Lookup("Color")
	require.NoError(t, err)
	assert.Equal(t, desc, got)

	_, err = r.Lookup("Shape")
	assert.ErrorIs(t, err, registry.ErrUnknownType)
}

func TestRegisterValidation(t *testing.T) {
	r := registry.NewMapRegistry()
	assert.Error(t, r.Register(registry.TypeDesc{Kind: registry.KindBool}))
	assert.Error(t, r.Register(registry.TypeDesc{Name: "x"}))
}

type vertex struct {
	X, Y, Z float64
}

type Header struct {
	Run uint32
}

type event struct {
	Header
	ID       uint64
	Label    string
	Vertices []vertex
	Coords   [3]float64
	Weight   *float32

	hidden int
}

func TestFromStruct(t *testing.T) {
	r := registry.NewMapRegistry()
	name, err := registry.FromStruct(r, event{})
	require.NoError(t, err)

	desc, err := r.Lookup(name)
	require.NoError(t, err)
	assert.Equal(t, registry.KindRecord, desc.Kind)
	require.Len(t, desc.Members, 6)

	// The embedded header comes first and is flagged as a base member.
	assert.True(t, desc.Members[0].IsBase)
	assert.Equal(t, "Header", desc.Members[0].Name)
	assert.Equal(t, "ID", desc.Members[1].Name)
	assert.Equal(t, "uint64", desc.Members[1].TypeName)
	assert.Equal(t, "string", desc.Members[2].TypeName)

	vec, err := r.Lookup(desc.Members[3].TypeName)
	require.NoError(t, err)
	assert.Equal(t, registry.KindVector, vec.Kind)
	item, err := r.Lookup(vec.Elem)
	require.NoError(t, err)
	assert.Equal(t, registry.KindRecord, item.Kind)
	assert.Len(t, item.Members, 3)

	arr, err := r.Lookup("[3]float64")
	require.NoError(t, err)
	assert.Equal(t, registry.KindFixedArray, arr.Kind)
	assert.Equal(t, uint64(3), arr.Len)
	assert.Equal(t, "float64", arr.Elem)

	opt, err := r.Lookup("*float32")
	require.NoError(t, err)
	assert.Equal(t, registry.KindOptional, opt.Kind)
	assert.Equal(t, "float32", opt.Elem)
}

func TestFromStructPointerRoot(t *testing.T) {
	r := registry.NewMapRegistry()
	name, err := registry.FromStruct(r, &vertex{})
	require.NoError(t, err)
	byValue, err := registry.FromStruct(r, vertex{})
	require.NoError(t, err)
	assert.Equal(t, name, byValue)
}

func TestFromStructRejectsUnsupported(t *testing.T) {
	r := registry.NewMapRegistry()

	_, err := registry.FromStruct(r, 42)
	assert.Error(t, err)
	_, err = registry.FromStruct(r, nil)
	assert.Error(t, err)

	type bad struct {
		M map[string]int
	}
	_, err = registry.FromStruct(r, bad{})
	assert.Error(t, err)

	type badChan struct {
		C chan int
	}
	_, err = registry.FromStruct(r, badChan{})
	assert.Error(t, err)
}

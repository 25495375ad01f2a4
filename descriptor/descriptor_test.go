package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
)

func newSchema(t *testing.T) *descriptor.Descriptor {
	t.Helper()
	d := descriptor.New()

	pt := d.AddField(descriptor.FieldRecord{
		Parent:    descriptor.InvalidFieldID,
		Name:      "pt",
		TypeName:  "float64",
		Structure: descriptor.StructureLeaf,
	})
	hits := d.AddField(descriptor.FieldRecord{
		Parent:    descriptor.InvalidFieldID,
		Name:      "hits",
		TypeName:  "[]int32",
		Structure: descriptor.StructureCollection,
	})
	item := d.AddField(descriptor.FieldRecord{
		Parent:    hits,
		Name:      "_0",
		TypeName:  "int32",
		Structure: descriptor.StructureLeaf,
	})

	require.NoError(t, d.AddColumn(descriptor.ColumnRecord{Field: pt, Index: 0, Type: column.TypeReal64, Handle: 0}))
	require.NoError(t, d.AddColumn(descriptor.ColumnRecord{Field: hits, Index: 0, Type: column.TypeIndex64, Handle: 1}))
	require.NoError(t, d.AddColumn(descriptor.ColumnRecord{Field: item, Index: 0, Type: column.TypeInt32, Handle: 2}))
	return d
}

func TestAddFieldAssignsSequentialIDs(t *testing.T) {
	d := newSchema(t)
	require.Equal(t, 3, d.NFields())
	for i, f := range d.Fields() {
		assert.Equal(t, descriptor.FieldID(i), f.ID)
	}
}

func TestAddColumnValidation(t *testing.T) {
	d := descriptor.New()
	err := d.AddColumn(descriptor.ColumnRecord{Field: 9})
	assert.ErrorIs(t, err, descriptor.ErrUnknownField)

	id := d.AddField(descriptor.FieldRecord{Parent: descriptor.InvalidFieldID, Name: "x", TypeName: "int64"})
	// Column indexes must arrive in order.
	err = d.AddColumn(descriptor.ColumnRecord{Field: id, Index: 1, Type: column.TypeInt64})
	assert.Error(t, err)
}

func TestFindFieldAndChildren(t *testing.T) {
	d := newSchema(t)

	hits, err := d.FindField(descriptor.InvalidFieldID, "hits")
	require.NoError(t, err)
	assert.Equal(t, "[]int32", hits.TypeName)

	item, err := d.FindField(hits.ID, "_0")
	require.NoError(t, err)
	assert.Equal(t, "int32", item.TypeName)

	_, err = d.FindField(descriptor.InvalidFieldID, "nope")
	assert.ErrorIs(t, err, descriptor.ErrUnknownField)

	children := d.Children(descriptor.InvalidFieldID)
	require.Len(t, children, 2)
	assert.Equal(t, "pt", children[0].Name)
	assert.Equal(t, "hits", children[1].Name)
	assert.Empty(t, d.Children(children[0].ID))
}

func TestColumnTypes(t *testing.T) {
	d := newSchema(t)
	hits, err := d.FindField(descriptor.InvalidFieldID, "hits")
	require.NoError(t, err)
	assert.Equal(t, column.Representation{column.TypeIndex64}, d.ColumnTypes(hits.ID))
	assert.Empty(t, d.ColumnTypes(descriptor.FieldID(99)))
}

func TestClusters(t *testing.T) {
	d := newSchema(t)
	assert.Equal(t, uint64(0), d.NEntries())

	d.AddCluster(descriptor.ClusterRecord{FirstEntry: 0, NEntries: 100})
	d.AddCluster(descriptor.ClusterRecord{FirstEntry: 100, NEntries: 30})
	assert.Equal(t, 2, d.NClusters())
	assert.Equal(t, uint64(130), d.NEntries())
	assert.Equal(t, uint64(100), d.Clusters()[1].FirstEntry)
}

func TestBinaryRoundTrip(t *testing.T) {
	d := newSchema(t)
	d.AddCluster(descriptor.ClusterRecord{FirstEntry: 0, NEntries: 7})

	data, err := d.MarshalBinary()
	require.NoError(t, err)

	got := descriptor.New()
	require.NoError(t, got.UnmarshalBinary(data))

	assert.Equal(t, d.Fields(), got.Fields())
	assert.Equal(t, d.Clusters(), got.Clusters())
	for _, f := range d.Fields() {
		assert.Equal(t, d.Columns(f.ID), got.Columns(f.ID))
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	d := descriptor.New()
	assert.Error(t, d.UnmarshalBinary([]byte{0xff, 0x00, 0x13}))
}

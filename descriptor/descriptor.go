package descriptor

import (
	"errors"
	"fmt"
	"math"

	"github.com/colobj/colobj/column"
)

// FieldID identifies a field inside a descriptor. IDs are assigned by the
// page sink in connect order; a field instance holds its on-disk ID only
// while connected.
type FieldID uint64

// InvalidFieldID marks an unconnected field.
const InvalidFieldID = FieldID(math.MaxUint64)

// InvalidTypeVersion marks an unknown on-disk type version.
const InvalidTypeVersion = uint32(math.MaxUint32)

// Structure is the structural role of a field in the data model.
type Structure uint8

const (
	StructureLeaf Structure = iota
	StructureRecord
	StructureCollection
	StructureVariant
)

// String returns the string representation of the Structure.
func (s Structure) String() string {
	switch s {
	case StructureLeaf:
		return "Leaf"
	case StructureRecord:
		return "Record"
	case StructureCollection:
		return "Collection"
	case StructureVariant:
		return "Variant"
	default:
		return "Unknown"
	}
}

// ErrUnknownField is returned for lookups of field IDs or names that are not
// part of the descriptor.
var ErrUnknownField = errors.New("descriptor: unknown field")

// FieldRecord describes one field of the stored schema.
type FieldRecord struct {
	ID           FieldID
	Parent       FieldID
	Name         string
	TypeName     string
	TypeAlias    string
	TypeVersion  uint32
	Structure    Structure
	NRepetitions uint64
}

// ColumnRecord describes one physical column backing a field. Index is the
// position of the column within the owning field.
type ColumnRecord struct {
	Field  FieldID
	Index  uint32
	Type   column.Type
	Handle column.Handle
}

// ClusterRecord summarizes one committed cluster.
type ClusterRecord struct {
	FirstEntry uint64
	NEntries   uint64
}

// Descriptor is the in-memory schema store.
type Descriptor struct {
	fields   []FieldRecord
	columns  map[FieldID][]ColumnRecord
	clusters []ClusterRecord
}

// New creates an empty descriptor.
func New() *Descriptor {
	return &Descriptor{columns: make(map[FieldID][]ColumnRecord)}
}

// AddField registers a field record and assigns its ID.
func (d *Descriptor) AddField(rec FieldRecord) FieldID {
	rec.ID = FieldID(len(d.fields))
	d.fields = append(d.fields, rec)
	return rec.ID
}

// AddColumn registers a column record for an existing field.
func (d *Descriptor) AddColumn(rec ColumnRecord) error {
	if int(rec.Field) >= len(d.fields) {
		return fmt.Errorf("%w: id %d", ErrUnknownField, rec.Field)
	}
	cols := d.columns[rec.Field]
	if int(rec.Index) != len(cols) {
		return fmt.Errorf("descriptor: column index %d of field %d out of order", rec.Index, rec.Field)
	}
	d.columns[rec.Field] = append(cols, rec)
	return nil
}

// Field returns the record of the given field ID.
func (d *Descriptor) Field(id FieldID) (FieldRecord, error) {
	if int(id) >= len(d.fields) {
		return FieldRecord{}, fmt.Errorf("%w: id %d", ErrUnknownField, id)
	}
	return d.fields[id], nil
}

// NFields returns the number of registered fields.
func (d *Descriptor) NFields() int { return len(d.fields) }

// Fields returns a copy of all field records.
func (d *Descriptor) Fields() []FieldRecord {
	return append([]FieldRecord(nil), d.fields...)
}

// FindField resolves a child field by name below the given parent. Top-level
// fields use InvalidFieldID as parent.
func (d *Descriptor) FindField(parent FieldID, name string) (FieldRecord, error) {
	for _, f := range d.fields {
		if f.Parent == parent && f.Name == name {
			return f, nil
		}
	}
	return FieldRecord{}, fmt.Errorf("%w: %q below %d", ErrUnknownField, name, parent)
}

// Children returns the records of all direct children of the given field,
// in registration order.
func (d *Descriptor) Children(parent FieldID) []FieldRecord {
	var out []FieldRecord
	for _, f := range d.fields {
		if f.Parent == parent && f.ID != parent {
			out = append(out, f)
		}
	}
	return out
}

// Columns returns the column records of the given field in column order.
func (d *Descriptor) Columns(id FieldID) []ColumnRecord {
	return d.columns[id]
}

// ColumnTypes returns the on-disk encoding of the given field as a
// representation.
func (d *Descriptor) ColumnTypes(id FieldID) column.Representation {
	cols := d.columns[id]
	rep := make(column.Representation, len(cols))
	for i, c := range cols {
		rep[i] = c.Type
	}
	return rep
}

// AddCluster appends a cluster summary.
func (d *Descriptor) AddCluster(rec ClusterRecord) {
	d.clusters = append(d.clusters, rec)
}

// Clusters returns all cluster summaries in commit order.
func (d *Descriptor) Clusters() []ClusterRecord {
	return append([]ClusterRecord(nil), d.clusters...)
}

// NClusters returns the number of committed clusters.
func (d *Descriptor) NClusters() int { return len(d.clusters) }

// NEntries returns the total number of committed entries.
func (d *Descriptor) NEntries() uint64 {
	var n uint64
	for _, c := range d.clusters {
		n += c.NEntries
	}
	return n
}

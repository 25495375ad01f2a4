package descriptor

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/colobj/colobj/column"
)

// formatVersion guards the serialized descriptor layout. Bump on breaking
// changes to the wire structs below.
const formatVersion = 1

type wireField struct {
	ID           uint64 `msgpack:"id"`
	Parent       uint64 `msgpack:"p"`
	Name         string `msgpack:"n"`
	TypeName     string `msgpack:"t"`
	TypeAlias    string `msgpack:"ta,omitempty"`
	TypeVersion  uint32 `msgpack:"tv"`
	Structure    uint8  `msgpack:"s"`
	NRepetitions uint64 `msgpack:"r,omitempty"`
}

type wireColumn struct {
	Field  uint64 `msgpack:"f"`
	Index  uint32 `msgpack:"i"`
	Type   uint8  `msgpack:"t"`
	Handle int64  `msgpack:"h"`
}

type wireCluster struct {
	FirstEntry uint64 `msgpack:"f"`
	NEntries   uint64 `msgpack:"n"`
}

type wireDescriptor struct {
	Version  uint32        `msgpack:"v"`
	Fields   []wireField   `msgpack:"fields"`
	Columns  []wireColumn  `msgpack:"columns"`
	Clusters []wireCluster `msgpack:"clusters"`
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (d *Descriptor) MarshalBinary() ([]byte, error) {
	w := wireDescriptor{Version: formatVersion}
	for _, f := range d.fields {
		w.Fields = append(w.Fields, wireField{
			ID:           uint64(f.ID),
			Parent:       uint64(f.Parent),
			Name:         f.Name,
			TypeName:     f.TypeName,
			TypeAlias:    f.TypeAlias,
			TypeVersion:  f.TypeVersion,
			Structure:    uint8(f.Structure),
			NRepetitions: f.NRepetitions,
		})
	}
	for _, f := range d.fields {
		for _, c := range d.columns[f.ID] {
			w.Columns = append(w.Columns, wireColumn{
				Field:  uint64(c.Field),
				Index:  c.Index,
				Type:   uint8(c.Type),
				Handle: int64(c.Handle),
			})
		}
	}
	for _, c := range d.clusters {
		w.Clusters = append(w.Clusters, wireCluster{FirstEntry: c.FirstEntry, NEntries: c.NEntries})
	}
	return msgpack.Marshal(&w)
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Descriptor) UnmarshalBinary(data []byte) error {
	var w wireDescriptor
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("descriptor: %w", err)
	}
	if w.Version != formatVersion {
		return fmt.Errorf("descriptor: unsupported format version %d", w.Version)
	}
	d.fields = nil
	d.columns = make(map[FieldID][]ColumnRecord)
	d.clusters = nil
	for _, f := range w.Fields {
		d.fields = append(d.fields, FieldRecord{
			ID:           FieldID(f.ID),
			Parent:       FieldID(f.Parent),
			Name:         f.Name,
			TypeName:     f.TypeName,
			TypeAlias:    f.TypeAlias,
			TypeVersion:  f.TypeVersion,
			Structure:    Structure(f.Structure),
			NRepetitions: f.NRepetitions,
		})
	}
	for _, c := range w.Columns {
		if err := d.AddColumn(ColumnRecord{
			Field:  FieldID(c.Field),
			Index:  c.Index,
			Type:   column.Type(c.Type),
			Handle: column.Handle(c.Handle),
		}); err != nil {
			return err
		}
	}
	for _, c := range w.Clusters {
		d.clusters = append(d.clusters, ClusterRecord{FirstEntry: c.FirstEntry, NEntries: c.NEntries})
	}
	return nil
}

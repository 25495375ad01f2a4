package column

import "slices"

// Representation is one physical encoding of a field: the ordered list of
// column types the field maps onto.
type Representation []Type

// Equal reports whether two representations use the same column types in the
// same order.
func (r Representation) Equal(other Representation) bool {
	return slices.Equal(r, other)
}

// Representations describes the encodings a field supports. The first
// serialization representation is the default used for writing. The set
// valid for reading is the union of the serialization types and the extra
// deserialization-only types, so everything a field can write it can also
// read back.
type Representations struct {
	serialization   []Representation
	deserialization []Representation
}

// NewRepresentations builds the representation set of a field.
// serialization must contain at least one entry; deserializationExtra lists
// read-only encodings, e.g. a narrower integer column an older writer used.
func NewRepresentations(serialization []Representation, deserializationExtra ...Representation) Representations {
	deser := make([]Representation, 0, len(serialization)+len(deserializationExtra))
	deser = append(deser, serialization...)
	deser = append(deser, deserializationExtra...)
	return Representations{
		serialization:   serialization,
		deserialization: deser,
	}
}

// SerializationDefault returns the representation used for writing.
func (r Representations) SerializationDefault() Representation {
	if len(r.serialization) == 0 {
		return nil
	}
	return r.serialization[0]
}

// Serialization returns all representations valid for writing.
func (r Representations) Serialization() []Representation {
	return r.serialization
}

// Deserialization returns all representations valid for reading.
func (r Representations) Deserialization() []Representation {
	return r.deserialization
}

// CanSerialize reports whether rep is a valid write representation.
func (r Representations) CanSerialize(rep Representation) bool {
	return slices.ContainsFunc(r.serialization, rep.Equal)
}

// CanDeserialize reports whether rep is a valid read representation.
func (r Representations) CanDeserialize(rep Representation) bool {
	return slices.ContainsFunc(r.deserialization, rep.Equal)
}

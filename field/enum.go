package field

import (
	"fmt"

	"github.com/colobj/colobj/descriptor"
)

// EnumField maps a named enumeration onto the columns of its integer
// underlying type. Only the numeric value is stored; enumerator names stay
// a client-side concern.
type EnumField struct {
	ScalarField
}

// NewEnumField creates an enum leaf field with the given type name over an
// integer underlying type.
func NewEnumField(name, typeName, underlying string) (*EnumField, error) {
	spec, ok := scalarSpecs[underlying]
	if !ok || !integerScalar(underlying) {
		return nil, fmt.Errorf("%w: enum %q over %q", ErrUnsupported, typeName, underlying)
	}
	f := &EnumField{}
	f.scalar = underlying
	if err := f.init(f, name, typeName, descriptor.StructureLeaf, spec.size, spec.size, TraitTrivial|TraitMappable); err != nil {
		return nil, err
	}
	return f, nil
}

// Underlying returns the name of the integer underlying type.
func (f *EnumField) Underlying() string { return f.scalar }

func (f *EnumField) cloneImpl(newName string) (Field, error) {
	return NewEnumField(newName, f.typeName, f.scalar)
}

func integerScalar(name string) bool {
	switch name {
	case "int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64":
		return true
	default:
		return false
	}
}

package field

import (
	"fmt"

	"github.com/colobj/colobj/registry"
)

// Build creates the field tree for a named type, resolving type structure
// through the given registry. Scalar and string type names resolve without a
// registry entry; everything else must be registered, e.g. via
// registry.FromStruct.
func Build(name, typeName string, reg registry.Registry) (Field, error) {
	if _, ok := scalarSpecs[typeName]; ok {
		return NewScalarField(name, typeName)
	}
	switch typeName {
	case "string":
		return NewStringField(name)
	case "cardinality32":
		return NewCardinalityField(name, 32)
	case "cardinality64":
		return NewCardinalityField(name, 64)
	}
	desc, err := reg.Lookup(typeName)
	if err != nil {
		return nil, err
	}
	f, err := build(name, desc, reg)
	if err != nil {
		return nil, err
	}
	f.base().typeVersion = desc.Version
	return f, nil
}

func build(name string, desc registry.TypeDesc, reg registry.Registry) (Field, error) {
	switch desc.Kind {
	case registry.KindBool:
		return NewScalarField(name, "bool")
	case registry.KindInt8:
		return NewScalarField(name, "int8")
	case registry.KindInt16:
		return NewScalarField(name, "int16")
	case registry.KindInt32:
		return NewScalarField(name, "int32")
	case registry.KindInt64:
		return NewScalarField(name, "int64")
	case registry.KindUint8:
		return NewScalarField(name, "uint8")
	case registry.KindUint16:
		return NewScalarField(name, "uint16")
	case registry.KindUint32:
		return NewScalarField(name, "uint32")
	case registry.KindUint64:
		return NewScalarField(name, "uint64")
	case registry.KindFloat32:
		return NewScalarField(name, "float32")
	case registry.KindFloat64:
		return NewScalarField(name, "float64")
	case registry.KindString:
		return NewStringField(name)
	case registry.KindRecord:
		members := make([]Field, len(desc.Members))
		for i, m := range desc.Members {
			member, err := Build(m.Name, m.TypeName, reg)
			if err != nil {
				return nil, fmt.Errorf("member %q of %q: %w", m.Name, desc.Name, err)
			}
			members[i] = member
		}
		return NewRecordField(name, desc.Name, members)
	case registry.KindFixedArray:
		item, err := Build("_0", desc.Elem, reg)
		if err != nil {
			return nil, err
		}
		return NewArrayField(name, item, desc.Len)
	case registry.KindVector:
		item, err := Build("_0", desc.Elem, reg)
		if err != nil {
			return nil, err
		}
		return NewVectorField(name, item)
	case registry.KindOptional:
		item, err := Build("_0", desc.Elem, reg)
		if err != nil {
			return nil, err
		}
		return NewNullableField(name, item)
	case registry.KindVariant:
		arms := make([]Field, len(desc.Members))
		for i, m := range desc.Members {
			armName := m.Name
			if armName == "" {
				armName = fmt.Sprintf("_%d", i)
			}
			arm, err := Build(armName, m.TypeName, reg)
			if err != nil {
				return nil, fmt.Errorf("arm %d of %q: %w", i, desc.Name, err)
			}
			arms[i] = arm
		}
		return NewVariantField(name, arms)
	case registry.KindEnum:
		return NewEnumField(name, desc.Name, desc.Underlying)
	case registry.KindBitset:
		return NewBitsetField(name, desc.Len)
	case registry.KindSet:
		item, err := Build("_0", desc.Elem, reg)
		if err != nil {
			return nil, err
		}
		return NewSetField(name, item)
	case registry.KindAtomic:
		item, err := Build("_0", desc.Elem, reg)
		if err != nil {
			return nil, err
		}
		return NewAtomicField(name, item)
	default:
		return nil, fmt.Errorf("%w: no field mapping for %s type %q", ErrUnsupported, desc.Kind, desc.Name)
	}
}

package field

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
	"github.com/colobj/colobj/pagestore"
)

// scalarSpec describes one supported scalar leaf type.
type scalarSpec struct {
	natural column.Type
	size    int
	reps    column.Representations
}

var scalarSpecs = map[string]scalarSpec{
	"bool": {column.TypeBit, 1, column.NewRepresentations(
		[]column.Representation{{column.TypeBit}},
		column.Representation{column.TypeByte})},
	"byte": {column.TypeByte, 1, column.NewRepresentations(
		[]column.Representation{{column.TypeByte}})},
	"int8": {column.TypeInt8, 1, column.NewRepresentations(
		[]column.Representation{{column.TypeInt8}})},
	"int16": {column.TypeInt16, 2, column.NewRepresentations(
		[]column.Representation{{column.TypeInt16}},
		column.Representation{column.TypeInt8})},
	"int32": {column.TypeInt32, 4, column.NewRepresentations(
		[]column.Representation{{column.TypeInt32}},
		column.Representation{column.TypeInt16},
		column.Representation{column.TypeInt8})},
	"int64": {column.TypeInt64, 8, column.NewRepresentations(
		[]column.Representation{{column.TypeInt64}, {column.TypeInt32}},
		column.Representation{column.TypeInt16},
		column.Representation{column.TypeInt8})},
	"uint8": {column.TypeUInt8, 1, column.NewRepresentations(
		[]column.Representation{{column.TypeUInt8}})},
	"uint16": {column.TypeUInt16, 2, column.NewRepresentations(
		[]column.Representation{{column.TypeUInt16}},
		column.Representation{column.TypeUInt8})},
	"uint32": {column.TypeUInt32, 4, column.NewRepresentations(
		[]column.Representation{{column.TypeUInt32}},
		column.Representation{column.TypeUInt16},
		column.Representation{column.TypeUInt8})},
	"uint64": {column.TypeUInt64, 8, column.NewRepresentations(
		[]column.Representation{{column.TypeUInt64}, {column.TypeUInt32}},
		column.Representation{column.TypeUInt16},
		column.Representation{column.TypeUInt8})},
	"float32": {column.TypeReal32, 4, column.NewRepresentations(
		[]column.Representation{{column.TypeReal32}})},
	"float64": {column.TypeReal64, 8, column.NewRepresentations(
		[]column.Representation{{column.TypeReal64}, {column.TypeReal32}})},
}

// ScalarField maps a fixed-width scalar onto a single column. The slot holds
// the value as a little-endian word of the type's natural width; booleans
// are one byte holding 0 or 1.
//
// scalar is the underlying scalar type name; it equals the type name except
// for enums, which carry their own type name over an integer underlying.
type ScalarField struct {
	Base
	scalar string
}

// NewScalarField creates a leaf field for one of the supported scalar type
// names: bool, byte, the fixed-width signed and unsigned integers, float32
// and float64.
func NewScalarField(name, typeName string) (*ScalarField, error) {
	spec, ok := scalarSpecs[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: no scalar type %q", ErrUnsupported, typeName)
	}
	f := &ScalarField{scalar: typeName}
	if err := f.init(f, name, typeName, descriptor.StructureLeaf, spec.size, spec.size, TraitTrivial|TraitMappable); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *ScalarField) spec() scalarSpec { return scalarSpecs[f.scalar] }

func (f *ScalarField) representations() column.Representations { return f.spec().reps }

func (f *ScalarField) genColumns() error {
	f.makeColumns(f.ColumnRepresentative(), f.size)
	return nil
}

func (f *ScalarField) genColumnsOnDisk(src pagestore.Source) error {
	return f.bindColumnsOnDisk(src, f.size)
}

func (f *ScalarField) cloneImpl(newName string) (Field, error) {
	return NewScalarField(newName, f.typeName)
}

func (f *ScalarField) assign(p slot.Ptr, x any) error {
	switch f.scalar {
	case "bool":
		v, ok := x.(bool)
		if !ok {
			return assignTypeError(f, x)
		}
		p.B[0] = 0
		if v {
			p.B[0] = 1
		}
		return nil
	case "byte", "uint8":
		v, ok := x.(uint8)
		if !ok {
			return assignTypeError(f, x)
		}
		p.B[0] = v
		return nil
	case "int8":
		v, ok := x.(int8)
		if !ok {
			return assignTypeError(f, x)
		}
		p.B[0] = byte(v)
		return nil
	case "int16":
		v, ok := x.(int16)
		if !ok {
			return assignTypeError(f, x)
		}
		binary.LittleEndian.PutUint16(p.B, uint16(v))
		return nil
	case "uint16":
		v, ok := x.(uint16)
		if !ok {
			return assignTypeError(f, x)
		}
		binary.LittleEndian.PutUint16(p.B, v)
		return nil
	case "int32":
		v, ok := x.(int32)
		if !ok {
			return assignTypeError(f, x)
		}
		binary.LittleEndian.PutUint32(p.B, uint32(v))
		return nil
	case "uint32":
		v, ok := x.(uint32)
		if !ok {
			return assignTypeError(f, x)
		}
		binary.LittleEndian.PutUint32(p.B, v)
		return nil
	case "int64":
		v, ok := x.(int64)
		if !ok {
			return assignTypeError(f, x)
		}
		binary.LittleEndian.PutUint64(p.B, uint64(v))
		return nil
	case "uint64":
		v, ok := x.(uint64)
		if !ok {
			return assignTypeError(f, x)
		}
		binary.LittleEndian.PutUint64(p.B, v)
		return nil
	case "float32":
		v, ok := x.(float32)
		if !ok {
			return assignTypeError(f, x)
		}
		binary.LittleEndian.PutUint32(p.B, math.Float32bits(v))
		return nil
	case "float64":
		v, ok := x.(float64)
		if !ok {
			return assignTypeError(f, x)
		}
		binary.LittleEndian.PutUint64(p.B, math.Float64bits(v))
		return nil
	default:
		return fmt.Errorf("%w: assign on %q", ErrUnsupported, f.QualifiedName())
	}
}

func (f *ScalarField) extract(p slot.Ptr) (any, error) {
	switch f.scalar {
	case "bool":
		return p.B[0] != 0, nil
	case "byte", "uint8":
		return p.B[0], nil
	case "int8":
		return int8(p.B[0]), nil
	case "int16":
		return int16(binary.LittleEndian.Uint16(p.B)), nil
	case "uint16":
		return binary.LittleEndian.Uint16(p.B), nil
	case "int32":
		return int32(binary.LittleEndian.Uint32(p.B)), nil
	case "uint32":
		return binary.LittleEndian.Uint32(p.B), nil
	case "int64":
		return int64(binary.LittleEndian.Uint64(p.B)), nil
	case "uint64":
		return binary.LittleEndian.Uint64(p.B), nil
	case "float32":
		return math.Float32frombits(binary.LittleEndian.Uint32(p.B)), nil
	case "float64":
		return math.Float64frombits(binary.LittleEndian.Uint64(p.B)), nil
	default:
		return nil, fmt.Errorf("%w: extract on %q", ErrUnsupported, f.QualifiedName())
	}
}

func assignTypeError(f Field, x any) error {
	return fmt.Errorf("%w: cannot assign %T to %q (%s)", ErrUnsupported, x, f.base().QualifiedName(), f.TypeName())
}

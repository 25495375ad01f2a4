package registry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownType is returned when a type name cannot be resolved.
var ErrUnknownType = errors.New("registry: unknown type")

// Kind is the structural kind of a described type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindRecord
	KindFixedArray
	KindVector
	KindOptional
	KindVariant
	KindEnum
	KindBitset
	KindSet
	KindAtomic
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInt8:
		return "Int8"
	case KindInt16:
		return "Int16"
	case KindInt32:
		return "Int32"
	case KindInt64:
		return "Int64"
	case KindUint8:
		return "Uint8"
	case KindUint16:
		return "Uint16"
	case KindUint32:
		return "Uint32"
	case KindUint64:
		return "Uint64"
	case KindFloat32:
		return "Float32"
	case KindFloat64:
		return "Float64"
	case KindString:
		return "String"
	case KindRecord:
		return "Record"
	case KindFixedArray:
		return "FixedArray"
	case KindVector:
		return "Vector"
	case KindOptional:
		return "Optional"
	case KindVariant:
		return "Variant"
	case KindEnum:
		return "Enum"
	case KindBitset:
		return "Bitset"
	case KindSet:
		return "Set"
	case KindAtomic:
		return "Atomic"
	default:
		return "Invalid"
	}
}

// Member describes one member of a record (or one arm of a variant).
// IsBase marks members inherited from a base type; they precede regular
// members in declaration order.
type Member struct {
	Name     string
	TypeName string
	IsBase   bool
}

// TypeDesc is the structural description of one named type.
type TypeDesc struct {
	Name    string
	Kind    Kind
	Version uint32
	// Members lists record members or variant arms in declaration order.
	Members []Member
	// Elem names the element type of array, vector, optional, set and
	// atomic kinds.
	Elem string
	// Len is the fixed array length or the bitset bit count.
	Len uint64
	// Underlying names the integer base type of an enum.
	Underlying string
}

// Registry resolves type names to their structural description.
type Registry interface {
	Lookup(name string) (TypeDesc, error)
}

// MapRegistry is a Registry over explicitly registered descriptions. It is
// safe for concurrent use.
type MapRegistry struct {
	mu    sync.RWMutex
	types map[string]TypeDesc
}

// NewMapRegistry creates an empty registry.
func NewMapRegistry() *MapRegistry {
	return &MapRegistry{types: make(map[string]TypeDesc)}
}

// Register adds or replaces a type description.
func (r *MapRegistry) Register(desc TypeDesc) error {
	if desc.Name == "" {
		return fmt.Errorf("registry: type description without a name")
	}
	if desc.Kind == KindInvalid {
		return fmt.Errorf("registry: type %q has no kind", desc.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[desc.Name] = desc
	return nil
}

// Lookup implements Registry.
func (r *MapRegistry) Lookup(name string) (TypeDesc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.types[name]
	if !ok {
		return TypeDesc{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return desc, nil
}

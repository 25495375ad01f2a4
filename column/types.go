package column

// Type is the on-disk element encoding of a column.
type Type uint8

const (
	TypeUnknown Type = iota
	// TypeBit stores one boolean per element. Page stores may bit-pack it;
	// at the codec boundary an element is one byte holding 0 or 1.
	TypeBit
	// TypeByte stores one opaque byte per element.
	TypeByte
	// TypeChar stores one byte of string payload per element.
	TypeChar
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUInt8
	TypeUInt16
	TypeUInt32
	TypeUInt64
	TypeReal32
	TypeReal64
	// TypeIndex32 and TypeIndex64 store cumulative item counts for
	// collection fields, reset at cluster boundaries.
	TypeIndex32
	TypeIndex64
	// TypeSwitch stores a (item index, tag) pair for variant fields.
	TypeSwitch
)

// String returns the string representation of the Type.
func (t Type) String() string {
	switch t {
	case TypeBit:
		return "Bit"
	case TypeByte:
		return "Byte"
	case TypeChar:
		return "Char"
	case TypeInt8:
		return "Int8"
	case TypeInt16:
		return "Int16"
	case TypeInt32:
		return "Int32"
	case TypeInt64:
		return "Int64"
	case TypeUInt8:
		return "UInt8"
	case TypeUInt16:
		return "UInt16"
	case TypeUInt32:
		return "UInt32"
	case TypeUInt64:
		return "UInt64"
	case TypeReal32:
		return "Real32"
	case TypeReal64:
		return "Real64"
	case TypeIndex32:
		return "Index32"
	case TypeIndex64:
		return "Index64"
	case TypeSwitch:
		return "Switch"
	default:
		return "Unknown"
	}
}

// PackedSize returns the on-disk size of one element in bytes.
func (t Type) PackedSize() int {
	switch t {
	case TypeBit, TypeByte, TypeChar, TypeInt8, TypeUInt8:
		return 1
	case TypeInt16, TypeUInt16:
		return 2
	case TypeInt32, TypeUInt32, TypeReal32, TypeIndex32:
		return 4
	case TypeInt64, TypeUInt64, TypeReal64, TypeIndex64:
		return 8
	case TypeSwitch:
		return switchPackedSize
	default:
		return 0
	}
}

// IsOffset reports whether the type carries cumulative collection offsets.
func (t Type) IsOffset() bool {
	return t == TypeIndex32 || t == TypeIndex64
}

func (t Type) signed() bool {
	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return true
	default:
		return false
	}
}

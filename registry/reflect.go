package registry

import (
	"fmt"
	"reflect"
)

// FromStruct derives type descriptions from a Go struct type and registers
// them, returning the name under which the root type was registered.
//
// Structs map to records (embedded structs become base members), slices to
// vectors, fixed-size arrays to fixed arrays and pointers to optionals.
// Supported leaves are bool, the fixed-width integers, floats and string.
// Maps, channels, interfaces and funcs have no columnar mapping and are
// rejected.
func FromStruct(r *MapRegistry, v any) (string, error) {
	rt := reflect.TypeOf(v)
	if rt == nil {
		return "", fmt.Errorf("registry: cannot describe nil")
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return "", fmt.Errorf("registry: %v is not a struct", rt)
	}
	return describe(r, rt)
}

func describe(r *MapRegistry, rt reflect.Type) (string, error) {
	switch rt.Kind() {
	case reflect.Bool:
		return "bool", nil
	case reflect.Int8:
		return "int8", nil
	case reflect.Int16:
		return "int16", nil
	case reflect.Int32:
		return "int32", nil
	case reflect.Int64:
		return "int64", nil
	case reflect.Uint8:
		return "uint8", nil
	case reflect.Uint16:
		return "uint16", nil
	case reflect.Uint32:
		return "uint32", nil
	case reflect.Uint64:
		return "uint64", nil
	case reflect.Float32:
		return "float32", nil
	case reflect.Float64:
		return "float64", nil
	case reflect.String:
		return "string", nil
	case reflect.Struct:
		return describeStruct(r, rt)
	case reflect.Slice:
		elem, err := describe(r, rt.Elem())
		if err != nil {
			return "", err
		}
		name := "[]" + elem
		if err := r.Register(TypeDesc{Name: name, Kind: KindVector, Elem: elem}); err != nil {
			return "", err
		}
		return name, nil
	case reflect.Array:
		elem, err := describe(r, rt.Elem())
		if err != nil {
			return "", err
		}
		name := fmt.Sprintf("[%d]%s", rt.Len(), elem)
		if err := r.Register(TypeDesc{Name: name, Kind: KindFixedArray, Elem: elem, Len: uint64(rt.Len())}); err != nil {
			return "", err
		}
		return name, nil
	case reflect.Pointer:
		elem, err := describe(r, rt.Elem())
		if err != nil {
			return "", err
		}
		name := "*" + elem
		if err := r.Register(TypeDesc{Name: name, Kind: KindOptional, Elem: elem}); err != nil {
			return "", err
		}
		return name, nil
	default:
		return "", fmt.Errorf("registry: unsupported kind %v", rt.Kind())
	}
}

func describeStruct(r *MapRegistry, rt reflect.Type) (string, error) {
	name := rt.Name()
	if name == "" {
		return "", fmt.Errorf("registry: anonymous structs are not supported")
	}
	if pkg := rt.PkgPath(); pkg != "" {
		name = pkg + "." + name
	}
	if _, err := r.Lookup(name); err == nil {
		return name, nil
	}
	desc := TypeDesc{Name: name, Kind: KindRecord}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		memberType, err := describe(r, sf.Type)
		if err != nil {
			return "", fmt.Errorf("%v.%s: %w", rt, sf.Name, err)
		}
		desc.Members = append(desc.Members, Member{
			Name:     sf.Name,
			TypeName: memberType,
			IsBase:   sf.Anonymous,
		})
	}
	if err := r.Register(desc); err != nil {
		return "", err
	}
	return name, nil
}

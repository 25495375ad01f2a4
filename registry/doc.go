// Package registry is the type-registry collaborator of the field engine:
// given a type name, it returns the structural description the engine needs
// to build a field tree, without tying the engine to any live reflection
// machinery.
//
// MapRegistry holds explicitly registered type descriptions. FromStruct
// derives descriptions from Go struct types via reflection and registers
// them, covering the common case of mapping existing Go data models.
package registry

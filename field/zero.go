package field

import (
	"github.com/colobj/colobj/descriptor"
)

// ZeroField is the nameless root of a field tree. It owns the top-level
// fields, has no columns and no storage of its own, and is recorded in the
// descriptor so that top-level fields have a parent to resolve against.
type ZeroField struct {
	Base
}

// NewZeroField creates an empty tree root.
func NewZeroField() *ZeroField {
	f := &ZeroField{}
	f.self = f
	f.structure = descriptor.StructureRecord
	f.traits = TraitTrivial
	f.align = 1
	f.onDiskID = descriptor.InvalidFieldID
	f.onDiskTypeVersion = descriptor.InvalidTypeVersion
	f.updateSimple()
	return f
}

// Attach adds a top-level field to the tree.
func (f *ZeroField) Attach(child Field) {
	f.attach(child)
}

func (f *ZeroField) cloneImpl(newName string) (Field, error) {
	clone := NewZeroField()
	for _, child := range f.subFields {
		c, err := cloneSubField(child)
		if err != nil {
			return nil, err
		}
		clone.attach(c)
	}
	return clone, nil
}

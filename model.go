package colobj

import (
	"fmt"

	"github.com/colobj/colobj/field"
	"github.com/colobj/colobj/registry"
)

// Model declares the schema of a store: an ordered set of named top-level
// fields, each the root of a field tree. A model is mutable until the first
// writer or reader is created from it; from then on it is frozen and only
// usable for creating entries and further sessions.
type Model struct {
	registry *registry.MapRegistry
	root     *field.ZeroField
	frozen   bool
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		registry: registry.NewMapRegistry(),
		root:     field.NewZeroField(),
	}
}

// Registry returns the type registry backing MakeField.
func (m *Model) Registry() *registry.MapRegistry { return m.registry }

// AddField adds a prebuilt field tree as a top-level field.
func (m *Model) AddField(f field.Field) error {
	if m.frozen {
		return ErrFrozen
	}
	for _, existing := range m.root.SubFields() {
		if existing.Name() == f.Name() {
			return fmt.Errorf("%w: %q", ErrDuplicateField, f.Name())
		}
	}
	m.root.Attach(f)
	return nil
}

// MakeField builds a field tree for the given type name and adds it as a
// top-level field. Scalar and string names resolve directly; other types
// must be registered first, e.g. through RegisterStruct.
func (m *Model) MakeField(name, typeName string) (field.Field, error) {
	f, err := field.Build(name, typeName, m.registry)
	if err != nil {
		return nil, err
	}
	if err := m.AddField(f); err != nil {
		return nil, err
	}
	return f, nil
}

// RegisterStruct derives type descriptions from a Go struct and registers
// them, returning the registered type name for use with MakeField.
func (m *Model) RegisterStruct(v any) (string, error) {
	if m.frozen {
		return "", ErrFrozen
	}
	return registry.FromStruct(m.registry, v)
}

// Fields returns the top-level fields in declaration order.
func (m *Model) Fields() []field.Field {
	return m.root.SubFields()
}

// Frozen reports whether the model still accepts schema changes.
func (m *Model) Frozen() bool { return m.frozen }

// freeze marks the model immutable. Called by writer and reader creation.
func (m *Model) freeze() { m.frozen = true }

// cloneRoot deep-copies the field tree for a new connected session.
func (m *Model) cloneRoot() (*field.ZeroField, error) {
	clone, err := m.root.Clone("")
	if err != nil {
		return nil, err
	}
	return clone.(*field.ZeroField), nil
}

// NewEntry creates an entry with one default constructed value per
// top-level field. The entry binds to the model's schema, not to any
// session; the same entry works with every writer or reader of this model.
func (m *Model) NewEntry() *Entry {
	fields := m.root.SubFields()
	e := &Entry{
		model:  m,
		byName: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		e.values = append(e.values, f.GenerateValue())
		e.byName[f.Name()] = i
	}
	return e
}

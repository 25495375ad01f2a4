package colobj

import (
	"fmt"

	"github.com/colobj/colobj/field"
)

// Entry holds one value per top-level field of a model. Entries belong to
// the model, not to a session: the same entry can be filled through a
// writer and overwritten through a reader of that model.
type Entry struct {
	model  *Model
	values []*field.Value
	byName map[string]int
}

// Value returns the value handle of the named top-level field.
func (e *Entry) Value(name string) (*field.Value, error) {
	i, ok := e.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntryField, name)
	}
	return e.values[i], nil
}

// Set assigns x to the named top-level field.
func (e *Entry) Set(name string, x any) error {
	v, err := e.Value(name)
	if err != nil {
		return err
	}
	return v.Set(x)
}

// Get extracts the value of the named top-level field.
func (e *Entry) Get(name string) (any, error) {
	v, err := e.Value(name)
	if err != nil {
		return nil, err
	}
	return v.Get()
}

// Destroy releases all values of the entry.
func (e *Entry) Destroy() {
	for _, v := range e.values {
		v.Destroy()
	}
	e.values = nil
}

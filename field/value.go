package field

import (
	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/internal/slot"
)

// Value is a handle to one in-memory value of a field's type. Owning values
// (from GenerateValue) manage the slot and its out-of-line storage and must
// be released with Destroy; non-owning values (from BindValue or SplitValue)
// wrap memory managed elsewhere.
type Value struct {
	field  Field
	ptr    slot.Ptr
	owning bool
}

// Field returns the field this value belongs to.
func (v *Value) Field() Field { return v.field }

// Ptr returns the value's slot.
func (v *Value) Ptr() slot.Ptr { return v.ptr }

// IsOwning reports whether the value owns its slot.
func (v *Value) IsOwning() bool { return v.owning }

// Append serializes the value and returns the number of packed bytes
// appended across the field's columns.
func (v *Value) Append() (int, error) {
	return v.field.base().append(v.ptr)
}

// Read fills the value from the element at the given global index.
func (v *Value) Read(index column.GlobalIndex) error {
	return v.field.base().read(index, v.ptr)
}

// ReadInCluster fills the value from the element at the given in-cluster
// index.
func (v *Value) ReadInCluster(index column.ClusterIndex) error {
	return v.field.base().readInCluster(index, v.ptr)
}

// Set copies x into the value. The accepted dynamic types depend on the
// field kind, e.g. int64 for integer leaves or string for string fields.
func (v *Value) Set(x any) error {
	return v.field.assign(v.ptr, x)
}

// Get extracts the value into a Go representation chosen by the field kind.
func (v *Value) Get() (any, error) {
	return v.field.extract(v.ptr)
}

// NonOwningCopy returns a handle to the same slot that does not manage its
// lifetime.
func (v *Value) NonOwningCopy() *Value {
	return &Value{field: v.field, ptr: v.ptr}
}

// Release detaches an owning value from its slot without destroying it,
// turning it non-owning. The caller takes over lifetime management.
func (v *Value) Release() slot.Ptr {
	v.owning = false
	return v.ptr
}

// Destroy tears down the held instance and frees the slot of an owning
// value. Calling it on a non-owning or already destroyed value is a no-op.
func (v *Value) Destroy() {
	if !v.owning || v.ptr.B == nil {
		return
	}
	v.field.destroy(v.ptr)
	v.ptr = slot.Ptr{}
	v.owning = false
}

package field

import (
	"fmt"
	"iter"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
	"github.com/colobj/colobj/pagestore"
)

// Trait is a bitmask of type properties that enable fast paths.
type Trait uint8

const (
	// TraitTriviallyConstructible marks types for which all-zero memory is
	// a valid default value, making construct a no-op on zeroed slots.
	TraitTriviallyConstructible Trait = 1 << iota
	// TraitTriviallyDestructible marks types that own no out-of-line
	// storage, making destroy a no-op.
	TraitTriviallyDestructible
	// TraitMappable marks leaf types whose slot maps as-is onto a single
	// column element.
	TraitMappable
)

// TraitTrivial is the shorthand for trivially constructible and
// destructible types.
const TraitTrivial = TraitTriviallyConstructible | TraitTriviallyDestructible

// State tracks the connection of a field's columns. Both connected states
// are terminal: a field is reused for a new session by cloning, never by
// reconnecting.
type State uint8

const (
	StateUnconnected State = iota
	StateConnectedToSink
	StateConnectedToSource
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "Unconnected"
	case StateConnectedToSink:
		return "ConnectedToSink"
	case StateConnectedToSource:
		return "ConnectedToSource"
	default:
		return "Unknown"
	}
}

// ReadCallback inspects or post-processes a freshly read value. Registering
// one disables the field's simple fast path.
type ReadCallback func(p slot.Ptr)

// Field is a node of the object-to-column mapping tree. The concrete field
// kinds form a closed set within this package; behavior is composed through
// the embedded Base and a small set of internal hooks rather than open
// subclassing.
type Field interface {
	// Name returns the field name relative to its parent.
	Name() string
	// TypeName returns the semantic type captured by this field.
	TypeName() string
	// TypeAlias returns the alias the field was declared with, if any.
	TypeAlias() string
	// Description returns free text set by the user.
	Description() string
	// SetDescription attaches free text to the field.
	SetDescription(desc string)
	// Structure returns the structural role of the field.
	Structure() descriptor.Structure
	// NRepetitions returns the fixed repetition count for fixed-size
	// arrays and bitsets, zero otherwise.
	NRepetitions() uint64
	// ValueSize returns the slot size of one value in bytes. It is always
	// a multiple of Alignment.
	ValueSize() int
	// Alignment returns the slot alignment in bytes (a power of two).
	Alignment() int
	// Traits returns the trait bitmask of the field's type.
	Traits() Trait
	// State returns the connection state.
	State() State
	// OnDiskID returns the descriptor field ID; valid only once connected.
	OnDiskID() descriptor.FieldID
	// SetOnDiskID primes the on-disk ID before ConnectPageSource, e.g. for
	// top-level fields resolved by the caller.
	SetOnDiskID(id descriptor.FieldID)
	// OnDiskTypeVersion returns the type version found in the descriptor
	// after ConnectPageSource.
	OnDiskTypeVersion() uint32
	// Parent returns the owning field, nil for roots. The back-reference
	// is non-owning.
	Parent() Field
	// SubFields returns the owned children in declaration order.
	SubFields() []Field

	// GenerateValue allocates a slot, default-constructs an instance in
	// place and returns the owning handle.
	GenerateValue() *Value
	// BindValue wraps externally owned, already constructed memory in a
	// non-owning handle.
	BindValue(p slot.Ptr) *Value
	// SplitValue returns one non-owning handle per logical sub-component
	// of the bound value. Leaf fields return nil.
	SplitValue(v *Value) []*Value
	// NewBulk creates a bulk read handle for this field.
	NewBulk() *Bulk

	// Clone deep-copies the subtree with fresh, unconnected columns. The
	// on-disk ID is preserved, the connection state reset.
	Clone(newName string) (Field, error)

	// ConnectPageSink connects the field's columns (and recursively its
	// children's) for writing. firstEntry is the entry index at which the
	// field starts participating, non-zero for late model extensions.
	// On failure the tree may be left partially connected and cannot be
	// reused; retry with a fresh Clone.
	ConnectPageSink(sink pagestore.Sink, firstEntry column.GlobalIndex) error
	// ConnectPageSource connects the field's columns for reading, after
	// verifying the on-disk encoding against the accepted representations.
	ConnectPageSource(src pagestore.Source) error
	// CommitCluster flushes per-cluster transient counters and recurses
	// into sub-fields.
	CommitCluster() error

	// SetColumnRepresentative pins the write representation. Only valid
	// before connecting.
	SetColumnRepresentative(rep column.Representation) error
	// ColumnRepresentative returns the pinned or default write
	// representation.
	ColumnRepresentative() column.Representation

	// AddReadCallback registers fn to run after each read and returns an
	// index usable with RemoveReadCallback.
	AddReadCallback(fn ReadCallback) int
	// RemoveReadCallback unregisters a callback by index.
	RemoveReadCallback(idx int)

	// internal hooks; their presence closes the set of implementations.
	base() *Base
	representations() column.Representations
	genColumns() error
	genColumnsOnDisk(src pagestore.Source) error
	construct(p slot.Ptr)
	destroy(p slot.Ptr)
	appendImpl(from slot.Ptr) (int, error)
	readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error
	readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error
	readBulkImpl(spec *BulkSpec) (int, error)
	commitClusterImpl() error
	onConnectPageSource() error
	splitImpl(v *Value) []*Value
	assign(p slot.Ptr, x any) error
	extract(p slot.Ptr) (any, error)
	cloneImpl(newName string) (Field, error)
}

// Base carries the state and generic behavior shared by all field kinds.
// Concrete fields embed it and override the hooks they need; Base calls
// back into the concrete field through the self reference.
type Base struct {
	self         Field
	name         string
	typeName     string
	typeAlias    string
	description  string
	structure    descriptor.Structure
	nRepetitions uint64
	size         int
	align        int
	traits       Trait
	isSimple     bool
	typeVersion  uint32

	parent    Field
	subFields []Field

	columns   []*column.Column
	principal *column.Column

	state             State
	onDiskID          descriptor.FieldID
	onDiskTypeVersion uint32
	firstEntry        column.GlobalIndex

	representative column.Representation
	readCallbacks  []ReadCallback
}

func (b *Base) init(self Field, name, typeName string, structure descriptor.Structure, size, align int, traits Trait) error {
	if err := validateName(name); err != nil {
		return err
	}
	b.self = self
	b.name = name
	b.typeName = typeName
	b.structure = structure
	b.size = size
	b.align = align
	b.traits = traits
	b.onDiskID = descriptor.InvalidFieldID
	b.onDiskTypeVersion = descriptor.InvalidTypeVersion
	b.updateSimple()
	return nil
}

// attach adds a child, transferring ownership to this field.
func (b *Base) attach(child Field) {
	child.base().parent = b.self
	b.subFields = append(b.subFields, child)
}

func (b *Base) updateSimple() {
	b.isSimple = b.traits&TraitMappable != 0 && len(b.readCallbacks) == 0
}

func (b *Base) Name() string                    { return b.name }
func (b *Base) TypeName() string                { return b.typeName }
func (b *Base) TypeAlias() string               { return b.typeAlias }
func (b *Base) Description() string             { return b.description }
func (b *Base) SetDescription(desc string)      { b.description = desc }
func (b *Base) Structure() descriptor.Structure { return b.structure }
func (b *Base) NRepetitions() uint64            { return b.nRepetitions }
func (b *Base) ValueSize() int                  { return b.size }
func (b *Base) Alignment() int                  { return b.align }
func (b *Base) Traits() Trait                   { return b.traits }
func (b *Base) State() State                    { return b.state }
func (b *Base) OnDiskID() descriptor.FieldID    { return b.onDiskID }
func (b *Base) OnDiskTypeVersion() uint32       { return b.onDiskTypeVersion }
func (b *Base) Parent() Field                   { return b.parent }

func (b *Base) SetOnDiskID(id descriptor.FieldID) { b.onDiskID = id }

func (b *Base) SubFields() []Field {
	return append([]Field(nil), b.subFields...)
}

// QualifiedName returns the dot-separated path from the root field.
func (b *Base) QualifiedName() string {
	if b.parent == nil || b.parent.Name() == "" {
		return b.name
	}
	return b.parent.base().QualifiedName() + "." + b.name
}

// GenerateValue implements Field.
func (b *Base) GenerateValue() *Value {
	p := slot.NewPtr(b.size)
	b.self.construct(p)
	return &Value{field: b.self, ptr: p, owning: true}
}

// BindValue implements Field.
func (b *Base) BindValue(p slot.Ptr) *Value {
	return &Value{field: b.self, ptr: p}
}

// SplitValue implements Field.
func (b *Base) SplitValue(v *Value) []*Value {
	return b.self.splitImpl(v)
}

// NewBulk implements Field.
func (b *Base) NewBulk() *Bulk {
	return &Bulk{
		field:     b.self,
		valueSize: b.size,
		arena:     slot.Ptr{H: slot.NewHeap()},
		first:     column.InvalidClusterIndex,
	}
}

// Clone implements Field.
func (b *Base) Clone(newName string) (Field, error) {
	clone, err := b.self.cloneImpl(newName)
	if err != nil {
		return nil, err
	}
	nb := clone.base()
	nb.typeAlias = b.typeAlias
	nb.description = b.description
	nb.onDiskID = b.onDiskID
	if b.representative != nil {
		nb.representative = append(column.Representation(nil), b.representative...)
	}
	return clone, nil
}

// SetColumnRepresentative implements Field.
func (b *Base) SetColumnRepresentative(rep column.Representation) error {
	if b.state != StateUnconnected {
		return fmt.Errorf("%w: representation of %q cannot change after connecting", ErrInvariant, b.name)
	}
	if !b.self.representations().CanSerialize(rep) {
		return fmt.Errorf("%w: representation %s not valid for %q", ErrUnsupported, formatRepresentation(rep), b.name)
	}
	b.representative = append(column.Representation(nil), rep...)
	return nil
}

// ColumnRepresentative implements Field.
func (b *Base) ColumnRepresentative() column.Representation {
	if b.representative != nil {
		return b.representative
	}
	return b.self.representations().SerializationDefault()
}

// AddReadCallback implements Field.
func (b *Base) AddReadCallback(fn ReadCallback) int {
	b.readCallbacks = append(b.readCallbacks, fn)
	b.updateSimple()
	return len(b.readCallbacks) - 1
}

// RemoveReadCallback implements Field.
func (b *Base) RemoveReadCallback(idx int) {
	if idx < 0 || idx >= len(b.readCallbacks) {
		return
	}
	b.readCallbacks[idx] = nil
	allNil := true
	for _, fn := range b.readCallbacks {
		if fn != nil {
			allNil = false
			break
		}
	}
	if allNil {
		b.readCallbacks = nil
	}
	b.updateSimple()
}

func (b *Base) invokeReadCallbacks(p slot.Ptr) {
	for _, fn := range b.readCallbacks {
		if fn != nil {
			fn(p)
		}
	}
}

// ConnectPageSink implements Field.
func (b *Base) ConnectPageSink(sink pagestore.Sink, firstEntry column.GlobalIndex) error {
	if b.state != StateUnconnected {
		return fmt.Errorf("%w: field %q is already %s", ErrInvariant, b.QualifiedName(), b.state)
	}
	if err := b.self.genColumns(); err != nil {
		return err
	}
	parentID := descriptor.InvalidFieldID
	if b.parent != nil {
		parentID = b.parent.OnDiskID()
	}
	rec := descriptor.FieldRecord{
		Parent:       parentID,
		Name:         b.name,
		TypeName:     b.typeName,
		TypeAlias:    b.typeAlias,
		TypeVersion:  b.typeVersion,
		Structure:    b.structure,
		NRepetitions: b.nRepetitions,
	}
	types := make(column.Representation, len(b.columns))
	for i, c := range b.columns {
		types[i] = c.Type()
	}
	handles, err := sink.Create(&rec, types)
	if err != nil {
		b.columns = nil
		b.principal = nil
		return err
	}
	for i, c := range b.columns {
		c.ConnectSink(handles[i], sink)
	}
	b.onDiskID = rec.ID
	b.firstEntry = firstEntry
	b.state = StateConnectedToSink
	// A child failure leaves this field connected; the sink already holds
	// its schema record, so callers recover with a fresh Clone.
	for _, child := range b.subFields {
		if err := child.ConnectPageSink(sink, firstEntry); err != nil {
			return err
		}
	}
	return nil
}

// ConnectPageSource implements Field.
func (b *Base) ConnectPageSource(src pagestore.Source) error {
	if b.state != StateUnconnected {
		return fmt.Errorf("%w: field %q is already %s", ErrInvariant, b.QualifiedName(), b.state)
	}
	desc := src.Descriptor()
	if b.onDiskID == descriptor.InvalidFieldID {
		parentID := descriptor.InvalidFieldID
		if b.parent != nil {
			parentID = b.parent.OnDiskID()
		}
		rec, err := desc.FindField(parentID, b.name)
		if err != nil {
			return err
		}
		b.onDiskID = rec.ID
	}
	rec, err := desc.Field(b.onDiskID)
	if err != nil {
		return err
	}
	b.onDiskTypeVersion = rec.TypeVersion
	if err := b.self.genColumnsOnDisk(src); err != nil {
		return err
	}
	for _, child := range b.subFields {
		if err := child.ConnectPageSource(src); err != nil {
			return err
		}
	}
	b.state = StateConnectedToSource
	return b.self.onConnectPageSource()
}

// CommitCluster implements Field.
func (b *Base) CommitCluster() error {
	if err := b.self.commitClusterImpl(); err != nil {
		return err
	}
	for _, child := range b.subFields {
		if err := child.CommitCluster(); err != nil {
			return err
		}
	}
	return nil
}

// PrincipalColumn returns the column used for index translation, nil for
// columnless fields.
func (b *Base) PrincipalColumn() *column.Column { return b.principal }

// makeColumns creates unconnected write-side columns for the given
// representation. memSizes lists the in-memory word size per column.
func (b *Base) makeColumns(rep column.Representation, memSizes ...int) {
	b.columns = make([]*column.Column, len(rep))
	for i, t := range rep {
		b.columns[i] = column.New(t, memSizes[i], uint32(i))
	}
	if len(b.columns) > 0 {
		b.principal = b.columns[0]
	}
}

// bindColumnsOnDisk verifies the stored encoding of this field against the
// accepted read representations and creates source-connected columns for
// it. memSizes lists the in-memory word size per column.
func (b *Base) bindColumnsOnDisk(src pagestore.Source, memSizes ...int) error {
	handles, types, err := src.ColumnHandles(b.onDiskID)
	if err != nil {
		return err
	}
	reps := b.self.representations()
	if !reps.CanDeserialize(types) {
		return &SchemaMismatchError{
			FieldName: b.QualifiedName(),
			OnDisk:    types,
			Accepted:  reps.Deserialization(),
		}
	}
	b.makeColumns(types, memSizes...)
	for i, c := range b.columns {
		c.ConnectSource(handles[i], src)
	}
	return nil
}

// append dispatches a write, taking the mappable fast path when available.
func (b *Base) append(from slot.Ptr) (int, error) {
	if b.traits&TraitMappable == 0 {
		return b.self.appendImpl(from)
	}
	return b.principal.Append(from.B)
}

// read dispatches a global-index read.
func (b *Base) read(index column.GlobalIndex, to slot.Ptr) error {
	if b.isSimple {
		return b.principal.Read(index, to.B)
	}
	var err error
	if b.traits&TraitMappable != 0 {
		err = b.principal.Read(index, to.B)
	} else {
		err = b.self.readGlobalImpl(index, to)
	}
	if err != nil {
		return err
	}
	b.invokeReadCallbacks(to)
	return nil
}

// readInCluster dispatches an in-cluster read.
func (b *Base) readInCluster(index column.ClusterIndex, to slot.Ptr) error {
	if b.isSimple {
		return b.principal.ReadInCluster(index, to.B)
	}
	var err error
	if b.traits&TraitMappable != 0 {
		err = b.principal.ReadInCluster(index, to.B)
	} else {
		err = b.self.readInClusterImpl(index, to)
	}
	if err != nil {
		return err
	}
	b.invokeReadCallbacks(to)
	return nil
}

// readBulk dispatches a bulk read. Simple fields ignore the masks and copy
// the whole range through the vectorized column read.
func (b *Base) readBulk(spec *BulkSpec) (int, error) {
	if b.isSimple {
		if err := b.principal.ReadV(spec.FirstIndex, uint64(spec.Count), spec.Values.B); err != nil {
			return 0, err
		}
		for i := range spec.Count {
			spec.MaskAvail[i] = true
		}
		return AllSet, nil
	}
	return b.self.readBulkImpl(spec)
}

// Hook defaults. Concrete fields override what they need; cloneImpl has no
// default so that every field kind must provide one.

func (b *Base) base() *Base { return b }

func (b *Base) representations() column.Representations { return column.Representations{} }

func (b *Base) genColumns() error { return nil }

func (b *Base) genColumnsOnDisk(src pagestore.Source) error { return nil }

// construct assumes p is zeroed, which is a valid default for trivially
// constructible types.
func (b *Base) construct(p slot.Ptr) {}

func (b *Base) destroy(p slot.Ptr) {}

func (b *Base) appendImpl(from slot.Ptr) (int, error) {
	return 0, fmt.Errorf("%w: append on %q", ErrUnsupported, b.QualifiedName())
}

func (b *Base) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	return fmt.Errorf("%w: read on %q", ErrUnsupported, b.QualifiedName())
}

// readInClusterImpl translates through the principal column by default.
func (b *Base) readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error {
	if b.principal == nil {
		return fmt.Errorf("%w: read on %q", ErrUnsupported, b.QualifiedName())
	}
	g, err := b.principal.GlobalOf(index)
	if err != nil {
		return err
	}
	return b.self.readGlobalImpl(g, to)
}

// readBulkImpl loops over the requested range and reads the values that are
// required and not yet available.
func (b *Base) readBulkImpl(spec *BulkSpec) (int, error) {
	var nRead int
	for i := range spec.Count {
		if !spec.Required(i) || spec.MaskAvail[i] {
			continue
		}
		idx := column.ClusterIndex{Cluster: spec.FirstIndex.Cluster, Index: spec.FirstIndex.Index + uint64(i)}
		if err := b.readInCluster(idx, spec.ValueAt(i)); err != nil {
			return nRead, err
		}
		spec.MaskAvail[i] = true
		nRead++
	}
	return nRead, nil
}

func (b *Base) commitClusterImpl() error { return nil }

func (b *Base) onConnectPageSource() error { return nil }

func (b *Base) splitImpl(v *Value) []*Value { return nil }

func (b *Base) assign(p slot.Ptr, x any) error {
	return fmt.Errorf("%w: cannot assign to %q (%s)", ErrUnsupported, b.QualifiedName(), b.typeName)
}

func (b *Base) extract(p slot.Ptr) (any, error) {
	return nil, fmt.Errorf("%w: cannot extract from %q (%s)", ErrUnsupported, b.QualifiedName(), b.typeName)
}

// Walk iterates the field subtree rooted at f in depth-first pre-order,
// including f itself.
func Walk(f Field) iter.Seq[Field] {
	return func(yield func(Field) bool) {
		walk(f, yield)
	}
}

func walk(f Field, yield func(Field) bool) bool {
	if !yield(f) {
		return false
	}
	for _, child := range f.base().subFields {
		if !walk(child, yield) {
			return false
		}
	}
	return true
}

// cloneSubField clones a child for use in a cloneImpl implementation.
func cloneSubField(f Field) (Field, error) {
	return f.Clone(f.Name())
}

package field

import (
	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
	"github.com/colobj/colobj/pagestore"
)

// String and vector slots share one layout: a cell reference for the
// out-of-line payload followed by a 32 bit item count. An all-zero slot is
// the empty string or vector.
const (
	refOffset  = 0
	lenOffset  = 4
	headerSize = 8
)

var stringReps = column.NewRepresentations([]column.Representation{
	{column.TypeIndex64, column.TypeChar},
	{column.TypeIndex32, column.TypeChar},
})

// StringField maps variable-length byte strings onto an offset column and a
// character payload column.
type StringField struct {
	Base
	nWritten uint64
}

// NewStringField creates a string leaf field.
func NewStringField(name string) (*StringField, error) {
	f := &StringField{}
	if err := f.init(f, name, "string", descriptor.StructureLeaf, headerSize, 4, TraitTriviallyConstructible); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *StringField) representations() column.Representations { return stringReps }

func (f *StringField) genColumns() error {
	f.makeColumns(f.ColumnRepresentative(), 8, 1)
	return nil
}

func (f *StringField) genColumnsOnDisk(src pagestore.Source) error {
	return f.bindColumnsOnDisk(src, 8, 1)
}

func (f *StringField) cloneImpl(newName string) (Field, error) {
	return NewStringField(newName)
}

func (f *StringField) destroy(p slot.Ptr) {
	p.H.Free(slot.GetRef(p.B[refOffset:]))
	clear(p.B)
}

func (f *StringField) appendImpl(from slot.Ptr) (int, error) {
	n := int(slot.GetLen(from.B[lenOffset:]))
	var payload []byte
	if n > 0 {
		payload = from.Cell(refOffset).B[:n]
	}
	var nbytes int
	for i := 0; i < n; i++ {
		nb, err := f.columns[1].Append(payload[i : i+1])
		if err != nil {
			return nbytes, err
		}
		nbytes += nb
	}
	f.nWritten += uint64(n)
	var word [8]byte
	slot.PutUint64(word[:], f.nWritten)
	nb, err := f.columns[0].Append(word[:])
	if err != nil {
		return nbytes, err
	}
	return nbytes + nb, nil
}

func (f *StringField) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	first, n, err := f.columns[0].CollectionInfo(index)
	if err != nil {
		return err
	}
	return f.readPayload(first, n, to)
}

func (f *StringField) readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error {
	g, err := f.columns[0].GlobalOf(index)
	if err != nil {
		return err
	}
	return f.readGlobalImpl(g, to)
}

func (f *StringField) readPayload(first column.ClusterIndex, n uint64, to slot.Ptr) error {
	r := resizePayload(to, int(n))
	if n > 0 {
		if err := f.columns[1].ReadV(first, n, to.H.Bytes(r)[:n]); err != nil {
			return err
		}
	}
	return nil
}

func (f *StringField) commitClusterImpl() error {
	f.nWritten = 0
	return nil
}

func (f *StringField) assign(p slot.Ptr, x any) error {
	s, ok := x.(string)
	if !ok {
		return assignTypeError(f, x)
	}
	r := resizePayload(p, len(s))
	if len(s) > 0 {
		copy(p.H.Bytes(r), s)
	}
	return nil
}

func (f *StringField) extract(p slot.Ptr) (any, error) {
	n := int(slot.GetLen(p.B[lenOffset:]))
	if n == 0 {
		return "", nil
	}
	return string(p.Cell(refOffset).B[:n]), nil
}

// resizePayload adjusts the out-of-line payload of a string or vector slot
// to n bytes and returns its cell reference. An existing cell is resized in
// place; a first non-empty payload allocates one.
func resizePayload(p slot.Ptr, n int) slot.Ref {
	r := slot.GetRef(p.B[refOffset:])
	switch {
	case r == slot.NilRef && n > 0:
		r = p.H.Alloc(n)
		slot.PutRef(p.B[refOffset:], r)
	case r != slot.NilRef:
		p.H.Resize(r, n)
	}
	slot.PutLen(p.B[lenOffset:], uint32(n))
	return r
}

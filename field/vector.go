package field

import (
	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
	"github.com/colobj/colobj/internal/slot"
	"github.com/colobj/colobj/pagestore"
)

var offsetReps = column.NewRepresentations([]column.Representation{
	{column.TypeIndex64},
	{column.TypeIndex32},
})

// VectorField maps variable-length sequences onto an offset column plus the
// item field's columns. The offset column stores the cumulative in-cluster
// item count, one element per entry.
type VectorField struct {
	Base
	nWritten uint64
}

// NewVectorField creates a variable-length collection field over the given
// item field.
func NewVectorField(name string, item Field) (*VectorField, error) {
	f := &VectorField{}
	if err := f.initVector(f, name, "[]"+item.TypeName(), item); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *VectorField) initVector(self Field, name, typeName string, item Field) error {
	if err := f.init(self, name, typeName, descriptor.StructureCollection, headerSize, 4, TraitTriviallyConstructible); err != nil {
		return err
	}
	f.attach(item)
	return nil
}

func (f *VectorField) item() Field { return f.subFields[0] }

func (f *VectorField) itemAt(p slot.Ptr, i int) slot.Ptr {
	stride := f.item().ValueSize()
	return p.Cell(refOffset).Slice(i*stride, stride)
}

func (f *VectorField) representations() column.Representations { return offsetReps }

func (f *VectorField) genColumns() error {
	f.makeColumns(f.ColumnRepresentative(), 8)
	return nil
}

func (f *VectorField) genColumnsOnDisk(src pagestore.Source) error {
	return f.bindColumnsOnDisk(src, 8)
}

func (f *VectorField) cloneImpl(newName string) (Field, error) {
	item, err := cloneSubField(f.item())
	if err != nil {
		return nil, err
	}
	return NewVectorField(newName, item)
}

func (f *VectorField) destroy(p slot.Ptr) {
	f.resizeItems(p, 0)
	p.H.Free(slot.GetRef(p.B[refOffset:]))
	clear(p.B)
}

// resizeItems adjusts the collection to n items, destroying surplus items
// and constructing new ones.
func (f *VectorField) resizeItems(p slot.Ptr, n int) {
	item := f.item()
	old := int(slot.GetLen(p.B[lenOffset:]))
	if old > n && item.Traits()&TraitTriviallyDestructible == 0 {
		for i := old - 1; i >= n; i-- {
			item.destroy(f.itemAt(p, i))
		}
	}
	resizePayload(p, n*item.ValueSize())
	slot.PutLen(p.B[lenOffset:], uint32(n))
	if n > old && item.Traits()&TraitTriviallyConstructible == 0 {
		for i := old; i < n; i++ {
			item.construct(f.itemAt(p, i))
		}
	}
}

func (f *VectorField) appendImpl(from slot.Ptr) (int, error) {
	n := int(slot.GetLen(from.B[lenOffset:]))
	var nbytes int
	for i := 0; i < n; i++ {
		nb, err := f.item().base().append(f.itemAt(from, i))
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

func (f *VectorField) readGlobalImpl(index column.GlobalIndex, to slot.Ptr) error {
	first, n, err := f.columns[0].CollectionInfo(index)
	if err != nil {
		return err
	}
	return f.readItems(first, int(n), to)
}

func (f *VectorField) readInClusterImpl(index column.ClusterIndex, to slot.Ptr) error {
	g, err := f.columns[0].GlobalOf(index)
	if err != nil {
		return err
	}
	return f.readGlobalImpl(g, to)
}

func (f *VectorField) readItems(first column.ClusterIndex, n int, to slot.Ptr) error {
	f.resizeItems(to, n)
	if n == 0 {
		return nil
	}
	item := f.item().base()
	if item.isSimple {
		return item.principal.ReadV(first, uint64(n), to.Cell(refOffset).B[:n*item.size])
	}
	for i := 0; i < n; i++ {
		idx := column.ClusterIndex{Cluster: first.Cluster, Index: first.Index + uint64(i)}
		if err := item.readInCluster(idx, f.itemAt(to, i)); err != nil {
			return err
		}
	}
	return nil
}

// readBulkImpl reads the offsets of the whole range in one vectorized column
// access and then fills every entry, which is usually cheaper than widening
// individual entry reads.
func (f *VectorField) readBulkImpl(spec *BulkSpec) (int, error) {
	offsets := growAux(spec.Aux, 8*spec.Count)
	if err := f.columns[0].ReadV(spec.FirstIndex, uint64(spec.Count), offsets); err != nil {
		return 0, err
	}
	prev, err := clusterStartOffset(f.columns[0], spec.FirstIndex)
	if err != nil {
		return 0, err
	}
	for i := range spec.Count {
		end := slot.GetUint64(offsets[8*i:])
		if !spec.MaskAvail[i] {
			first := column.ClusterIndex{Cluster: spec.FirstIndex.Cluster, Index: prev}
			if err := f.readItems(first, int(end-prev), spec.ValueAt(i)); err != nil {
				return 0, err
			}
			spec.MaskAvail[i] = true
		}
		prev = end
	}
	return AllSet, nil
}

func (f *VectorField) commitClusterImpl() error {
	f.nWritten = 0
	return nil
}

func (f *VectorField) splitImpl(v *Value) []*Value {
	n := int(slot.GetLen(v.Ptr().B[lenOffset:]))
	parts := make([]*Value, n)
	for i := range parts {
		parts[i] = f.item().BindValue(f.itemAt(v.Ptr(), i))
	}
	return parts
}

func (f *VectorField) assign(p slot.Ptr, x any) error {
	items, ok := x.([]any)
	if !ok {
		return assignTypeError(f, x)
	}
	f.resizeItems(p, len(items))
	for i, iv := range items {
		if err := f.item().assign(f.itemAt(p, i), iv); err != nil {
			return err
		}
	}
	return nil
}

func (f *VectorField) extract(p slot.Ptr) (any, error) {
	n := int(slot.GetLen(p.B[lenOffset:]))
	items := make([]any, n)
	for i := range items {
		iv, err := f.item().extract(f.itemAt(p, i))
		if err != nil {
			return nil, err
		}
		items[i] = iv
	}
	return items, nil
}

// growAux returns an aux scratch slice of exactly n bytes, reusing the
// buffer's capacity across reads.
func growAux(aux *[]byte, n int) []byte {
	if cap(*aux) < n {
		*aux = make([]byte, n)
	}
	*aux = (*aux)[:n]
	return *aux
}

// clusterStartOffset returns the cumulative item count right before the
// given entry, zero at a cluster start.
func clusterStartOffset(offsetCol *column.Column, index column.ClusterIndex) (uint64, error) {
	if index.Index == 0 {
		return 0, nil
	}
	g, err := offsetCol.GlobalOf(index)
	if err != nil {
		return 0, err
	}
	start, _, err := offsetCol.CollectionInfo(g)
	if err != nil {
		return 0, err
	}
	return start.Index, nil
}

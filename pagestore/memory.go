package pagestore

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/colobj/colobj/column"
	"github.com/colobj/colobj/descriptor"
)

// MemoryStore is an in-memory page store. It acts as the Sink of one write
// session and, after Seal, as a Source for any number of read sessions.
//
// Writing is single-threaded, matching the engine's cooperative model. A
// sealed store is immutable and safe for concurrent readers without
// locking.
type MemoryStore struct {
	mu      sync.Mutex
	desc    *descriptor.Descriptor
	columns []*memColumn
	entries uint64
	sealed  bool
}

type memColumn struct {
	typ        column.Type
	packedSize int
	data       []byte          // packed elements, all types except Bit
	bits       *roaring.Bitmap // Bit elements
	n          uint64
	// bounds[k] is the element count at the end of cluster k.
	bounds []uint64
}

// NewMemoryStore creates an empty store ready for writing.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{desc: descriptor.New()}
}

// Create implements Sink.
func (s *MemoryStore) Create(rec *descriptor.FieldRecord, types column.Representation) ([]column.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return nil, ErrSealed
	}
	rec.ID = s.desc.AddField(*rec)
	handles := make([]column.Handle, len(types))
	for i, t := range types {
		mc := &memColumn{typ: t, packedSize: t.PackedSize()}
		if t == column.TypeBit {
			mc.bits = roaring.New()
		}
		h := column.Handle(len(s.columns))
		s.columns = append(s.columns, mc)
		handles[i] = h
		if err := s.desc.AddColumn(descriptor.ColumnRecord{
			Field:  rec.ID,
			Index:  uint32(i),
			Type:   t,
			Handle: h,
		}); err != nil {
			return nil, err
		}
	}
	return handles, nil
}

// AppendElement implements Sink. It returns the unpacked element size for
// byte accounting; Bit elements account as one byte.
func (s *MemoryStore) AppendElement(h column.Handle, packed []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return 0, ErrSealed
	}
	mc, err := s.column(h)
	if err != nil {
		return 0, err
	}
	if len(packed) != mc.packedSize {
		return 0, fmt.Errorf("pagestore: element size %d, want %d", len(packed), mc.packedSize)
	}
	if mc.typ == column.TypeBit {
		if mc.n > math.MaxUint32 {
			return 0, fmt.Errorf("pagestore: bit column overflow at element %d", mc.n)
		}
		if packed[0] != 0 {
			mc.bits.Add(uint32(mc.n))
		}
	} else {
		mc.data = append(mc.data, packed...)
	}
	mc.n++
	return mc.packedSize, nil
}

// CommitCluster implements Sink.
func (s *MemoryStore) CommitCluster(nEntries uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return ErrSealed
	}
	s.desc.AddCluster(descriptor.ClusterRecord{FirstEntry: s.entries, NEntries: nEntries})
	s.entries += nEntries
	for _, mc := range s.columns {
		mc.bounds = append(mc.bounds, mc.n)
	}
	return nil
}

// Seal freezes the store and makes it readable. All appended elements must
// be covered by a committed cluster.
func (s *MemoryStore) Seal() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return nil
	}
	for i, mc := range s.columns {
		if committed := mc.committed(); committed != mc.n {
			return fmt.Errorf("%w: column %d has %d elements, %d committed",
				ErrUncommitted, i, mc.n, committed)
		}
	}
	s.sealed = true
	return nil
}

// Sealed reports whether the store accepts reads.
func (s *MemoryStore) Sealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sealed
}

// Descriptor implements Sink and Source.
func (s *MemoryStore) Descriptor() *descriptor.Descriptor { return s.desc }

// ColumnHandles implements Source.
func (s *MemoryStore) ColumnHandles(id descriptor.FieldID) ([]column.Handle, column.Representation, error) {
	cols := s.desc.Columns(id)
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("%w: field %d has no columns", descriptor.ErrUnknownField, id)
	}
	handles := make([]column.Handle, len(cols))
	types := make(column.Representation, len(cols))
	for i, c := range cols {
		handles[i] = c.Handle
		types[i] = c.Type
	}
	return handles, types, nil
}

// ReadElement implements Source.
func (s *MemoryStore) ReadElement(h column.Handle, index column.GlobalIndex, packed []byte) error {
	mc, err := s.readableColumn(h)
	if err != nil {
		return err
	}
	return mc.read(uint64(index), packed)
}

// ReadElementInCluster implements Source.
func (s *MemoryStore) ReadElementInCluster(h column.Handle, index column.ClusterIndex, packed []byte) error {
	mc, err := s.readableColumn(h)
	if err != nil {
		return err
	}
	g, err := mc.globalOf(index)
	if err != nil {
		return err
	}
	return mc.read(g, packed)
}

// ReadElementsV implements Source.
func (s *MemoryStore) ReadElementsV(h column.Handle, first column.ClusterIndex, n uint64, packed []byte) error {
	mc, err := s.readableColumn(h)
	if err != nil {
		return err
	}
	g, err := mc.globalOf(first)
	if err != nil {
		return err
	}
	if g+n > mc.clusterEnd(first.Cluster) {
		return ErrCrossCluster
	}
	for i := uint64(0); i < n; i++ {
		if err := mc.read(g+i, packed[int(i)*mc.packedSize:int(i+1)*mc.packedSize]); err != nil {
			return err
		}
	}
	return nil
}

// CollectionInfo implements Source. h must refer to an offset column; the
// returned index is the in-cluster position of the first collection item
// and size the item count of the entry.
func (s *MemoryStore) CollectionInfo(h column.Handle, index column.GlobalIndex) (column.ClusterIndex, uint64, error) {
	mc, err := s.readableColumn(h)
	if err != nil {
		return column.InvalidClusterIndex, 0, err
	}
	if !mc.typ.IsOffset() {
		return column.InvalidClusterIndex, 0, fmt.Errorf("pagestore: column %d (%s) is not an offset column", h, mc.typ)
	}
	g := uint64(index)
	cluster, err := mc.clusterOf(g)
	if err != nil {
		return column.InvalidClusterIndex, 0, err
	}
	end, err := mc.offsetAt(g)
	if err != nil {
		return column.InvalidClusterIndex, 0, err
	}
	var start uint64
	if g > mc.clusterStart(cluster) {
		if start, err = mc.offsetAt(g - 1); err != nil {
			return column.InvalidClusterIndex, 0, err
		}
	}
	return column.ClusterIndex{Cluster: cluster, Index: start}, end - start, nil
}

// ClusterOf implements Source.
func (s *MemoryStore) ClusterOf(h column.Handle, index column.GlobalIndex) (column.ClusterIndex, error) {
	mc, err := s.readableColumn(h)
	if err != nil {
		return column.InvalidClusterIndex, err
	}
	cluster, err := mc.clusterOf(uint64(index))
	if err != nil {
		return column.InvalidClusterIndex, err
	}
	return column.ClusterIndex{Cluster: cluster, Index: uint64(index) - mc.clusterStart(cluster)}, nil
}

// GlobalOf implements Source.
func (s *MemoryStore) GlobalOf(h column.Handle, index column.ClusterIndex) (column.GlobalIndex, error) {
	mc, err := s.readableColumn(h)
	if err != nil {
		return column.InvalidGlobalIndex, err
	}
	g, err := mc.globalOf(index)
	if err != nil {
		return column.InvalidGlobalIndex, err
	}
	return column.GlobalIndex(g), nil
}

func (s *MemoryStore) column(h column.Handle) (*memColumn, error) {
	if h < 0 || int(h) >= len(s.columns) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return s.columns[h], nil
}

func (s *MemoryStore) readableColumn(h column.Handle) (*memColumn, error) {
	// No lock: sealed stores are immutable and Seal() is the caller's
	// synchronization point.
	if !s.sealed {
		return nil, ErrNotSealed
	}
	return s.column(h)
}

func (mc *memColumn) committed() uint64 {
	if len(mc.bounds) == 0 {
		return 0
	}
	return mc.bounds[len(mc.bounds)-1]
}

func (mc *memColumn) read(g uint64, packed []byte) error {
	if g >= mc.n {
		return fmt.Errorf("%w: element %d of %d", ErrOutOfRange, g, mc.n)
	}
	if mc.typ == column.TypeBit {
		packed[0] = 0
		if mc.bits.Contains(uint32(g)) {
			packed[0] = 1
		}
		return nil
	}
	copy(packed, mc.data[int(g)*mc.packedSize:int(g+1)*mc.packedSize])
	return nil
}

func (mc *memColumn) offsetAt(g uint64) (uint64, error) {
	packed := make([]byte, mc.packedSize)
	if err := mc.read(g, packed); err != nil {
		return 0, err
	}
	return column.UnpackOffset(mc.typ, packed)
}

func (mc *memColumn) clusterOf(g uint64) (column.ClusterID, error) {
	if g >= mc.committed() {
		return column.InvalidClusterID, fmt.Errorf("%w: element %d of %d", ErrOutOfRange, g, mc.committed())
	}
	k := sort.Search(len(mc.bounds), func(i int) bool { return mc.bounds[i] > g })
	return column.ClusterID(k), nil
}

func (mc *memColumn) clusterStart(c column.ClusterID) uint64 {
	if c == 0 {
		return 0
	}
	return mc.bounds[c-1]
}

func (mc *memColumn) clusterEnd(c column.ClusterID) uint64 {
	if int(c) >= len(mc.bounds) {
		return 0
	}
	return mc.bounds[c]
}

func (mc *memColumn) globalOf(index column.ClusterIndex) (uint64, error) {
	if int(index.Cluster) >= len(mc.bounds) {
		return 0, fmt.Errorf("%w: cluster %d of %d", ErrOutOfRange, index.Cluster, len(mc.bounds))
	}
	g := mc.clusterStart(index.Cluster) + index.Index
	if g >= mc.clusterEnd(index.Cluster) {
		return 0, fmt.Errorf("%w: index %d in cluster %d", ErrOutOfRange, index.Index, index.Cluster)
	}
	return g, nil
}

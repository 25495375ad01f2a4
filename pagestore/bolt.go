package pagestore

import (
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"github.com/colobj/colobj/column"
)

var (
	bucketMeta    = []byte("meta")
	bucketColumns = []byte("columns")
	keyDescriptor = []byte("descriptor")
)

// columnBlob is the persisted form of one column. Bit columns store the
// serialized roaring bitmap, all others the raw packed element data.
type columnBlob struct {
	Type   uint8    `msgpack:"t"`
	N      uint64   `msgpack:"n"`
	Bounds []uint64 `msgpack:"b"`
	Data   []byte   `msgpack:"d,omitempty"`
	Bits   []byte   `msgpack:"bm,omitempty"`
}

// Save persists a sealed MemoryStore into a bbolt file at path. An existing
// file is overwritten.
func Save(path string, s *MemoryStore) error {
	if !s.Sealed() {
		return ErrNotSealed
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return fmt.Errorf("pagestore: open %s: %w", path, err)
	}
	defer db.Close()

	return db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketColumns} {
			if err := tx.DeleteBucket(name); err != nil && err != bolt.ErrBucketNotFound {
				return err
			}
		}
		meta, err := tx.CreateBucket(bucketMeta)
		if err != nil {
			return err
		}
		descBytes, err := s.desc.MarshalBinary()
		if err != nil {
			return err
		}
		if err := meta.Put(keyDescriptor, descBytes); err != nil {
			return err
		}
		cols, err := tx.CreateBucket(bucketColumns)
		if err != nil {
			return err
		}
		for h, mc := range s.columns {
			blob := columnBlob{
				Type:   uint8(mc.typ),
				N:      mc.n,
				Bounds: mc.bounds,
				Data:   mc.data,
			}
			if mc.bits != nil {
				blob.Bits, err = mc.bits.ToBytes()
				if err != nil {
					return err
				}
			}
			encoded, err := msgpack.Marshal(&blob)
			if err != nil {
				return err
			}
			var key [8]byte
			binary.BigEndian.PutUint64(key[:], uint64(h))
			if err := cols.Put(key[:], encoded); err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads a store persisted by Save back into a sealed MemoryStore.
func Load(path string) (*MemoryStore, error) {
	db, err := bolt.Open(path, 0o400, &bolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("pagestore: open %s: %w", path, err)
	}
	defer db.Close()

	s := NewMemoryStore()
	err = db.View(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		cols := tx.Bucket(bucketColumns)
		if meta == nil || cols == nil {
			return fmt.Errorf("pagestore: %s is not a column store file", path)
		}
		descBytes := meta.Get(keyDescriptor)
		if descBytes == nil {
			return fmt.Errorf("pagestore: %s has no descriptor", path)
		}
		if err := s.desc.UnmarshalBinary(descBytes); err != nil {
			return err
		}
		return cols.ForEach(func(k, v []byte) error {
			var blob columnBlob
			if err := msgpack.Unmarshal(v, &blob); err != nil {
				return err
			}
			h := column.Handle(binary.BigEndian.Uint64(k))
			if int(h) != len(s.columns) {
				return fmt.Errorf("pagestore: column handle %d out of order", h)
			}
			typ := column.Type(blob.Type)
			mc := &memColumn{
				typ:        typ,
				packedSize: typ.PackedSize(),
				data:       blob.Data,
				n:          blob.N,
				bounds:     blob.Bounds,
			}
			if typ == column.TypeBit {
				mc.bits = roaring.New()
				if len(blob.Bits) > 0 {
					if err := mc.bits.UnmarshalBinary(blob.Bits); err != nil {
						return err
					}
				}
			}
			s.columns = append(s.columns, mc)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	s.sealed = true
	return s, nil
}

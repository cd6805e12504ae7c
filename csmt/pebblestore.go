package csmt

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/cockroachdb/pebble"
	"github.com/eth2030/csmt/field"
)

// Key prefixes partitioning the single pebble keyspace into the node table,
// the value table, and the one root-pointer record §4.B requires.
const (
	nodePrefix = 'n'
	valPrefix  = 'v'
)

var rootKey = []byte{'r'}

// PebbleStore is a durable Store backed by github.com/cockroachdb/pebble
// (already an indirect dependency of the teacher's module graph via the
// cockroachdb/* family). Reads go through a bounded
// github.com/VictoriaMetrics/fastcache read cache keyed by node hash, since
// repeated Prove/Get calls against the same subtree re-fetch the same
// handful of ancestor nodes.
type PebbleStore struct {
	db    *pebble.DB
	cache *fastcache.Cache

	batch *pebble.Batch
}

// OpenPebbleStore opens (creating if absent) a pebble-backed Store rooted at
// dir, with a read cache sized cacheBytes bytes.
func OpenPebbleStore(dir string, cacheBytes int) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("csmt: open pebble store: %w", err)
	}
	return &PebbleStore{
		db:    db,
		cache: fastcache.New(cacheBytes),
	}, nil
}

// Close releases the underlying pebble database.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func nodeKey(hash field.Element) []byte {
	b := hash.Bytes32()
	out := make([]byte, 0, 1+len(b))
	out = append(out, nodePrefix)
	out = append(out, b[:]...)
	return out
}

func valueKey(path field.Element) []byte {
	b := path.Bytes32()
	out := make([]byte, 0, 1+len(b))
	out = append(out, valPrefix)
	out = append(out, b[:]...)
	return out
}

// encodeTriple serializes a Triple as tag(1 byte) || A(32 bytes) || B(32 bytes).
func encodeTriple(t Triple) []byte {
	out := make([]byte, 1+32+32)
	out[0] = byte(t.Tag)
	a := t.A.Bytes32()
	b := t.B.Bytes32()
	copy(out[1:33], a[:])
	copy(out[33:65], b[:])
	return out
}

func decodeTriple(raw []byte) (Triple, error) {
	if len(raw) != 65 {
		return Triple{}, errors.New("csmt: corrupt node record")
	}
	var a, b [32]byte
	copy(a[:], raw[1:33])
	copy(b[:], raw[33:65])
	return Triple{Tag: Tag(raw[0]), A: field.FromBytes32(a), B: field.FromBytes32(b)}, nil
}

// encodeFields serializes a field-element slice as a length-prefixed list of
// 32-byte chunks, the format values are stored in.
func encodeFields(fields []field.Element) []byte {
	out := make([]byte, 4, 4+32*len(fields))
	binary.BigEndian.PutUint32(out, uint32(len(fields)))
	for _, f := range fields {
		b := f.Bytes32()
		out = append(out, b[:]...)
	}
	return out
}

func decodeFields(raw []byte) ([]field.Element, error) {
	if len(raw) < 4 {
		return nil, errors.New("csmt: corrupt value record")
	}
	n := binary.BigEndian.Uint32(raw)
	raw = raw[4:]
	if len(raw) != int(n)*32 {
		return nil, errors.New("csmt: corrupt value record length")
	}
	out := make([]field.Element, n)
	for i := range out {
		var b [32]byte
		copy(b[:], raw[i*32:(i+1)*32])
		out[i] = field.FromBytes32(b)
	}
	return out, nil
}

func (s *PebbleStore) GetNode(hash field.Element) (Triple, bool, error) {
	if hash.IsZero() {
		return Triple{}, false, nil
	}
	k := nodeKey(hash)
	if cached, ok := s.cache.HasGet(nil, k); ok {
		t, err := decodeTriple(cached)
		return t, true, err
	}
	raw, closer, err := s.db.Get(k)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return Triple{}, false, nil
		}
		return Triple{}, false, err
	}
	defer closer.Close()
	t, err := decodeTriple(raw)
	if err != nil {
		return Triple{}, false, err
	}
	s.cache.Set(k, raw)
	return t, true, nil
}

func (s *PebbleStore) GetValue(path field.Element) ([]field.Element, bool, error) {
	raw, closer, err := s.db.Get(valueKey(path))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer closer.Close()
	v, err := decodeFields(raw)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (s *PebbleStore) GetRoot() (field.Element, bool, error) {
	raw, closer, err := s.db.Get(rootKey)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return field.Element{}, false, nil
		}
		return field.Element{}, false, err
	}
	defer closer.Close()
	var b [32]byte
	copy(b[:], raw)
	return field.FromBytes32(b), true, nil
}

func (s *PebbleStore) batchOrNew() *pebble.Batch {
	if s.batch == nil {
		s.batch = s.db.NewBatch()
	}
	return s.batch
}

func (s *PebbleStore) PreparePutNode(hash field.Element, t Triple) {
	_ = s.batchOrNew().Set(nodeKey(hash), encodeTriple(t), nil)
}

func (s *PebbleStore) PrepareDeleteNode(hash field.Element) {
	_ = s.batchOrNew().Delete(nodeKey(hash), nil)
	s.cache.Del(nodeKey(hash))
}

func (s *PebbleStore) PreparePutValue(path field.Element, fields []field.Element) {
	_ = s.batchOrNew().Set(valueKey(path), encodeFields(fields), nil)
}

func (s *PebbleStore) PrepareDeleteValue(path field.Element) {
	_ = s.batchOrNew().Delete(valueKey(path), nil)
}

func (s *PebbleStore) PrepareUpdateRoot(root field.Element) {
	b := root.Bytes32()
	_ = s.batchOrNew().Set(rootKey, b[:], nil)
}

func (s *PebbleStore) Commit() error {
	if s.batch == nil {
		return nil
	}
	if err := s.batch.Commit(pebble.Sync); err != nil {
		return err
	}
	s.batch = nil
	return nil
}

func (s *PebbleStore) ClearPendingOps() {
	if s.batch != nil {
		s.batch.Close()
		s.batch = nil
	}
}

func (s *PebbleStore) Clear() error {
	s.ClearPendingOps()
	s.cache.Reset()
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return err
	}
	defer iter.Close()
	b := s.db.NewBatch()
	for iter.First(); iter.Valid(); iter.Next() {
		if err := b.Delete(iter.Key(), nil); err != nil {
			return err
		}
	}
	return b.Commit(pebble.Sync)
}

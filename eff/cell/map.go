package cell

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

const defaultShards = 16

// Map is a keyed family of cells partitioned into a fixed number of
// shards. The shard for a key is chosen by hashing the key, so operations
// on distinct keys mostly proceed without contending, while operations on
// the same key are serializable exactly like operations on a single Cell.
//
// Keys are strings (or string-derived types) so that hashing stays stable
// across runs of the same binary.
type Map[K ~string, V any] struct {
	shards []*mapShard[K, V]
}

type mapShard[K ~string, V any] struct {
	mu sync.Mutex
	m  map[K]V
}

// NewMap allocates a Map with the given shard count. A non-positive count
// selects the default of 16.
func NewMap[K ~string, V any](shards int) *Map[K, V] {
	if shards <= 0 {
		shards = defaultShards
	}
	s := make([]*mapShard[K, V], shards)
	for i := range s {
		s[i] = &mapShard[K, V]{m: make(map[K]V)}
	}
	return &Map[K, V]{shards: s}
}

func (m *Map[K, V]) shardFor(k K) *mapShard[K, V] {
	idx := xxhash.Sum64String(string(k)) % uint64(len(m.shards))
	return m.shards[idx]
}

// Get returns the value held for k and whether k is present.
func (m *Map[K, V]) Get(k K) (V, bool) {
	s := m.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[k]
	return v, ok
}

// Set replaces the value held for k.
func (m *Map[K, V]) Set(k K, v V) {
	s := m.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[k] = v
}

// Update replaces the value held for k with f applied to it, as one
// indivisible step. An absent key presents the zero value of V to f.
func (m *Map[K, V]) Update(k K, f func(V) V) {
	s := m.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[k] = f(s.m[k])
}

// UpdateAndGet replaces the value held for k with f applied to it and
// returns the new value, as one indivisible step.
func (m *Map[K, V]) UpdateAndGet(k K, f func(V) V) V {
	s := m.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	v := f(s.m[k])
	s.m[k] = v
	return v
}

// Delete removes k.
func (m *Map[K, V]) Delete(k K) {
	s := m.shardFor(k)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, k)
}

// Len returns the total number of keys across all shards. The count is a
// snapshot; concurrent writers may change it before the caller looks at it.
func (m *Map[K, V]) Len() int {
	n := 0
	for _, s := range m.shards {
		s.mu.Lock()
		n += len(s.m)
		s.mu.Unlock()
	}
	return n
}

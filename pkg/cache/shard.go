// This module implements cache sharding which distributes keys uniformly across synchronized engines. Each shard has
// its own mutex, so goroutines working on keys of different shards don't block each other.
// The eviction policy is applied per shard: a full shard evicts its own victim even if other shards have room.

package cache

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/nobletooth/kvcache/pkg/utils"
)

// Sharded spreads keys across several engines of the same policy.
type Sharded[K comparable, V any] struct {
	shards   []*Synchronized[K, V]
	hash     func(key K) uint64 // Helps choose the shard index.
	capacity int
	policy   Policy
}

// NewSharded splits `capacity` over `shardCount` engines; the first `capacity % shardCount` shards hold one more entry.
// `observer` is shared by all shards and may run concurrently when the Sharded cache is used from many goroutines.
func NewSharded[K comparable, V any](policy Policy, capacity, shardCount int,
	observer Observer[K, V]) (*Sharded[K, V], error) {
	if shardCount <= 0 {
		utils.RaiseInvariant("shard", "non_positive_shard_count",
			"Invalid shard count has been given to sharded cache.", "shardCount", shardCount)
		shardCount = 1
	}
	if capacity < shardCount {
		return nil, fmt.Errorf("%w: capacity %d can't be split over %d shards",
			ErrInvalidCapacity, capacity, shardCount)
	}
	sharded := &Sharded[K, V]{
		shards:   make([]*Synchronized[K, V], shardCount),
		hash:     keyHasher[K](),
		capacity: capacity,
		policy:   policy,
	}
	for i := range shardCount {
		shardCapacity := capacity / shardCount
		if i < capacity%shardCount {
			shardCapacity++
		}
		engine, err := New(policy, shardCapacity, observer)
		if err != nil {
			return nil, fmt.Errorf("failed to create shard %d: %w", i, err)
		}
		sharded.shards[i] = NewSynchronized(engine)
	}
	return sharded, nil
}

// keyHasher picks the hash function once per key type. Fixed-size numbers are hashed through their little endian
// bytes, strings directly; anything else falls back to its Go-syntax representation.
func keyHasher[K comparable]() func(key K) uint64 {
	hashUint64 := func(v uint64) uint64 {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		return xxhash.Sum64(b[:])
	}
	switch any(*new(K)).(type) {
	case string:
		return func(key K) uint64 { return xxhash.Sum64String(any(key).(string)) }
	case int:
		return func(key K) uint64 { return hashUint64(uint64(any(key).(int))) }
	case int64:
		return func(key K) uint64 { return hashUint64(uint64(any(key).(int64))) }
	case uint64:
		return func(key K) uint64 { return hashUint64(any(key).(uint64)) }
	default:
		return func(key K) uint64 { return xxhash.Sum64String(fmt.Sprintf("%#v", key)) }
	}
}

// getShard maps a key to its shard.
func (s *Sharded[K, V]) getShard(key K) *Synchronized[K, V] {
	return s.shards[s.hash(key)%uint64(len(s.shards))]
}

func (s *Sharded[K, V]) Put(key K, value V) {
	s.getShard(key).Put(key, value)
}

func (s *Sharded[K, V]) Get(key K) (V, bool /*found*/) {
	return s.getShard(key).Get(key)
}

// Snapshot concatenates the shard snapshots in shard order. Shards are locked one at a time, so the result isn't an
// atomic view when writers run concurrently.
func (s *Sharded[K, V]) Snapshot() []utils.Pair[K, V] {
	pairs := make([]utils.Pair[K, V], 0, s.capacity)
	for _, shard := range s.shards {
		pairs = append(pairs, shard.Snapshot()...)
	}
	return pairs
}

func (s *Sharded[K, V]) Len() int {
	total := 0
	for _, shard := range s.shards {
		total += shard.Len()
	}
	return total
}

func (s *Sharded[K, V]) Capacity() int   { return s.capacity }
func (s *Sharded[K, V]) Policy() Policy  { return s.policy }
func (s *Sharded[K, V]) ShardCount() int { return len(s.shards) }

// Package cache implements fixed-capacity key-value cache engines. Each engine picks its eviction victim with one of
// three policies (LRU, FIFO or LFU) and reports every change it makes through an optional Observer.
//
// Engines are not safe for concurrent use; wrap them with Synchronized or use Sharded when several goroutines need
// the same cache.

package cache

import (
	"errors"
	"fmt"

	"github.com/nobletooth/kvcache/pkg/utils"
)

var (
	ErrInvalidCapacity = errors.New("cache capacity must be positive")
	ErrUnknownPolicy   = errors.New("unknown eviction policy")
	ErrKeyNotFound     = errors.New("key not found in the cache")
)

// Engine is the contract shared by the LRU, FIFO and LFU engines. The set of implementations is closed.
type Engine[K comparable, V any] interface {
	// Put inserts or overwrites `key`. Inserting a new key into a full engine evicts exactly one entry first.
	Put(key K, value V)
	// Get returns the value of `key` and whether it was found. A miss has no side effects.
	Get(key K) (V, bool)
	// Snapshot returns the entries in the policy's enumeration order without changing any metadata.
	Snapshot() []utils.Pair[K, V]
	Len() int      // Returns the number of entries currently held.
	Capacity() int // Returns the maximum number of entries.
	Policy() Policy
	sealed()
}

var (
	_ Engine[string, int] = (*LRU[string, int])(nil)
	_ Engine[string, int] = (*FIFO[string, int])(nil)
	_ Engine[string, int] = (*LFU[string, int])(nil)
)

// New builds an empty engine with the given policy. `observer` may be nil.
func New[K comparable, V any](policy Policy, capacity int, observer Observer[K, V]) (Engine[K, V], error) {
	switch policy {
	case PolicyLRU:
		lru, err := NewLRU(capacity, observer)
		if err != nil {
			return nil, err
		}
		return lru, nil
	case PolicyFIFO:
		fifo, err := NewFIFO(capacity, observer)
		if err != nil {
			return nil, err
		}
		return fifo, nil
	case PolicyLFU:
		lfu, err := NewLFU(capacity, observer)
		if err != nil {
			return nil, err
		}
		return lfu, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, policy)
	}
}

// base holds what every engine needs besides its ordering metadata.
type base[K comparable, V any] struct {
	capacity int
	observer Observer[K, V] // Optional; called synchronously on every event.
}

func newBase[K comparable, V any](capacity int, observer Observer[K, V]) (base[K, V], error) {
	if capacity <= 0 {
		return base[K, V]{}, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return base[K, V]{capacity: capacity, observer: observer}, nil
}

// Capacity returns the maximum number of entries the engine holds.
func (b *base[K, V]) Capacity() int {
	return b.capacity
}

func (b *base[K, V]) emit(action Action, key K, value V) {
	if b.observer != nil {
		b.observer(Event[K, V]{Action: action, Key: key, Value: value})
	}
}

func (b *base[K, V]) sealed() {}

// entry is a cached key-value pair as stored in the ordering lists.
type entry[K comparable, V any] struct {
	key   K
	value V
}

// snapshotList copies the entries of `order` from front to back.
func snapshotList[K comparable, V any](order *linkedList[*entry[K, V]]) []utils.Pair[K, V] {
	pairs := make([]utils.Pair[K, V], 0, order.Len())
	for e := range order.All() {
		pairs = append(pairs, utils.Pair[K, V]{Key: e.key, Value: e.value})
	}
	return pairs
}

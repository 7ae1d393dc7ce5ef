// This module implements the LFU engine.
// Every key carries a use counter: a new key starts at 1, and each Get or overwriting Put adds one. When the engine is
// full, the key with the lowest counter is evicted. Keys sharing the lowest counter are ordered by insertion, so the
// oldest of them goes first.
//
// Victims are kept in a min-heap ordered by (frequency, insertion sequence), which makes Put and Get O(log n).
// A separate insertion-ordered list backs Snapshot.

package cache

import (
	"container/heap"

	"github.com/nobletooth/kvcache/pkg/utils"
)

type lfuEntry[K comparable, V any] struct {
	key       K
	value     V
	frequency uint64
	sequence  uint64 // Insertion sequence; breaks frequency ties.
	heapIndex int    // Position inside frequencyHeap, -1 once popped.
	node      *linkedListNode[*lfuEntry[K, V]]
}

// frequencyHeap implements heap.Interface over LFU entries; the root is the next victim.
type frequencyHeap[K comparable, V any] []*lfuEntry[K, V]

func (h frequencyHeap[K, V]) Len() int { return len(h) }

func (h frequencyHeap[K, V]) Less(i, j int) bool {
	if h[i].frequency != h[j].frequency {
		return h[i].frequency < h[j].frequency
	}
	return h[i].sequence < h[j].sequence
}

func (h frequencyHeap[K, V]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIndex = i
	h[j].heapIndex = j
}

func (h *frequencyHeap[K, V]) Push(x any) {
	e := x.(*lfuEntry[K, V])
	e.heapIndex = len(*h)
	*h = append(*h, e)
}

func (h *frequencyHeap[K, V]) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.heapIndex = -1
	*h = old[:n-1]
	return e
}

// LFU is a fixed-capacity cache that evicts the least frequently used key.
type LFU[K comparable, V any] struct {
	base[K, V]
	index        map[K]*lfuEntry[K, V]
	victims      frequencyHeap[K, V]
	insertions   *linkedList[*lfuEntry[K, V]] // Held keys in insertion order.
	nextSequence uint64
}

// NewLFU creates an empty LFU engine; `observer` may be nil.
func NewLFU[K comparable, V any](capacity int, observer Observer[K, V]) (*LFU[K, V], error) {
	b, err := newBase(capacity, observer)
	if err != nil {
		return nil, err
	}
	return &LFU[K, V]{
		base:       b,
		index:      make(map[K]*lfuEntry[K, V], capacity),
		victims:    make(frequencyHeap[K, V], 0, capacity),
		insertions: new(linkedList[*lfuEntry[K, V]]),
	}, nil
}

// Policy returns PolicyLFU.
func (c *LFU[K, V]) Policy() Policy {
	return PolicyLFU
}

// Len returns the number of held keys.
func (c *LFU[K, V]) Len() int {
	return len(c.index)
}

// Put inserts `key` with a frequency of 1, or replaces its value and bumps its frequency if it is already held.
func (c *LFU[K, V]) Put(key K, value V) {
	if e, keyExists := c.index[key]; keyExists {
		e.value = value
		c.touch(e)
		c.emit(ActionAdded, key, value)
		return
	}
	if len(c.index) >= c.capacity {
		c.evict()
	}
	e := &lfuEntry[K, V]{key: key, value: value, frequency: 1, sequence: c.nextSequence}
	c.nextSequence++
	e.node = c.insertions.PushBack(e)
	heap.Push(&c.victims, e)
	c.index[key] = e
	c.emit(ActionAdded, key, value)
}

// Get returns the value of `key` and bumps its frequency.
func (c *LFU[K, V]) Get(key K) (V, bool /*found*/) {
	e, keyExists := c.index[key]
	if !keyExists {
		return *new(V), false
	}
	c.touch(e)
	c.emit(ActionAccessed, key, e.value)
	return e.value, true
}

// Snapshot returns the entries in insertion order.
func (c *LFU[K, V]) Snapshot() []utils.Pair[K, V] {
	pairs := make([]utils.Pair[K, V], 0, c.insertions.Len())
	for e := range c.insertions.All() {
		pairs = append(pairs, utils.Pair[K, V]{Key: e.key, Value: e.value})
	}
	return pairs
}

// Frequency returns the use counter of `key`, or 0 when it's not held.
func (c *LFU[K, V]) Frequency(key K) uint64 {
	if e, keyExists := c.index[key]; keyExists {
		return e.frequency
	}
	return 0
}

func (c *LFU[K, V]) touch(e *lfuEntry[K, V]) {
	if e.heapIndex < 0 || e.heapIndex >= len(c.victims) || c.victims[e.heapIndex] != e {
		utils.RaiseInvariant("lfu", "entry_not_in_heap", "Indexed entry is missing from the frequency heap.",
			"key", e.key, "heapIndex", e.heapIndex)
		return
	}
	e.frequency++
	heap.Fix(&c.victims, e.heapIndex)
}

func (c *LFU[K, V]) evict() {
	if len(c.victims) == 0 {
		utils.RaiseInvariant("lfu", "evict_empty_cache", "Tried to evict from an empty cache.",
			"capacity", c.capacity, "indexed", len(c.index))
		return
	}
	victim := heap.Pop(&c.victims).(*lfuEntry[K, V])
	c.insertions.Remove(victim.node)
	delete(c.index, victim.key)
	c.emit(ActionEvicted, victim.key, victim.value)
}

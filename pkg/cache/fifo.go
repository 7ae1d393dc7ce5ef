package cache

import "github.com/nobletooth/kvcache/pkg/utils"

// FIFO is a fixed-capacity cache that evicts keys in insertion order. Reads and overwrites never change the order.
type FIFO[K comparable, V any] struct {
	base[K, V]
	index map[K]*linkedListNode[*entry[K, V]]
	queue *linkedList[*entry[K, V]] // Front is the oldest entry.
}

// NewFIFO creates an empty FIFO engine; `observer` may be nil.
func NewFIFO[K comparable, V any](capacity int, observer Observer[K, V]) (*FIFO[K, V], error) {
	b, err := newBase(capacity, observer)
	if err != nil {
		return nil, err
	}
	return &FIFO[K, V]{
		base:  b,
		index: make(map[K]*linkedListNode[*entry[K, V]], capacity),
		queue: new(linkedList[*entry[K, V]]),
	}, nil
}

// Policy returns PolicyFIFO.
func (c *FIFO[K, V]) Policy() Policy {
	return PolicyFIFO
}

// Len returns the number of held keys.
func (c *FIFO[K, V]) Len() int {
	return c.queue.Len()
}

// Put inserts `key` at the back of the queue, or replaces its value in place if it is already queued.
func (c *FIFO[K, V]) Put(key K, value V) {
	if node, keyExists := c.index[key]; keyExists {
		node.Value.value = value
		c.emit(ActionAdded, key, value)
		return
	}
	if c.queue.Len() >= c.capacity {
		c.evict()
	}
	c.index[key] = c.queue.PushBack(&entry[K, V]{key: key, value: value})
	c.emit(ActionAdded, key, value)
}

// Get returns the value of `key`.
func (c *FIFO[K, V]) Get(key K) (V, bool /*found*/) {
	node, keyExists := c.index[key]
	if !keyExists {
		return *new(V), false
	}
	c.emit(ActionAccessed, key, node.Value.value)
	return node.Value.value, true
}

// Snapshot returns the entries from the oldest to the newest one.
func (c *FIFO[K, V]) Snapshot() []utils.Pair[K, V] {
	return snapshotList(c.queue)
}

func (c *FIFO[K, V]) evict() {
	victim := c.queue.Front()
	if victim == nil {
		utils.RaiseInvariant("fifo", "evict_empty_cache", "Tried to evict from an empty cache.",
			"capacity", c.capacity, "indexed", len(c.index))
		return
	}
	c.queue.Remove(victim)
	delete(c.index, victim.Value.key)
	c.emit(ActionEvicted, victim.Value.key, victim.Value.value)
}

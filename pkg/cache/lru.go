package cache

import "github.com/nobletooth/kvcache/pkg/utils"

// LRU is a fixed-capacity cache that evicts the least recently used key. Both Put and Get refresh a key's recency.
type LRU[K comparable, V any] struct {
	base[K, V]
	index map[K]*linkedListNode[*entry[K, V]]
	order *linkedList[*entry[K, V]] // Front is the least recently used entry, back the most recently used one.
}

// NewLRU creates an empty LRU engine; `observer` may be nil.
func NewLRU[K comparable, V any](capacity int, observer Observer[K, V]) (*LRU[K, V], error) {
	b, err := newBase(capacity, observer)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{
		base:  b,
		index: make(map[K]*linkedListNode[*entry[K, V]], capacity),
		order: new(linkedList[*entry[K, V]]),
	}, nil
}

// Policy returns PolicyLRU.
func (c *LRU[K, V]) Policy() Policy {
	return PolicyLRU
}

// Len returns the number of held keys.
func (c *LRU[K, V]) Len() int {
	return c.order.Len()
}

// Put inserts or overwrites `key` and makes it the most recently used key.
func (c *LRU[K, V]) Put(key K, value V) {
	if node, keyExists := c.index[key]; keyExists {
		node.Value.value = value
		c.order.MoveToBack(node)
		c.emit(ActionAdded, key, value)
		return
	}
	if c.order.Len() >= c.capacity {
		c.evict()
	}
	c.index[key] = c.order.PushBack(&entry[K, V]{key: key, value: value})
	c.emit(ActionAdded, key, value)
}

// Get returns the value of `key` and makes it the most recently used key.
func (c *LRU[K, V]) Get(key K) (V, bool /*found*/) {
	node, keyExists := c.index[key]
	if !keyExists {
		return *new(V), false
	}
	c.order.MoveToBack(node)
	c.emit(ActionAccessed, key, node.Value.value)
	return node.Value.value, true
}

// Snapshot returns the entries from the least to the most recently used one.
func (c *LRU[K, V]) Snapshot() []utils.Pair[K, V] {
	return snapshotList(c.order)
}

func (c *LRU[K, V]) evict() {
	victim := c.order.Front()
	if victim == nil {
		utils.RaiseInvariant("lru", "evict_empty_cache", "Tried to evict from an empty cache.",
			"capacity", c.capacity, "indexed", len(c.index))
		return
	}
	c.order.Remove(victim)
	delete(c.index, victim.Value.key)
	c.emit(ActionEvicted, victim.Value.key, victim.Value.value)
}

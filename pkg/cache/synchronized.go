package cache

import (
	"sync"

	"github.com/nobletooth/kvcache/pkg/utils"
)

// Synchronized guards one engine with a mutex so it can be shared between goroutines. Get takes the exclusive lock
// too since it updates the policy metadata.
// NOTE: The engine's observer runs while the lock is held, so it must not call back into the Synchronized cache.
type Synchronized[K comparable, V any] struct {
	mux    sync.Mutex
	engine Engine[K, V]
}

// NewSynchronized wraps `engine`; the caller must not use `engine` directly afterwards.
func NewSynchronized[K comparable, V any](engine Engine[K, V]) *Synchronized[K, V] {
	return &Synchronized[K, V]{engine: engine}
}

func (s *Synchronized[K, V]) Put(key K, value V) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.engine.Put(key, value)
}

func (s *Synchronized[K, V]) Get(key K) (V, bool /*found*/) {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.engine.Get(key)
}

func (s *Synchronized[K, V]) Snapshot() []utils.Pair[K, V] {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.engine.Snapshot()
}

func (s *Synchronized[K, V]) Len() int {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.engine.Len()
}

// Capacity and Policy are immutable, no locking needed.
func (s *Synchronized[K, V]) Capacity() int  { return s.engine.Capacity() }
func (s *Synchronized[K, V]) Policy() Policy { return s.engine.Policy() }

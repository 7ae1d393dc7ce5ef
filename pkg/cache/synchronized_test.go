package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynchronized_ConcurrentAccess(t *testing.T) {
	engine, err := NewLFU[int, int](64 /*capacity*/, nil /*observer*/)
	require.NoError(t, err)
	synced := NewSynchronized[int, int](engine)
	assert.Equal(t, PolicyLFU, synced.Policy())
	assert.Equal(t, 64, synced.Capacity())

	var wg sync.WaitGroup
	for worker := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1_000 {
				key := (worker*31 + i) % 128
				synced.Put(key, key*2)
				if value, found := synced.Get(key); found {
					assert.Equal(t, key*2, value)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 64, synced.Len())
	assert.Len(t, synced.Snapshot(), 64)
}

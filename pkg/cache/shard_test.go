package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharded_PutAndGet(t *testing.T) {
	sc, err := NewSharded[string, int](PolicyLRU, 100 /*capacity*/, 10 /*shardCount*/, nil /*observer*/)
	require.NoError(t, err)
	t.Run("existing_key", func(t *testing.T) {
		sc.Put("hello", 123)
		got, found := sc.Get("hello")
		assert.True(t, found, "Expected to find key %q", "hello")
		assert.Equal(t, 123, got)
	})
	t.Run("missing_key", func(t *testing.T) {
		_, found := sc.Get("non-existent")
		assert.False(t, found)
	})
}

func TestSharded_CapacitySplit(t *testing.T) {
	sc, err := NewSharded[int, int](PolicyFIFO, 10 /*capacity*/, 4 /*shardCount*/, nil /*observer*/)
	require.NoError(t, err)
	assert.Equal(t, 4, sc.ShardCount())
	assert.Equal(t, 10, sc.Capacity())
	assert.Equal(t, PolicyFIFO, sc.Policy())
	var capacities []int
	for _, shard := range sc.shards {
		capacities = append(capacities, shard.Capacity())
	}
	assert.Equal(t, []int{3, 3, 2, 2}, capacities)

	for i := range 1_000 {
		sc.Put(i, i)
		require.LessOrEqual(t, sc.Len(), sc.Capacity())
	}
	assert.Len(t, sc.Snapshot(), sc.Len())
}

func TestSharded_InvalidArguments(t *testing.T) {
	_, err := NewSharded[string, int](PolicyLRU, 3 /*capacity*/, 4 /*shardCount*/, nil /*observer*/)
	assert.ErrorIs(t, err, ErrInvalidCapacity)

	_, err = NewSharded[string, int](Policy(0), 4 /*capacity*/, 2 /*shardCount*/, nil /*observer*/)
	assert.ErrorIs(t, err, ErrUnknownPolicy)
}

func TestSharded_KeyTypes(t *testing.T) {
	type compositeKey struct {
		Name string
		Age  int
	}
	t.Run("int64", func(t *testing.T) {
		sc, err := NewSharded[int64, string](PolicyLFU, 8, 4, nil /*observer*/)
		require.NoError(t, err)
		sc.Put(42, "answer")
		got, found := sc.Get(42)
		assert.True(t, found)
		assert.Equal(t, "answer", got)
	})
	t.Run("uint64", func(t *testing.T) {
		sc, err := NewSharded[uint64, string](PolicyLFU, 8, 4, nil /*observer*/)
		require.NoError(t, err)
		sc.Put(7, "seven")
		got, found := sc.Get(7)
		assert.True(t, found)
		assert.Equal(t, "seven", got)
	})
	t.Run("struct", func(t *testing.T) {
		sc, err := NewSharded[compositeKey, int](PolicyLRU, 8, 4, nil /*observer*/)
		require.NoError(t, err)
		key := compositeKey{Name: "Go", Age: 15}
		sc.Put(key, 1)
		got, found := sc.Get(compositeKey{Name: "Go", Age: 15})
		assert.True(t, found)
		assert.Equal(t, 1, got)
	})
}

// TestSharded_Distribution verifies that keys are distributed across every shard.
func TestSharded_Distribution(t *testing.T) {
	shardCount := 10
	keyCount := 100_000
	sc, err := NewSharded[string, int](PolicyFIFO, keyCount, shardCount, nil /*observer*/)
	require.NoError(t, err)
	for i := range keyCount {
		sc.Put(fmt.Sprintf("key-%d", i), i)
	}
	for _, shard := range sc.shards {
		assert.Greater(t, shard.Len(), keyCount/(2*shardCount),
			"Expected keys in each shard to be at least half the keys compared to the uniform distribution.")
	}
}

func TestSharded_Concurrency(t *testing.T) {
	numGoroutines := 50
	itemsPerGoroutine := 50

	var eventsMux sync.Mutex
	evictions := 0
	sc, err := NewSharded[string, int](PolicyLRU, 1000 /*capacity*/, 8 /*shardCount*/, func(event Event[string, int]) {
		if event.Action == ActionEvicted {
			eventsMux.Lock()
			evictions++
			eventsMux.Unlock()
		}
	})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range numGoroutines {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for j := range itemsPerGoroutine {
				sc.Put(fmt.Sprintf("key-%d-%d", goroutineID, j), goroutineID*100+j)
			}
		}(i)
	}
	wg.Wait()

	for i := range numGoroutines {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for j := range itemsPerGoroutine {
				// The key may have been evicted, but a found value must be the right one.
				if val, found := sc.Get(fmt.Sprintf("key-%d-%d", goroutineID, j)); found {
					assert.Equal(t, goroutineID*100+j, val)
				}
			}
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, sc.Len(), 1000)
	eventsMux.Lock()
	defer eventsMux.Unlock()
	assert.Equal(t, numGoroutines*itemsPerGoroutine-sc.Len(), evictions)
}

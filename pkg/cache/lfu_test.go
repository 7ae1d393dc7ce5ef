package cache

import (
	"container/heap"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLFU_EvictsLeastFrequentlyUsed(t *testing.T) {
	recorder := new(eventRecorder[string, int])
	lfu, err := NewLFU[string, int](3 /*capacity*/, recorder.observe)
	require.NoError(t, err)

	lfu.Put("a", 1)
	lfu.Put("b", 2)
	lfu.Put("c", 3)
	lfu.Get("a")
	lfu.Get("a")
	lfu.Get("b")
	assert.Equal(t, uint64(3), lfu.Frequency("a"))
	assert.Equal(t, uint64(2), lfu.Frequency("b"))
	assert.Equal(t, uint64(1), lfu.Frequency("c"))

	lfu.Put("d", 4)
	assert.Contains(t, recorder.events, Event[string, int]{Action: ActionEvicted, Key: "c", Value: 3})
	assert.Equal(t, []string{"a", "b", "d"}, snapshotKeys(lfu.Snapshot()))
	assert.Equal(t, uint64(0), lfu.Frequency("c"))
	assert.Equal(t, uint64(1), lfu.Frequency("d"))
}

func TestLFU_TieBreaksOnOldestInsertion(t *testing.T) {
	var evicted []string
	lfu, err := NewLFU[string, int](3, func(event Event[string, int]) {
		if event.Action == ActionEvicted {
			evicted = append(evicted, event.Key)
		}
	})
	require.NoError(t, err)

	lfu.Put("a", 1)
	lfu.Put("b", 2)
	lfu.Put("c", 3)
	lfu.Get("a")
	lfu.Get("b")
	lfu.Get("c") // All keys at frequency 2, "a" is the oldest.
	lfu.Put("d", 4)
	lfu.Put("e", 5) // "d" is the only key at frequency 1.

	assert.Equal(t, []string{"a", "d"}, evicted)
	assert.Equal(t, []string{"b", "c", "e"}, snapshotKeys(lfu.Snapshot()))
}

func TestLFU_OverwriteBumpsFrequency(t *testing.T) {
	lfu, err := NewLFU[string, int](2 /*capacity*/, nil /*observer*/)
	require.NoError(t, err)

	lfu.Put("a", 1)
	lfu.Put("b", 2)
	lfu.Put("a", 10)
	assert.Equal(t, uint64(2), lfu.Frequency("a"))
	// Overwriting keeps the insertion position.
	assert.Equal(t, []string{"a", "b"}, snapshotKeys(lfu.Snapshot()))

	lfu.Put("c", 3)
	value, found := lfu.Get("a")
	assert.True(t, found)
	assert.Equal(t, 10, value)
	_, found = lfu.Get("b")
	assert.False(t, found)
}

func TestLFU_HeapStaysConsistent(t *testing.T) {
	lfu, err := NewLFU[int, int](16 /*capacity*/, nil /*observer*/)
	require.NoError(t, err)
	for i := range 500 {
		lfu.Put(i%40, i)
		lfu.Get((i * 7) % 40)
	}
	require.Len(t, lfu.victims, lfu.Len())
	require.Equal(t, lfu.insertions.Len(), lfu.Len())
	for i, e := range lfu.victims {
		assert.Equal(t, i, e.heapIndex)
		assert.Same(t, e, lfu.index[e.key])
	}
	// Popping a copy of the heap yields non-decreasing frequencies.
	victims := append(frequencyHeap[int, int](nil), lfu.victims...)
	previous := uint64(0)
	for victims.Len() > 0 {
		e := heap.Pop(&victims).(*lfuEntry[int, int])
		assert.GreaterOrEqual(t, e.frequency, previous)
		previous = e.frequency
	}
}

// Nothing to see here in this module. Couldn't find a better place for Pair.

package utils

// Pair is a key with its value, e.g. one row of a cache snapshot.
type Pair[K any, V any] struct {
	Key   K
	Value V
}

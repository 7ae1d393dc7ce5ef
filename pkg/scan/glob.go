// Snapshots can be narrowed down to the keys matching a glob pattern, e.g. "user:*" or "key?".

package scan

import (
	"fmt"
	"iter"

	"github.com/nobletooth/kvcache/pkg/utils"
	"v.io/v23/glob"
)

// MatchGlob filters the `pairs` stream down to the keys matching `pattern`. An empty pattern matches everything.
func MatchGlob[V any](pattern string, pairs iter.Seq[utils.Pair[string, V]]) (iter.Seq[utils.Pair[string, V]], error) {
	if pattern == "" {
		return pairs, nil
	}
	parsedPattern, err := glob.Parse(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}
	return func(yield func(utils.Pair[string, V]) bool) {
		for pair := range pairs {
			if parsedPattern.Head().Match(pair.Key) {
				if !yield(pair) {
					return
				}
			}
		}
	}, nil
}

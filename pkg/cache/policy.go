package cache

import (
	"fmt"
	"strings"
)

// Policy selects the eviction rule of an engine.
type Policy uint8

const (
	PolicyLRU  Policy = iota + 1 // Evicts the least recently inserted or read key.
	PolicyFIFO                   // Evicts the first inserted key; reads don't matter.
	PolicyLFU                    // Evicts the least frequently used key; the oldest one among ties.
)

// Policies lists every supported policy.
var Policies = []Policy{PolicyLRU, PolicyFIFO, PolicyLFU}

func (p Policy) String() string {
	switch p {
	case PolicyLRU:
		return "LRU"
	case PolicyFIFO:
		return "FIFO"
	case PolicyLFU:
		return "LFU"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy parses a policy name such as "lru" or "LFU".
func ParsePolicy(name string) (Policy, error) {
	for _, policy := range Policies {
		if strings.EqualFold(strings.TrimSpace(name), policy.String()) {
			return policy, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

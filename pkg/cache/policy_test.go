package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePolicy(t *testing.T) {
	for _, testCase := range []struct {
		name     string
		input    string
		expected Policy
		wantErr  bool
	}{
		{name: "upper", input: "LRU", expected: PolicyLRU},
		{name: "lower", input: "fifo", expected: PolicyFIFO},
		{name: "mixed_with_spaces", input: " Lfu ", expected: PolicyLFU},
		{name: "unknown", input: "ARC", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			policy, err := ParsePolicy(testCase.input)
			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrUnknownPolicy)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testCase.expected, policy)
		})
	}
}

func TestPolicy_String(t *testing.T) {
	for _, policy := range Policies {
		parsed, err := ParsePolicy(policy.String())
		assert.NoError(t, err)
		assert.Equal(t, policy, parsed)
	}
	assert.Equal(t, "Policy(9)", Policy(9).String())
}

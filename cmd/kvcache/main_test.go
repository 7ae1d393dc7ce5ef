package main

import (
	"bytes"
	"testing"

	"github.com/nobletooth/kvcache/pkg/config"
	"github.com/nobletooth/kvcache/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsAreRegisteredInConfig(t *testing.T) {
	unregisteredFlags := config.CollectUnregisteredFlags()
	if len(unregisteredFlags) != 0 {
		t.Fail()
		for _, flagErr := range unregisteredFlags {
			t.Error(flagErr)
		}
	}
}

func TestPrintBuildInfo(t *testing.T) {
	out := new(bytes.Buffer)
	require.NoError(t, printBuildInfo(out))
	assert.Equal(t, "kvcache "+utils.Version+" (commit: "+utils.Commit+", built: "+utils.BuildTime+")\n", out.String())

	assert.ErrorContains(t, printBuildInfo(failingWriter{}), "disk full")
}

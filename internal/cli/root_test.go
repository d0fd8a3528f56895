package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "find", "elements", "structure", "analyze", "symbols", "version"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestRootFlags(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("root"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("quiet"))
	assert.Equal(t, ".", rootCmd.PersistentFlags().Lookup("root").DefValue)
}

func TestFindModeFlagDefault(t *testing.T) {
	flag := findCmd.Flags().Lookup("mode")
	require.NotNil(t, flag)
	assert.Equal(t, "direct", flag.DefValue)
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUICmd_Exists(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Use == "tui" {
			found = true
			break
		}
	}
	assert.True(t, found, "tui command should be registered")
}

func TestTUICmd_ShortDescription(t *testing.T) {
	assert.Equal(t, "Launch the interactive chat", tuiCmd.Short)
}

func TestTUICmd_HelpOutput(t *testing.T) {
	env := newTestEnv(t, nil)

	out, err := env.run(t, "tui", "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "interactive terminal chat")
	assert.Contains(t, out, "Controls:")
	assert.Contains(t, out, "Ctrl+T")
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")

	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
	assert.Equal(t, "p", flag.Shorthand)
}

func TestMCPServeCmd_InvalidModeFails(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.run(t, "mcp", "serve", "--mode", "nope")

	assert.Error(t, err)
}

func TestRootCmd_GlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "config-dir", "backend", "mode"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

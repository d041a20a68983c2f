package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"serve", "classify", "verify", "signatures", "batches", "metrics", "prefs", "export", "import", "sample", "model"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "signature-cli", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestExportCommand_Flags(t *testing.T) {
	flag := exportCmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "json", flag.DefValue)
	require.NotNil(t, exportCmd.Flags().Lookup("out"))
}

func TestSampleCommand_Flags(t *testing.T) {
	flag := sampleCmd.Flags().Lookup("count")
	require.NotNil(t, flag)
	assert.Equal(t, "10", flag.DefValue)
}

func TestSubcommandTrees(t *testing.T) {
	tests := map[string][]string{
		"signatures": {"list", "get", "delete"},
		"batches":    {"list", "create", "summarize", "delete"},
		"prefs":      {"get", "set"},
		"model":      {"health", "info", "reload"},
	}
	for parent, children := range tests {
		cmd, _, err := rootCmd.Find([]string{parent})
		require.NoError(t, err, parent)
		names := make(map[string]bool)
		for _, c := range cmd.Commands() {
			names[c.Name()] = true
		}
		for _, child := range children {
			assert.True(t, names[child], "%s %s not found", parent, child)
		}
	}
}

package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_HasDebugFlag(t *testing.T) {
	root := NewRootCmd()

	serveCmd, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)

	flag := serveCmd.Flags().Lookup("debug")
	assert.NotNil(t, flag, "serve should have --debug flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestServeCmd_HasTransportFlagDefaultingToStdio(t *testing.T) {
	root := NewRootCmd()

	serveCmd, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)

	flag := serveCmd.Flags().Lookup("transport")
	assert.NotNil(t, flag, "serve should have --transport flag")
	assert.Equal(t, "stdio", flag.DefValue)
}

func TestVerifyStdinForMCP_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = verifyStdinForMCP()
	})
}

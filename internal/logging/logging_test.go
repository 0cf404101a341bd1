package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_ReturnsLoggerAndCleanup(t *testing.T) {
	logger, cleanup, err := Setup(DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.NotNil(t, cleanup)
	cleanup()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"debug":   "DEBUG",
		"info":    "INFO",
		"warn":    "WARN",
		"warning": "WARN",
		"error":   "ERROR",
		"":        "INFO",
		"bogus":   "INFO",
	}

	for input, want := range cases {
		got := LevelFromString(input)
		assert.Equal(t, want, got.String(), "level %q", input)
	}
}

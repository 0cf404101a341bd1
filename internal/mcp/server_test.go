package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedsearch/fedsearch/internal/search"
)

func TestNewServer_RequiresPipeline(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Error(t, err)
}

func TestNewServer_RegistersSearchTool(t *testing.T) {
	p := search.NewPipeline(nil, search.NewRegistry(), search.NewDispatcher(0, 0, nil), nil)

	s, err := NewServer(p, nil)

	require.NoError(t, err)
	assert.NotNil(t, s.MCPServer())
	name, ver := s.Info()
	assert.Equal(t, "fedsearch", name)
	assert.NotEmpty(t, ver)
}

func TestServer_Close_NoError(t *testing.T) {
	p := search.NewPipeline(nil, search.NewRegistry(), search.NewDispatcher(0, 0, nil), nil)
	s, err := NewServer(p, nil)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestServer_Serve_RejectsUnknownTransport(t *testing.T) {
	p := search.NewPipeline(nil, search.NewRegistry(), search.NewDispatcher(0, 0, nil), nil)
	s, err := NewServer(p, nil)
	require.NoError(t, err)

	err = s.Serve(context.Background(), "carrier-pigeon")
	assert.Error(t, err)
}

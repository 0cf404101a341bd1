package mcp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
)

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMapError_SetsIsError(t *testing.T) {
	result := MapError(amerrors.NetworkError("brave.com unreachable", nil))
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
}

func TestUserMessage_Network(t *testing.T) {
	msg := userMessage(amerrors.NetworkError("connection refused", nil))
	assert.Equal(t, "Network error: connection refused", msg)
}

func TestUserMessage_RateLimit(t *testing.T) {
	msg := userMessage(amerrors.RateLimitError("too many requests", 4500))
	assert.Equal(t, "Rate limit: Retry after 4 seconds", msg)
}

func TestUserMessage_InvalidQuery_EncodingIssue(t *testing.T) {
	msg := userMessage(amerrors.InvalidQueryError([]string{"query cannot be properly encoded in Latin-1"}))
	assert.Contains(t, msg, "Latin-script")
}

func TestUserMessage_InvalidQuery_OtherIssue(t *testing.T) {
	msg := userMessage(amerrors.InvalidQueryError([]string{"query too long", "contains forbidden characters"}))
	assert.Equal(t, "Invalid query: query too long, contains forbidden characters", msg)
}

func TestUserMessage_Authorization(t *testing.T) {
	msg := userMessage(amerrors.AuthorizationError("invalid API key for brave"))
	assert.Equal(t, "invalid API key for brave", msg)
}

func TestUserMessage_Classification(t *testing.T) {
	msg := userMessage(amerrors.ClassificationError("could not classify empty query"))
	assert.Equal(t, "Query classification error: could not classify empty query", msg)
}

func TestUserMessage_NoAdapterAvailable(t *testing.T) {
	msg := userMessage(amerrors.NoAdapterAvailableError("no adapter supports category web3"))
	assert.Equal(t, "No search provider available: no adapter supports category web3", msg)
}

func TestUserMessage_NonSearchError(t *testing.T) {
	msg := userMessage(errors.New("boom"))
	assert.Equal(t, "Internal error: boom", msg)
}

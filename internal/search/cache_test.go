package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheKey_Format(t *testing.T) {
	key := CacheKey("brave", QueryParams{Q: "golang", MaxResults: 20})
	assert.Equal(t, "search:brave:golang:20:any:any", key)

	key = CacheKey("tavily", QueryParams{Q: "golang", MaxResults: 10, Country: "US", Language: "en"})
	assert.Equal(t, "search:tavily:golang:10:US:en", key)
}

func TestCache_SetGet_RoundTrip(t *testing.T) {
	c := NewCache(10)
	resp := &SearchResponse{TotalResults: 1}

	c.Set("k1", resp)

	got, ok := c.Get("k1")
	require.True(t, ok)
	assert.Same(t, resp, got)
}

func TestCache_Get_MissForUnknownKey(t *testing.T) {
	c := NewCache(10)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCache_Get_ExpiredEntryIsMiss(t *testing.T) {
	c := NewCache(10)
	now := time.Now()
	c.clock = func() time.Time { return now }

	c.SetTTL("k1", &SearchResponse{}, 10*time.Millisecond)

	c.clock = func() time.Time { return now.Add(20 * time.Millisecond) }
	_, ok := c.Get("k1")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestCache_RemoveExpired_SweepsStaleEntries(t *testing.T) {
	c := NewCache(10)
	now := time.Now()
	c.clock = func() time.Time { return now }

	c.SetTTL("stale", &SearchResponse{}, 1*time.Millisecond)
	c.SetTTL("fresh", &SearchResponse{}, time.Hour)

	c.clock = func() time.Time { return now.Add(time.Second) }
	c.RemoveExpired()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestCache_Clear_EmptiesStore(t *testing.T) {
	c := NewCache(10)
	c.Set("k1", &SearchResponse{})
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

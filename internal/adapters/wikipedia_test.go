package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedsearch/fedsearch/internal/search"
)

func TestWikipediaAdapter_Search_StripsHighlightMarkup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"query":{"search":[{"title":"Test query","snippet":"a <span class=\"searchmatch\">test</span> article"}]}}`))
	}))
	defer srv.Close()

	a := NewWikipediaAdapter(srv.URL)
	resp, err := a.Search(context.Background(), search.QueryParams{Q: "test query", MaxResults: 10})

	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "a test article", resp.Results[0].Snippet)
	assert.Contains(t, resp.Results[0].URL, "Test_query")
	assert.Equal(t, "wikipedia", resp.Results[0].Source)
}

func TestWikipediaAdapter_NoAPIKeyRequired(t *testing.T) {
	a := NewWikipediaAdapter("")
	assert.True(t, a.Descriptor().SupportsCategory(search.CategoryAcademic))
}

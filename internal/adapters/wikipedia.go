package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
	"github.com/fedsearch/fedsearch/internal/search"
)

const wikipediaDefaultBaseURL = "https://en.wikipedia.org/w/api.php"

var wikipediaRelevance = map[search.QueryCategory]float64{
	search.CategoryGeneral:  0.6,
	search.CategoryAcademic: 0.8,
	search.CategoryQA:       0.5,
}

// htmlTagPattern strips the <span class="searchmatch"> highlighting
// Wikipedia's search API embeds in result snippets.
var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// WikipediaAdapter queries the Wikipedia MediaWiki search API.
type WikipediaAdapter struct {
	client     *http.Client
	baseURL    string
	descriptor search.AdapterDescriptor
}

var _ search.Adapter = (*WikipediaAdapter)(nil)

// NewWikipediaAdapter builds a WikipediaAdapter. Wikipedia's search API
// requires no API key.
func NewWikipediaAdapter(baseURL string) *WikipediaAdapter {
	if baseURL == "" {
		baseURL = wikipediaDefaultBaseURL
	}
	return &WikipediaAdapter{
		client:  newHTTPClient(),
		baseURL: baseURL,
		descriptor: search.NewAdapterDescriptor("wikipedia", "Wikipedia",
			search.CategoryGeneral, search.CategoryAcademic, search.CategoryQA),
	}
}

func (a *WikipediaAdapter) Descriptor() search.AdapterDescriptor { return a.descriptor }

func (a *WikipediaAdapter) RelevanceScore(_ string, category search.QueryCategory) float64 {
	if score, ok := wikipediaRelevance[category]; ok {
		return score
	}
	return 0.3
}

type wikipediaSearchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

func (a *WikipediaAdapter) Search(ctx context.Context, params search.QueryParams) (*search.SearchResponse, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("list", "search")
	q.Set("format", "json")
	q.Set("srsearch", params.Q)
	q.Set("srlimit", fmt.Sprintf("%d", params.MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, amerrors.InternalError("failed to build wikipedia request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, amerrors.NetworkError("wikipedia: "+err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError("wikipedia", resp)
	}

	var parsed wikipediaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, amerrors.NetworkError("wikipedia: failed to decode response: "+err.Error(), err)
	}

	results := make([]*search.SearchResult, 0, len(parsed.Query.Search))
	for i, r := range parsed.Query.Search {
		rank := i + 1
		results = append(results, &search.SearchResult{
			Title:   r.Title,
			URL:     wikipediaArticleURL(r.Title),
			Snippet: htmlTagPattern.ReplaceAllString(r.Snippet, ""),
			Rank:    &rank,
			Source:  "wikipedia",
		})
	}

	return &search.SearchResponse{
		Query:        params,
		Results:      results,
		TotalResults: len(results),
		Source:       "wikipedia",
	}, nil
}

func wikipediaArticleURL(title string) string {
	return "https://en.wikipedia.org/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

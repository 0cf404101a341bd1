package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
	"github.com/fedsearch/fedsearch/internal/search"
)

const stackExchangeDefaultBaseURL = "https://api.stackexchange.com/2.3"

var stackExchangeRelevance = map[search.QueryCategory]float64{
	search.CategoryProgramming: 0.7,
	search.CategoryTechnical:   0.6,
	search.CategoryQA:          0.8,
}

// StackExchangeAdapter queries the Stack Exchange search/advanced API,
// scoped to Stack Overflow.
type StackExchangeAdapter struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	descriptor search.AdapterDescriptor
}

var _ search.Adapter = (*StackExchangeAdapter)(nil)

// NewStackExchangeAdapter builds a StackExchangeAdapter. apiKey is optional
// — it only raises the unauthenticated rate-limit quota.
func NewStackExchangeAdapter(apiKey, baseURL string) *StackExchangeAdapter {
	if baseURL == "" {
		baseURL = stackExchangeDefaultBaseURL
	}
	return &StackExchangeAdapter{
		client:  newHTTPClient(),
		apiKey:  apiKey,
		baseURL: baseURL,
		descriptor: search.NewAdapterDescriptor("stackexchange", "Stack Exchange",
			search.CategoryProgramming, search.CategoryTechnical, search.CategoryQA),
	}
}

func (a *StackExchangeAdapter) Descriptor() search.AdapterDescriptor { return a.descriptor }

func (a *StackExchangeAdapter) RelevanceScore(_ string, category search.QueryCategory) float64 {
	if score, ok := stackExchangeRelevance[category]; ok {
		return score
	}
	return 0.2
}

type stackExchangeSearchResponse struct {
	Items []struct {
		Title         string `json:"title"`
		Link          string `json:"link"`
		CreationEpoch int64  `json:"creation_date"`
	} `json:"items"`
}

func (a *StackExchangeAdapter) Search(ctx context.Context, params search.QueryParams) (*search.SearchResponse, error) {
	q := url.Values{}
	q.Set("order", "desc")
	q.Set("sort", "relevance")
	q.Set("intitle", params.Q)
	q.Set("site", "stackoverflow")
	q.Set("pagesize", fmt.Sprintf("%d", params.MaxResults))
	if a.apiKey != "" {
		q.Set("key", a.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/search/advanced?"+q.Encode(), nil)
	if err != nil {
		return nil, amerrors.InternalError("failed to build stackexchange request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, amerrors.NetworkError("stackexchange: "+err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError("stackexchange", resp)
	}

	var parsed stackExchangeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, amerrors.NetworkError("stackexchange: failed to decode response: "+err.Error(), err)
	}

	results := make([]*search.SearchResult, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		rank := i + 1
		published := time.Unix(item.CreationEpoch, 0).UTC()
		results = append(results, &search.SearchResult{
			Title:     item.Title,
			URL:       item.Link,
			Published: &published,
			Rank:      &rank,
			Source:    "stackexchange",
		})
	}

	return &search.SearchResponse{
		Query:        params,
		Results:      results,
		TotalResults: len(results),
		Source:       "stackexchange",
	}, nil
}

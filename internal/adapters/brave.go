package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
	"github.com/fedsearch/fedsearch/internal/search"
)

const braveDefaultBaseURL = "https://api.search.brave.com/res/v1/web/search"

// braveRelevance scores Brave as a strong general-purpose web search engine
// across every category, since its index is not topic-restricted.
var braveRelevance = map[search.QueryCategory]float64{
	search.CategoryGeneral:     0.9,
	search.CategoryProgramming: 0.6,
	search.CategoryWeb3:        0.6,
	search.CategoryAcademic:    0.5,
	search.CategoryTechnical:   0.6,
	search.CategoryQA:          0.7,
}

// BraveAdapter queries the Brave Search API.
type BraveAdapter struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	descriptor search.AdapterDescriptor
}

var _ search.Adapter = (*BraveAdapter)(nil)

// NewBraveAdapter builds a BraveAdapter. apiKey must be non-empty; the
// caller (RegisterAll) is responsible for not registering it otherwise.
func NewBraveAdapter(apiKey, baseURL string) *BraveAdapter {
	if baseURL == "" {
		baseURL = braveDefaultBaseURL
	}
	return &BraveAdapter{
		client:  newHTTPClient(),
		apiKey:  apiKey,
		baseURL: baseURL,
		descriptor: search.NewAdapterDescriptor("brave", "Brave Search",
			search.CategoryGeneral, search.CategoryProgramming, search.CategoryWeb3,
			search.CategoryAcademic, search.CategoryTechnical, search.CategoryQA),
	}
}

func (a *BraveAdapter) Descriptor() search.AdapterDescriptor { return a.descriptor }

func (a *BraveAdapter) RelevanceScore(_ string, category search.QueryCategory) float64 {
	if score, ok := braveRelevance[category]; ok {
		return score
	}
	return 0.5
}

type braveSearchResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

func (a *BraveAdapter) Search(ctx context.Context, params search.QueryParams) (*search.SearchResponse, error) {
	q := url.Values{}
	q.Set("q", params.Q)
	q.Set("count", fmt.Sprintf("%d", params.MaxResults))
	if params.Country != "" {
		q.Set("country", params.Country)
	}
	if params.Language != "" {
		q.Set("search_lang", params.Language)
	}
	if params.Freshness != "" {
		q.Set("freshness", braveFreshness(params.Freshness))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, amerrors.InternalError("failed to build brave request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, amerrors.NetworkError("brave: "+err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError("brave", resp)
	}

	var parsed braveSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, amerrors.NetworkError("brave: failed to decode response: "+err.Error(), err)
	}

	results := make([]*search.SearchResult, 0, len(parsed.Web.Results))
	for i, r := range parsed.Web.Results {
		rank := i + 1
		results = append(results, &search.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Description,
			Rank:    &rank,
			Source:  "brave",
		})
	}

	return &search.SearchResponse{
		Query:        params,
		Results:      results,
		TotalResults: len(results),
		Source:       "brave",
	}, nil
}

func braveFreshness(f search.Freshness) string {
	switch f {
	case search.FreshnessDay:
		return "pd"
	case search.FreshnessWeek:
		return "pw"
	case search.FreshnessMonth:
		return "pm"
	default:
		return ""
	}
}

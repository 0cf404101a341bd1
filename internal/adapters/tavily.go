package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
	"github.com/fedsearch/fedsearch/internal/search"
)

const tavilyDefaultBaseURL = "https://api.tavily.com/search"

var tavilyRelevance = map[search.QueryCategory]float64{
	search.CategoryGeneral:     0.85,
	search.CategoryProgramming: 0.55,
	search.CategoryWeb3:        0.55,
	search.CategoryAcademic:    0.6,
	search.CategoryTechnical:   0.55,
	search.CategoryQA:          0.75,
}

// TavilyAdapter queries the Tavily AI-native search API.
type TavilyAdapter struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	descriptor search.AdapterDescriptor
}

var _ search.Adapter = (*TavilyAdapter)(nil)

// NewTavilyAdapter builds a TavilyAdapter.
func NewTavilyAdapter(apiKey, baseURL string) *TavilyAdapter {
	if baseURL == "" {
		baseURL = tavilyDefaultBaseURL
	}
	return &TavilyAdapter{
		client:  newHTTPClient(),
		apiKey:  apiKey,
		baseURL: baseURL,
		descriptor: search.NewAdapterDescriptor("tavily", "Tavily",
			search.CategoryGeneral, search.CategoryProgramming, search.CategoryWeb3,
			search.CategoryAcademic, search.CategoryTechnical, search.CategoryQA),
	}
}

func (a *TavilyAdapter) Descriptor() search.AdapterDescriptor { return a.descriptor }

func (a *TavilyAdapter) RelevanceScore(_ string, category search.QueryCategory) float64 {
	if score, ok := tavilyRelevance[category]; ok {
		return score
	}
	return 0.5
}

type tavilySearchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilySearchResponse struct {
	Results []struct {
		Title   string  `json:"title"`
		URL     string  `json:"url"`
		Content string  `json:"content"`
		Score   float64 `json:"score"`
	} `json:"results"`
}

func (a *TavilyAdapter) Search(ctx context.Context, params search.QueryParams) (*search.SearchResponse, error) {
	reqBody, err := json.Marshal(tavilySearchRequest{
		APIKey:     a.apiKey,
		Query:      params.Q,
		MaxResults: params.MaxResults,
	})
	if err != nil {
		return nil, amerrors.InternalError("failed to marshal tavily request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, amerrors.InternalError("failed to build tavily request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, amerrors.NetworkError("tavily: "+err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError("tavily", resp)
	}

	var parsed tavilySearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, amerrors.NetworkError("tavily: failed to decode response: "+err.Error(), err)
	}

	results := make([]*search.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		score := r.Score
		results = append(results, &search.SearchResult{
			Title:          r.Title,
			URL:            r.URL,
			Snippet:        r.Content,
			RelevanceScore: &score,
			Source:         "tavily",
		})
	}

	return &search.SearchResponse{
		Query:        params,
		Results:      results,
		TotalResults: len(results),
		Source:       "tavily",
	}, nil
}

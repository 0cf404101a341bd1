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

const githubDefaultBaseURL = "https://api.github.com"

var githubRelevance = map[search.QueryCategory]float64{
	search.CategoryProgramming: 0.9,
	search.CategoryTechnical:   0.4,
}

// GitHubAdapter queries the GitHub repository search API.
type GitHubAdapter struct {
	client     *http.Client
	token      string
	baseURL    string
	descriptor search.AdapterDescriptor
}

var _ search.Adapter = (*GitHubAdapter)(nil)

// NewGitHubAdapter builds a GitHubAdapter. token is optional — GitHub's
// search API works unauthenticated at a much lower rate limit.
func NewGitHubAdapter(token, baseURL string) *GitHubAdapter {
	if baseURL == "" {
		baseURL = githubDefaultBaseURL
	}
	return &GitHubAdapter{
		client:  newHTTPClient(),
		token:   token,
		baseURL: baseURL,
		descriptor: search.NewAdapterDescriptor("github", "GitHub",
			search.CategoryProgramming, search.CategoryTechnical),
	}
}

func (a *GitHubAdapter) Descriptor() search.AdapterDescriptor { return a.descriptor }

func (a *GitHubAdapter) RelevanceScore(_ string, category search.QueryCategory) float64 {
	if score, ok := githubRelevance[category]; ok {
		return score
	}
	return 0.2
}

type githubRepoSearchResponse struct {
	Items []struct {
		FullName    string `json:"full_name"`
		HTMLURL     string `json:"html_url"`
		Description string `json:"description"`
	} `json:"items"`
	TotalCount int `json:"total_count"`
}

func (a *GitHubAdapter) Search(ctx context.Context, params search.QueryParams) (*search.SearchResponse, error) {
	q := url.Values{}
	q.Set("q", params.Q)
	q.Set("per_page", fmt.Sprintf("%d", params.MaxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/search/repositories?"+q.Encode(), nil)
	if err != nil {
		return nil, amerrors.InternalError("failed to build github request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, amerrors.NetworkError("github: "+err.Error(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyHTTPError("github", resp)
	}

	var parsed githubRepoSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, amerrors.NetworkError("github: failed to decode response: "+err.Error(), err)
	}

	results := make([]*search.SearchResult, 0, len(parsed.Items))
	for i, item := range parsed.Items {
		rank := i + 1
		results = append(results, &search.SearchResult{
			Title:   item.FullName,
			URL:     item.HTMLURL,
			Snippet: item.Description,
			Rank:    &rank,
			Source:  "github",
		})
	}

	return &search.SearchResponse{
		Query:        params,
		Results:      results,
		TotalResults: parsed.TotalCount,
		Source:       "github",
	}, nil
}

package mcp

import (
	amerrors "github.com/fedsearch/fedsearch/internal/errors"
	"github.com/fedsearch/fedsearch/internal/search"
)

// SearchInput defines the input schema for the search tool.
type SearchInput struct {
	Query      string   `json:"query" jsonschema:"the search query to execute, 1 to 200 characters"`
	Context    []string `json:"context,omitempty" jsonschema:"optional list of free-text hints about the caller's intent"`
	MaxResults int      `json:"maxResults,omitempty" jsonschema:"maximum number of results, 1 to 50, default 20"`
	Country    string   `json:"country,omitempty" jsonschema:"ISO-3166-1 alpha-2 country code"`
	Language   string   `json:"language,omitempty" jsonschema:"2 to 5 character language tag"`
	Freshness  string   `json:"freshness,omitempty" jsonschema:"one of day, week, month"`
}

// ToQueryParams validates and converts input into a search.QueryParams.
// Validation failures return a validation SearchError.
func (in SearchInput) ToQueryParams() (search.QueryParams, error) {
	if len(in.Query) == 0 || len(in.Query) > 200 {
		return search.QueryParams{}, amerrors.ValidationError("query must be 1 to 200 characters")
	}
	if in.Country != "" && len(in.Country) != 2 {
		return search.QueryParams{}, amerrors.ValidationError("country must be exactly 2 characters")
	}
	if in.Language != "" && (len(in.Language) < 2 || len(in.Language) > 5) {
		return search.QueryParams{}, amerrors.ValidationError("language must be 2 to 5 characters")
	}

	freshness := search.Freshness(in.Freshness)
	switch freshness {
	case "", search.FreshnessDay, search.FreshnessWeek, search.FreshnessMonth:
	default:
		return search.QueryParams{}, amerrors.ValidationError("freshness must be one of day, week, month")
	}

	return search.QueryParams{
		Q:          in.Query,
		MaxResults: in.MaxResults,
		Country:    in.Country,
		Language:   in.Language,
		Freshness:  freshness,
	}, nil
}

// SearchOutput defines the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results" jsonschema:"list of merged, de-duplicated search results"`
}

// SearchResultOutput is one normalized result in the structured tool output.
type SearchResultOutput struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Snippet   string `json:"snippet"`
	Published string `json:"published,omitempty" jsonschema:"ISO-8601 publish date, if known"`
	Source    string `json:"source"`
}

// ToOutputResults converts internal search results into their MCP output
// shape, preserving order.
func ToOutputResults(results []*search.SearchResult) []SearchResultOutput {
	out := make([]SearchResultOutput, 0, len(results))
	for _, r := range results {
		o := SearchResultOutput{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Snippet,
			Source:  r.Source,
		}
		if r.Published != nil {
			o.Published = r.Published.Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, o)
	}
	return out
}

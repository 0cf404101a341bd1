// Package search implements the federated query pipeline: classification,
// adapter registry and selection, parallel dispatch, and result merging.
package search

import (
	"context"
	"strings"
	"time"
)

// QueryCategory is the closed set of categories the Classifier can produce.
type QueryCategory string

const (
	CategoryGeneral     QueryCategory = "general"
	CategoryProgramming QueryCategory = "programming"
	CategoryWeb3        QueryCategory = "web3"
	CategoryAcademic    QueryCategory = "academic"
	CategoryTechnical   QueryCategory = "technical"
	CategoryQA          QueryCategory = "qa"
)

// Freshness restricts results to a recency window.
type Freshness string

const (
	FreshnessDay   Freshness = "day"
	FreshnessWeek  Freshness = "week"
	FreshnessMonth Freshness = "month"
)

// QueryParams is the validated, normalized input to a federated search.
type QueryParams struct {
	Q          string
	MaxResults int
	Country    string
	Language   string
	Freshness  Freshness

	// Category is a caller-supplied override; empty means "classify it".
	Category QueryCategory
}

const (
	defaultMaxResults = 20
	minMaxResults     = 1
	maxMaxResults     = 50
)

// NormalizeQueryParams trims Q and clamps MaxResults into [1,50], applying
// the default of 20 when unset.
func NormalizeQueryParams(p QueryParams) QueryParams {
	p.Q = strings.TrimSpace(p.Q)
	switch {
	case p.MaxResults == 0:
		p.MaxResults = defaultMaxResults
	case p.MaxResults < minMaxResults:
		p.MaxResults = minMaxResults
	case p.MaxResults > maxMaxResults:
		p.MaxResults = maxMaxResults
	}
	return p
}

// SearchResult is a single normalized hit contributed by one adapter.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string

	// Published is nil when the adapter does not report a publish date.
	Published *time.Time

	// Rank is the adapter's own 1-indexed rank for this result, nil if the
	// adapter does not expose ranking.
	Rank *int

	// RelevanceScore is the adapter's own relevance score in [0,1], nil if
	// the adapter does not expose one.
	RelevanceScore *float64

	// Source is the id of the adapter that produced this result, overridden
	// by the Merger with provenance after a merge.
	Source string
}

// SearchResponse is the envelope produced by a single adapter call, and
// again (after merge) by the Merger.
type SearchResponse struct {
	Query        QueryParams
	Results      []*SearchResult
	TotalResults int
	SearchTime   time.Duration

	// Source is the adapter id for a single-adapter response, or a
	// comma-joined list of contributing adapter ids after a merge.
	Source string
}

// AdapterDescriptor is the immutable identity of a registered adapter.
type AdapterDescriptor struct {
	ID                  string
	Name                string
	SupportedCategories map[QueryCategory]struct{}
}

// SupportsCategory reports whether the adapter declares support for cat.
func (d AdapterDescriptor) SupportsCategory(cat QueryCategory) bool {
	_, ok := d.SupportedCategories[cat]
	return ok
}

// NewAdapterDescriptor builds a descriptor supporting the given categories.
func NewAdapterDescriptor(id, name string, categories ...QueryCategory) AdapterDescriptor {
	set := make(map[QueryCategory]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return AdapterDescriptor{ID: id, Name: name, SupportedCategories: set}
}

// Adapter is the uniform capability every search backend exposes. Concrete
// HTTP adapters (Brave, Tavily, Wikipedia, GitHub, Stack Exchange) implement
// this contract; only the contract, not their bodies, is specified here.
type Adapter interface {
	// Descriptor returns the adapter's immutable identity.
	Descriptor() AdapterDescriptor

	// RelevanceScore is a stateless, cheap estimate in [0,1] of how well this
	// adapter is expected to answer a query in the given category. Used by
	// the Registry to rank candidates before dispatch.
	RelevanceScore(query string, category QueryCategory) float64

	// Search executes the query, honoring MaxResults as an upper bound.
	// Errors are always returned as a *errors.SearchError value.
	Search(ctx context.Context, params QueryParams) (*SearchResponse, error)
}

// Classifier assigns a QueryCategory to free-text input.
type Classifier interface {
	Classify(query string) QueryCategory
}

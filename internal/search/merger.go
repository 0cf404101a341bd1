package search

import (
	"sort"
	"strings"
)

// defaultRank is substituted for an undefined Rank when comparing two
// results that both lack a relevanceScore.
const defaultRank = 100

// Merge combines the ordered list of successful per-adapter responses into
// a single envelope: results are deduplicated by exact URL, sorted by
// relevance, and totals/source are aggregated.
//
// responses must already be in invocation order; that order determines
// both which duplicate wins and the tie-break among equally-ranked results.
func Merge(responses []*SearchResponse) *SearchResponse {
	var all []*SearchResult
	var sources []string
	var total int

	for _, r := range responses {
		total += r.TotalResults
		sources = append(sources, r.Source)
		for _, res := range r.Results {
			res.Source = r.Source
			all = append(all, res)
		}
	}

	deduped := dedupeByURL(all)

	sort.SliceStable(deduped, func(i, j int) bool {
		return moreRelevant(deduped[i], deduped[j])
	})

	return &SearchResponse{
		Results:      deduped,
		TotalResults: total,
		Source:       strings.Join(sources, ","),
	}
}

// dedupeByURL keeps the first occurrence of each exact URL, in input order.
func dedupeByURL(results []*SearchResult) []*SearchResult {
	seen := make(map[string]struct{}, len(results))
	out := make([]*SearchResult, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

// moreRelevant reports whether a should sort before b. A defined
// relevanceScore always beats an undefined one; when both are defined the
// higher score wins; when neither is, the lower rank wins.
func moreRelevant(a, b *SearchResult) bool {
	if a.RelevanceScore != nil && b.RelevanceScore != nil {
		return *a.RelevanceScore > *b.RelevanceScore
	}
	if a.RelevanceScore != nil {
		return true
	}
	if b.RelevanceScore != nil {
		return false
	}
	return rankOrDefault(a) < rankOrDefault(b)
}

func rankOrDefault(r *SearchResult) int {
	if r.Rank != nil {
		return *r.Rank
	}
	return defaultRank
}

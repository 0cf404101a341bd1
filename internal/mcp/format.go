package mcp

import (
	"fmt"
	"strings"

	"github.com/fedsearch/fedsearch/internal/search"
)

// FormatSearchResults renders a merged SearchResponse as the markdown text
// block returned on the content channel. Exactly the string
// "No results found." is returned when there are no results.
func FormatSearchResults(resp *search.SearchResponse) string {
	if resp == nil || len(resp.Results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	for i, r := range resp.Results {
		if i > 0 {
			sb.WriteString("\n")
		}
		formatResult(&sb, i+1, r)
	}
	return sb.String()
}

// formatResult writes one numbered result block:
//
//	N. <title> (<date>) [Source: <adapter-name>]
//	   URL: <url>
//	   <snippet>
func formatResult(sb *strings.Builder, n int, r *search.SearchResult) {
	date := ""
	if r.Published != nil {
		date = r.Published.Format("2006-01-02")
	}

	fmt.Fprintf(sb, "%d. %s (%s) [Source: %s]\n", n, r.Title, date, r.Source)
	fmt.Fprintf(sb, "   URL: %s\n", r.URL)
	fmt.Fprintf(sb, "   %s\n", r.Snippet)
}

// Package adapters provides concrete net/http-based implementations of
// search.Adapter for the external backends spec.md names: Brave, Tavily,
// Wikipedia, GitHub, and Stack Exchange. Each adapter's request/response
// parsing is intentionally minimal — only the fields needed to populate a
// search.SearchResult are mapped.
package adapters

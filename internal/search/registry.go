package search

import (
	"sort"
	"sync"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
)

// breaker is the subset of CircuitBreaker the Registry needs: whether a call
// to an adapter should currently be allowed. Declared locally so callers can
// register adapters without a circuit breaker (Allow always true by default).
type breaker interface {
	Allow() bool
}

// registration pairs an adapter with its optional circuit breaker.
type registration struct {
	adapter Adapter
	breaker breaker
	order   int
}

// Registry owns the process-wide set of live adapters and selects an
// ordered, health-filtered candidate list for a given (category, query).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registration
	next    int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*registration)}
}

// Register adds or overwrites the adapter with its descriptor's id. cb may
// be nil, meaning the adapter is always considered healthy.
func (r *Registry) Register(adapter Adapter, cb breaker) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := adapter.Descriptor().ID
	existing, ok := r.entries[id]
	order := r.next
	if ok {
		order = existing.order
	} else {
		r.next++
	}
	r.entries[id] = &registration{adapter: adapter, breaker: cb, order: order}
}

// Len returns the number of distinct adapters currently registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Get returns the adapter registered under id, or a not-found SearchError.
func (r *Registry) Get(id string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.entries[id]
	if !ok {
		return nil, amerrors.NoAdapterAvailableError("no adapter registered with id " + id)
	}
	return reg.adapter, nil
}

// SelectForCategory returns the adapters supporting category, stable-sorted
// descending by relevanceScore(query, category) with ties broken by
// registration order. Adapters whose circuit breaker currently denies calls
// are excluded from the result entirely.
func (r *Registry) SelectForCategory(category QueryCategory, query string) []Adapter {
	r.mu.RLock()
	candidates := make([]*registration, 0, len(r.entries))
	for _, reg := range r.entries {
		if !reg.adapter.Descriptor().SupportsCategory(category) {
			continue
		}
		if reg.breaker != nil && !reg.breaker.Allow() {
			continue
		}
		candidates = append(candidates, reg)
	}
	r.mu.RUnlock()

	scores := make(map[string]float64, len(candidates))
	for _, reg := range candidates {
		scores[reg.adapter.Descriptor().ID] = reg.adapter.RelevanceScore(query, category)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		si := scores[candidates[i].adapter.Descriptor().ID]
		sj := scores[candidates[j].adapter.Descriptor().ID]
		if si != sj {
			return si > sj
		}
		return candidates[i].order < candidates[j].order
	})

	out := make([]Adapter, len(candidates))
	for i, reg := range candidates {
		out[i] = reg.adapter
	}
	return out
}

package search

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"golang.org/x/sync/errgroup"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
)

// Default dispatch tuning. DefaultAdapterTimeout and DefaultMaxParallelism
// apply when the values passed to NewDispatcher are zero; MaxRetryAttempts
// and defaultRetryAfterMs are fixed.
const (
	DefaultAdapterTimeout = 10 * time.Second
	DefaultMaxParallelism = 8
	MaxRetryAttempts      = 3
	defaultRetryAfterMs   = 60_000
)

// Dispatcher fans a query out to a set of adapters concurrently, retrying
// rate-limited adapters with backoff, and reports per-adapter outcomes in
// invocation order for the Merger to consume.
type Dispatcher struct {
	adapterTimeout time.Duration
	parallelism    int
	logger         *slog.Logger
	breakers       map[string]circuitRecorder
	cache          *Cache
}

// circuitRecorder is the subset of CircuitBreaker the Dispatcher needs to
// record outcomes back into the adapter's health state.
type circuitRecorder interface {
	RecordSuccess()
	RecordFailure()
}

// NewDispatcher creates a Dispatcher with the given tuning. A zero
// adapterTimeout or parallelism falls back to the package defaults.
func NewDispatcher(adapterTimeout time.Duration, parallelism int, logger *slog.Logger) *Dispatcher {
	if adapterTimeout <= 0 {
		adapterTimeout = DefaultAdapterTimeout
	}
	if parallelism <= 0 {
		parallelism = DefaultMaxParallelism
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		adapterTimeout: adapterTimeout,
		parallelism:    parallelism,
		logger:         logger,
		breakers:       make(map[string]circuitRecorder),
	}
}

// WithBreaker attaches the circuit breaker whose outcomes should be recorded
// for the given adapter id.
func (d *Dispatcher) WithBreaker(adapterID string, cb circuitRecorder) {
	d.breakers[adapterID] = cb
}

// WithCache attaches the response cache consulted before each adapter call.
// A nil cache (the default) disables caching entirely.
func (d *Dispatcher) WithCache(cache *Cache) {
	d.cache = cache
}

// outcome is one adapter's result, kept in invocation order.
type outcome struct {
	adapter  Adapter
	response *SearchResponse
	err      error
}

// FanOut spawns one task per adapter, all starting before any completes,
// retries rate-limited failures, and returns the merged response. Partial
// failure is tolerated: dispatch succeeds if at least one adapter succeeds.
// If every adapter fails, the first adapter's error (by invocation order) is
// returned; an empty adapters list returns no_adapter_available.
func (d *Dispatcher) FanOut(ctx context.Context, adapters []Adapter, params QueryParams) (*SearchResponse, error) {
	if len(adapters) == 0 {
		return nil, amerrors.NoAdapterAvailableError("no adapter available for this category")
	}

	start := time.Now()
	outcomes := make([]outcome, len(adapters))

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, d.parallelism)

	for i, a := range adapters {
		i, a := i, a
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				outcomes[i] = outcome{adapter: a, err: gctx.Err()}
				return gctx.Err()
			}

			resp, err := d.searchCached(gctx, a, params)
			outcomes[i] = outcome{adapter: a, response: resp, err: err}
			if cb, ok := d.breakers[a.Descriptor().ID]; ok {
				if err != nil {
					cb.RecordFailure()
				} else {
					cb.RecordSuccess()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var successes []*SearchResponse
	var firstErr error
	for _, o := range outcomes {
		if o.err != nil {
			if firstErr == nil {
				firstErr = o.err
			}
			attrs := []any{slog.String("adapter", o.adapter.Descriptor().ID)}
			for k, v := range amerrors.FormatForLog(o.err) {
				attrs = append(attrs, slog.Any(k, v))
			}
			d.logger.Warn("adapter failed", attrs...)
			continue
		}
		successes = append(successes, o.response)
	}

	if len(successes) == 0 {
		if firstErr != nil {
			return nil, firstErr
		}
		return nil, amerrors.NoAdapterAvailableError("no adapter available for this category")
	}

	merged := Merge(successes)
	merged.SearchTime = time.Since(start)
	merged.Query = params
	return merged, nil
}

// searchCached serves a.Search from d.cache when present and unexpired,
// otherwise delegates to callWithRetry and populates the cache on success.
// A nil cache (the default) makes this a direct passthrough.
func (d *Dispatcher) searchCached(ctx context.Context, a Adapter, params QueryParams) (*SearchResponse, error) {
	if d.cache == nil {
		return d.callWithRetry(ctx, a, params)
	}

	key := CacheKey(a.Descriptor().ID, params)
	if cached, ok := d.cache.Get(key); ok {
		return cached, nil
	}

	resp, err := d.callWithRetry(ctx, a, params)
	if err != nil {
		return nil, err
	}
	d.cache.Set(key, resp)
	return resp, nil
}

// callWithRetry runs a.Search under a per-adapter soft timeout, retrying
// rateLimit errors only, at most MaxRetryAttempts times.
func (d *Dispatcher) callWithRetry(ctx context.Context, a Adapter, params QueryParams) (*SearchResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= MaxRetryAttempts+1; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, d.adapterTimeout)
		resp, err := a.Search(callCtx, params)
		cancel()

		if err == nil {
			return resp, nil
		}
		lastErr = err

		if callCtx.Err() != nil && ctx.Err() == nil {
			lastErr = amerrors.NetworkError("adapter "+a.Descriptor().ID+" timed out", callCtx.Err())
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		se, ok := lastErr.(*amerrors.SearchError)
		if !ok || !se.Retryable || attempt > MaxRetryAttempts {
			return nil, lastErr
		}

		retryAfterMs := se.RetryAfterMs
		if retryAfterMs <= 0 {
			retryAfterMs = defaultRetryAfterMs
		}
		sleepMs := minInt64(retryAfterMs, backoffMs(attempt))

		timer := time.NewTimer(time.Duration(sleepMs) * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, lastErr
}

// backoffMs computes 1000*2^(n-1)*(1+U(0,0.3)) in milliseconds.
func backoffMs(attempt int) int64 {
	base := float64(int64(1) << uint(attempt-1)) * 1000
	jitter := 1 + rand.Float64()*0.3
	return int64(base * jitter)
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

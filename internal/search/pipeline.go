package search

import (
	"context"
	"log/slog"
	"strings"

	amerrors "github.com/fedsearch/fedsearch/internal/errors"
)

// Pipeline composes Classifier, Registry and Dispatcher into the single
// public operation a transport collaborator (MCP, HTTP, CLI) calls.
type Pipeline struct {
	classifier Classifier
	registry   *Registry
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewPipeline wires the three collaborators. classifier defaults to
// NewKeywordClassifier() if nil. Every circuit breaker already registered
// with registry that can record outcomes is attached to dispatcher, so
// adapters registered after this call have no outcomes recorded.
func NewPipeline(classifier Classifier, registry *Registry, dispatcher *Dispatcher, logger *slog.Logger) *Pipeline {
	if classifier == nil {
		classifier = NewKeywordClassifier()
	}
	if registry != nil && dispatcher != nil {
		registry.mu.RLock()
		for id, reg := range registry.entries {
			if rec, ok := reg.breaker.(circuitRecorder); ok {
				dispatcher.WithBreaker(id, rec)
			}
		}
		registry.mu.RUnlock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{classifier: classifier, registry: registry, dispatcher: dispatcher, logger: logger}
}

// Search runs classify → select → dispatch → merge for one request.
// params.Category, if non-empty, overrides classification.
func (p *Pipeline) Search(ctx context.Context, params QueryParams) (*SearchResponse, error) {
	if strings.TrimSpace(params.Q) == "" {
		return nil, amerrors.ValidationError("query must not be empty")
	}
	params = NormalizeQueryParams(params)

	category := params.Category
	if category == "" {
		category = p.classifier.Classify(params.Q)
	}

	adapters := p.registry.SelectForCategory(category, params.Q)
	if len(adapters) == 0 {
		return nil, amerrors.NoAdapterAvailableError("no adapter supports category " + string(category))
	}

	p.logger.Debug("dispatching search",
		slog.String("query", params.Q),
		slog.String("category", string(category)),
		slog.Int("adapters", len(adapters)))

	return p.dispatcher.FanOut(ctx, adapters, params)
}

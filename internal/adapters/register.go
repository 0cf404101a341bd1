package adapters

import (
	"log/slog"

	"github.com/fedsearch/fedsearch/internal/config"
	amerrors "github.com/fedsearch/fedsearch/internal/errors"
	"github.com/fedsearch/fedsearch/internal/search"
)

// RegisterAll constructs and registers every adapter whose configuration
// enables it and supplies the credentials it needs. An adapter with a
// missing optional API key is simply skipped, per spec.md §6.2 — only
// Brave's key is mandatory, and Config.Validate already enforces that
// before RegisterAll is ever called.
func RegisterAll(cfg *config.Config, registry *search.Registry, cbCfg config.CircuitBreakerConfig, logger *slog.Logger) {
	if cfg.Brave.Enabled && cfg.Brave.APIKey != "" {
		a := NewBraveAdapter(cfg.Brave.APIKey, cfg.Brave.BaseURL)
		registry.Register(a, newBreaker("brave", cbCfg))
		logger.Debug("registered adapter", slog.String("id", "brave"))
	}
	if cfg.Tavily.Enabled && cfg.Tavily.APIKey != "" {
		a := NewTavilyAdapter(cfg.Tavily.APIKey, cfg.Tavily.BaseURL)
		registry.Register(a, newBreaker("tavily", cbCfg))
		logger.Debug("registered adapter", slog.String("id", "tavily"))
	}
	if cfg.Wikipedia.Enabled {
		a := NewWikipediaAdapter(cfg.Wikipedia.BaseURL)
		registry.Register(a, newBreaker("wikipedia", cbCfg))
		logger.Debug("registered adapter", slog.String("id", "wikipedia"))
	}
	if cfg.GitHub.Enabled && cfg.GitHub.APIKey != "" {
		a := NewGitHubAdapter(cfg.GitHub.APIKey, cfg.GitHub.BaseURL)
		registry.Register(a, newBreaker("github", cbCfg))
		logger.Debug("registered adapter", slog.String("id", "github"))
	}
	if cfg.StackExchange.Enabled && cfg.StackExchange.APIKey != "" {
		a := NewStackExchangeAdapter(cfg.StackExchange.APIKey, cfg.StackExchange.BaseURL)
		registry.Register(a, newBreaker("stackexchange", cbCfg))
		logger.Debug("registered adapter", slog.String("id", "stackexchange"))
	}
}

func newBreaker(name string, cfg config.CircuitBreakerConfig) *amerrors.CircuitBreaker {
	return amerrors.NewCircuitBreaker(name,
		amerrors.WithMaxFailures(cfg.MaxFailures),
		amerrors.WithResetTimeout(cfg.ResetTimeout),
	)
}

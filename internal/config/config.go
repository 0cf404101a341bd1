// Package config loads and validates process configuration for fedsearch:
// per-adapter credentials, cache sizing, dispatcher tuning, circuit-breaker
// thresholds, and server options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AdapterConfig configures one registered search backend.
type AdapterConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	APIKey  string `yaml:"api_key" json:"api_key"`
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// CacheConfig holds the cache settings. MaxEntries bounds the Cache's LRU
// backing store. TTL is loaded and merged but not read when the Cache is
// built: entries always expire after search.DefaultCacheTTL.
type CacheConfig struct {
	TTL        time.Duration `yaml:"ttl" json:"ttl"`
	MaxEntries int           `yaml:"max_entries" json:"max_entries"`
}

// DispatcherConfig configures the fan-out/fan-in search dispatch. Timeout and
// MaxParallelism are passed to search.NewDispatcher. MaxRetryAttempts and
// BackoffBaseMs are loaded and validated but not read by the Dispatcher,
// which uses its fixed search.MaxRetryAttempts and a 1000 ms backoff base.
type DispatcherConfig struct {
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetryAttempts int           `yaml:"max_retry_attempts" json:"max_retry_attempts"`
	BackoffBaseMs    int64         `yaml:"backoff_base_ms" json:"backoff_base_ms"`
	MaxParallelism   int           `yaml:"max_parallelism" json:"max_parallelism"`
}

// CircuitBreakerConfig configures per-adapter health tracking.
type CircuitBreakerConfig struct {
	MaxFailures  int           `yaml:"max_failures" json:"max_failures"`
	ResetTimeout time.Duration `yaml:"reset_timeout" json:"reset_timeout"`
}

// ServerConfig configures the MCP server process.
type ServerConfig struct {
	LogLevel string `yaml:"log_level" json:"log_level"`
	Port     int    `yaml:"port" json:"port"`
}

// Config is the complete fedsearch process configuration.
type Config struct {
	Brave         AdapterConfig `yaml:"brave" json:"brave"`
	Tavily        AdapterConfig `yaml:"tavily" json:"tavily"`
	Wikipedia     AdapterConfig `yaml:"wikipedia" json:"wikipedia"`
	GitHub        AdapterConfig `yaml:"github" json:"github"`
	StackExchange AdapterConfig `yaml:"stack_exchange" json:"stack_exchange"`

	Cache          CacheConfig          `yaml:"cache" json:"cache"`
	Dispatcher     DispatcherConfig     `yaml:"dispatcher" json:"dispatcher"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker" json:"circuit_breaker"`
	Server         ServerConfig         `yaml:"server" json:"server"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Brave:         AdapterConfig{Enabled: true},
		Tavily:        AdapterConfig{Enabled: true},
		Wikipedia:     AdapterConfig{Enabled: true, BaseURL: "https://en.wikipedia.org/w/api.php"},
		GitHub:        AdapterConfig{Enabled: true, BaseURL: "https://api.github.com"},
		StackExchange: AdapterConfig{Enabled: true, BaseURL: "https://api.stackexchange.com/2.3"},
		Cache: CacheConfig{
			TTL:        1 * time.Hour,
			MaxEntries: 10000,
		},
		Dispatcher: DispatcherConfig{
			Timeout:          10 * time.Second,
			MaxRetryAttempts: 3,
			BackoffBaseMs:    1000,
			MaxParallelism:   8,
		},
		CircuitBreaker: CircuitBreakerConfig{
			MaxFailures:  5,
			ResetTimeout: 30 * time.Second,
		},
		Server: ServerConfig{
			LogLevel: "info",
			Port:     8088,
		},
	}
}

// GetUserConfigPath returns the path to the user/global configuration file,
// following the XDG Base Directory specification:
//   - $XDG_CONFIG_HOME/fedsearch/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/fedsearch/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fedsearch", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "fedsearch", "config.yaml")
	}
	return filepath.Join(home, ".config", "fedsearch", "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// Load builds a Config in order of increasing precedence:
//  1. Hardcoded defaults
//  2. Optional YAML file at path (skipped if empty or missing)
//  3. Environment variable overrides
//
// The result is validated before being returned.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		path = GetUserConfigPath()
	}
	if fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	mergeAdapter(&c.Brave, &other.Brave)
	mergeAdapter(&c.Tavily, &other.Tavily)
	mergeAdapter(&c.Wikipedia, &other.Wikipedia)
	mergeAdapter(&c.GitHub, &other.GitHub)
	mergeAdapter(&c.StackExchange, &other.StackExchange)

	if other.Cache.TTL != 0 {
		c.Cache.TTL = other.Cache.TTL
	}
	if other.Cache.MaxEntries != 0 {
		c.Cache.MaxEntries = other.Cache.MaxEntries
	}

	if other.Dispatcher.Timeout != 0 {
		c.Dispatcher.Timeout = other.Dispatcher.Timeout
	}
	if other.Dispatcher.MaxRetryAttempts != 0 {
		c.Dispatcher.MaxRetryAttempts = other.Dispatcher.MaxRetryAttempts
	}
	if other.Dispatcher.BackoffBaseMs != 0 {
		c.Dispatcher.BackoffBaseMs = other.Dispatcher.BackoffBaseMs
	}
	if other.Dispatcher.MaxParallelism != 0 {
		c.Dispatcher.MaxParallelism = other.Dispatcher.MaxParallelism
	}

	if other.CircuitBreaker.MaxFailures != 0 {
		c.CircuitBreaker.MaxFailures = other.CircuitBreaker.MaxFailures
	}
	if other.CircuitBreaker.ResetTimeout != 0 {
		c.CircuitBreaker.ResetTimeout = other.CircuitBreaker.ResetTimeout
	}

	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
}

// mergeAdapter merges non-zero fields of other into c, preserving c's
// Enabled default unless other's config section explicitly disabled it.
func mergeAdapter(c *AdapterConfig, other *AdapterConfig) {
	if other.APIKey != "" {
		c.APIKey = other.APIKey
	}
	if other.BaseURL != "" {
		c.BaseURL = other.BaseURL
	}
	if !other.Enabled && (other.APIKey != "" || other.BaseURL != "") {
		c.Enabled = other.Enabled
	}
}

// applyEnvOverrides applies environment variable overrides, matching
// spec.md's documented env-var surface.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("BRAVE_API_KEY"); v != "" {
		c.Brave.APIKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		c.Tavily.APIKey = v
	}
	if v := os.Getenv("GITHUB_API_TOKEN"); v != "" {
		c.GitHub.APIKey = v
	}
	if v := os.Getenv("STACKEXCHANGE_API_KEY"); v != "" {
		c.StackExchange.APIKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Server.Port = p
		}
	}
}

// Validate checks the configuration for invariant violations.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Brave.APIKey) == "" {
		return fmt.Errorf("BRAVE_API_KEY is required: brave is the baseline adapter and has no fallback")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be one of debug, info, warn, error, got %q", c.Server.LogLevel)
	}

	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must be non-negative, got %d", c.Cache.MaxEntries)
	}
	if c.Dispatcher.MaxRetryAttempts < 0 {
		return fmt.Errorf("dispatcher.max_retry_attempts must be non-negative, got %d", c.Dispatcher.MaxRetryAttempts)
	}
	if c.Dispatcher.MaxParallelism <= 0 {
		return fmt.Errorf("dispatcher.max_parallelism must be positive, got %d", c.Dispatcher.MaxParallelism)
	}
	if c.CircuitBreaker.MaxFailures <= 0 {
		return fmt.Errorf("circuit_breaker.max_failures must be positive, got %d", c.CircuitBreaker.MaxFailures)
	}

	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

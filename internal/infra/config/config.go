package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Summary SummaryConfig `yaml:"summary"`
	Models  ModelsConfig  `yaml:"models"`
	Pool    PoolConfig    `yaml:"pool"`
	Cache   CacheConfig   `yaml:"cache"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// SummaryConfig drives model selection and result caching for the pipeline.
type SummaryConfig struct {
	GeneralModelKey    string        `yaml:"generalModelKey"`
	SimplifiedModelKey string        `yaml:"simplifiedModelKey"`
	CacheTTL           time.Duration `yaml:"cacheTtl"`
}

// ModelsConfig describes the inference backend and the models to load.
type ModelsConfig struct {
	BaseURL      string       `yaml:"baseUrl"`
	APIKey       string       `yaml:"apiKey"`
	WindowTokens int          `yaml:"windowTokens"`
	Entries      []ModelEntry `yaml:"entries"`
}

// ModelEntry binds a registry key to a concrete model id.
type ModelEntry struct {
	Key   string `yaml:"key"`
	Model string `yaml:"model"`
}

// PoolConfig bounds concurrent model invocations.
type PoolConfig struct {
	Workers     int           `yaml:"workers"`
	QueueSize   int           `yaml:"queueSize"`
	CallTimeout time.Duration `yaml:"callTimeout"`
}

// CacheConfig points the result cache at a Valkey instance.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("SUMMARY_GENERAL_MODEL_KEY"); v != "" {
		cfg.Summary.GeneralModelKey = v
	}
	if v := os.Getenv("SUMMARY_SIMPLIFIED_MODEL_KEY"); v != "" {
		cfg.Summary.SimplifiedModelKey = v
	}
	if v := os.Getenv("SUMMARY_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Summary.CacheTTL = parsed
		}
	}
	if v := os.Getenv("MODELS_BASE_URL"); v != "" {
		cfg.Models.BaseURL = v
	}
	if v := os.Getenv("MODELS_API_KEY"); v != "" {
		cfg.Models.APIKey = v
	}
	if v := os.Getenv("MODELS_WINDOW_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Models.WindowTokens = parsed
		}
	}
	if v := os.Getenv("POOL_WORKERS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Pool.Workers = parsed
		}
	}
	if v := os.Getenv("POOL_QUEUE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Pool.QueueSize = parsed
		}
	}
	if v := os.Getenv("POOL_CALL_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Pool.CallTimeout = parsed
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		cfg.Cache.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CACHE_ADDR"); v != "" {
		cfg.Cache.Addr = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:     ":8080",
			ReadTimeout: 10 * time.Second,
			// Hierarchical requests run dozens of sequential model calls.
			WriteTimeout: 5 * time.Minute,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 150 * time.Millisecond,
			},
		},
		Summary: SummaryConfig{
			GeneralModelKey:    "general",
			SimplifiedModelKey: "simplified",
			CacheTTL:           time.Hour,
		},
		Models: ModelsConfig{
			BaseURL:      "https://api-inference.huggingface.co",
			WindowTokens: 1024,
			Entries: []ModelEntry{
				{Key: "general", Model: "facebook/bart-large-cnn"},
				{Key: "simplified", Model: "sshleifer/distilbart-cnn-12-6"},
			},
		},
		Pool: PoolConfig{
			Workers:     4,
			QueueSize:   64,
			CallTimeout: 2 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled: false,
			Addr:    "",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.Models.BaseURL) == "" {
		return errors.New("models.baseUrl cannot be empty")
	}
	if c.Models.WindowTokens <= 0 {
		return errors.New("models.windowTokens must be positive")
	}
	if len(c.Models.Entries) == 0 {
		return errors.New("models.entries cannot be empty")
	}
	for i, entry := range c.Models.Entries {
		if strings.TrimSpace(entry.Key) == "" {
			return fmt.Errorf("models.entries[%d].key cannot be empty", i)
		}
		if strings.TrimSpace(entry.Model) == "" {
			return fmt.Errorf("models.entries[%d].model cannot be empty", i)
		}
	}
	if c.Summary.GeneralModelKey == "" {
		return errors.New("summary.generalModelKey cannot be empty")
	}
	if c.Summary.CacheTTL < 0 {
		return errors.New("summary.cacheTtl cannot be negative")
	}
	if c.Pool.Workers <= 0 {
		return errors.New("pool.workers must be positive")
	}
	if c.Pool.QueueSize < 0 {
		return errors.New("pool.queueSize cannot be negative")
	}
	if c.Pool.CallTimeout < 0 {
		return errors.New("pool.callTimeout cannot be negative")
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Addr) == "" {
		return errors.New("cache.addr cannot be empty when the cache is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}

package config

import "time"

// Config holds the gourmet API configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	LLM         LLMConfig         `yaml:"llm"`
	Retry       RetryConfig       `yaml:"retry"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Budget      BudgetConfig      `yaml:"budget"`
	Search      SearchConfig      `yaml:"search"`
	Cache       CacheConfig       `yaml:"cache"`
	QueryLog    QueryLogConfig    `yaml:"query_log"`
	Restaurants RestaurantsConfig `yaml:"restaurants"`
	Auth        AuthConfig        `yaml:"auth"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int  `yaml:"port" validate:"min=1,max=65535"`
	ReadTimeoutSec  int  `yaml:"read_timeout_sec"`
	WriteTimeoutSec int  `yaml:"write_timeout_sec"`
	ShutdownSec     int  `yaml:"shutdown_timeout_sec"`
	Debug           bool `yaml:"debug"` // adds error detail to responses
}

// DatabaseConfig holds record store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver" validate:"oneof=valkey redis"`
	Addrs            []string `yaml:"addrs" validate:"required,dive,required"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// LLMConfig holds model backend settings.
type LLMConfig struct {
	Provider    string   `yaml:"provider"`
	BaseURL     string   `yaml:"base_url"`
	APIKey      string   `yaml:"api_key"`
	Models      []string `yaml:"models" validate:"required"` // tried in order on access denial
	MaxTokens   int      `yaml:"max_tokens"`
	Temperature float32  `yaml:"temperature" validate:"gte=0,lte=2"`
	TimeoutSec  int      `yaml:"timeout_sec"`
}

// RetryConfig holds the throttling retry policy.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
	BaseDelayMs int `yaml:"base_delay_ms"`
	MaxDelayMs  int `yaml:"max_delay_ms"`
	MaxJitterMs int `yaml:"max_jitter_ms"`
}

// RateLimitConfig holds the adaptive limiter settings. RequestsPerSecond 0 disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond    float64 `yaml:"requests_per_second" validate:"gte=0"`
	Burst                int     `yaml:"burst"`
	MinRequestsPerSecond float64 `yaml:"min_requests_per_second" validate:"gte=0"`
}

// BudgetConfig holds the model token budget. Zero limits mean unlimited.
type BudgetConfig struct {
	DailyTokens   int64  `yaml:"daily_tokens" validate:"gte=0"`
	MonthlyTokens int64  `yaml:"monthly_tokens" validate:"gte=0"`
	Action        string `yaml:"action" validate:"omitempty,oneof=warn reject"`
}

// SearchConfig holds pipeline settings.
type SearchConfig struct {
	Limit      int     `yaml:"limit" validate:"lte=50"`
	RadiusKm   float64 `yaml:"radius_km"`
	BatchSize  int     `yaml:"batch_size"`
	TimeoutSec int     `yaml:"timeout_sec"`

	// StoreTimeoutSec is kept out of TimeoutSec for the record store read.
	StoreTimeoutSec int `yaml:"store_timeout_sec"`
	// SoftErrors answers a store failure with 200, an empty list and an apology.
	SoftErrors *bool `yaml:"soft_errors"`
}

// CacheConfig holds completion cache settings.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"` // 0 = no expiry
}

// QueryLogConfig holds query log settings.
type QueryLogConfig struct {
	Enabled  bool `yaml:"enabled"`
	TTLHours int  `yaml:"ttl_hours"`
}

// RestaurantsConfig holds CRUD pagination settings.
type RestaurantsConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size" validate:"gtefield=DefaultPageSize"`
}

// SoftErrorsEnabled reports the effective soft-error setting (default true).
func (s SearchConfig) SoftErrorsEnabled() bool {
	return s.SoftErrors == nil || *s.SoftErrors
}

// BaseDelay returns the first backoff step.
func (r RetryConfig) BaseDelay() time.Duration { return time.Duration(r.BaseDelayMs) * time.Millisecond }

// MaxDelay returns the backoff cap.
func (r RetryConfig) MaxDelay() time.Duration { return time.Duration(r.MaxDelayMs) * time.Millisecond }

// MaxJitter returns the jitter bound.
func (r RetryConfig) MaxJitter() time.Duration { return time.Duration(r.MaxJitterMs) * time.Millisecond }

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 120
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 1024
	}
	if c.LLM.TimeoutSec <= 0 {
		c.LLM.TimeoutSec = 30
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = 5
	}
	if c.Retry.BaseDelayMs <= 0 {
		c.Retry.BaseDelayMs = 2000
	}
	if c.Retry.MaxDelayMs <= 0 {
		c.Retry.MaxDelayMs = 30000
	}
	if c.Retry.MaxJitterMs <= 0 {
		c.Retry.MaxJitterMs = 2000
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 2
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = 10
	}
	if c.Search.RadiusKm <= 0 {
		c.Search.RadiusKm = 5
	}
	if c.Search.BatchSize <= 0 {
		c.Search.BatchSize = 2
	}
	if c.Search.TimeoutSec <= 0 {
		c.Search.TimeoutSec = 90
	}
	if c.Search.StoreTimeoutSec <= 0 {
		c.Search.StoreTimeoutSec = 5
	}
	if c.QueryLog.TTLHours <= 0 {
		c.QueryLog.TTLHours = 24 * 30
	}
	if c.Budget.Action == "" {
		c.Budget.Action = "warn"
	}
	if c.Restaurants.DefaultPageSize <= 0 {
		c.Restaurants.DefaultPageSize = 20
	}
	if c.Restaurants.MaxPageSize <= 0 {
		c.Restaurants.MaxPageSize = 100
	}
}

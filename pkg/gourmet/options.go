package gourmet

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type openAIConfig struct {
	apiKey  string
	baseURL string
	models  []string
}

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	completer Completer
	openAI    *openAIConfig

	requestsPerSecond float64
	burst             int
	maxAttempts       int
	cacheTTL          time.Duration
	cacheEnabled      bool
	dailyTokens       int64
	monthlyTokens     int64

	searchLimit int
	radiusKm    float64

	queryLogTTL     time.Duration
	queryLogEnabled bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithOpenAI uses an OpenAI-compatible chat completion backend.
// An empty baseURL targets api.openai.com. Models are tried in order.
func WithOpenAI(apiKey, baseURL string, models ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAI = &openAIConfig{apiKey: apiKey, baseURL: baseURL, models: models}
	})
}

// WithCompleter sets a custom model backend. It takes precedence over WithOpenAI.
func WithCompleter(cm Completer) Option {
	return optionFunc(func(c *clientConfig) {
		c.completer = cm
	})
}

// WithRateLimit caps model calls per second. Unlimited by default.
func WithRateLimit(perSecond float64, burst int) Option {
	return optionFunc(func(c *clientConfig) {
		c.requestsPerSecond = perSecond
		c.burst = burst
	})
}

// WithRetry sets the number of attempts per throttled model call. Default: 5.
func WithRetry(maxAttempts int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxAttempts = maxAttempts
	})
}

// WithTokenBudget rejects model calls once the daily or monthly token count
// is reached. Zero disables a cap. Counters are kept in the database.
func WithTokenBudget(daily, monthly int64) Option {
	return optionFunc(func(c *clientConfig) {
		c.dailyTokens = daily
		c.monthlyTokens = monthly
	})
}

// WithCompletionCache stores model answers in the database for ttl.
// A zero ttl keeps entries until evicted.
func WithCompletionCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheEnabled = true
		c.cacheTTL = ttl
	})
}

// WithSearchLimit sets the result cap and the radius used for "near me" queries.
// Defaults: 10 results, 5 km.
func WithSearchLimit(limit int, radiusKm float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchLimit = limit
		c.radiusKm = radiusKm
	})
}

// WithQueryLog records every search in the database for ttl.
func WithQueryLog(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryLogEnabled = true
		c.queryLogTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

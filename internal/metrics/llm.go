package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gourmet"

// LLM Prometheus metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of model completion requests",
		},
		[]string{"provider", "model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Model completion request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"provider", "model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_total",
			Help:      "Total model tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	LLMErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_errors_total",
			Help:      "Total model errors",
		},
		[]string{"provider", "model", "error_type"},
	)

	LLMModelFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_model_fallbacks_total",
			Help:      "Switches to the next model after access denial",
		},
		[]string{"provider", "from_model"},
	)

	LLMRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_retries_total",
			Help:      "Retries after a throttling response",
		},
		[]string{"stage"},
	)

	LLMRateLimit = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "llm_rate_limit_per_second",
			Help:      "Current adaptive request rate",
		},
		[]string{"backend"},
	)

	LLMBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "llm_budget_tokens_remaining",
			Help:      "Tokens left in the model budget (-1 when unlimited)",
		},
		[]string{"provider", "period"},
	)

	LLMCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_cache_total",
			Help:      "Completion cache lookups by result",
		},
		[]string{"result"}, // "hit" / "miss" / "rejected"
	)

	StageFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_fallbacks_total",
			Help:      "Pipeline stages that used their local fallback",
		},
		[]string{"stage", "reason"},
	)

	SearchStrategyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_strategy_total",
			Help:      "Record filter strategy per search",
		},
		[]string{"strategy"},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Number of restaurants returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)
)

var llmMetricsOnce sync.Once

// RegisterLLMMetrics registers model and pipeline metrics with the default registry.
func RegisterLLMMetrics() {
	llmMetricsOnce.Do(func() {
		prometheus.MustRegister(
			LLMRequestsTotal,
			LLMRequestDuration,
			LLMTokensTotal,
			LLMErrorsTotal,
			LLMModelFallbacksTotal,
			LLMRetriesTotal,
			LLMRateLimit,
			LLMBudgetTokensRemaining,
			LLMCacheTotal,
			StageFallbacksTotal,
			SearchStrategyTotal,
			SearchResults,
		)
	})
}

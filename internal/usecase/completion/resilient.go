package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	logpkg "github.com/kailas-cloud/gourmet/internal/logger"
	"github.com/kailas-cloud/gourmet/internal/metrics"
)

// Limiter paces calls to a backend and adapts to throttling.
type Limiter interface {
	Wait(ctx context.Context) error
	Throttled()
	Succeeded()
}

// Resilient wraps a Completer with a shared rate limiter and the retry policy.
type Resilient struct {
	inner   domain.Completer
	limiter Limiter
	policy  RetryPolicy
	logger  *zap.Logger
}

// NewResilient creates the decorator. limiter may be nil.
func NewResilient(inner domain.Completer, limiter Limiter, policy RetryPolicy, log *zap.Logger) *Resilient {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resilient{inner: inner, limiter: limiter, policy: policy, logger: log}
}

// Complete waits for the limiter, calls the inner completer, and retries throttled calls.
func (r *Resilient) Complete(ctx context.Context, prompt string) (domain.CompletionResult, error) {
	stage := domain.StageFromContext(ctx)
	log := logpkg.FromContextOr(ctx, r.logger)

	start := time.Now()
	res, err := Retry(ctx, r.policy, func(ctx context.Context) (domain.CompletionResult, error) {
		return r.attempt(ctx, prompt)
	}, func(attempt int, delay time.Duration, err error) {
		metrics.LLMRetriesTotal.WithLabelValues(stage).Inc()
		log.Warn("Model call throttled, backing off",
			zap.String("stage", stage),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	})
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("%s completion: %w", stage, err)
	}

	log.Debug("Model call completed",
		zap.String("stage", stage),
		zap.String("model", res.Model),
		zap.Bool("cached", res.Cached),
		zap.Duration("duration", time.Since(start)),
		zap.Int("total_tokens", res.TotalTokens),
	)
	return res, nil
}

func (r *Resilient) attempt(ctx context.Context, prompt string) (domain.CompletionResult, error) {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return domain.CompletionResult{}, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	res, err := r.inner.Complete(ctx, prompt)
	if err != nil {
		if r.limiter != nil && errors.Is(err, domain.ErrRateLimited) {
			r.limiter.Throttled()
		}
		return domain.CompletionResult{}, err //nolint:wrapcheck // classified by Retry, wrapped in Complete
	}
	if r.limiter != nil && !res.Cached {
		r.limiter.Succeeded()
	}
	return res, nil
}

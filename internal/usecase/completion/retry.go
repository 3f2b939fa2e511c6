package completion

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/kailas-cloud/gourmet/internal/domain"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 5
	DefaultBaseDelay   = 2 * time.Second
	DefaultMaxDelay    = 30 * time.Second
	DefaultMaxJitter   = 2 * time.Second
)

// RetryPolicy retries throttled calls with exponential backoff.
// Delay before retry n (0-based) is BaseDelay·2^n capped at MaxDelay, plus up to MaxJitter.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxJitter   time.Duration
	// Retryable decides whether err warrants another attempt.
	// Nil means only domain.ErrRateLimited is retried.
	Retryable func(err error) bool
}

// DefaultRetryPolicy returns the policy used for every model-invoking stage.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
		MaxJitter:   DefaultMaxJitter,
	}
}

// IsRateLimited is the default retry predicate.
func IsRateLimited(err error) bool {
	return errors.Is(err, domain.ErrRateLimited)
}

// Backoff returns the delay before retry attempt (0-based), without jitter.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(2, float64(attempt))
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	return time.Duration(d)
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.Backoff(attempt)
	if p.MaxJitter > 0 {
		d += rand.N(p.MaxJitter) //nolint:gosec // jitter does not need a CSPRNG
	}
	return d
}

func (p RetryPolicy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return IsRateLimited(err)
}

// Retry calls fn until it succeeds, fails with a non-retryable error, or
// MaxAttempts is reached. onRetry (optional) is invoked before each wait.
func Retry[T any](
	ctx context.Context,
	p RetryPolicy,
	fn func(ctx context.Context) (T, error),
	onRetry func(attempt int, delay time.Duration, err error),
) (T, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		res, err := fn(ctx)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !p.retryable(err) || attempt == attempts-1 {
			break
		}

		d := p.delay(attempt)
		if onRetry != nil {
			onRetry(attempt+1, d, err)
		}
		if err := sleep(ctx, d); err != nil {
			return zero, err
		}
	}
	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

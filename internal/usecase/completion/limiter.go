package completion

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/kailas-cloud/gourmet/internal/metrics"
)

// recoverySteps is how many successes it takes to climb from the floor back to the ceiling.
const recoverySteps = 10

// AdaptiveLimiter is a token bucket shared by all calls to one backend.
// A throttling response halves the rate (down to a floor); each success
// raises it by a fixed step up to the configured ceiling.
type AdaptiveLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	ceiling rate.Limit
	floor   rate.Limit
	step    rate.Limit
	backend string
}

// NewAdaptiveLimiter creates a limiter. perSecond <= 0 disables limiting.
func NewAdaptiveLimiter(backend string, perSecond float64, burst int, minPerSecond float64) *AdaptiveLimiter {
	if burst < 1 {
		burst = 1
	}
	ceiling := rate.Limit(perSecond)
	if perSecond <= 0 {
		ceiling = rate.Inf
	}
	floor := rate.Limit(minPerSecond)
	if floor <= 0 || floor > ceiling {
		floor = ceiling / 8
	}

	l := &AdaptiveLimiter{
		limiter: rate.NewLimiter(ceiling, burst),
		ceiling: ceiling,
		floor:   floor,
		step:    (ceiling - floor) / recoverySteps,
		backend: backend,
	}
	l.report(ceiling)
	return l
}

// Wait blocks until a token is available or ctx is done.
func (l *AdaptiveLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx) //nolint:wrapcheck // caller wraps
}

// Throttled reacts to a rate-limit signal from the backend.
func (l *AdaptiveLimiter) Throttled() {
	if l.ceiling == rate.Inf {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.limiter.Limit() / 2
	if next < l.floor {
		next = l.floor
	}
	l.limiter.SetLimit(next)
	l.report(next)
}

// Succeeded recovers the rate after a successful call.
func (l *AdaptiveLimiter) Succeeded() {
	if l.ceiling == rate.Inf {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cur := l.limiter.Limit()
	if cur >= l.ceiling {
		return
	}
	next := cur + l.step
	if next > l.ceiling {
		next = l.ceiling
	}
	l.limiter.SetLimit(next)
	l.report(next)
}

// Limit returns the current rate in requests per second.
func (l *AdaptiveLimiter) Limit() float64 {
	return float64(l.limiter.Limit())
}

func (l *AdaptiveLimiter) report(r rate.Limit) {
	if r == rate.Inf {
		return
	}
	metrics.LLMRateLimit.WithLabelValues(l.backend).Set(float64(r))
}

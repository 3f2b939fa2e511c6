package search

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	logpkg "github.com/kailas-cloud/gourmet/internal/logger"
	"github.com/kailas-cloud/gourmet/internal/metrics"
)

// fallbackReason maps a stage error onto a low-cardinality metric label.
func fallbackReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedOutput):
		return "malformed"
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrModelAccessDenied):
		return "access_denied"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "provider"
	}
}

// recordFallback logs through the request logger when ctx carries one.
func recordFallback(ctx context.Context, log *zap.Logger, stage string, err error) {
	reason := fallbackReason(err)
	metrics.StageFallbacksTotal.WithLabelValues(stage, reason).Inc()
	logpkg.FromContextOr(ctx, log).Warn("Stage fell back to heuristic",
		zap.String("stage", stage),
		zap.String("reason", reason),
		zap.Error(err),
	)
}

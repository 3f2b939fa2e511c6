package gourmet

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for gourmet_sdk_operations_total.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected" // caller input or missing record
	outcomeBudget   = "budget"
	outcomeUpstream = "upstream" // model provider or store
	outcomeError    = "error"
)

type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gourmet",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "SDK calls by operation and outcome.",
	}, []string{"operation", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gourmet",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "SDK call latency. Search and Ask include every model stage.",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.25, 1, 2, 4, 8, 15, 30, 60},
	}, []string{"operation"})

	var err error
	m := &sdkMetrics{}
	if m.operations, err = reuseRegistered(reg, operations); err != nil {
		return nil, err
	}
	if m.duration, err = reuseRegistered(reg, duration); err != nil {
		return nil, err
	}
	return m, nil
}

// reuseRegistered registers c, or returns the collector already registered
// under the same descriptor so several clients can share one registry.
func reuseRegistered[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return c, fmt.Errorf("gourmet: register metric: %w", err)
	}
	existing, ok := are.ExistingCollector.(T)
	if !ok {
		return c, fmt.Errorf("gourmet: metric registered with another type: %T", are.ExistingCollector)
	}
	return existing, nil
}

// outcome buckets an SDK error for metrics and log level.
func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrInvalidRecord), errors.Is(err, ErrNotFound):
		return outcomeRejected
	case errors.Is(err, ErrTokenBudgetExceeded):
		return outcomeBudget
	case errors.Is(err, ErrModelProviderError), errors.Is(err, ErrModelAccessDenied),
		errors.Is(err, ErrRateLimited), errors.Is(err, ErrStoreUnavailable):
		return outcomeUpstream
	default:
		return outcomeError
	}
}

type observer struct {
	logger  *slog.Logger
	metrics *sdkMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg == nil {
		return o, nil
	}
	m, err := newSDKMetrics(reg)
	if err != nil {
		return nil, err
	}
	o.metrics = m
	return o, nil
}

// observe records one SDK call. A nil observer does nothing.
func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	res := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, res).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
	}
	if o.logger == nil {
		return
	}

	switch res {
	case outcomeOK:
		o.logger.Debug("gourmet call done", "op", op, "duration", dur)
	case outcomeRejected:
		o.logger.Info("gourmet call rejected", "op", op, "duration", dur, "error", err)
	default:
		o.logger.Warn("gourmet call failed", "op", op, "outcome", res, "duration", dur, "error", err)
	}
}

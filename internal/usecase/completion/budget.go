package completion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"
	"github.com/kailas-cloud/gourmet/internal/metrics"
)

// BudgetAction defines behavior when the token budget is spent.
type BudgetAction string

const (
	// BudgetActionWarn logs a warning but allows the call.
	BudgetActionWarn BudgetAction = "warn"
	// BudgetActionReject fails the call with ErrTokenBudgetExceeded.
	BudgetActionReject BudgetAction = "reject"
)

// BudgetStore persists token counters across restarts.
// IncrBy may be called repeatedly for the same key.
type BudgetStore interface {
	IncrBy(ctx context.Context, key string, val int64) error
	Get(ctx context.Context, key string) (int64, error)
}

// window is one period's counter plus the key layout used to persist it.
type window struct {
	period domusage.Period
	name   string // key segment: daily, monthly
	layout string // key date layout
	domusage.Counter
}

// roll starts a fresh counter once now leaves the current period.
func (w *window) roll(now time.Time) {
	if start, _ := domusage.Bounds(w.period, now); start.After(w.Start) {
		w.Start, w.Used, w.Requests = start, 0, 0
	}
}

// BudgetTracker counts model tokens per UTC day and month.
// Check is in-memory; Record updates memory first and then writes behind to the store.
// Request counts are process-local.
type BudgetTracker struct {
	mu       sync.Mutex
	day      window
	month    window
	action   BudgetAction
	provider string
	store    BudgetStore
	logger   *zap.Logger
	now      func() time.Time
}

// NewBudgetTracker creates a tracker. A zero limit disables that cap.
func NewBudgetTracker(
	provider string, dailyLimit, monthlyLimit int64,
	action BudgetAction, logger *zap.Logger,
) *BudgetTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &BudgetTracker{
		day:      window{period: domusage.PeriodDay, name: "daily", layout: "2006-01-02"},
		month:    window{period: domusage.PeriodMonth, name: "monthly", layout: "2006-01"},
		action:   action,
		provider: provider,
		logger:   logger,
		now:      time.Now,
	}
	b.day.Limit, b.month.Limit = dailyLimit, monthlyLimit
	b.rollAll()
	return b
}

func (b *BudgetTracker) windows() []*window { return []*window{&b.day, &b.month} }

func (b *BudgetTracker) rollAll() {
	now := b.now()
	for _, w := range b.windows() {
		w.roll(now)
	}
}

// key is gourmet:budget:{provider}:{daily|monthly}:{date}.
func (b *BudgetTracker) key(w *window) string {
	return fmt.Sprintf("%sbudget:%s:%s:%s", domain.KeyPrefix, b.provider, w.name, w.Start.Format(w.layout))
}

// WithStore attaches a persistence store and seeds the counters from it.
func (b *BudgetTracker) WithStore(ctx context.Context, store BudgetStore) *BudgetTracker {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.store = store
	b.rollAll()
	for _, w := range b.windows() {
		used, err := store.Get(ctx, b.key(w))
		if err != nil {
			b.logger.Warn("Failed to load token budget", zap.String("period", w.name), zap.Error(err))
			continue
		}
		w.Used = used
	}
	b.logger.Info("Token budget loaded",
		zap.String("provider", b.provider),
		zap.Int64("daily_used", b.day.Used),
		zap.Int64("monthly_used", b.month.Used),
	)
	return b
}

// Check reports whether a new call is allowed. In warn mode a spent budget
// is logged and the call goes ahead.
func (b *BudgetTracker) Check(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollAll()

	for _, w := range b.windows() {
		if !w.Exhausted() {
			continue
		}
		if b.action == BudgetActionReject {
			return fmt.Errorf("%s limit %d: %w", w.name, w.Limit, domain.ErrTokenBudgetExceeded)
		}
		b.logger.Warn("Token budget exceeded",
			zap.String("provider", b.provider),
			zap.String("period", w.name),
			zap.Int64("used", w.Used),
			zap.Int64("limit", w.Limit),
		)
		return nil
	}
	return nil
}

// Record registers one completed call and its tokens.
func (b *BudgetTracker) Record(tokens int64) {
	b.mu.Lock()
	b.rollAll()
	keys := make([]string, 0, 2)
	for _, w := range b.windows() {
		w.Used += tokens
		w.Requests++
		keys = append(keys, b.key(w))
	}
	store := b.store
	b.mu.Unlock()

	if store == nil || tokens <= 0 {
		return
	}

	// Store writes must not inherit the caller's deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for _, key := range keys {
		if err := store.IncrBy(ctx, key, tokens); err != nil {
			b.logger.Warn("Failed to persist token budget", zap.String("key", key), zap.Error(err))
		}
	}
}

// Snapshot returns the counter for period. Anything but PeriodMonth is the day.
func (b *BudgetTracker) Snapshot(period domusage.Period) domusage.Counter {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rollAll()
	if period == domusage.PeriodMonth {
		return b.month.Counter
	}
	return b.day.Counter
}

// Budgeted wraps a Completer with token budget enforcement.
// Only calls that reach the backend are counted, so it sits below the cache.
type Budgeted struct {
	inner   domain.Completer
	tracker *BudgetTracker
	logger  *zap.Logger
}

// NewBudgeted wraps inner with tracker.
func NewBudgeted(inner domain.Completer, tracker *BudgetTracker, logger *zap.Logger) *Budgeted {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Budgeted{inner: inner, tracker: tracker, logger: logger}
}

// Complete checks the budget, delegates, and records token usage.
func (b *Budgeted) Complete(ctx context.Context, prompt string) (domain.CompletionResult, error) {
	if err := b.tracker.Check(ctx); err != nil {
		b.logger.Warn("Token budget exceeded, call rejected",
			zap.String("provider", b.tracker.provider),
			zap.String("stage", domain.StageFromContext(ctx)),
		)
		return domain.CompletionResult{}, fmt.Errorf("budget check: %w", err)
	}

	res, err := b.inner.Complete(ctx, prompt)
	if err != nil {
		return domain.CompletionResult{}, err
	}

	b.tracker.Record(int64(res.TotalTokens))
	gauge := metrics.LLMBudgetTokensRemaining
	gauge.WithLabelValues(b.tracker.provider, "daily").Set(float64(b.tracker.Snapshot(domusage.PeriodDay).Remaining()))
	gauge.WithLabelValues(b.tracker.provider, "monthly").Set(float64(b.tracker.Snapshot(domusage.PeriodMonth).Remaining()))
	return res, nil
}

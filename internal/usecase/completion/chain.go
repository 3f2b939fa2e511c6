package completion

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
)

// Chain configures the decorators placed around a model provider.
type Chain struct {
	Tracker *BudgetTracker // optional
	Limiter Limiter        // optional
	Policy  RetryPolicy
	// Cache wraps the paced, retried completer. Optional.
	Cache func(domain.Completer) domain.Completer
}

// Assemble builds provider -> Budgeted -> Resilient -> Cache.
// A cache hit never waits for a limiter token or spends budget.
func Assemble(provider domain.Completer, c Chain, log *zap.Logger) domain.Completer {
	llm := provider
	if c.Tracker != nil {
		llm = NewBudgeted(llm, c.Tracker, log)
	}
	llm = NewResilient(llm, c.Limiter, c.Policy, log)
	if c.Cache != nil {
		llm = c.Cache(llm)
	}
	return llm
}

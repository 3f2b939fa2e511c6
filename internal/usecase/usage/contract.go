package usage

import domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"

// BudgetReader exposes the token counter of the current period.
type BudgetReader interface {
	Snapshot(period domusage.Period) domusage.Counter
}

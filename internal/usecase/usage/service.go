package usage

import (
	"context"
	"time"

	domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"
)

// Service reports model token usage.
type Service struct {
	br  BudgetReader
	now func() time.Time
}

// New creates a Service. br can be nil (no budget tracking).
func New(br BudgetReader) *Service {
	return &Service{br: br, now: time.Now}
}

// Report builds the usage report for the current UTC day or month.
// Unknown periods report the day.
func (s *Service) Report(_ context.Context, period domusage.Period) domusage.Report {
	if period != domusage.PeriodMonth {
		period = domusage.PeriodDay
	}
	start, end := domusage.Bounds(period, s.now())

	var c domusage.Counter
	if s.br != nil {
		c = s.br.Snapshot(period)
	}
	return domusage.NewReport(period, start, end, c.Requests, c.Used, domusage.Budget{
		TokensLimit:     c.Limit,
		TokensRemaining: c.Remaining(),
		Exhausted:       c.Exhausted(),
		ResetsAt:        end,
	})
}

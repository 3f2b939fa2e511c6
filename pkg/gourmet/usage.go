package gourmet

import (
	"context"
	"fmt"
	"time"

	domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"
)

// Usage is model token consumption for the current day or month.
type Usage struct {
	Period    string
	Start     time.Time
	End       time.Time
	Requests  int64
	Tokens    int64
	Limit     int64 // 0 means no cap
	Remaining int64 // -1 means no cap
	Exhausted bool
}

// Usage reports model consumption for period "day" (default) or "month".
// Counts are only tracked when the client was built with WithTokenBudget.
func (c *Client) Usage(ctx context.Context, period string) (_ Usage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("usage", start, err) }()

	p, ok := domusage.ParsePeriod(period)
	if !ok {
		return Usage{}, fmt.Errorf("%w: unknown period %q", ErrInvalidQuery, period)
	}
	r := c.usageSvc.Report(ctx, p)
	b := r.Budget()
	return Usage{
		Period:    string(r.Period()),
		Start:     r.Start(),
		End:       r.End(),
		Requests:  r.Requests(),
		Tokens:    r.Tokens(),
		Limit:     b.TokensLimit,
		Remaining: b.TokensRemaining,
		Exhausted: b.Exhausted,
	}, nil
}

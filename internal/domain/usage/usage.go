package usage

import "time"

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod maps user input to a Period. Empty input means a day.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, true
	case PeriodMonth:
		return PeriodMonth, true
	default:
		return "", false
	}
}

// Bounds returns the UTC half-open interval [start, end) of the period holding t.
// Anything but PeriodMonth is a day.
func Bounds(p Period, t time.Time) (start, end time.Time) {
	t = t.UTC()
	if p == PeriodMonth {
		start = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0)
	}
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Counter is the token tally of one period. A zero Limit means unlimited.
type Counter struct {
	Start    time.Time
	Limit    int64
	Used     int64
	Requests int64
}

// Remaining returns tokens left, -1 when unlimited and never below zero.
func (c Counter) Remaining() int64 {
	if c.Limit <= 0 {
		return -1
	}
	return max(c.Limit-c.Used, 0)
}

// Exhausted reports whether a limited counter has no tokens left.
func (c Counter) Exhausted() bool {
	return c.Limit > 0 && c.Used >= c.Limit
}

// Budget is a token budget snapshot. A zero limit means unlimited.
type Budget struct {
	TokensLimit     int64
	TokensRemaining int64 // -1 when unlimited
	Exhausted       bool
	ResetsAt        time.Time
}

// Report is model usage for one period.
type Report struct {
	period   Period
	start    time.Time
	end      time.Time
	requests int64
	tokens   int64
	budget   Budget
}

// NewReport creates a usage report.
func NewReport(period Period, start, end time.Time, requests, tokens int64, b Budget) Report {
	return Report{
		period:   period,
		start:    start,
		end:      end,
		requests: requests,
		tokens:   tokens,
		budget:   b,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// Start returns the inclusive period start (UTC).
func (r *Report) Start() time.Time { return r.start }

// End returns the exclusive period end (UTC).
func (r *Report) End() time.Time { return r.end }

// Requests returns model calls that reached the backend.
func (r *Report) Requests() int64 { return r.requests }

// Tokens returns the total tokens consumed.
func (r *Report) Tokens() int64 { return r.tokens }

// Budget returns the budget status.
func (r *Report) Budget() Budget { return r.budget }

package query

import "time"

// LogEntry is the persisted trace of one pipeline run.
type LogEntry struct {
	ID            string
	Text          string
	Location      string
	Cuisine       []string
	PriceCategory string
	Keywords      []string
	SearchTerms   []string
	ResultCount   int
	Strategy      string
	Fallbacks     []string
	CreatedAt     time.Time
}

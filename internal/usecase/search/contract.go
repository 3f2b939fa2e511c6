package search

import (
	"context"

	"github.com/kailas-cloud/gourmet/internal/domain/query"
	"github.com/kailas-cloud/gourmet/internal/domain/restaurant"
)

// Records reads the full restaurant collection. Filtering happens in memory.
type Records interface {
	List(ctx context.Context) ([]restaurant.Restaurant, error)
}

// QueryLog persists a trace of every search.
type QueryLog interface {
	Append(ctx context.Context, e *query.LogEntry) error
}

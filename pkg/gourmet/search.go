package gourmet

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/geo"
	searchuc "github.com/kailas-cloud/gourmet/internal/usecase/search"
)

// Search runs the search pipeline. Model failures degrade to rule-based
// stages and show up in SearchResult.Fallbacks rather than as an error.
func (c *Client) Search(ctx context.Context, req SearchRequest) (_ SearchResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	in := searchuc.Request{Query: req.Query}
	if req.Near != nil {
		p, err := geo.NewPoint(req.Near.Lat, req.Near.Lng)
		if err != nil {
			return SearchResult{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
		}
		in.Target = &p
	}

	res, err := c.searchSvc.Search(ctx, in)
	if err != nil {
		return SearchResult{}, err
	}
	return searchResultFromDomain(&res), nil
}

// Ask returns a markdown answer to a free-form dining question.
func (c *Client) Ask(ctx context.Context, prompt string) (_ string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ask", start, err) }()

	return c.assistSvc.Answer(ctx, prompt)
}

// RecentQueries returns the latest logged searches, newest first.
// It returns nothing when the client was built without WithQueryLog.
func (c *Client) RecentQueries(ctx context.Context, limit int) (_ []QueryEntry, err error) {
	start := time.Now()
	defer func() { c.obs.observe("queries.recent", start, err) }()

	if c.queries == nil {
		return nil, nil
	}
	entries, err := c.queries.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent queries: %w", err)
	}
	out := make([]QueryEntry, 0, len(entries))
	for i := range entries {
		out = append(out, queryEntryFromDomain(&entries[i]))
	}
	return out, nil
}

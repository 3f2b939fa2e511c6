package querylog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/gourmet/internal/db"
	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
)

const (
	entryPrefix   = domain.KeyPrefix + "querylog:entry:"
	counterPrefix = domain.KeyPrefix + "querylog:count:"
	dayLayout     = "2006-01-02"
	listSeparator = "\x1f"
)

// store is the consumer interface for the query log (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	IncrBy(ctx context.Context, key string, val int64) error
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
}

// Repo stores one hash per query plus a per-day counter, both expiring after ttl.
type Repo struct {
	store store
	ttl   time.Duration
}

// New creates a query log repository. ttl <= 0 keeps entries forever.
func New(s store, ttl time.Duration) *Repo {
	return &Repo{store: s, ttl: ttl}
}

// Append writes an entry and bumps the day counter.
func (r *Repo) Append(ctx context.Context, e *query.LogEntry) error {
	key := entryPrefix + e.ID
	if err := r.store.HSet(ctx, key, toFields(e)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	if r.ttl > 0 {
		if err := r.store.Expire(ctx, key, r.ttl, false); err != nil {
			return fmt.Errorf("expire %s: %w", key, err)
		}
	}

	counter := counterKey(e.CreatedAt)
	if err := r.store.IncrBy(ctx, counter, 1); err != nil {
		return fmt.Errorf("incrby %s: %w", counter, err)
	}
	if r.ttl > 0 {
		if err := r.store.Expire(ctx, counter, r.ttl, true); err != nil {
			return fmt.Errorf("expire %s: %w", counter, err)
		}
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]query.LogEntry, error) {
	keys, err := r.store.Scan(ctx, entryPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("scan querylog: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	maps, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall querylog: %w", err)
	}

	out := make([]query.LogEntry, 0, len(maps))
	for i, m := range maps {
		if len(m) == 0 {
			continue // expired between SCAN and HGETALL
		}
		out = append(out, fromFields(strings.TrimPrefix(keys[i], entryPrefix), m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountOn returns the number of queries logged on the given day (UTC).
func (r *Repo) CountOn(ctx context.Context, day time.Time) (int64, error) {
	key := counterKey(day)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get %s: %w", key, err)
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse counter %s: %w", key, err)
	}
	return n, nil
}

func counterKey(t time.Time) string {
	return counterPrefix + t.UTC().Format(dayLayout)
}

func toFields(e *query.LogEntry) map[string]string {
	return map[string]string{
		"text":           e.Text,
		"location":       e.Location,
		"cuisine":        strings.Join(e.Cuisine, listSeparator),
		"price_category": e.PriceCategory,
		"keywords":       strings.Join(e.Keywords, listSeparator),
		"search_terms":   strings.Join(e.SearchTerms, listSeparator),
		"result_count":   strconv.Itoa(e.ResultCount),
		"strategy":       e.Strategy,
		"fallbacks":      strings.Join(e.Fallbacks, listSeparator),
		"created_at":     strconv.FormatInt(e.CreatedAt.UnixMilli(), 10),
	}
}

func fromFields(id string, m map[string]string) query.LogEntry {
	count, _ := strconv.Atoi(m["result_count"])
	ms, _ := strconv.ParseInt(m["created_at"], 10, 64)
	return query.LogEntry{
		ID:            id,
		Text:          m["text"],
		Location:      m["location"],
		Cuisine:       splitList(m["cuisine"]),
		PriceCategory: m["price_category"],
		Keywords:      splitList(m["keywords"]),
		SearchTerms:   splitList(m["search_terms"]),
		ResultCount:   count,
		Strategy:      m["strategy"],
		Fallbacks:     splitList(m["fallbacks"]),
		CreatedAt:     time.UnixMilli(ms).UTC(),
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}

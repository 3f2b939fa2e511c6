package completioncache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/db"
	"github.com/kailas-cloud/gourmet/internal/domain"
)

var cacheKeyPrefix = domain.KeyPrefix + "llm_cache:"

// store is the consumer interface for the completion cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type entry struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// CachedCompleter caches model answers in a key-value store.
type CachedCompleter struct {
	inner      domain.Completer
	store      store
	namespace  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. namespace separates caches of different
// model configurations; ttl <= 0 stores entries without expiry.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"rejected"), passed explicitly.
func New(
	inner domain.Completer,
	s store,
	namespace string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedCompleter {
	return &CachedCompleter{
		inner:      inner,
		store:      s,
		namespace:  namespace,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Complete returns a cached answer or calls the inner completer.
// Cache hit: token counts are zero and Cached is set. Answers failing the
// check attached via domain.ContextWithAnswerCheck are neither served nor stored.
func (c *CachedCompleter) Complete(ctx context.Context, prompt string) (domain.CompletionResult, error) {
	key := c.cacheKey(prompt)

	if e, ok := c.getFromCache(ctx, key); ok {
		if err := domain.CheckAnswer(ctx, e.Text); err == nil {
			c.incCache("hit")
			return domain.CompletionResult{Text: e.Text, Model: e.Model, Cached: true}, nil
		}
		c.logger.Debug("Cached completion rejected", zap.String("key", key))
	}

	c.incCache("miss")

	result, err := c.inner.Complete(ctx, prompt)
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("complete prompt: %w", err)
	}

	if err := domain.CheckAnswer(ctx, result.Text); err != nil {
		c.incCache("rejected")
		c.logger.Debug("Completion not cached", zap.String("key", key), zap.Error(err))
		return result, nil
	}
	c.putToCache(ctx, key, entry{Text: result.Text, Model: result.Model})
	return result, nil
}

func (c *CachedCompleter) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedCompleter) cacheKey(prompt string) string {
	h := sha256.Sum256([]byte(c.namespace + "\x00" + prompt))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}

func (c *CachedCompleter) getFromCache(ctx context.Context, key string) (entry, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached completion", zap.String("key", key), zap.Error(err))
		}
		return entry{}, false
	}
	if len(data) == 0 {
		return entry{}, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil || e.Text == "" {
		c.logger.Warn("Failed to parse cached completion", zap.String("key", key), zap.Error(err))
		return entry{}, false
	}
	return e, true
}

func (c *CachedCompleter) putToCache(ctx context.Context, key string, e entry) {
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err = c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache completion", zap.String("key", key), zap.Error(err))
	}
}

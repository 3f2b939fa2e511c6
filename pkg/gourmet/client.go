package gourmet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/db"
	dbRedis "github.com/kailas-cloud/gourmet/internal/db/redis"
	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"
	budgetrepo "github.com/kailas-cloud/gourmet/internal/repository/budget"
	"github.com/kailas-cloud/gourmet/internal/repository/completioncache"
	querylogrepo "github.com/kailas-cloud/gourmet/internal/repository/querylog"
	restaurantrepo "github.com/kailas-cloud/gourmet/internal/repository/restaurant"
	openaiLLM "github.com/kailas-cloud/gourmet/internal/transport/openai"
	assistantuc "github.com/kailas-cloud/gourmet/internal/usecase/assistant"
	"github.com/kailas-cloud/gourmet/internal/usecase/completion"
	healthuc "github.com/kailas-cloud/gourmet/internal/usecase/health"
	restaurantuc "github.com/kailas-cloud/gourmet/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/gourmet/internal/usecase/search"
	usageuc "github.com/kailas-cloud/gourmet/internal/usecase/usage"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultSearchLimit      = 10
	defaultRadiusKm         = 5
	defaultQueryLogTTL      = 30 * 24 * time.Hour
)

// Внутренние интерфейсы для подмены в тестах.
type restaurantUseCase interface {
	Create(ctx context.Context, attrs domrest.Attributes) (domrest.Restaurant, error)
	Get(ctx context.Context, id string) (domrest.Restaurant, error)
	List(ctx context.Context, offset, limit int) (restaurantuc.Page, error)
	Update(ctx context.Context, id string, attrs domrest.Attributes) (domrest.Restaurant, error)
	Delete(ctx context.Context, id string) error
}

type searchUseCase interface {
	Search(ctx context.Context, req searchuc.Request) (result.Result, error)
}

type assistantUseCase interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

type usageUseCase interface {
	Report(ctx context.Context, period domusage.Period) domusage.Report
}

type queryLogReader interface {
	Recent(ctx context.Context, limit int) ([]query.LogEntry, error)
}

// Client is the gourmet SDK entry point.
type Client struct {
	store     db.Store
	restSvc   restaurantUseCase
	searchSvc searchUseCase
	assistSvc assistantUseCase
	healthSvc healthUseCase
	usageSvc  usageUseCase
	queries   queryLogReader // nil when the query log is off
	obs       *observer
}

// New creates a gourmet Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("gourmet: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("gourmet: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return wireClient(ctx, store, cfg, obs), nil
}

// createStore opens the database. Valkey and Redis share the rueidis client.
func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			ClientName: "gourmet-sdk",
		})
		if err != nil {
			return nil, fmt.Errorf("gourmet: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("gourmet: unknown driver %q", cfg.driver)
	}
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig, obs *observer) *Client {
	// Internal services log through zap; SDK callers get slog via the observer.
	logger := zap.NewNop()

	var tracker *completion.BudgetTracker
	if cfg.dailyTokens > 0 || cfg.monthlyTokens > 0 {
		tracker = completion.NewBudgetTracker(providerName(cfg), cfg.dailyTokens, cfg.monthlyTokens,
			completion.BudgetActionReject, logger).WithStore(ctx, budgetrepo.New(store, 0, 0))
	}
	llm, model := buildCompleter(store, tracker, cfg, logger)

	// Pass nil interface (not typed nil pointer) when no budget is set.
	var br usageuc.BudgetReader
	if tracker != nil {
		br = tracker
	}

	limit := cfg.searchLimit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	radius := cfg.radiusKm
	if radius <= 0 {
		radius = defaultRadiusKm
	}

	restRepo := restaurantrepo.New(store)

	// Pass nil interface (not typed nil pointer) when the query log is off.
	var queryLog searchuc.QueryLog
	var queries queryLogReader
	if cfg.queryLogEnabled {
		ttl := cfg.queryLogTTL
		if ttl <= 0 {
			ttl = defaultQueryLogTTL
		}
		ql := querylogrepo.New(store, ttl)
		queryLog, queries = ql, ql
	}

	searchSvc := searchuc.New(llm, restRepo, queryLog, searchuc.Config{
		Limit:    limit,
		RadiusKm: radius,
	}, logger)

	return &Client{
		store:     store,
		restSvc:   restaurantuc.New(restRepo),
		searchSvc: searchSvc,
		assistSvc: assistantuc.New(llm, 0, logger),
		healthSvc: healthuc.New(store, model),
		usageSvc:  usageuc.New(br),
		queries:   queries,
		obs:       obs,
	}
}

func providerName(cfg *clientConfig) string {
	if cfg.completer == nil && cfg.openAI != nil {
		return "openai"
	}
	return "custom"
}

// buildCompleter assembles provider -> budget -> resilient -> cache. The
// returned checker is nil when no backend is configured; tracker may be nil.
func buildCompleter(
	store db.Store, tracker *completion.BudgetTracker, cfg *clientConfig, logger *zap.Logger,
) (domain.Completer, healthuc.ModelChecker) {
	var (
		provider domain.Completer
		model    healthuc.ModelChecker
		name     = providerName(cfg)
		models   string
	)
	switch {
	case cfg.completer != nil:
		a := &completerAdapter{inner: cfg.completer}
		provider, model = a, a
	case cfg.openAI != nil:
		c := openaiLLM.NewCompleter(&openaiLLM.Config{
			APIKey:   cfg.openAI.apiKey,
			BaseURL:  cfg.openAI.baseURL,
			Models:   cfg.openAI.models,
			Provider: name,
			Logger:   logger,
		})
		provider, model = c, c
		models = strings.Join(cfg.openAI.models, ",")
	default:
		return noopCompleter{}, nil
	}

	chain := completion.Chain{
		Tracker: tracker,
		Limiter: completion.NewAdaptiveLimiter(name, cfg.requestsPerSecond, cfg.burst, 0),
		Policy:  completion.DefaultRetryPolicy(),
	}
	if cfg.maxAttempts > 0 {
		chain.Policy.MaxAttempts = cfg.maxAttempts
	}
	if cfg.cacheEnabled {
		chain.Cache = func(inner domain.Completer) domain.Completer {
			return completioncache.New(inner, store, name+"|"+models, cfg.cacheTTL, nil, logger)
		}
	}
	return completion.Assemble(provider, chain, logger), model
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Restaurants returns the restaurant management service.
func (c *Client) Restaurants() *RestaurantService {
	return &RestaurantService{svc: c.restSvc, obs: c.obs}
}

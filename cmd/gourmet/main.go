package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/config"
	dbRedis "github.com/kailas-cloud/gourmet/internal/db/redis"
	"github.com/kailas-cloud/gourmet/internal/domain"
	logpkg "github.com/kailas-cloud/gourmet/internal/logger"
	"github.com/kailas-cloud/gourmet/internal/metrics"
	budgetrepo "github.com/kailas-cloud/gourmet/internal/repository/budget"
	"github.com/kailas-cloud/gourmet/internal/repository/completioncache"
	querylogrepo "github.com/kailas-cloud/gourmet/internal/repository/querylog"
	restaurantrepo "github.com/kailas-cloud/gourmet/internal/repository/restaurant"
	chiTransport "github.com/kailas-cloud/gourmet/internal/transport/chi"
	openaiLLM "github.com/kailas-cloud/gourmet/internal/transport/openai"
	assistantuc "github.com/kailas-cloud/gourmet/internal/usecase/assistant"
	"github.com/kailas-cloud/gourmet/internal/usecase/completion"
	healthuc "github.com/kailas-cloud/gourmet/internal/usecase/health"
	restaurantuc "github.com/kailas-cloud/gourmet/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/gourmet/internal/usecase/search"
	usageuc "github.com/kailas-cloud/gourmet/internal/usecase/usage"
	"github.com/kailas-cloud/gourmet/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting gourmet API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Strings("llm_models", cfg.LLM.Models),
	)

	// valkey and redis speak the same command set through rueidis
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		DB:         cfg.Database.DB,
		ClientName: "gourmet",
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterHTTPMetrics()
	metrics.RegisterLLMMetrics()

	provider := openaiLLM.NewCompleter(&openaiLLM.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Models:      cfg.LLM.Models,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Provider:    cfg.LLM.Provider,
		Timeout:     time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:      logger,
	})
	tracker := completion.NewBudgetTracker(cfg.LLM.Provider,
		cfg.Budget.DailyTokens, cfg.Budget.MonthlyTokens,
		completion.BudgetAction(cfg.Budget.Action), logger,
	).WithStore(ctx, budgetrepo.New(store, 0, 0))
	llm := buildCompleter(provider, tracker, &cfg, store, logger)

	restaurants := restaurantrepo.New(store)

	// Pass nil interface (not typed nil pointer) when the query log is off.
	var queryLog searchuc.QueryLog
	var history chiTransport.QueryHistory
	if cfg.QueryLog.Enabled {
		ql := querylogrepo.New(store, time.Duration(cfg.QueryLog.TTLHours)*time.Hour)
		queryLog, history = ql, ql
	}

	searchSvc := searchuc.New(llm, restaurants, queryLog, searchuc.Config{
		Limit:        cfg.Search.Limit,
		RadiusKm:     cfg.Search.RadiusKm,
		BatchSize:    cfg.Search.BatchSize,
		StoreTimeout: time.Duration(cfg.Search.StoreTimeoutSec) * time.Second,
	}, logger)
	assistantSvc := assistantuc.New(llm, cfg.Search.BatchSize, logger)
	restaurantSvc := restaurantuc.New(restaurants).
		WithPagination(cfg.Restaurants.DefaultPageSize, cfg.Restaurants.MaxPageSize)
	healthSvc := healthuc.New(store, provider)
	usageSvc := usageuc.New(tracker)

	server := chiTransport.NewServer(chiTransport.Deps{
		Search:      searchSvc,
		Assistant:   assistantSvc,
		Restaurants: restaurantSvc,
		Queries:     history,
		Usage:       usageSvc,
		Health:      healthSvc,
	}, chiTransport.Options{
		SoftErrors:      cfg.Search.SoftErrorsEnabled(),
		Debug:           cfg.HTTP.Debug,
		PipelineTimeout: time.Duration(cfg.Search.TimeoutSec) * time.Second,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCompleter assembles the decorator chain: OpenAI -> Budgeted -> Resilient -> Cached.
func buildCompleter(
	provider domain.Completer,
	tracker *completion.BudgetTracker,
	cfg *config.Config,
	store *dbRedis.Store,
	logger *zap.Logger,
) domain.Completer {
	chain := completion.Chain{
		Tracker: tracker,
		Limiter: completion.NewAdaptiveLimiter(cfg.LLM.Provider,
			cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.MinRequestsPerSecond),
		Policy: completion.DefaultRetryPolicy(),
	}
	chain.Policy.MaxAttempts = cfg.Retry.MaxAttempts
	chain.Policy.BaseDelay = cfg.Retry.BaseDelay()
	chain.Policy.MaxDelay = cfg.Retry.MaxDelay()
	chain.Policy.MaxJitter = cfg.Retry.MaxJitter()

	if cfg.Cache.Enabled {
		namespace := fmt.Sprintf("%s|%s|%g|%d",
			cfg.LLM.Provider, strings.Join(cfg.LLM.Models, ","), cfg.LLM.Temperature, cfg.LLM.MaxTokens)
		chain.Cache = func(inner domain.Completer) domain.Completer {
			return completioncache.New(inner, store, namespace,
				time.Duration(cfg.Cache.TTLSec)*time.Second, metrics.LLMCacheTotal, logger)
		}
	}
	return completion.Assemble(provider, chain, logger)
}

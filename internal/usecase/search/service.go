package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/geo"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	"github.com/kailas-cloud/gourmet/internal/domain/search/filter"
	"github.com/kailas-cloud/gourmet/internal/domain/search/keywords"
	"github.com/kailas-cloud/gourmet/internal/domain/search/params"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	"github.com/kailas-cloud/gourmet/internal/metrics"
)

const (
	// DefaultBatchSize bounds the independent model calls of one search.
	DefaultBatchSize = 2
	// DefaultStoreTimeout bounds each record store call of one search.
	DefaultStoreTimeout = 5 * time.Second
)

// Config tunes the pipeline.
type Config struct {
	Limit     int
	RadiusKm  float64
	BatchSize int
	// StoreTimeout is reserved out of the request deadline for the store read,
	// so slow model stages cannot starve it.
	StoreTimeout time.Duration
}

// Request is one search.
type Request struct {
	Query  string
	Target *geo.Point
}

// Service runs the classify → extract/normalize → filter → compose pipeline.
type Service struct {
	classifier *Classifier
	extractor  *Extractor
	normalizer *Normalizer
	composer   *Composer
	records    Records
	queryLog   QueryLog
	cfg        Config
	logger     *zap.Logger
	now        func() time.Time
}

// New creates a search service. queryLog may be nil.
func New(llm domain.Completer, records Records, queryLog QueryLog, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = DefaultStoreTimeout
	}
	return &Service{
		classifier: NewClassifier(llm, logger),
		extractor:  NewExtractor(llm, logger),
		normalizer: NewNormalizer(llm, logger),
		composer:   NewComposer(llm, logger),
		records:    records,
		queryLog:   queryLog,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Search runs the pipeline. It fails only on invalid input (ErrInvalidQuery)
// or when the record store cannot be read (ErrStoreUnavailable); every model
// failure is absorbed by the stage's fallback.
func (s *Service) Search(ctx context.Context, req Request) (result.Result, error) {
	text, err := query.ParseText(req.Query)
	if err != nil {
		return result.Result{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	var fallbacks []string

	modelCtx, cancel := s.modelContext(ctx)
	defer cancel()

	q, fb := s.classifier.Classify(modelCtx, text)
	if fb {
		fallbacks = append(fallbacks, result.StageClassify)
	}

	// Extraction and normalization both depend only on the classification.
	var (
		p          params.Params
		kw         keywords.Set
		fbExtract  bool
		fbKeywords bool
	)
	var g errgroup.Group
	g.SetLimit(s.cfg.BatchSize)
	g.Go(func() error {
		p, fbExtract = s.extractor.Extract(modelCtx, q.Structured())
		return nil
	})
	g.Go(func() error {
		kw, fbKeywords = s.normalizer.Normalize(modelCtx, q.Keywords())
		return nil
	})
	_ = g.Wait()
	if fbExtract {
		fallbacks = append(fallbacks, result.StageExtract)
	}
	if fbKeywords {
		fallbacks = append(fallbacks, result.StageKeywords)
	}
	p.Target = req.Target

	storeCtx, cancelStore := s.storeContext(ctx)
	records, err := s.records.List(storeCtx)
	cancelStore()
	if err != nil {
		return result.Result{}, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	out := filter.Apply(records, p, kw, filter.Options{Limit: s.cfg.Limit, RadiusKm: s.cfg.RadiusKm})
	metrics.SearchStrategyTotal.WithLabelValues(string(out.Strategy)).Inc()
	metrics.SearchResults.Observe(float64(len(out.Hits)))

	msg, fb := s.composer.Compose(ctx, text, out.Hits)
	if fb {
		fallbacks = append(fallbacks, result.StageCompose)
	}

	s.logger.Info("Search completed",
		zap.Int("records", len(records)),
		zap.Int("results", len(out.Hits)),
		zap.String("strategy", string(out.Strategy)),
		zap.Strings("fallbacks", fallbacks),
	)

	res := result.New(out.Hits, msg, out.Strategy, fallbacks)
	s.appendLog(ctx, q, p, kw, &res)
	return res, nil
}

// modelContext bounds classification and extraction so that StoreTimeout
// (at most half of what is left) remains for the store read.
func (s *Service) modelContext(ctx context.Context) (context.Context, context.CancelFunc) {
	dl, ok := ctx.Deadline()
	if !ok {
		return context.WithCancel(ctx)
	}
	reserve := min(s.cfg.StoreTimeout, time.Until(dl)/2)
	return context.WithDeadline(ctx, dl.Add(-reserve))
}

// storeContext detaches store calls from a deadline the model stages may have spent.
// A request already canceled by the client is not detached.
func (s *Service) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx, func() {}
	}
	return context.WithTimeout(context.WithoutCancel(ctx), s.cfg.StoreTimeout)
}

func (s *Service) appendLog(ctx context.Context, q query.Query, p params.Params, kw keywords.Set, res *result.Result) {
	if s.queryLog == nil {
		return
	}
	e := &query.LogEntry{
		ID:            uuid.NewString(),
		Text:          q.Text(),
		Location:      p.Area,
		Cuisine:       p.Cuisine,
		PriceCategory: string(p.PriceCategory),
		Keywords:      q.Keywords(),
		SearchTerms:   kw.Terms(),
		ResultCount:   len(res.Hits()),
		Strategy:      string(res.Strategy()),
		Fallbacks:     res.Fallbacks(),
		CreatedAt:     s.now().UTC(),
	}
	ctx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.queryLog.Append(ctx, e); err != nil {
		s.logger.Warn("Failed to append query log", zap.String("id", e.ID), zap.Error(err))
	}
}

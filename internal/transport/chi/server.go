package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"
	healthuc "github.com/kailas-cloud/gourmet/internal/usecase/health"
	restaurantuc "github.com/kailas-cloud/gourmet/internal/usecase/restaurant"
	searchuc "github.com/kailas-cloud/gourmet/internal/usecase/search"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Error codes.
const (
	codeBadRequest    = "bad_request"
	codeValidation    = "validation_failed"
	codeUnauthorized  = "unauthorized"
	codeNotFound      = "restaurant_not_found"
	codeRateLimited   = "rate_limited"
	codeBudget        = "token_budget_exceeded"
	codeProviderError = "llm_provider_error"
	codeInternal      = "internal_error"
)

// User-facing messages.
const (
	msgQueryRequired   = "クエリが必要です"
	msgPromptRequired  = "プロンプトが必要です"
	msgSearchFailed    = "検索中にエラーが発生しました"
	msgAssistantFailed = "回答の生成中にエラーが発生しました"
	msgInvalidInput    = "入力内容が正しくありません"
	msgInvalidLocation = "位置情報が正しくありません"
	msgInvalidPaging   = "ページ指定が正しくありません"
	msgNotFound        = "レストランが見つかりません"
	msgRateLimited     = "リクエストが集中しています。しばらくしてから再度お試しください"
	msgProviderError   = "AIサービスに接続できませんでした"
	msgBudgetExceeded  = "AIサービスの利用上限に達しました"
	msgInvalidPeriod   = "集計期間は day または month で指定してください"
	msgListFailed      = "レストラン一覧の取得に失敗しました"
	msgGetFailed       = "レストランの取得に失敗しました"
	msgCreateFailed    = "レストランの作成に失敗しました"
	msgUpdateFailed    = "レストランの更新に失敗しました"
	msgDeleteFailed    = "レストランの削除に失敗しました"
	msgQueriesFailed   = "検索履歴の取得に失敗しました"
	msgCreated         = "レストランが作成されました"
	msgUpdated         = "レストランが更新されました"
	msgDeleted         = "レストランが削除されました"
)

// Searcher runs the search pipeline.
type Searcher interface {
	Search(ctx context.Context, req searchuc.Request) (result.Result, error)
}

// Assistant produces the merged specialist answer.
type Assistant interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

// Restaurants is the CRUD surface over the record collection.
type Restaurants interface {
	Create(ctx context.Context, attrs domrest.Attributes) (domrest.Restaurant, error)
	Get(ctx context.Context, id string) (domrest.Restaurant, error)
	List(ctx context.Context, offset, limit int) (restaurantuc.Page, error)
	Update(ctx context.Context, id string, attrs domrest.Attributes) (domrest.Restaurant, error)
	Delete(ctx context.Context, id string) error
}

// QueryHistory reads the query log.
type QueryHistory interface {
	Recent(ctx context.Context, limit int) ([]query.LogEntry, error)
	CountOn(ctx context.Context, day time.Time) (int64, error)
}

// UsageReporter reports model token usage.
type UsageReporter interface {
	Report(ctx context.Context, period domusage.Period) domusage.Report
}

// HealthChecker aggregates component checks.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Deps are the services behind the HTTP API. Queries and Usage can be nil.
type Deps struct {
	Search      Searcher
	Assistant   Assistant
	Restaurants Restaurants
	Queries     QueryHistory
	Usage       UsageReporter
	Health      HealthChecker
}

// Options toggle response behaviour.
type Options struct {
	// SoftErrors answers a store outage on /search with 200, no restaurants and an apology.
	SoftErrors bool
	// Debug adds error detail and pipeline internals to responses.
	Debug bool
	// PipelineTimeout bounds one search or assistant request; 0 disables it.
	PipelineTimeout time.Duration
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, body errorResponse) bool

// Server serves the gourmet HTTP API.
type Server struct {
	deps          Deps
	opts          Options
	validate      *validator.Validate
	logger        *zap.Logger
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(deps Deps, opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := domrest.ParseClock(fl.Field().String())
		return err == nil
	})
	s := &Server{
		deps:     deps,
		opts:     opts,
		validate: v,
		logger:   logger,
		now:      time.Now,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeBadRequest, msgQueryRequired),
		sentinelHandler(domain.ErrInvalidRecord, http.StatusBadRequest, codeValidation, msgInvalidInput),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound, msgNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited, msgRateLimited),
		sentinelHandler(domain.ErrTokenBudgetExceeded, http.StatusTooManyRequests, codeBudget, msgBudgetExceeded),
		sentinelHandler(domain.ErrModelAccessDenied, http.StatusBadGateway, codeProviderError, msgProviderError),
		sentinelHandler(domain.ErrModelProviderError, http.StatusBadGateway, codeProviderError, msgProviderError),
	}
	return s
}

// Routes mounts the API on r. Mutating restaurant routes, the query log and
// usage require a Bearer key when apiKeys is non-empty.
func (s *Server) Routes(r chi.Router, apiKeys []string) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/search", s.Search)
		r.Post("/assistant", s.Assist)
		r.Get("/restaurants", s.ListRestaurants)
		r.Get("/restaurants/{id}", s.GetRestaurant)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(apiKeys))
			r.Post("/restaurants", s.CreateRestaurant)
			r.Put("/restaurants/{id}", s.UpdateRestaurant)
			r.Delete("/restaurants/{id}", s.DeleteRestaurant)
			r.Get("/queries", s.RecentQueries)
			r.Get("/usage", s.Usage)
		})
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.deps.Health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// pipelineContext applies PipelineTimeout to the request context.
func (s *Server) pipelineContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.opts.PipelineTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.opts.PipelineTimeout)
}

// decodeBody reads a JSON body into v and runs struct validation.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		return err //nolint:wrapcheck // reported as a 400 by the caller
	}
	return s.validate.Struct(v) //nolint:wrapcheck // reported as a 400 by the caller
}

// badRequest writes a 400, adding the cause in debug mode.
func (s *Server) badRequest(w http.ResponseWriter, code, msg string, cause error) {
	body := errorResponse{Error: msg, Code: code}
	if s.opts.Debug && cause != nil {
		body.Debug = cause.Error()
	}
	writeJSON(w, http.StatusBadRequest, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code, message string) errorHandler {
	return func(w http.ResponseWriter, err error, body errorResponse) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		body.Error = message
		body.Code = code
		writeJSON(w, status, body)
		return true
	}
}

// handleDomainError maps err through the handler chain. Unmatched errors
// become a 500 carrying fallback.
func (s *Server) handleDomainError(w http.ResponseWriter, err error, fallback string) {
	s.logger.Warn("domain error", zap.Error(err))
	var body errorResponse
	if s.opts.Debug {
		body.Debug = err.Error()
	}
	for _, h := range s.errorHandlers {
		if h(w, err, body) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	body.Error = fallback
	body.Code = codeInternal
	writeJSON(w, http.StatusInternalServerError, body)
}

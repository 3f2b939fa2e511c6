package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/metrics"
)

// Completer is a chat-completion provider using an OpenAI-compatible API
// (OpenAI, Nebius, Bedrock access gateways).
type Completer struct {
	client      *openai.Client
	models      []string
	maxTokens   int
	temperature float32
	provider    string
	logger      *zap.Logger
}

// Config holds the completion provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	// Models are tried in order; the next one is used when the caller is denied access.
	Models      []string
	MaxTokens   int
	Temperature float32
	Provider    string
	// Timeout bounds a single HTTP call; 0 leaves it to the caller's context.
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewCompleter creates an OpenAI-compatible completion provider.
func NewCompleter(cfg *Config) *Completer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Completer{
		client:      openai.NewClientWithConfig(clientCfg),
		models:      cfg.Models,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		provider:    cfg.Provider,
		logger:      logger,
	}
}

// Complete implements domain.Completer. Models are tried in configured order
// while the backend denies access; any other failure is returned as is.
func (c *Completer) Complete(ctx context.Context, prompt string) (domain.CompletionResult, error) {
	if len(c.models) == 0 {
		return domain.CompletionResult{}, fmt.Errorf("no models configured: %w", domain.ErrModelProviderError)
	}

	var lastErr error
	for i, model := range c.models {
		res, err := c.completeWith(ctx, model, prompt)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, domain.ErrModelAccessDenied) {
			return domain.CompletionResult{}, err
		}
		lastErr = err
		if i < len(c.models)-1 {
			metrics.LLMModelFallbacksTotal.WithLabelValues(c.provider, model).Inc()
			c.logger.Warn("Model access denied, trying next model",
				zap.String("model", model),
				zap.String("next_model", c.models[i+1]),
				zap.Error(err),
			)
		}
	}
	return domain.CompletionResult{}, lastErr
}

func (c *Completer) completeWith(ctx context.Context, model, prompt string) (domain.CompletionResult, error) {
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	start := time.Now()

	resp, err := c.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		parsed := parseAPIError(err)
		metrics.LLMRequestsTotal.WithLabelValues(c.provider, model, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(c.provider, model, errorType(parsed)).Inc()
		return domain.CompletionResult{}, parsed
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		metrics.LLMRequestsTotal.WithLabelValues(c.provider, model, "error").Inc()
		metrics.LLMErrorsTotal.WithLabelValues(c.provider, model, "empty_response").Inc()
		return domain.CompletionResult{}, fmt.Errorf("empty completion response: %w", domain.ErrModelProviderError)
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.provider, model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.provider, model).Observe(duration.Seconds())

	if resp.Usage.TotalTokens > 0 {
		metrics.LLMTokensTotal.WithLabelValues(c.provider, model, "prompt").Add(float64(resp.Usage.PromptTokens))
		metrics.LLMTokensTotal.WithLabelValues(c.provider, model, "total").Add(float64(resp.Usage.TotalTokens))
	}

	return domain.CompletionResult{
		Text:         resp.Choices[0].Message.Content,
		Model:        model,
		PromptTokens: resp.Usage.PromptTokens,
		TotalTokens:  resp.Usage.TotalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError classifies a transport error into a domain error:
// 429 and throttling bodies → ErrRateLimited, 401/403 and unknown models →
// ErrModelAccessDenied, anything else → ErrModelProviderError.
func parseAPIError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, detail, classify(reqErr.HTTPStatusCode, "", detail))
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)
		return fmt.Errorf("completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, classify(apiErr.HTTPStatusCode, code+" "+apiErr.Type, apiErr.Message))
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("completion request: %w: %w", domain.ErrModelProviderError, err)
	}

	return fmt.Errorf("completion request failed: %w", domain.ErrModelProviderError)
}

func classify(status int, code, message string) error {
	text := strings.ToLower(code + " " + message)
	switch {
	case status == http.StatusTooManyRequests,
		strings.Contains(text, "throttlingexception"),
		strings.Contains(text, "rate_limit"):
		return domain.ErrRateLimited
	case status == http.StatusUnauthorized,
		status == http.StatusForbidden,
		strings.Contains(text, "accessdeniedexception"),
		strings.Contains(text, "model_not_found"),
		status == http.StatusNotFound && strings.Contains(text, "model"):
		return domain.ErrModelAccessDenied
	default:
		return domain.ErrModelProviderError
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, domain.ErrModelAccessDenied):
		return "access_denied"
	default:
		return "api_error"
	}
}

// extractDetail pulls the human-readable message out of a JSON error body.
// Nebius uses "detail", Bedrock gateways use "message".
func extractDetail(body []byte) string {
	var parsed struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	if parsed.Detail != "" {
		return parsed.Detail
	}
	return parsed.Message
}

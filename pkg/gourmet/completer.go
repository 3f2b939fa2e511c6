package gourmet

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/gourmet/internal/domain"
)

// Completer answers a single prompt with model text.
// Search works without one: every model stage has a rule-based fallback.
type Completer interface {
	Complete(ctx context.Context, prompt string) (Completion, error)
}

// HealthChecker is optionally implemented by a Completer to take part in Health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Completion carries the model answer and token counts.
type Completion struct {
	Text         string
	Model        string
	PromptTokens int
	TotalTokens  int
}

// completerAdapter wraps public Completer to satisfy internal domain.Completer.
type completerAdapter struct {
	inner Completer
}

func (a *completerAdapter) Complete(ctx context.Context, prompt string) (domain.CompletionResult, error) {
	r, err := a.inner.Complete(ctx, prompt)
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("complete: %w", err)
	}
	return domain.CompletionResult{
		Text:         r.Text,
		Model:        r.Model,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

func (a *completerAdapter) HealthCheck(ctx context.Context) error {
	if hc, ok := a.inner.(HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// noopCompleter fails every call so each stage takes its fallback.
type noopCompleter struct{}

func (noopCompleter) Complete(_ context.Context, _ string) (domain.CompletionResult, error) {
	return domain.CompletionResult{}, fmt.Errorf(
		"%w: gourmet: model backend not configured (use WithOpenAI or WithCompleter)",
		domain.ErrModelProviderError,
	)
}

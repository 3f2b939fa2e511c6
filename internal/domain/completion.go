package domain

import "context"

// KeyPrefix is the namespace for every key this service writes.
const KeyPrefix = "gourmet:"

// Completer is the shared text-completion contract between layers.
type Completer interface {
	Complete(ctx context.Context, prompt string) (CompletionResult, error)
}

// HealthChecker verifies model backend availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CompletionResult carries the model answer and token usage through the decorator chain.
type CompletionResult struct {
	Text         string
	Model        string
	PromptTokens int
	TotalTokens  int
	Cached       bool
}

type stageKey struct{}

// stageCtx holds the stage label used by metrics and logs further down the chain.
type stageCtx struct {
	name string
}

// ContextWithStage tags ctx with the pipeline stage issuing model calls.
func ContextWithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, stageKey{}, stageCtx{name: stage})
}

// StageFromContext returns the stage tag, or "unknown".
func StageFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(stageKey{}).(stageCtx); ok && s.name != "" {
		return s.name
	}
	return "unknown"
}

type answerCheckKey struct{}

// ContextWithAnswerCheck attaches the check an answer must pass before it may be cached.
func ContextWithAnswerCheck(ctx context.Context, check func(text string) error) context.Context {
	return context.WithValue(ctx, answerCheckKey{}, check)
}

// CheckAnswer runs the check attached to ctx. No check accepts every answer.
func CheckAnswer(ctx context.Context, text string) error {
	if check, ok := ctx.Value(answerCheckKey{}).(func(string) error); ok && check != nil {
		return check(text)
	}
	return nil
}

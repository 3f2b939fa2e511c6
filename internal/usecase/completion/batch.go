package completion

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/gourmet/internal/domain"
)

// DefaultBatchSize bounds concurrent model calls issued by one request.
const DefaultBatchSize = 3

// Prompt is one independent call in a batch.
type Prompt struct {
	Stage string
	Text  string
	Check func(string) error // optional; see domain.ContextWithAnswerCheck
}

// Outcome is the positional result of a batched prompt.
type Outcome struct {
	Result domain.CompletionResult
	Err    error
}

// CompleteAll runs independent prompts as one bounded concurrent batch.
// A failing prompt does not cancel the others; outcomes keep prompt order.
func CompleteAll(ctx context.Context, c domain.Completer, limit int, prompts []Prompt) []Outcome {
	if limit < 1 {
		limit = DefaultBatchSize
	}
	out := make([]Outcome, len(prompts))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, p := range prompts {
		g.Go(func() error {
			pctx := domain.ContextWithStage(ctx, p.Stage)
			if p.Check != nil {
				pctx = domain.ContextWithAnswerCheck(pctx, p.Check)
			}
			res, err := c.Complete(pctx, p.Text)
			out[i] = Outcome{Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

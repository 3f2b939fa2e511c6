package search

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/search/keywords"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	"github.com/kailas-cloud/gourmet/internal/usecase/completion"
)

// Normalizer expands vague descriptors into concrete, matchable terms.
type Normalizer struct {
	llm    domain.Completer
	logger *zap.Logger
}

// NewNormalizer creates a keyword normalizer.
func NewNormalizer(llm domain.Completer, logger *zap.Logger) *Normalizer {
	return &Normalizer{llm: llm, logger: logger}
}

// Normalize never fails and never returns an empty set.
func (n *Normalizer) Normalize(ctx context.Context, kws []string) (set keywords.Set, fellBack bool) {
	original := keywords.New(kws...)
	if original.IsEmpty() {
		return keywords.Default(), false
	}
	set, err := n.normalize(ctx, original)
	if err != nil {
		recordFallback(ctx, n.logger, result.StageKeywords, err)
		return original, true
	}
	return set.OrDefault(), false
}

func (n *Normalizer) normalize(ctx context.Context, kws keywords.Set) (keywords.Set, error) {
	in, err := json.Marshal(kws.Terms())
	if err != nil {
		return keywords.Set{}, fmt.Errorf("marshal keywords: %w", err)
	}

	ctx = domain.ContextWithStage(ctx, result.StageKeywords)
	ctx = domain.ContextWithAnswerCheck(ctx, completion.Check[keywordsShape])
	res, err := n.llm.Complete(ctx, fmt.Sprintf(keywordsPrompt, in))
	if err != nil {
		return keywords.Set{}, err //nolint:wrapcheck // already carries the stage
	}
	shape, err := completion.Decode[keywordsShape](res.Text)
	if err != nil {
		return keywords.Set{}, err
	}
	return keywords.New(shape.SearchableKeywords...), nil
}

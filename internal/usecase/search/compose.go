package search

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
)

// Composer writes the short recommendation shown above the results.
type Composer struct {
	llm    domain.Completer
	logger *zap.Logger
}

// NewComposer creates a composer.
func NewComposer(llm domain.Completer, logger *zap.Logger) *Composer {
	return &Composer{llm: llm, logger: logger}
}

// summary is the per-restaurant context handed to the model.
type summary struct {
	Name          string   `json:"name"`
	Area          string   `json:"area"`
	Description   string   `json:"description,omitempty"`
	Cuisine       []string `json:"cuisine,omitempty"`
	Features      []string `json:"features,omitempty"`
	Ambience      []string `json:"ambience,omitempty"`
	PriceCategory string   `json:"priceCategory,omitempty"`
	Rating        float64  `json:"rating"`
}

// maxSummaryDescription caps each description in the prompt, in runes.
const maxSummaryDescription = 200

// Compose never fails. fellBack reports that the templated sentence was used.
func (c *Composer) Compose(ctx context.Context, text string, hits []result.Hit) (msg string, fellBack bool) {
	msg, err := c.compose(ctx, text, hits)
	if err != nil {
		recordFallback(ctx, c.logger, result.StageCompose, err)
		return templatedRecommendation(text, len(hits)), true
	}
	return msg, false
}

func (c *Composer) compose(ctx context.Context, text string, hits []result.Hit) (string, error) {
	summaries := make([]summary, 0, len(hits))
	for i := range hits {
		r := hits[i].Restaurant()
		summaries = append(summaries, summary{
			Name:          r.Name(),
			Area:          r.Area(),
			Description:   truncateRunes(r.Description(), maxSummaryDescription),
			Cuisine:       r.Cuisine(),
			Features:      r.Features(),
			Ambience:      r.Ambience(),
			PriceCategory: string(r.PriceCategory()),
			Rating:        r.RatingAverage(),
		})
	}
	in, err := json.Marshal(summaries)
	if err != nil {
		return "", fmt.Errorf("marshal restaurants: %w", err)
	}

	ctx = domain.ContextWithStage(ctx, result.StageCompose)
	ctx = domain.ContextWithAnswerCheck(ctx, nonBlank)
	res, err := c.llm.Complete(ctx, fmt.Sprintf(composePrompt, text, in))
	if err != nil {
		return "", err //nolint:wrapcheck // already carries the stage
	}
	if err := nonBlank(res.Text); err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Text), nil
}

func nonBlank(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: empty recommendation", domain.ErrMalformedOutput)
	}
	return nil
}

func templatedRecommendation(text string, n int) string {
	if n == 0 {
		return fmt.Sprintf(composeEmptyFallback, text)
	}
	return fmt.Sprintf(composeFallback, text)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/gourmet/internal/logger"
	"github.com/kailas-cloud/gourmet/internal/usecase/completion"
)

// Stage labels of the three specialist calls.
const (
	StageConditions     = result.StageAssistant + "_conditions"
	StageKeywords       = result.StageAssistant + "_keywords"
	StageRecommendation = result.StageAssistant + "_recommendation"
)

type conditionsShape struct {
	Area          string   `json:"area" validate:"max=100"`
	Cuisine       []string `json:"cuisine" validate:"max=16,dive,max=100"`
	PriceCategory string   `json:"priceCategory" validate:"max=16"`
	Features      []string `json:"features" validate:"max=16,dive,max=100"`
	MinRating     float64  `json:"minRating" validate:"gte=0,lte=5"`
}

type keywordsShape struct {
	Keywords []string `json:"keywords" validate:"required,min=1,max=20,dive,max=100"`
}

// Service answers a free-form prompt with three specialist model calls.
type Service struct {
	llm       domain.Completer
	batchSize int
	logger    *zap.Logger
}

// New creates the assistant. batchSize <= 0 uses completion.DefaultBatchSize.
func New(llm domain.Completer, batchSize int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{llm: llm, batchSize: batchSize, logger: logger}
}

// Answer runs the conditions, keyword and recommendation prompts as one
// batch and renders the successful ones as markdown in that order.
// It fails with ErrModelProviderError only when all three fail.
func (s *Service) Answer(ctx context.Context, prompt string) (string, error) {
	text, err := query.ParseText(prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}

	outcomes := completion.CompleteAll(ctx, s.llm, s.batchSize, []completion.Prompt{
		{Stage: StageConditions, Text: fmt.Sprintf(conditionsPrompt, text), Check: completion.Check[conditionsShape]},
		{Stage: StageKeywords, Text: fmt.Sprintf(keywordsPrompt, text), Check: completion.Check[keywordsShape]},
		{Stage: StageRecommendation, Text: fmt.Sprintf(recommendationPrompt, text)},
	})

	var sections []string
	if sec, err := conditionsSection(outcomes[0]); err != nil {
		s.warn(ctx, StageConditions, err)
	} else {
		sections = append(sections, sec)
	}
	if sec, err := keywordsSection(outcomes[1]); err != nil {
		s.warn(ctx, StageKeywords, err)
	} else {
		sections = append(sections, sec)
	}
	if sec, err := recommendationSection(outcomes[2]); err != nil {
		s.warn(ctx, StageRecommendation, err)
	} else {
		sections = append(sections, sec)
	}

	if len(sections) == 0 {
		for _, o := range outcomes {
			if errors.Is(o.Err, domain.ErrTokenBudgetExceeded) {
				return "", fmt.Errorf("%w: %w", domain.ErrModelProviderError, domain.ErrTokenBudgetExceeded)
			}
		}
		return "", fmt.Errorf("%w: no specialist answered", domain.ErrModelProviderError)
	}
	return render(text, sections), nil
}

func (s *Service) warn(ctx context.Context, stage string, err error) {
	logpkg.FromContextOr(ctx, s.logger).Warn("Assistant specialist failed", zap.String("stage", stage), zap.Error(err))
}

func conditionsSection(o completion.Outcome) (string, error) {
	if o.Err != nil {
		return "", o.Err
	}
	shape, err := completion.Decode[conditionsShape](o.Result.Text)
	if err != nil {
		return "", err //nolint:wrapcheck // already wraps ErrMalformedOutput
	}
	body, err := json.MarshalIndent(shape, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal conditions: %w", err)
	}
	return "## 検索条件\n\n```json\n" + string(body) + "\n```\n", nil
}

func keywordsSection(o completion.Outcome) (string, error) {
	if o.Err != nil {
		return "", o.Err
	}
	shape, err := completion.Decode[keywordsShape](o.Result.Text)
	if err != nil {
		return "", err //nolint:wrapcheck // already wraps ErrMalformedOutput
	}
	var b strings.Builder
	b.WriteString("## キーワード\n\n")
	for _, k := range shape.Keywords {
		fmt.Fprintf(&b, "- %s\n", k)
	}
	return b.String(), nil
}

func recommendationSection(o completion.Outcome) (string, error) {
	if o.Err != nil {
		return "", o.Err
	}
	msg := strings.TrimSpace(o.Result.Text)
	if msg == "" {
		return "", fmt.Errorf("%w: empty recommendation", domain.ErrMalformedOutput)
	}
	return "## おすすめ\n\n" + msg + "\n", nil
}

func render(text string, sections []string) string {
	var b strings.Builder
	b.WriteString("# 統合回答\n\n")
	fmt.Fprintf(&b, "**質問:** %s\n\n", text)
	b.WriteString(strings.Join(sections, "\n---\n\n"))
	return b.String()
}

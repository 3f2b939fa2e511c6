package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	"github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	"github.com/kailas-cloud/gourmet/internal/usecase/completion"
)

var (
	knownLocations = []string{"渋谷", "新宿", "原宿", "六本木", "銀座", "表参道", "恵比寿", "代官山", "中目黒"}
	knownCuisines  = []string{"和食", "洋食", "中華", "イタリアン", "フレンチ", "居酒屋", "ラーメン", "寿司", "焼肉"}
)

// popularRating is the minimum rating implied by 評価の高い / 人気.
const popularRating = 4.0

// Classifier splits a free-text query into structured data and loose keywords.
type Classifier struct {
	llm    domain.Completer
	logger *zap.Logger
}

// NewClassifier creates a classifier.
func NewClassifier(llm domain.Completer, logger *zap.Logger) *Classifier {
	return &Classifier{llm: llm, logger: logger}
}

// Classify never fails. fellBack reports that the heuristic was used.
func (c *Classifier) Classify(ctx context.Context, text string) (q query.Query, fellBack bool) {
	q, err := c.classify(ctx, text)
	if err != nil {
		recordFallback(ctx, c.logger, result.StageClassify, err)
		return heuristicClassification(text), true
	}
	return q, false
}

func (c *Classifier) classify(ctx context.Context, text string) (query.Query, error) {
	ctx = domain.ContextWithStage(ctx, result.StageClassify)
	ctx = domain.ContextWithAnswerCheck(ctx, completion.Check[classifyShape])
	res, err := c.llm.Complete(ctx, fmt.Sprintf(classifyPrompt, text))
	if err != nil {
		return query.Query{}, err //nolint:wrapcheck // already carries the stage
	}
	shape, err := completion.Decode[classifyShape](res.Text)
	if err != nil {
		return query.Query{}, err
	}

	sd := shape.StructuredData
	return query.New(text, query.StructuredData{
		Location: strings.TrimSpace(sd.Location),
		Cuisine:  sd.Cuisine,
		PriceRange: query.PriceRange{
			Category: sd.PriceRange.Category,
			Min:      sd.PriceRange.Min,
			Max:      sd.PriceRange.Max,
		},
		OpeningHours: query.OpeningHours{Day: sd.OpeningHours.Day, Time: sd.OpeningHours.Time},
		Features:     sd.Features,
		MinRating:    sd.MinRating,
	}, shape.Keywords), nil
}

// heuristicClassification scans the query for known names. Keywords are the raw query.
func heuristicClassification(text string) query.Query {
	sd := query.StructuredData{}
	for _, loc := range knownLocations {
		if strings.Contains(text, loc) {
			sd.Location = loc
			break
		}
	}
	for _, c := range knownCuisines {
		if strings.Contains(text, c) {
			sd.Cuisine = append(sd.Cuisine, c)
		}
	}

	switch {
	case strings.Contains(text, "安い"), strings.Contains(text, "リーズナブル"):
		sd.PriceRange.Category = string(restaurant.PriceBudget)
	case strings.Contains(text, "高級"):
		sd.PriceRange.Category = string(restaurant.PriceLuxury)
	}
	if strings.Contains(text, "個室") {
		sd.Features = append(sd.Features, "個室あり")
	}
	if strings.Contains(text, "評価の高い") || strings.Contains(text, "人気") {
		sd.MinRating = popularRating
	}

	return query.New(text, sd, []string{text})
}

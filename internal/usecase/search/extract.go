package search

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	"github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/params"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	"github.com/kailas-cloud/gourmet/internal/usecase/completion"
)

// Extractor turns structured data into filterable params, translating vague
// time and price expressions.
type Extractor struct {
	llm    domain.Completer
	logger *zap.Logger
}

// NewExtractor creates an extractor.
func NewExtractor(llm domain.Completer, logger *zap.Logger) *Extractor {
	return &Extractor{llm: llm, logger: logger}
}

// Extract never fails. Empty structured data yields empty params without a model call.
func (e *Extractor) Extract(ctx context.Context, sd query.StructuredData) (p params.Params, fellBack bool) {
	if sd.IsEmpty() {
		return params.Params{}, false
	}
	p, err := e.extract(ctx, sd)
	if err != nil {
		recordFallback(ctx, e.logger, result.StageExtract, err)
		return passThrough(sd), true
	}
	return p, false
}

func (e *Extractor) extract(ctx context.Context, sd query.StructuredData) (params.Params, error) {
	in, err := json.Marshal(toStructuredShape(sd))
	if err != nil {
		return params.Params{}, fmt.Errorf("marshal structured data: %w", err)
	}

	ctx = domain.ContextWithStage(ctx, result.StageExtract)
	ctx = domain.ContextWithAnswerCheck(ctx, completion.Check[paramsShape])
	res, err := e.llm.Complete(ctx, fmt.Sprintf(extractPrompt, in))
	if err != nil {
		return params.Params{}, err //nolint:wrapcheck // already carries the stage
	}
	shape, err := completion.Decode[paramsShape](res.Text)
	if err != nil {
		return params.Params{}, err
	}

	p := params.Params{
		Area:          shape.Area,
		Cuisine:       shape.Cuisine,
		PriceCategory: restaurant.ParsePriceCategory(shape.PriceCategory),
		PriceMin:      shape.PriceMin,
		PriceMax:      shape.PriceMax,
		MinRating:     shape.MinRating,
		Day:           shape.Day,
		OpenTime:      shape.OpenTime,
		CloseTime:     shape.CloseTime,
		Features:      shape.Features,
	}
	// The rating threshold is not a translation; keep the classifier's when the model drops it.
	if p.MinRating == 0 {
		p.MinRating = sd.MinRating
	}
	return p.Normalized(), nil
}

// passThrough copies the fields that need no translation. Day and time are omitted.
func passThrough(sd query.StructuredData) params.Params {
	return params.Params{
		Area:          sd.Location,
		Cuisine:       sd.Cuisine,
		PriceCategory: restaurant.ParsePriceCategory(sd.PriceRange.Category),
		PriceMin:      sd.PriceRange.Min,
		PriceMax:      sd.PriceRange.Max,
		MinRating:     sd.MinRating,
		Features:      sd.Features,
	}.Normalized()
}

func toStructuredShape(sd query.StructuredData) structuredShape {
	return structuredShape{
		Location: sd.Location,
		Cuisine:  nonNil(sd.Cuisine),
		PriceRange: priceRangeShape{
			Category: sd.PriceRange.Category,
			Min:      sd.PriceRange.Min,
			Max:      sd.PriceRange.Max,
		},
		OpeningHours: openingHoursShape{Day: sd.OpeningHours.Day, Time: sd.OpeningHours.Time},
		Features:     nonNil(sd.Features),
		MinRating:    sd.MinRating,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

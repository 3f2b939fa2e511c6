package result

import (
	"github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/mode"
)

// Stage names used for fallback markers.
const (
	StageClassify  = "classify"
	StageExtract   = "extract"
	StageKeywords  = "keywords"
	StageCompose   = "compose"
	StageAssistant = "assistant"
)

// Hit is a single ranked restaurant.
type Hit struct {
	record     restaurant.Restaurant
	score      float64
	matched    []string
	distanceKm *float64
}

// NewHit creates a ranked hit.
func NewHit(r restaurant.Restaurant, score float64, matched []string, distanceKm *float64) Hit {
	return Hit{record: r, score: score, matched: matched, distanceKm: distanceKm}
}

// Restaurant returns the matched record.
func (h *Hit) Restaurant() restaurant.Restaurant { return h.record }

// Score returns the relevance score.
func (h *Hit) Score() float64 { return h.score }

// Matched returns the search terms found in the record.
func (h *Hit) Matched() []string { return h.matched }

// DistanceKm returns the distance to the target point, or nil.
func (h *Hit) DistanceKm() *float64 { return h.distanceKm }

// Result is the outcome of one pipeline run.
type Result struct {
	hits      []Hit
	message   string
	strategy  mode.Strategy
	fallbacks []string
}

// New creates a Result.
func New(hits []Hit, message string, strategy mode.Strategy, fallbacks []string) Result {
	return Result{hits: hits, message: message, strategy: strategy, fallbacks: fallbacks}
}

// Hits returns the ranked restaurants.
func (r *Result) Hits() []Hit { return r.hits }

// Message returns the recommendation text.
func (r *Result) Message() string { return r.message }

// Strategy returns how the filter produced its candidates.
func (r *Result) Strategy() mode.Strategy { return r.strategy }

// Fallbacks returns the stages that used their local fallback.
func (r *Result) Fallbacks() []string { return r.fallbacks }

// Restaurants returns the records in rank order.
func (r *Result) Restaurants() []restaurant.Restaurant {
	out := make([]restaurant.Restaurant, len(r.hits))
	for i := range r.hits {
		out[i] = r.hits[i].record
	}
	return out
}

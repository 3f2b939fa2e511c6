// Package filter ranks an in-memory restaurant collection against search
// params and keywords. It is pure: identical inputs yield identical output.
package filter

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/gourmet/internal/domain/geo"
	"github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/keywords"
	"github.com/kailas-cloud/gourmet/internal/domain/search/mode"
	"github.com/kailas-cloud/gourmet/internal/domain/search/params"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
)

// Limits.
const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// Scoring weights.
const (
	RatingWeight    = 10.0
	KeywordBonus    = 5.0
	ConditionBonus  = 10.0
	OpenWindowBonus = 10.0
)

// Options tune the filter.
type Options struct {
	Limit    int
	RadiusKm float64
}

func (o Options) withDefaults() Options {
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.RadiusKm <= 0 {
		o.RadiusKm = geo.DefaultRadiusKm
	}
	return o
}

// Outcome is the ranked, capped hit list and the strategy that produced it.
type Outcome struct {
	Hits     []result.Hit
	Strategy mode.Strategy
}

// candidate caches the lower-cased fields of one record.
type candidate struct {
	r        restaurant.Restaurant
	text     string
	area     string
	cuisine  []string
	traits   []string
	matched  []string
	distance *float64
}

// Apply runs keyword restriction, structured filtering, geo filtering and ranking.
func Apply(records []restaurant.Restaurant, p params.Params, kw keywords.Set, opts Options) Outcome {
	opts = opts.withDefaults()
	p = p.Normalized()
	terms := lowerAll(kw.Terms())

	all := make([]*candidate, 0, len(records))
	for i := range records {
		all = append(all, newCandidate(records[i], kw.Terms(), terms))
	}

	// 1. keyword restriction
	var subset []*candidate
	if len(terms) > 0 {
		for _, c := range all {
			if len(c.matched) > 0 {
				subset = append(subset, c)
			}
		}
	}
	keywordApplied := len(subset) > 0
	candidates := all
	if keywordApplied {
		candidates = subset
	}

	// 2. structured AND
	var strategy mode.Strategy
	switch {
	case p.IsEmpty() && keywordApplied:
		strategy = mode.Keyword
	case p.IsEmpty():
		strategy = mode.All
	default:
		filtered := structured(candidates, p)
		if keywordApplied && len(filtered) == 0 {
			filtered = structured(all, p)
			keywordApplied = false
		}
		candidates = filtered
		strategy = mode.Structured
		if keywordApplied {
			strategy = mode.KeywordStructured
		}
	}

	// 3. geo
	if p.Target != nil {
		candidates = withinRadius(candidates, *p.Target, opts.RadiusKm)
	}

	// 4. score, order, cap
	scored := make([]result.Hit, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, result.NewHit(c.r, score(c, p), c.matched, c.distance))
	}
	sort.SliceStable(scored, func(i, j int) bool { return less(&scored[i], &scored[j]) })
	if len(scored) > opts.Limit {
		scored = scored[:opts.Limit]
	}
	return Outcome{Hits: scored, Strategy: strategy}
}

func newCandidate(r restaurant.Restaurant, original, lowered []string) *candidate {
	c := &candidate{
		r:       r,
		text:    r.SearchText(),
		area:    strings.ToLower(r.Area()),
		cuisine: lowerAll(r.Cuisine()),
		traits:  append(lowerAll(r.Features()), lowerAll(r.Ambience())...),
	}
	for i, t := range lowered {
		if strings.Contains(c.text, t) || r.HasKeyword(t) {
			c.matched = append(c.matched, original[i])
		}
	}
	return c
}

func structured(in []*candidate, p params.Params) []*candidate {
	out := make([]*candidate, 0, len(in))
	for _, c := range in {
		if matchesAll(c, p) {
			out = append(out, c)
		}
	}
	return out
}

// matchesAll applies every non-empty predicate as an AND.
func matchesAll(c *candidate, p params.Params) bool {
	return conditionsMet(c, p) == p.Conditions()
}

// conditionsMet counts the non-empty predicates the candidate satisfies.
func conditionsMet(c *candidate, p params.Params) int {
	n := 0
	if area := strings.ToLower(strings.TrimSpace(p.Area)); area != "" && strings.Contains(c.area, area) {
		n++
	}
	if len(p.Cuisine) > 0 && anyCuisine(c.cuisine, p.Cuisine) {
		n++
	}
	if p.PriceCategory != "" && c.r.PriceCategory() == p.PriceCategory {
		n++
	}
	if (p.PriceMin != nil || p.PriceMax != nil) && priceOverlaps(c.r, p.PriceMin, p.PriceMax) {
		n++
	}
	if p.MinRating > 0 && c.r.RatingAverage() >= p.MinRating {
		n++
	}
	if len(p.Features) > 0 && allFeatures(c.traits, p.Features) {
		n++
	}
	return n
}

func anyCuisine(have []string, want []string) bool {
	for _, w := range want {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		for _, h := range have {
			if strings.Contains(h, w) {
				return true
			}
		}
	}
	return false
}

func allFeatures(have []string, want []string) bool {
	for _, w := range want {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		found := false
		for _, h := range have {
			if strings.Contains(h, w) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// priceOverlaps checks range overlap. A record missing a bound is not excluded by it.
func priceOverlaps(r restaurant.Restaurant, lo, hi *int) bool {
	if lo != nil && r.PriceMax() != nil && *r.PriceMax() < *lo {
		return false
	}
	if hi != nil && r.PriceMin() != nil && *r.PriceMin() > *hi {
		return false
	}
	return true
}

// withinRadius drops records farther than radiusKm. Records without coordinates are kept.
func withinRadius(in []*candidate, target geo.Point, radiusKm float64) []*candidate {
	out := make([]*candidate, 0, len(in))
	for _, c := range in {
		loc := c.r.Location()
		if loc == nil {
			out = append(out, c)
			continue
		}
		d := target.DistanceKm(*loc)
		if d > radiusKm {
			continue
		}
		c.distance = &d
		out = append(out, c)
	}
	return out
}

// score is rating×10 plus bonuses for matched keywords, met conditions and a
// covered opening window.
func score(c *candidate, p params.Params) float64 {
	s := c.r.RatingAverage()*RatingWeight +
		float64(len(c.matched))*KeywordBonus +
		float64(conditionsMet(c, p))*ConditionBonus
	if p.HasWindow() && c.r.OpenDuring(p.Days(), p.OpenTime, p.CloseTime) {
		s += OpenWindowBonus
	}
	return s
}

func less(a, b *result.Hit) bool {
	if a.Score() != b.Score() {
		return a.Score() > b.Score()
	}
	ra, rb := a.Restaurant(), b.Restaurant()
	if ra.RatingCount() != rb.RatingCount() {
		return ra.RatingCount() > rb.RatingCount()
	}
	return ra.ID() < rb.ID()
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}

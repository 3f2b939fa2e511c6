package params

import (
	"strings"

	"github.com/kailas-cloud/gourmet/internal/domain/geo"
	"github.com/kailas-cloud/gourmet/internal/domain/restaurant"
)

// Params is the normalized, filterable form of a query's structured data.
type Params struct {
	Area          string
	Cuisine       []string
	PriceCategory restaurant.PriceCategory
	PriceMin      *int
	PriceMax      *int
	MinRating     float64
	Day           string
	OpenTime      string
	CloseTime     string
	Features      []string
	Target        *geo.Point
}

// IsEmpty reports whether no structured predicate is set. Target and the
// opening window rank results but do not count as predicates.
func (p Params) IsEmpty() bool {
	return p.Conditions() == 0
}

// Conditions counts the non-empty structured predicates.
func (p Params) Conditions() int {
	n := 0
	if strings.TrimSpace(p.Area) != "" {
		n++
	}
	if len(p.Cuisine) > 0 {
		n++
	}
	if p.PriceCategory != "" {
		n++
	}
	if p.PriceMin != nil || p.PriceMax != nil {
		n++
	}
	if p.MinRating > 0 {
		n++
	}
	if len(p.Features) > 0 {
		n++
	}
	return n
}

// HasWindow reports whether an opening-time window was requested.
func (p Params) HasWindow() bool { return p.OpenTime != "" }

// Days resolves Day into weekdays; nil means any day.
func (p Params) Days() []restaurant.Weekday { return restaurant.ParseDays(p.Day) }

// Normalized trims every string field and drops blank list entries.
func (p Params) Normalized() Params {
	p.Area = strings.TrimSpace(p.Area)
	p.Cuisine = compact(p.Cuisine)
	p.Features = compact(p.Features)
	p.PriceCategory = restaurant.PriceCategory(strings.TrimSpace(string(p.PriceCategory)))
	p.Day = strings.TrimSpace(p.Day)
	p.OpenTime = strings.TrimSpace(p.OpenTime)
	p.CloseTime = strings.TrimSpace(p.CloseTime)
	return p
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

package gourmet

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/gourmet/internal/domain"
	"github.com/kailas-cloud/gourmet/internal/domain/geo"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
)

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64
	Lng float64
}

// Hours is one day's opening window in "HH:MM". Close may pass 24:00.
type Hours struct {
	Open  string
	Close string
}

// Restaurant is a stored restaurant record.
// ID, CreatedAt and UpdatedAt are assigned by the service and ignored on write.
type Restaurant struct {
	ID            string
	Name          string
	Description   string
	Address       string
	Area          string
	Location      *Location
	Cuisine       []string
	Features      []string
	Ambience      []string
	Keywords      []string
	Images        []string
	PriceCategory string // "¥".."¥¥¥¥"; full-width "￥" is accepted
	PriceMin      *int
	PriceMax      *int
	RatingAverage float64
	RatingCount   int
	OpeningHours  map[string]Hours // keyed by lower-case English weekday
	PlaceID       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RestaurantPage is one page of the restaurant list.
type RestaurantPage struct {
	Restaurants []Restaurant
	Total       int
}

// SearchRequest is a free-text search, optionally anchored at a point.
type SearchRequest struct {
	Query string
	Near  *Location
}

// Hit is a ranked search result.
type Hit struct {
	Restaurant Restaurant
	Score      float64
	Matched    []string
	DistanceKm *float64
}

// SearchResult is the outcome of a search.
type SearchResult struct {
	Message   string
	Hits      []Hit
	Strategy  string
	Fallbacks []string // stages that answered without the model
}

// QueryEntry is one logged search.
type QueryEntry struct {
	ID          string
	Text        string
	Location    string
	Cuisine     []string
	Keywords    []string
	ResultCount int
	Strategy    string
	Fallbacks   []string
	CreatedAt   time.Time
}

func toAttributes(r *Restaurant) (domrest.Attributes, error) {
	attrs := domrest.Attributes{
		Name:          r.Name,
		Description:   r.Description,
		Address:       r.Address,
		Area:          r.Area,
		Cuisine:       r.Cuisine,
		Features:      r.Features,
		Ambience:      r.Ambience,
		Keywords:      r.Keywords,
		Images:        r.Images,
		PriceCategory: domrest.PriceCategory(r.PriceCategory),
		PriceMin:      r.PriceMin,
		PriceMax:      r.PriceMax,
		RatingAverage: r.RatingAverage,
		RatingCount:   r.RatingCount,
		PlaceID:       r.PlaceID,
	}
	// Unrecognised values are passed through so validation reports them.
	if p := domrest.ParsePriceCategory(r.PriceCategory); p != "" {
		attrs.PriceCategory = p
	}
	if r.Location != nil {
		p, err := geo.NewPoint(r.Location.Lat, r.Location.Lng)
		if err != nil {
			return domrest.Attributes{}, fmt.Errorf("%w: %w", domain.ErrInvalidRecord, err)
		}
		attrs.Location = &p
	}
	if len(r.OpeningHours) > 0 {
		attrs.OpeningHours = make(map[domrest.Weekday]domrest.Hours, len(r.OpeningHours))
		for day, h := range r.OpeningHours {
			attrs.OpeningHours[domrest.Weekday(day)] = domrest.Hours{Open: h.Open, Close: h.Close}
		}
	}
	return attrs, nil
}

func restaurantFromDomain(r *domrest.Restaurant) Restaurant {
	out := Restaurant{
		ID:            r.ID(),
		Name:          r.Name(),
		Description:   r.Description(),
		Address:       r.Address(),
		Area:          r.Area(),
		Cuisine:       r.Cuisine(),
		Features:      r.Features(),
		Ambience:      r.Ambience(),
		Keywords:      r.Keywords(),
		Images:        r.Images(),
		PriceCategory: string(r.PriceCategory()),
		PriceMin:      r.PriceMin(),
		PriceMax:      r.PriceMax(),
		RatingAverage: r.RatingAverage(),
		RatingCount:   r.RatingCount(),
		PlaceID:       r.PlaceID(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
	if loc := r.Location(); loc != nil {
		out.Location = &Location{Lat: loc.Lat, Lng: loc.Lng}
	}
	if hours := r.OpeningHours(); len(hours) > 0 {
		out.OpeningHours = make(map[string]Hours, len(hours))
		for day, h := range hours {
			out.OpeningHours[string(day)] = Hours{Open: h.Open, Close: h.Close}
		}
	}
	return out
}

func searchResultFromDomain(res *result.Result) SearchResult {
	hits := res.Hits()
	out := SearchResult{
		Message:   res.Message(),
		Hits:      make([]Hit, 0, len(hits)),
		Strategy:  string(res.Strategy()),
		Fallbacks: res.Fallbacks(),
	}
	for i := range hits {
		rec := hits[i].Restaurant()
		out.Hits = append(out.Hits, Hit{
			Restaurant: restaurantFromDomain(&rec),
			Score:      hits[i].Score(),
			Matched:    hits[i].Matched(),
			DistanceKm: hits[i].DistanceKm(),
		})
	}
	return out
}

func queryEntryFromDomain(e *query.LogEntry) QueryEntry {
	return QueryEntry{
		ID:          e.ID,
		Text:        e.Text,
		Location:    e.Location,
		Cuisine:     e.Cuisine,
		Keywords:    e.Keywords,
		ResultCount: e.ResultCount,
		Strategy:    e.Strategy,
		Fallbacks:   e.Fallbacks,
		CreatedAt:   e.CreatedAt,
	}
}

package chi

import (
	"time"

	"github.com/kailas-cloud/gourmet/internal/domain/geo"
	"github.com/kailas-cloud/gourmet/internal/domain/query"
	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
	"github.com/kailas-cloud/gourmet/internal/domain/search/result"
	domusage "github.com/kailas-cloud/gourmet/internal/domain/usage"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Debug string `json:"debug,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type searchRequest struct {
	Query     string   `json:"query"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

type searchResponse struct {
	Message     string       `json:"message"`
	Restaurants []hitJSON    `json:"restaurants"`
	Debug       *searchDebug `json:"debug,omitempty"`
}

type searchDebug struct {
	Strategy  string   `json:"strategy,omitempty"`
	Fallbacks []string `json:"fallbacks,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type hitJSON struct {
	restaurantJSON
	Score           float64  `json:"score"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
}

type assistantRequest struct {
	Prompt string `json:"prompt"`
}

type assistantResponse struct {
	Answer string `json:"answer"`
}

type locationJSON struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

type hoursJSON struct {
	Open  string `json:"open" validate:"required,clock"`
	Close string `json:"close" validate:"required,clock"`
}

// restaurantRequest is the create/update body.
type restaurantRequest struct {
	Name          string               `json:"name" validate:"required"`
	Description   string               `json:"description"`
	Address       string               `json:"address" validate:"required"`
	Area          string               `json:"area" validate:"required"`
	Location      *locationJSON        `json:"location,omitempty"`
	Cuisine       []string             `json:"cuisine,omitempty" validate:"max=64"`
	Features      []string             `json:"features,omitempty" validate:"max=64"`
	Ambience      []string             `json:"ambience,omitempty" validate:"max=64"`
	Keywords      []string             `json:"keywords,omitempty" validate:"max=64"`
	Images        []string             `json:"images,omitempty" validate:"max=64,dive,url"`
	PriceCategory string               `json:"price_category,omitempty"`
	PriceMin      *int                 `json:"price_min,omitempty" validate:"omitempty,gte=0"`
	PriceMax      *int                 `json:"price_max,omitempty" validate:"omitempty,gte=0"`
	RatingAverage float64              `json:"rating_average" validate:"gte=0,lte=5"`
	RatingCount   int                  `json:"rating_count" validate:"gte=0"`
	OpeningHours  map[string]hoursJSON `json:"opening_hours,omitempty" validate:"dive"`
	PlaceID       string               `json:"place_id,omitempty"`
}

type restaurantJSON struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Address       string               `json:"address"`
	Area          string               `json:"area"`
	Location      *locationJSON        `json:"location,omitempty"`
	Cuisine       []string             `json:"cuisine"`
	Features      []string             `json:"features"`
	Ambience      []string             `json:"ambience"`
	Keywords      []string             `json:"keywords"`
	Images        []string             `json:"images"`
	PriceCategory string               `json:"price_category,omitempty"`
	PriceMin      *int                 `json:"price_min,omitempty"`
	PriceMax      *int                 `json:"price_max,omitempty"`
	RatingAverage float64              `json:"rating_average"`
	RatingCount   int                  `json:"rating_count"`
	OpeningHours  map[string]hoursJSON `json:"opening_hours,omitempty"`
	PlaceID       string               `json:"place_id,omitempty"`
	MapsURL       string               `json:"maps_url,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type restaurantListResponse struct {
	Restaurants []restaurantJSON `json:"restaurants"`
	Total       int              `json:"total"`
}

type restaurantMutationResponse struct {
	Restaurant *restaurantJSON `json:"restaurant,omitempty"`
	Message    string          `json:"message"`
}

type queryLogResponse struct {
	Queries []queryEntryJSON `json:"queries"`
	Today   int64            `json:"today"`
}

type queryEntryJSON struct {
	ID            string    `json:"id"`
	Query         string    `json:"query"`
	Location      string    `json:"location,omitempty"`
	Cuisine       []string  `json:"cuisine,omitempty"`
	PriceCategory string    `json:"price_category,omitempty"`
	Keywords      []string  `json:"keywords,omitempty"`
	SearchTerms   []string  `json:"search_terms,omitempty"`
	ResultCount   int       `json:"result_count"`
	Strategy      string    `json:"strategy"`
	Fallbacks     []string  `json:"fallbacks,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type usageResponse struct {
	Period      string     `json:"period"`
	PeriodStart *time.Time `json:"period_start,omitempty"`
	PeriodEnd   *time.Time `json:"period_end,omitempty"`
	Requests    int64      `json:"requests"`
	Tokens      int64      `json:"tokens"`
	Budget      budgetJSON `json:"budget"`
}

type budgetJSON struct {
	TokensLimit     int64      `json:"tokens_limit"`
	TokensRemaining int64      `json:"tokens_remaining"`
	Exhausted       bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

func usageToJSON(r *domusage.Report) usageResponse {
	start, end := r.Start(), r.End()
	b := r.Budget()
	resets := b.ResetsAt
	return usageResponse{
		Period:      string(r.Period()),
		PeriodStart: &start,
		PeriodEnd:   &end,
		Requests:    r.Requests(),
		Tokens:      r.Tokens(),
		Budget: budgetJSON{
			TokensLimit:     b.TokensLimit,
			TokensRemaining: b.TokensRemaining,
			Exhausted:       b.Exhausted,
			ResetsAt:        &resets,
		},
	}
}

func (req *restaurantRequest) attributes() domrest.Attributes {
	attrs := domrest.Attributes{
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		Area:          req.Area,
		Cuisine:       req.Cuisine,
		Features:      req.Features,
		Ambience:      req.Ambience,
		Keywords:      req.Keywords,
		Images:        req.Images,
		PriceCategory: domrest.PriceCategory(req.PriceCategory),
		PriceMin:      req.PriceMin,
		PriceMax:      req.PriceMax,
		RatingAverage: req.RatingAverage,
		RatingCount:   req.RatingCount,
		PlaceID:       req.PlaceID,
	}
	if p := domrest.ParsePriceCategory(req.PriceCategory); p != "" {
		attrs.PriceCategory = p
	}
	if req.Location != nil {
		attrs.Location = &geo.Point{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}
	if len(req.OpeningHours) > 0 {
		attrs.OpeningHours = make(map[domrest.Weekday]domrest.Hours, len(req.OpeningHours))
		for day, h := range req.OpeningHours {
			attrs.OpeningHours[domrest.Weekday(day)] = domrest.Hours{Open: h.Open, Close: h.Close}
		}
	}
	return attrs
}

func restaurantToJSON(r *domrest.Restaurant) restaurantJSON {
	out := restaurantJSON{
		ID:            r.ID(),
		Name:          r.Name(),
		Description:   r.Description(),
		Address:       r.Address(),
		Area:          r.Area(),
		Cuisine:       nonNil(r.Cuisine()),
		Features:      nonNil(r.Features()),
		Ambience:      nonNil(r.Ambience()),
		Keywords:      nonNil(r.Keywords()),
		Images:        nonNil(r.Images()),
		PriceCategory: string(r.PriceCategory()),
		PriceMin:      r.PriceMin(),
		PriceMax:      r.PriceMax(),
		RatingAverage: r.RatingAverage(),
		RatingCount:   r.RatingCount(),
		PlaceID:       r.PlaceID(),
		MapsURL:       r.MapsURL(),
		CreatedAt:     r.CreatedAt(),
		UpdatedAt:     r.UpdatedAt(),
	}
	if loc := r.Location(); loc != nil {
		out.Location = &locationJSON{Lat: loc.Lat, Lng: loc.Lng}
	}
	if hours := r.OpeningHours(); len(hours) > 0 {
		out.OpeningHours = make(map[string]hoursJSON, len(hours))
		for day, h := range hours {
			out.OpeningHours[string(day)] = hoursJSON{Open: h.Open, Close: h.Close}
		}
	}
	return out
}

func hitsToJSON(hits []result.Hit) []hitJSON {
	out := make([]hitJSON, len(hits))
	for i := range hits {
		rec := hits[i].Restaurant()
		out[i] = hitJSON{
			restaurantJSON:  restaurantToJSON(&rec),
			Score:           hits[i].Score(),
			MatchedKeywords: hits[i].Matched(),
			DistanceKm:      hits[i].DistanceKm(),
		}
	}
	return out
}

func queryEntryToJSON(e *query.LogEntry) queryEntryJSON {
	return queryEntryJSON{
		ID:            e.ID,
		Query:         e.Text,
		Location:      e.Location,
		Cuisine:       e.Cuisine,
		PriceCategory: e.PriceCategory,
		Keywords:      e.Keywords,
		SearchTerms:   e.SearchTerms,
		ResultCount:   e.ResultCount,
		Strategy:      e.Strategy,
		Fallbacks:     e.Fallbacks,
		CreatedAt:     e.CreatedAt,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package restaurant

import (
	"time"

	"github.com/kailas-cloud/gourmet/internal/domain/geo"
	domrest "github.com/kailas-cloud/gourmet/internal/domain/restaurant"
)

// recordDTO is the JSON document stored per restaurant.
type recordDTO struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Address       string              `json:"address"`
	Area          string              `json:"area"`
	Location      *locationDTO        `json:"location,omitempty"`
	Cuisine       []string            `json:"cuisine,omitempty"`
	Features      []string            `json:"features,omitempty"`
	Ambience      []string            `json:"ambience,omitempty"`
	Keywords      []string            `json:"keywords,omitempty"`
	Images        []string            `json:"images,omitempty"`
	PriceCategory string              `json:"price_category,omitempty"`
	PriceMin      *int                `json:"price_min,omitempty"`
	PriceMax      *int                `json:"price_max,omitempty"`
	RatingAverage float64             `json:"rating_average"`
	RatingCount   int                 `json:"rating_count"`
	OpeningHours  map[string]hoursDTO `json:"opening_hours,omitempty"`
	PlaceID       string              `json:"place_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type locationDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type hoursDTO struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

func toDTO(r *domrest.Restaurant) recordDTO {
	d := recordDTO{
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
		d.Location = &locationDTO{Lat: loc.Lat, Lng: loc.Lng}
	}
	if hours := r.OpeningHours(); len(hours) > 0 {
		d.OpeningHours = make(map[string]hoursDTO, len(hours))
		for day, h := range hours {
			d.OpeningHours[string(day)] = hoursDTO(h)
		}
	}
	return d
}

func fromDTO(d *recordDTO) domrest.Restaurant {
	attrs := domrest.Attributes{
		Name:          d.Name,
		Description:   d.Description,
		Address:       d.Address,
		Area:          d.Area,
		Cuisine:       d.Cuisine,
		Features:      d.Features,
		Ambience:      d.Ambience,
		Keywords:      d.Keywords,
		Images:        d.Images,
		PriceCategory: domrest.PriceCategory(d.PriceCategory),
		PriceMin:      d.PriceMin,
		PriceMax:      d.PriceMax,
		RatingAverage: d.RatingAverage,
		RatingCount:   d.RatingCount,
		PlaceID:       d.PlaceID,
	}
	if d.Location != nil {
		attrs.Location = &geo.Point{Lat: d.Location.Lat, Lng: d.Location.Lng}
	}
	if len(d.OpeningHours) > 0 {
		attrs.OpeningHours = make(map[domrest.Weekday]domrest.Hours, len(d.OpeningHours))
		for day, h := range d.OpeningHours {
			attrs.OpeningHours[domrest.Weekday(day)] = domrest.Hours(h)
		}
	}
	return domrest.Reconstruct(d.ID, attrs, d.CreatedAt, d.UpdatedAt)
}

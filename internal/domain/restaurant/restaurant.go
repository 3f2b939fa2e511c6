package restaurant

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kailas-cloud/gourmet/internal/domain/geo"
)

// MaxDescriptionSize is the maximum description size in bytes.
const MaxDescriptionSize = 16384

// MaxTags caps every string-set attribute (cuisine, features, ambience, keywords, images).
const MaxTags = 64

// Attributes are the caller-supplied fields of a restaurant.
type Attributes struct {
	Name          string
	Description   string
	Address       string
	Area          string
	Location      *geo.Point
	Cuisine       []string
	Features      []string
	Ambience      []string
	Keywords      []string
	Images        []string
	PriceCategory PriceCategory
	PriceMin      *int
	PriceMax      *int
	RatingAverage float64
	RatingCount   int
	OpeningHours  map[Weekday]Hours
	PlaceID       string
}

// Restaurant is the restaurant aggregate (immutable value object).
type Restaurant struct {
	id        string
	attrs     Attributes
	createdAt time.Time
	updatedAt time.Time
}

// New validates and creates a Restaurant. Timestamps are assigned by the caller
// through Stamp once the record is persisted.
func New(id string, attrs Attributes) (Restaurant, error) {
	if strings.TrimSpace(id) == "" {
		return Restaurant{}, errors.New("restaurant ID is required")
	}
	if err := attrs.Validate(); err != nil {
		return Restaurant{}, err
	}
	return Restaurant{id: id, attrs: attrs.clone()}, nil
}

// Reconstruct creates a Restaurant without validation (storage hydration).
func Reconstruct(id string, attrs Attributes, createdAt, updatedAt time.Time) Restaurant {
	return Restaurant{id: id, attrs: attrs, createdAt: createdAt, updatedAt: updatedAt}
}

// Validate checks the attributes for correctness.
func (a *Attributes) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(a.Address) == "" {
		return errors.New("address is required")
	}
	if strings.TrimSpace(a.Area) == "" {
		return errors.New("area is required")
	}
	if len(a.Description) > MaxDescriptionSize {
		return fmt.Errorf("description too large (max %d bytes)", MaxDescriptionSize)
	}
	if a.Location != nil && !geo.ValidateCoordinates(a.Location.Lat, a.Location.Lng) {
		return errors.New("coordinates out of range")
	}
	for name, set := range map[string][]string{
		"cuisine": a.Cuisine, "features": a.Features, "ambience": a.Ambience,
		"keywords": a.Keywords, "images": a.Images,
	} {
		if len(set) > MaxTags {
			return fmt.Errorf("too many %s entries (max %d)", name, MaxTags)
		}
	}
	if a.PriceCategory != "" && !a.PriceCategory.IsValid() {
		return fmt.Errorf("unknown price category %q", a.PriceCategory)
	}
	if a.PriceMin != nil && *a.PriceMin < 0 {
		return errors.New("price min must not be negative")
	}
	if a.PriceMin != nil && a.PriceMax != nil && *a.PriceMin > *a.PriceMax {
		return errors.New("price min must not exceed price max")
	}
	if a.RatingAverage < 0 || a.RatingAverage > 5 {
		return errors.New("rating average must be between 0 and 5")
	}
	if a.RatingCount < 0 {
		return errors.New("rating count must not be negative")
	}
	for day, h := range a.OpeningHours {
		if !day.IsValid() {
			return fmt.Errorf("unknown weekday %q", day)
		}
		if err := h.Validate(); err != nil {
			return fmt.Errorf("opening hours for %s: %w", day, err)
		}
	}
	return nil
}

// ID returns the restaurant identifier.
func (r *Restaurant) ID() string { return r.id }

// Name returns the display name.
func (r *Restaurant) Name() string { return r.attrs.Name }

// Description returns the free-text description.
func (r *Restaurant) Description() string { return r.attrs.Description }

// Address returns the street address.
func (r *Restaurant) Address() string { return r.attrs.Address }

// Area returns the neighbourhood name.
func (r *Restaurant) Area() string { return r.attrs.Area }

// Location returns the coordinates, or nil when unknown.
func (r *Restaurant) Location() *geo.Point { return r.attrs.Location }

// Cuisine returns the cuisine set.
func (r *Restaurant) Cuisine() []string { return r.attrs.Cuisine }

// Features returns the feature tags (個室あり, 禁煙 ...).
func (r *Restaurant) Features() []string { return r.attrs.Features }

// Ambience returns the ambience tags.
func (r *Restaurant) Ambience() []string { return r.attrs.Ambience }

// Keywords returns the free-text keyword tags.
func (r *Restaurant) Keywords() []string { return r.attrs.Keywords }

// Images returns image URLs.
func (r *Restaurant) Images() []string { return r.attrs.Images }

// PriceCategory returns the categorical price symbol.
func (r *Restaurant) PriceCategory() PriceCategory { return r.attrs.PriceCategory }

// PriceMin returns the lower price bound in yen, or nil.
func (r *Restaurant) PriceMin() *int { return r.attrs.PriceMin }

// PriceMax returns the upper price bound in yen, or nil.
func (r *Restaurant) PriceMax() *int { return r.attrs.PriceMax }

// RatingAverage returns the average rating.
func (r *Restaurant) RatingAverage() float64 { return r.attrs.RatingAverage }

// RatingCount returns the number of ratings.
func (r *Restaurant) RatingCount() int { return r.attrs.RatingCount }

// OpeningHours returns hours per weekday.
func (r *Restaurant) OpeningHours() map[Weekday]Hours { return r.attrs.OpeningHours }

// PlaceID returns the external place identifier.
func (r *Restaurant) PlaceID() string { return r.attrs.PlaceID }

const mapsSearchURL = "https://www.google.com/maps/search/"

// MapsURL returns a Google Maps search link for the record, or "" without a place id.
func (r *Restaurant) MapsURL() string {
	if r.attrs.PlaceID == "" {
		return ""
	}
	q := url.Values{
		"api":            {"1"},
		"query":          {strings.Join(strings.Fields(r.attrs.Name), " ")},
		"query_place_id": {r.attrs.PlaceID},
	}
	return mapsSearchURL + "?" + q.Encode()
}

// CreatedAt returns the creation time.
func (r *Restaurant) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last update time.
func (r *Restaurant) UpdatedAt() time.Time { return r.updatedAt }

// Attributes returns a copy of the caller-supplied fields.
func (r *Restaurant) Attributes() Attributes { return r.attrs.clone() }

// Stamp returns a copy with the given timestamps.
func (r *Restaurant) Stamp(createdAt, updatedAt time.Time) Restaurant {
	return Restaurant{id: r.id, attrs: r.attrs, createdAt: createdAt, updatedAt: updatedAt}
}

// SearchText is the lower-cased concatenation of every free-text field used for keyword matching.
func (r *Restaurant) SearchText() string {
	parts := []string{r.attrs.Name, r.attrs.Description}
	parts = append(parts, r.attrs.Cuisine...)
	parts = append(parts, r.attrs.Features...)
	parts = append(parts, r.attrs.Ambience...)
	parts = append(parts, r.attrs.Keywords...)
	return strings.ToLower(strings.Join(parts, " "))
}

// HasKeyword reports whether term equals one of the keyword tags (case-insensitive).
func (r *Restaurant) HasKeyword(term string) bool {
	for _, k := range r.attrs.Keywords {
		if strings.EqualFold(strings.TrimSpace(k), term) {
			return true
		}
	}
	return false
}

func (a Attributes) clone() Attributes {
	c := a
	c.Cuisine = cloneStrings(a.Cuisine)
	c.Features = cloneStrings(a.Features)
	c.Ambience = cloneStrings(a.Ambience)
	c.Keywords = cloneStrings(a.Keywords)
	c.Images = cloneStrings(a.Images)
	if a.Location != nil {
		loc := *a.Location
		c.Location = &loc
	}
	c.PriceMin = cloneInt(a.PriceMin)
	c.PriceMax = cloneInt(a.PriceMax)
	if a.OpeningHours != nil {
		c.OpeningHours = make(map[Weekday]Hours, len(a.OpeningHours))
		for k, v := range a.OpeningHours {
			c.OpeningHours[k] = v
		}
	}
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

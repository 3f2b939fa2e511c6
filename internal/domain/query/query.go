package query

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxTextLength caps the raw query length in runes.
const MaxTextLength = 500

// PriceRange is the price part of the structured data.
type PriceRange struct {
	Category string
	Min      *int
	Max      *int
}

// OpeningHours is the day/time expression as the user phrased it ("金曜", "深夜").
type OpeningHours struct {
	Day  string
	Time string
}

// StructuredData is the part of a query that maps onto discrete filterable fields.
type StructuredData struct {
	Location     string
	Cuisine      []string
	PriceRange   PriceRange
	OpeningHours OpeningHours
	Features     []string
	MinRating    float64
}

// IsEmpty reports whether no structured field is set.
func (d StructuredData) IsEmpty() bool {
	return d.Location == "" && len(d.Cuisine) == 0 &&
		d.PriceRange.Category == "" && d.PriceRange.Min == nil && d.PriceRange.Max == nil &&
		d.OpeningHours.Day == "" && d.OpeningHours.Time == "" &&
		len(d.Features) == 0 && d.MinRating == 0
}

// Query is a classified search query. Immutable once created.
type Query struct {
	text       string
	structured StructuredData
	keywords   []string
}

// ParseText trims and validates raw query text.
func ParseText(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", errors.New("query is required")
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return "", errors.New("query too long")
	}
	return text, nil
}

// New creates a Query. Text must already have passed ParseText.
func New(text string, structured StructuredData, keywords []string) Query {
	s := structured
	s.Cuisine = append([]string(nil), structured.Cuisine...)
	s.Features = append([]string(nil), structured.Features...)
	return Query{
		text:       text,
		structured: s,
		keywords:   append([]string(nil), keywords...),
	}
}

// Text returns the raw query text.
func (q Query) Text() string { return q.text }

// Structured returns the structured data.
func (q Query) Structured() StructuredData { return q.structured }

// Keywords returns the loose descriptors that did not map to structured fields.
func (q Query) Keywords() []string { return q.keywords }

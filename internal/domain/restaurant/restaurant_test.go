package restaurant

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/gourmet/internal/domain/geo"
)

func intPtr(v int) *int { return &v }

func validAttrs() Attributes {
	return Attributes{
		Name:          "海鮮居酒屋 魚心",
		Description:   "新鮮な海鮮と豊富な日本酒が自慢の居酒屋。",
		Address:       "東京都渋谷区道玄坂1-5-8",
		Area:          "渋谷",
		Location:      &geo.Point{Lat: 35.6585, Lng: 139.7013},
		Cuisine:       []string{"和食", "居酒屋", "海鮮"},
		Features:      []string{"個室あり", "飲み放題"},
		Ambience:      []string{"カジュアル"},
		Keywords:      []string{"新鮮", "日本酒"},
		PriceCategory: PriceModerate,
		PriceMin:      intPtr(2000),
		PriceMax:      intPtr(3999),
		RatingAverage: 4.2,
		RatingCount:   245,
		OpeningHours:  map[Weekday]Hours{Monday: {Open: "17:00", Close: "23:00"}},
	}
}

func TestNew_Valid(t *testing.T) {
	r, err := New("r-1", validAttrs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ID() != "r-1" {
		t.Errorf("ID() = %q", r.ID())
	}
	if r.Area() != "渋谷" {
		t.Errorf("Area() = %q", r.Area())
	}
	if r.PriceCategory() != PriceModerate {
		t.Errorf("PriceCategory() = %q", r.PriceCategory())
	}
	if !r.CreatedAt().IsZero() {
		t.Error("CreatedAt() should be zero before Stamp")
	}
}

func TestNew_ClonesSlices(t *testing.T) {
	attrs := validAttrs()
	r, _ := New("r-1", attrs)

	attrs.Cuisine[0] = "mutated"
	*attrs.PriceMin = 1

	if r.Cuisine()[0] != "和食" {
		t.Error("Cuisine mutation leaked into restaurant")
	}
	if *r.PriceMin() != 2000 {
		t.Error("PriceMin mutation leaked into restaurant")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *Attributes)
	}{
		{"missing name", func(a *Attributes) { a.Name = " " }},
		{"missing address", func(a *Attributes) { a.Address = "" }},
		{"missing area", func(a *Attributes) { a.Area = "" }},
		{"bad coordinates", func(a *Attributes) { a.Location = &geo.Point{Lat: 200} }},
		{"unknown price", func(a *Attributes) { a.PriceCategory = "cheap" }},
		{"min above max", func(a *Attributes) { a.PriceMin = intPtr(5000) }},
		{"negative min", func(a *Attributes) { a.PriceMin = intPtr(-1) }},
		{"rating too high", func(a *Attributes) { a.RatingAverage = 5.1 }},
		{"negative count", func(a *Attributes) { a.RatingCount = -1 }},
		{"bad weekday", func(a *Attributes) { a.OpeningHours = map[Weekday]Hours{"funday": {"10:00", "12:00"}} }},
		{"bad clock", func(a *Attributes) { a.OpeningHours = map[Weekday]Hours{Monday: {"25", "12:00"}} }},
		{"description too large", func(a *Attributes) { a.Description = strings.Repeat("a", MaxDescriptionSize+1) }},
		{"too many tags", func(a *Attributes) { a.Keywords = make([]string, MaxTags+1) }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			attrs := validAttrs()
			tc.mutate(&attrs)
			if _, err := New("r-1", attrs); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNew_EmptyID(t *testing.T) {
	if _, err := New("", validAttrs()); err == nil {
		t.Fatal("expected error for empty ID")
	}
}

func TestStamp(t *testing.T) {
	r, _ := New("r-1", validAttrs())
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	updated := created.Add(time.Hour)

	s := r.Stamp(created, updated)
	if !s.CreatedAt().Equal(created) || !s.UpdatedAt().Equal(updated) {
		t.Errorf("timestamps = %v/%v", s.CreatedAt(), s.UpdatedAt())
	}
	if !r.CreatedAt().IsZero() {
		t.Error("Stamp must not mutate the receiver")
	}
}

func TestSearchText(t *testing.T) {
	attrs := validAttrs()
	attrs.Name = "Bistro SAKURA"
	r, _ := New("r-1", attrs)

	text := r.SearchText()
	for _, want := range []string{"bistro sakura", "個室あり", "カジュアル", "日本酒", "海鮮"} {
		if !strings.Contains(text, want) {
			t.Errorf("SearchText() missing %q: %q", want, text)
		}
	}
}

func TestHasKeyword(t *testing.T) {
	attrs := validAttrs()
	attrs.Keywords = []string{"Wine", " デート "}
	r, _ := New("r-1", attrs)

	if !r.HasKeyword("wine") {
		t.Error("expected case-insensitive tag match")
	}
	if !r.HasKeyword("デート") {
		t.Error("expected trimmed tag match")
	}
	if r.HasKeyword("デ") {
		t.Error("partial term must not be an exact tag match")
	}
}

func TestParsePriceCategory(t *testing.T) {
	tests := map[string]PriceCategory{
		"¥":     PriceBudget,
		" ¥¥ ":  PriceModerate,
		"￥￥￥":   PriceUpscale,
		"low":   PriceLow,
		"HIGH":  PriceHigh,
		"":      "",
		"cheap": "",
	}
	for in, want := range tests {
		if got := ParsePriceCategory(in); got != want {
			t.Errorf("ParsePriceCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMapsURL(t *testing.T) {
	a := validAttrs()
	a.Name = "  ブラッスリー・ヴィロン   渋谷店 "
	a.PlaceID = "ChIJZSSqcKmMGGARylOWxFCMqgE"
	r := Reconstruct("r-1", a, time.Time{}, time.Time{})

	want := "https://www.google.com/maps/search/?api=1&query=" +
		url.QueryEscape("ブラッスリー・ヴィロン 渋谷店") + "&query_place_id=ChIJZSSqcKmMGGARylOWxFCMqgE"
	if got := r.MapsURL(); got != want {
		t.Errorf("MapsURL = %q, want %q", got, want)
	}

	a.PlaceID = ""
	noPlace := Reconstruct("r-2", a, time.Time{}, time.Time{})
	if got := noPlace.MapsURL(); got != "" {
		t.Errorf("MapsURL without place id = %q", got)
	}
}

package search

// classifyShape is the answer of the classifier prompt.
type classifyShape struct {
	StructuredData *structuredShape `json:"structuredData" validate:"required"`
	Keywords       []string         `json:"keywords" validate:"max=32,dive,max=200"`
}

type structuredShape struct {
	Location     string            `json:"location" validate:"max=100"`
	Cuisine      []string          `json:"cuisine" validate:"max=16,dive,max=100"`
	PriceRange   priceRangeShape   `json:"priceRange"`
	OpeningHours openingHoursShape `json:"openingHours"`
	Features     []string          `json:"features" validate:"max=16,dive,max=100"`
	MinRating    float64           `json:"minRating" validate:"gte=0,lte=5"`
}

type priceRangeShape struct {
	Category string `json:"category,omitempty" validate:"max=16"`
	Min      *int   `json:"min,omitempty" validate:"omitempty,gte=0"`
	Max      *int   `json:"max,omitempty" validate:"omitempty,gte=0"`
}

type openingHoursShape struct {
	Day  string `json:"day,omitempty" validate:"max=50"`
	Time string `json:"time,omitempty" validate:"max=50"`
}

// paramsShape is the answer of the extractor prompt.
type paramsShape struct {
	Area          string   `json:"area" validate:"max=100"`
	Cuisine       []string `json:"cuisine" validate:"max=16,dive,max=100"`
	PriceCategory string   `json:"priceCategory" validate:"max=16"`
	PriceMin      *int     `json:"priceMin" validate:"omitempty,gte=0"`
	PriceMax      *int     `json:"priceMax" validate:"omitempty,gte=0"`
	MinRating     float64  `json:"minRating" validate:"gte=0,lte=5"`
	Day           string   `json:"day" validate:"max=50"`
	OpenTime      string   `json:"openTime" validate:"omitempty,clock"`
	CloseTime     string   `json:"closeTime" validate:"omitempty,clock"`
	Features      []string `json:"features" validate:"max=16,dive,max=100"`
}

// keywordsShape is the answer of the keyword normalizer prompt.
type keywordsShape struct {
	SearchableKeywords []string `json:"searchableKeywords" validate:"required,max=64,dive,max=100"`
}
